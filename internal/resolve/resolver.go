package resolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/rollgate/rollgate/internal/core/domain"
	"github.com/rollgate/rollgate/internal/infra/coreapi"
	"github.com/rollgate/rollgate/internal/infra/storage"
	"github.com/rollgate/rollgate/internal/metrics"
)

// RemoteOpLookup is the slice of the core service client the resolver needs:
// priority operations observed but not yet durably indexed.
type RemoteOpLookup interface {
	GetUnconfirmedOp(ctx context.Context, query coreapi.OpLookupQuery) (*domain.PendingL1Op, error)
}

// Resolver answers "where is this transaction in the pipeline right now" by
// querying the sources in a fixed precedence order: finalized L1 store (sync
// hash, then eth hash), finalized L2 store, local pool, then the remote core
// service. Local durable stores come first because they are both faster and,
// once populated, monotonically more authoritative than the pool.
type Resolver struct {
	pool    storage.Pool
	mempool storage.MempoolStore
	core    RemoteOpLookup
	log     *slog.Logger
}

// ResolverOpts holds the collaborators injected at startup. All of them are
// long-lived shared state; mutation happens inside the collaborators only.
type ResolverOpts struct {
	Pool    storage.Pool
	Mempool storage.MempoolStore
	Core    RemoteOpLookup
	Logger  *slog.Logger
}

// NewResolver creates a resolution orchestrator.
func NewResolver(opts ResolverOpts) *Resolver {
	return &Resolver{
		pool:    opts.Pool,
		mempool: opts.Mempool,
		core:    opts.Core,
		log:     opts.Logger,
	}
}

// TxStatus resolves the lifecycle receipt for an identifier. Nil means no
// source knows it, which is a valid outcome, not an error.
func (r *Resolver) TxStatus(ctx context.Context, hash domain.TxHash) (*domain.Receipt, error) {
	start := time.Now()
	defer func() {
		metrics.ResolutionDuration.WithLabelValues("tx_status").Observe(time.Since(start).Seconds())
	}()

	session, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Release()

	return firstHit(ctx, []step[domain.Receipt]{
		{"l1_store_sync", func(ctx context.Context) (*domain.Receipt, error) {
			op, err := session.L1OpBySyncHash(ctx, hash)
			return r.l1ReceiptStep(ctx, session, op, err)
		}},
		{"l1_store_eth", func(ctx context.Context) (*domain.Receipt, error) {
			op, err := session.L1OpByEthHash(ctx, hash.EthHash())
			return r.l1ReceiptStep(ctx, session, op, err)
		}},
		{"l2_store", func(ctx context.Context) (*domain.Receipt, error) {
			tx, err := session.L2TxByHash(ctx, hash)
			if tx == nil || err != nil {
				return nil, err
			}
			finalized, err := session.IsBlockFinalized(ctx, tx.BlockNumber)
			if err != nil {
				return nil, err
			}
			return l2ReceiptFromTx(tx, finalized), nil
		}},
		{"mempool", func(ctx context.Context) (*domain.Receipt, error) {
			ok, err := r.mempool.Contains(ctx, hash)
			if !ok || err != nil {
				return nil, err
			}
			return queuedL2Receipt(hash), nil
		}},
		{"core_sync", func(ctx context.Context) (*domain.Receipt, error) {
			op, err := r.core.GetUnconfirmedOp(ctx, coreapi.BySyncHash(hash))
			if op == nil || err != nil {
				return nil, err
			}
			return l1ReceiptFromPending(op), nil
		}},
		{"core_eth", func(ctx context.Context) (*domain.Receipt, error) {
			op, err := r.core.GetUnconfirmedOp(ctx, coreapi.ByEthHash(hash.EthHash()))
			if op == nil || err != nil {
				return nil, err
			}
			return l1ReceiptFromPending(op), nil
		}},
	})
}

// l1ReceiptStep finishes an L1 store probe: once a record with a block number
// exists, one finalization query decides Committed vs Finalized.
func (r *Resolver) l1ReceiptStep(ctx context.Context, session storage.Session, op *domain.ExecutedL1Op, err error) (*domain.Receipt, error) {
	if op == nil || err != nil {
		return nil, err
	}
	finalized, err := session.IsBlockFinalized(ctx, op.BlockNumber)
	if err != nil {
		return nil, err
	}
	return l1ReceiptFromOp(op, finalized), nil
}

// TxData resolves the full transaction content for an identifier, using the
// same precedence as TxStatus. Nil means not found.
func (r *Resolver) TxData(ctx context.Context, hash domain.TxHash) (*domain.TxData, error) {
	start := time.Now()
	defer func() {
		metrics.ResolutionDuration.WithLabelValues("tx_data").Observe(time.Since(start).Seconds())
	}()

	session, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Release()

	return firstHit(ctx, []step[domain.TxData]{
		{"l1_store_sync", func(ctx context.Context) (*domain.TxData, error) {
			op, err := session.L1OpBySyncHash(ctx, hash)
			return r.l1DataStep(ctx, session, op, err)
		}},
		{"l1_store_eth", func(ctx context.Context) (*domain.TxData, error) {
			op, err := session.L1OpByEthHash(ctx, hash.EthHash())
			return r.l1DataStep(ctx, session, op, err)
		}},
		{"l2_store", func(ctx context.Context) (*domain.TxData, error) {
			tx, err := session.L2TxByHash(ctx, hash)
			if tx == nil || err != nil {
				return nil, err
			}
			finalized, err := session.IsBlockFinalized(ctx, tx.BlockNumber)
			if err != nil {
				return nil, err
			}
			return l2TxDataFromExecuted(ctx, session, tx, finalized)
		}},
		{"mempool", func(ctx context.Context) (*domain.TxData, error) {
			pending, err := r.mempool.Fetch(ctx, hash)
			if pending == nil || err != nil {
				return nil, err
			}
			return l2TxDataFromPending(ctx, session, pending)
		}},
		{"core_sync", func(ctx context.Context) (*domain.TxData, error) {
			op, err := r.core.GetUnconfirmedOp(ctx, coreapi.BySyncHash(hash))
			if op == nil || err != nil {
				return nil, err
			}
			return l1TxDataFromPending(hash, op)
		}},
		{"core_eth", func(ctx context.Context) (*domain.TxData, error) {
			op, err := r.core.GetUnconfirmedOp(ctx, coreapi.ByEthHash(hash.EthHash()))
			if op == nil || err != nil {
				return nil, err
			}
			return l1TxDataFromPending(hash, op)
		}},
	})
}

// l1DataStep finishes an L1 store probe on the data path.
func (r *Resolver) l1DataStep(ctx context.Context, session storage.Session, op *domain.ExecutedL1Op, err error) (*domain.TxData, error) {
	if op == nil || err != nil {
		return nil, err
	}
	finalized, err := session.IsBlockFinalized(ctx, op.BlockNumber)
	if err != nil {
		return nil, err
	}
	return l1TxDataFromOp(op, finalized)
}

// BatchInfo resolves a batch and recomputes its aggregate status from the
// members. The aggregate is never cached: members finalize at different
// times even within one block.
func (r *Resolver) BatchInfo(ctx context.Context, batchHash domain.TxHash) (*domain.BatchInfo, error) {
	start := time.Now()
	defer func() {
		metrics.ResolutionDuration.WithLabelValues("batch_info").Observe(time.Since(start).Seconds())
	}()

	session, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Release()

	batch, err := session.BatchByHash(ctx, batchHash)
	if batch == nil || err != nil {
		return nil, err
	}

	statuses := make([]domain.Status, 0, len(batch.TxHashes))
	for _, hash := range batch.TxHashes {
		status, err := r.memberStatus(ctx, session, hash)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}

	return &domain.BatchInfo{
		BatchHash:         batch.BatchHash,
		TransactionHashes: batch.TxHashes,
		CreatedAt:         batch.CreatedAt,
		BatchStatus: domain.BatchStatus{
			LastState: domain.MinStatus(statuses),
			UpdatedAt: time.Now().UTC(),
		},
	}, nil
}

// memberStatus classifies one batch member. Batch members are user-submitted
// transactions by construction, so only the L2 store and the pool are
// consulted; a member in neither is still queued on the sequencer side.
func (r *Resolver) memberStatus(ctx context.Context, session storage.Session, hash domain.TxHash) (domain.Status, error) {
	tx, err := session.L2TxByHash(ctx, hash)
	if err != nil {
		return "", err
	}
	if tx != nil {
		finalized, err := session.IsBlockFinalized(ctx, tx.BlockNumber)
		if err != nil {
			return "", err
		}
		return Classify(&tx.Success, finalized), nil
	}
	return domain.StatusQueued, nil
}
