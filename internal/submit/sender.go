package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rollgate/rollgate/internal/core/domain"
	"github.com/rollgate/rollgate/internal/infra/coreapi"
	"github.com/rollgate/rollgate/internal/infra/storage"
	"github.com/rollgate/rollgate/internal/metrics"
)

// CoreSubmitter is the slice of the core service client the gateway needs.
type CoreSubmitter interface {
	SendTx(ctx context.Context, tx coreapi.SignedTx) error
	SendTxsBatch(ctx context.Context, txs []coreapi.SignedTx, signatures []json.RawMessage) error
}

// Sender accepts new transactions and batches, forwards them to the core
// service first, then records them in the local pool. The hashes it returns
// are always computed locally from the submitted content, never taken from
// the remote response, so a client can detect a hash mismatch as its own
// fault class.
type Sender struct {
	core    CoreSubmitter
	mempool storage.MempoolStore
	pool    storage.Pool
	log     *slog.Logger
}

// SenderOpts holds the collaborators injected at startup.
type SenderOpts struct {
	Core    CoreSubmitter
	Mempool storage.MempoolStore
	Pool    storage.Pool
	Logger  *slog.Logger
}

// NewSender creates a submission gateway.
func NewSender(opts SenderOpts) *Sender {
	return &Sender{
		core:    opts.Core,
		mempool: opts.Mempool,
		pool:    opts.Pool,
		log:     opts.Logger,
	}
}

// SubmitBatchResponse carries the locally computed member hashes, in
// submission order, and the batch hash derived from that order.
type SubmitBatchResponse struct {
	TransactionHashes []domain.TxHash `json:"transaction_hashes"`
	BatchHash         domain.TxHash   `json:"batch_hash"`
}

// SubmitTx validates, hashes and forwards one transaction. The core service
// is consulted before any local pool write, so the pool never holds a
// transaction the core refused.
func (s *Sender) SubmitTx(ctx context.Context, tx, signature json.RawMessage) (domain.TxHash, error) {
	decoded, err := domain.DecodeL2Tx(tx)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("tx", "rejected").Inc()
		return domain.TxHash{}, &domain.SubmissionError{
			Reason: fmt.Sprintf("malformed transaction payload: %v", err),
		}
	}
	hash, err := decoded.Hash()
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("tx", "rejected").Inc()
		return domain.TxHash{}, &domain.SubmissionError{Reason: err.Error()}
	}

	if err := s.core.SendTx(ctx, coreapi.SignedTx{Tx: decoded.Raw, Signature: signature}); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("tx", submissionOutcome(err)).Inc()
		return domain.TxHash{}, err
	}

	if err := s.mempool.Insert(ctx, &domain.PendingTx{
		TxHash:      hash,
		Tx:          decoded.Raw,
		EthSignData: signature,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("tx", "error").Inc()
		return domain.TxHash{}, err
	}

	s.log.Debug("transaction accepted", "tx_hash", hash.String(), "kind", decoded.Kind)
	metrics.SubmissionsTotal.WithLabelValues("tx", "ok").Inc()
	return hash, nil
}

// SubmitBatch validates, hashes and forwards a batch. Member order is
// preserved end to end; the batch hash commits to it.
func (s *Sender) SubmitBatch(ctx context.Context, txs []json.RawMessage, signatures []json.RawMessage) (*SubmitBatchResponse, error) {
	if len(txs) == 0 {
		metrics.SubmissionsTotal.WithLabelValues("batch", "rejected").Inc()
		return nil, &domain.SubmissionError{Reason: "empty transaction batch"}
	}

	now := time.Now().UTC()
	hashes := make([]domain.TxHash, 0, len(txs))
	signed := make([]coreapi.SignedTx, 0, len(txs))
	pending := make([]*domain.PendingTx, 0, len(txs))
	for _, raw := range txs {
		decoded, err := domain.DecodeL2Tx(raw)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("batch", "rejected").Inc()
			return nil, &domain.SubmissionError{
				Reason: fmt.Sprintf("malformed transaction payload: %v", err),
			}
		}
		hash, err := decoded.Hash()
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("batch", "rejected").Inc()
			return nil, &domain.SubmissionError{Reason: err.Error()}
		}
		hashes = append(hashes, hash)
		signed = append(signed, coreapi.SignedTx{Tx: decoded.Raw})
		pending = append(pending, &domain.PendingTx{
			TxHash:    hash,
			Tx:        decoded.Raw,
			CreatedAt: now,
		})
	}
	batchHash := domain.BatchHash(hashes)

	if err := s.core.SendTxsBatch(ctx, signed, signatures); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("batch", submissionOutcome(err)).Inc()
		return nil, err
	}

	if err := s.recordBatch(ctx, &domain.StoredBatch{
		BatchHash: batchHash,
		TxHashes:  hashes,
		CreatedAt: now,
	}); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("batch", "error").Inc()
		return nil, err
	}
	if err := s.mempool.InsertBatch(ctx, pending); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("batch", "error").Inc()
		return nil, err
	}

	s.log.Debug("batch accepted", "batch_hash", batchHash.String(), "members", len(hashes))
	metrics.SubmissionsTotal.WithLabelValues("batch", "ok").Inc()
	return &SubmitBatchResponse{TransactionHashes: hashes, BatchHash: batchHash}, nil
}

func (s *Sender) recordBatch(ctx context.Context, batch *domain.StoredBatch) error {
	session, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer session.Release()
	return session.InsertBatch(ctx, batch)
}

func submissionOutcome(err error) string {
	if domain.IsSubmissionRejected(err) {
		return "rejected"
	}
	return "error"
}
