package storage

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rollgate/rollgate/internal/core/domain"
)

// Pool hands out store sessions. A session maps to one checked-out database
// connection; callers must release it on every exit path.
type Pool interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session bundles every finalized-store lookup behind a single checked-out
// connection, held for the duration of one resolution.
type Session interface {
	FinalizedL1Store
	FinalizedL2Store
	BlockStore
	BatchInfoStore
	SettlementLookup

	// Release returns the connection to the pool. Safe to call once.
	Release() error
}

// FinalizedL1Store reads durably indexed priority operations. The two lookup
// variants exist because the store indexes the sync-hash and Ethereum-hash
// identifier spaces separately. A nil record means not found.
type FinalizedL1Store interface {
	L1OpBySyncHash(ctx context.Context, hash domain.TxHash) (*domain.ExecutedL1Op, error)
	L1OpByEthHash(ctx context.Context, hash common.Hash) (*domain.ExecutedL1Op, error)
}

// FinalizedL2Store reads durably indexed executed transactions.
type FinalizedL2Store interface {
	L2TxByHash(ctx context.Context, hash domain.TxHash) (*domain.ExecutedL2Tx, error)
}

// BlockStore answers block finalization queries.
type BlockStore interface {
	IsBlockFinalized(ctx context.Context, blockNumber uint64) (bool, error)
}

// BatchInfoStore persists batch membership records at submission time and
// serves them back for batch lookups.
type BatchInfoStore interface {
	BatchByHash(ctx context.Context, batchHash domain.TxHash) (*domain.StoredBatch, error)
	InsertBatch(ctx context.Context, batch *domain.StoredBatch) error
}

// SettlementLookup resolves the origin-chain settlement transaction produced
// for a withdrawal-type rollup transaction, if one exists yet.
type SettlementLookup interface {
	EthTxForWithdrawal(ctx context.Context, hash domain.TxHash) (*common.Hash, error)
}

// MempoolStore is the node-local pending transaction pool. Contains is the
// cheap membership probe used on the receipt path; Fetch returns the full
// pending record for the data path.
type MempoolStore interface {
	Contains(ctx context.Context, hash domain.TxHash) (bool, error)
	Fetch(ctx context.Context, hash domain.TxHash) (*domain.PendingTx, error)
	Insert(ctx context.Context, tx *domain.PendingTx) error
	InsertBatch(ctx context.Context, txs []*domain.PendingTx) error
}
