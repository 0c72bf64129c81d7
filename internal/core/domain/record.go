package domain

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ExecutedL1Op is a priority operation row from the finalized operations
// store. Fields are raw stored values; no status is synthesized at this
// layer.
type ExecutedL1Op struct {
	TxHash      TxHash
	EthHash     common.Hash
	EthBlock    uint64
	SerialID    uint64
	BlockNumber uint64
	Operation   json.RawMessage
	CreatedAt   time.Time
}

// ExecutedL2Tx is an executed transaction row from the finalized transaction
// store. Success and FailReason reflect execution outcome, not finality.
type ExecutedL2Tx struct {
	TxHash      TxHash
	BlockNumber uint64
	Tx          json.RawMessage
	Success     bool
	FailReason  *string
	EthSignData json.RawMessage
	CreatedAt   time.Time
}

// PendingTx is a transaction sitting in the pool, accepted but not yet
// sequenced.
type PendingTx struct {
	TxHash      TxHash
	Tx          json.RawMessage
	EthSignData json.RawMessage
	CreatedAt   time.Time
}

// PendingL1Op is a priority operation known to the core service but not yet
// durably indexed. Observed on the origin chain at EthBlock and assigned
// SerialID there.
type PendingL1Op struct {
	SerialID uint64
	EthHash  common.Hash
	EthBlock uint64
	Data     json.RawMessage
}

// StoredBatch is a batch record as written at submission time: the ordered
// member hashes and creation metadata. Aggregate status is never stored; it
// is recomputed from the members on every read.
type StoredBatch struct {
	BatchHash TxHash
	TxHashes  []TxHash
	CreatedAt time.Time
}
