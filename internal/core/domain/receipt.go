package domain

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// L1Receipt is the lifecycle receipt of a priority operation.
type L1Receipt struct {
	Status      Status  `json:"status"`
	EthBlock    uint64  `json:"eth_block"`
	RollupBlock *uint64 `json:"rollup_block"`
	SerialID    uint64  `json:"id"`
}

// L2Receipt is the lifecycle receipt of a user-submitted transaction.
type L2Receipt struct {
	TxHash      TxHash  `json:"tx_hash"`
	RollupBlock *uint64 `json:"rollup_block"`
	Status      Status  `json:"status"`
	FailReason  *string `json:"fail_reason"`
}

// Receipt tags a receipt with its origin. Exactly one of L1/L2 is set.
type Receipt struct {
	Origin Origin     `json:"origin"`
	L1     *L1Receipt `json:"l1,omitempty"`
	L2     *L2Receipt `json:"l2,omitempty"`
}

// L1TransactionData is the materialized content of a priority operation.
type L1TransactionData struct {
	Kind     L1OpKind        `json:"kind"`
	Op       json.RawMessage `json:"op"`
	EthHash  common.Hash     `json:"eth_hash"`
	SerialID uint64          `json:"id"`
	TxHash   TxHash          `json:"tx_hash"`
}

// L2TransactionData is the materialized content of a rollup transaction.
// EthTxHash is only set for withdraw and forced-exit kinds, when a settlement
// transaction on the origin chain has already been produced.
type L2TransactionData struct {
	Kind      L2TxKind        `json:"kind"`
	Tx        json.RawMessage `json:"tx"`
	EthTxHash *common.Hash    `json:"eth_tx_hash,omitempty"`
}

// TransactionData is the origin-tagged operation payload of a transaction.
type TransactionData struct {
	Origin Origin             `json:"origin"`
	L1     *L1TransactionData `json:"l1,omitempty"`
	L2     *L2TransactionData `json:"l2,omitempty"`
}

// Transaction is the full materialized record of a transaction.
// BlockNumber is absent while the transaction is queued; CreatedAt is absent
// for pending L1 records synthesized from the core service.
type Transaction struct {
	TxHash      TxHash          `json:"tx_hash"`
	BlockNumber *uint64         `json:"block_number"`
	Op          TransactionData `json:"op"`
	Status      Status          `json:"status"`
	FailReason  *string         `json:"fail_reason"`
	CreatedAt   *time.Time      `json:"created_at"`
}

// TxData pairs a transaction with its origin-chain signature, when one was
// provided at submission. L1 operations never carry one.
type TxData struct {
	Tx           Transaction `json:"tx"`
	EthSignature *string     `json:"eth_signature"`
}
