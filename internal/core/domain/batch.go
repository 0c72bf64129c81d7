package domain

import "time"

// BatchStatus is the aggregate lifecycle state of a batch at read time.
type BatchStatus struct {
	LastState Status    `json:"last_state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BatchInfo is the API view of a submitted batch: the ordered member hashes
// plus the aggregate status computed from them.
type BatchInfo struct {
	BatchHash         TxHash      `json:"batch_hash"`
	TransactionHashes []TxHash    `json:"transaction_hashes"`
	CreatedAt         time.Time   `json:"created_at"`
	BatchStatus       BatchStatus `json:"batch_status"`
}
