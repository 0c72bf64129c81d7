package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rollgate/rollgate/internal/core/domain"
)

// Mempool implements storage.MempoolStore on Redis. Entries are written by
// the submission gateway and pruned by the sequencing pipeline once a
// transaction is included in a block; this store never transitions lifecycle
// state itself.
type Mempool struct {
	rdb *redis.Client
}

// NewMempool creates a Redis-backed mempool store.
func NewMempool(client *Client) *Mempool {
	return &Mempool{rdb: client.rdb}
}

// Key helpers
func txKey(hash domain.TxHash) string {
	return fmt.Sprintf("mempool:tx:%s", hash)
}

type pendingEntry struct {
	Tx          json.RawMessage `json:"tx"`
	EthSignData json.RawMessage `json:"eth_sign_data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Contains reports whether the pool holds a transaction with the given hash.
func (m *Mempool) Contains(ctx context.Context, hash domain.TxHash) (bool, error) {
	n, err := m.rdb.Exists(ctx, txKey(hash)).Result()
	if err != nil {
		return false, fmt.Errorf("mempool exists check failed: %w", err)
	}
	return n > 0, nil
}

// Fetch returns the full pending record, or nil when the pool does not hold
// the transaction.
func (m *Mempool) Fetch(ctx context.Context, hash domain.TxHash) (*domain.PendingTx, error) {
	data, err := m.rdb.Get(ctx, txKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mempool fetch failed: %w", err)
	}

	var entry pendingEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, &domain.IntegrityError{TxHash: hash, Field: "mempool entry", Err: err}
	}
	return &domain.PendingTx{
		TxHash:      hash,
		Tx:          entry.Tx,
		EthSignData: entry.EthSignData,
		CreatedAt:   entry.CreatedAt,
	}, nil
}

// Insert stores a pending transaction. Re-inserting the same hash is a no-op
// so duplicate submissions stay idempotent.
func (m *Mempool) Insert(ctx context.Context, tx *domain.PendingTx) error {
	data, err := json.Marshal(pendingEntry{
		Tx:          tx.Tx,
		EthSignData: tx.EthSignData,
		CreatedAt:   tx.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal pending tx: %w", err)
	}

	if err := m.rdb.SetNX(ctx, txKey(tx.TxHash), data, 0).Err(); err != nil {
		return fmt.Errorf("mempool insert failed: %w", err)
	}
	return nil
}

// InsertBatch stores all members of a batch in one pipeline round trip.
func (m *Mempool) InsertBatch(ctx context.Context, txs []*domain.PendingTx) error {
	if len(txs) == 0 {
		return nil
	}

	pipe := m.rdb.TxPipeline()
	for _, tx := range txs {
		data, err := json.Marshal(pendingEntry{
			Tx:          tx.Tx,
			EthSignData: tx.EthSignData,
			CreatedAt:   tx.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal pending tx: %w", err)
		}
		pipe.SetNX(ctx, txKey(tx.TxHash), data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mempool batch insert failed: %w", err)
	}
	return nil
}
