package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rollgate/rollgate/internal/core/domain"
)

type batchRow struct {
	BatchHash string          `db:"batch_hash"`
	TxHashes  json.RawMessage `db:"tx_hashes"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r *batchRow) toDomain() (*domain.StoredBatch, error) {
	batchHash, err := domain.ParseTxHash(r.BatchHash)
	if err != nil {
		return nil, &domain.IntegrityError{Field: "batch_hash", Err: err}
	}
	var hashes []domain.TxHash
	if err := json.Unmarshal(r.TxHashes, &hashes); err != nil {
		return nil, &domain.IntegrityError{TxHash: batchHash, Field: "tx_hashes", Err: err}
	}
	return &domain.StoredBatch{
		BatchHash: batchHash,
		TxHashes:  hashes,
		CreatedAt: r.CreatedAt,
	}, nil
}

// BatchByHash retrieves a batch record by its batch hash.
func (s *Session) BatchByHash(ctx context.Context, batchHash domain.TxHash) (*domain.StoredBatch, error) {
	query := `SELECT batch_hash, tx_hashes, created_at FROM tx_batches WHERE batch_hash = $1`

	var row batchRow
	err := s.conn.GetContext(ctx, &row, query, batchHash.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return row.toDomain()
}

// InsertBatch writes the batch membership record at submission time. Member
// order is preserved; the batch hash commits to it.
func (s *Session) InsertBatch(ctx context.Context, batch *domain.StoredBatch) error {
	hashes, err := json.Marshal(batch.TxHashes)
	if err != nil {
		return fmt.Errorf("failed to encode batch members: %w", err)
	}

	query := `
		INSERT INTO tx_batches (batch_hash, tx_hashes, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (batch_hash) DO NOTHING
	`
	if _, err := s.conn.ExecContext(ctx, query, batch.BatchHash.String(), hashes, batch.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}
