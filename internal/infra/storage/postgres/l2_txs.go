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

type l2TxRow struct {
	TxHash      string          `db:"tx_hash"`
	BlockNumber int64           `db:"block_number"`
	Tx          json.RawMessage `db:"tx"`
	Success     bool            `db:"success"`
	FailReason  *string         `db:"fail_reason"`
	EthSignData json.RawMessage `db:"eth_sign_data"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *l2TxRow) toDomain() (*domain.ExecutedL2Tx, error) {
	txHash, err := domain.ParseTxHash(r.TxHash)
	if err != nil {
		return nil, &domain.IntegrityError{Field: "tx_hash", Err: err}
	}
	return &domain.ExecutedL2Tx{
		TxHash:      txHash,
		BlockNumber: uint64(r.BlockNumber),
		Tx:          r.Tx,
		Success:     r.Success,
		FailReason:  r.FailReason,
		EthSignData: r.EthSignData,
		CreatedAt:   r.CreatedAt,
	}, nil
}

// L2TxByHash retrieves an executed transaction by its sync hash.
func (s *Session) L2TxByHash(ctx context.Context, hash domain.TxHash) (*domain.ExecutedL2Tx, error) {
	query := `
		SELECT tx_hash, block_number, tx, success, fail_reason, eth_sign_data, created_at
		FROM executed_txs
		WHERE tx_hash = $1
	`

	var row l2TxRow
	err := s.conn.GetContext(ctx, &row, query, hash.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get executed tx: %w", err)
	}
	return row.toDomain()
}
