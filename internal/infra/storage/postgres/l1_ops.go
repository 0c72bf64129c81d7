package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rollgate/rollgate/internal/core/domain"
)

type l1OpRow struct {
	TxHash      string          `db:"tx_hash"`
	EthHash     string          `db:"eth_hash"`
	EthBlock    int64           `db:"eth_block"`
	SerialID    int64           `db:"serial_id"`
	BlockNumber int64           `db:"block_number"`
	Operation   json.RawMessage `db:"operation"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *l1OpRow) toDomain() (*domain.ExecutedL1Op, error) {
	txHash, err := domain.ParseTxHash(r.TxHash)
	if err != nil {
		return nil, &domain.IntegrityError{Field: "tx_hash", Err: err}
	}
	return &domain.ExecutedL1Op{
		TxHash:      txHash,
		EthHash:     common.HexToHash(r.EthHash),
		EthBlock:    uint64(r.EthBlock),
		SerialID:    uint64(r.SerialID),
		BlockNumber: uint64(r.BlockNumber),
		Operation:   r.Operation,
		CreatedAt:   r.CreatedAt,
	}, nil
}

const l1OpColumns = `tx_hash, eth_hash, eth_block, serial_id, block_number, operation, created_at`

// L1OpBySyncHash retrieves an executed priority operation by its sync hash.
func (s *Session) L1OpBySyncHash(ctx context.Context, hash domain.TxHash) (*domain.ExecutedL1Op, error) {
	query := `SELECT ` + l1OpColumns + ` FROM executed_priority_ops WHERE tx_hash = $1`

	var row l1OpRow
	err := s.conn.GetContext(ctx, &row, query, hash.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get priority op by sync hash: %w", err)
	}
	return row.toDomain()
}

// L1OpByEthHash retrieves an executed priority operation by the hash of its
// originating Ethereum transaction.
func (s *Session) L1OpByEthHash(ctx context.Context, hash common.Hash) (*domain.ExecutedL1Op, error) {
	query := `SELECT ` + l1OpColumns + ` FROM executed_priority_ops WHERE eth_hash = $1`

	var row l1OpRow
	err := s.conn.GetContext(ctx, &row, query, hash.Hex())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get priority op by eth hash: %w", err)
	}
	return row.toDomain()
}
