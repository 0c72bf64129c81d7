package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rollgate/rollgate/internal/core/domain"
)

// EthTxForWithdrawal resolves the origin-chain settlement transaction
// recorded for a withdrawal-type rollup transaction. Nil means none has been
// produced yet.
func (s *Session) EthTxForWithdrawal(ctx context.Context, hash domain.TxHash) (*common.Hash, error) {
	query := `SELECT eth_tx_hash FROM withdrawal_settlements WHERE tx_hash = $1`

	var raw string
	err := s.conn.GetContext(ctx, &raw, query, hash.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement tx: %w", err)
	}
	ethHash := common.HexToHash(raw)
	return &ethHash, nil
}
