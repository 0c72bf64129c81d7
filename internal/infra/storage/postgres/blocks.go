package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IsBlockFinalized reports whether the rollup block has been confirmed
// irreversible. An unknown block number is simply not finalized.
func (s *Session) IsBlockFinalized(ctx context.Context, blockNumber uint64) (bool, error) {
	query := `SELECT finalized_at IS NOT NULL FROM blocks WHERE number = $1`

	var finalized bool
	err := s.conn.GetContext(ctx, &finalized, query, int64(blockNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check block finalization: %w", err)
	}
	return finalized, nil
}
