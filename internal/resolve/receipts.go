package resolve

import "github.com/rollgate/rollgate/internal/core/domain"

// l1ReceiptFromOp builds the receipt of a durably indexed priority operation.
// A rollup block number always exists for these, so status is at least
// Committed.
func l1ReceiptFromOp(op *domain.ExecutedL1Op, blockFinalized bool) *domain.Receipt {
	block := op.BlockNumber
	return &domain.Receipt{
		Origin: domain.OriginL1,
		L1: &domain.L1Receipt{
			Status:      statusInBlock(blockFinalized),
			EthBlock:    op.EthBlock,
			RollupBlock: &block,
			SerialID:    op.SerialID,
		},
	}
}

// l1ReceiptFromPending builds the receipt of a priority operation known only
// to the core service. No rollup block number exists yet, so the status is
// Queued by construction, without a finalization query.
func l1ReceiptFromPending(op *domain.PendingL1Op) *domain.Receipt {
	return &domain.Receipt{
		Origin: domain.OriginL1,
		L1: &domain.L1Receipt{
			Status:      domain.StatusQueued,
			EthBlock:    op.EthBlock,
			RollupBlock: nil,
			SerialID:    op.SerialID,
		},
	}
}

// l2ReceiptFromTx builds the receipt of an executed transaction.
func l2ReceiptFromTx(tx *domain.ExecutedL2Tx, blockFinalized bool) *domain.Receipt {
	block := tx.BlockNumber
	return &domain.Receipt{
		Origin: domain.OriginL2,
		L2: &domain.L2Receipt{
			TxHash:      tx.TxHash,
			RollupBlock: &block,
			Status:      Classify(&tx.Success, blockFinalized),
			FailReason:  tx.FailReason,
		},
	}
}

// queuedL2Receipt is the receipt of a transaction sitting in the pool.
func queuedL2Receipt(hash domain.TxHash) *domain.Receipt {
	return &domain.Receipt{
		Origin: domain.OriginL2,
		L2: &domain.L2Receipt{
			TxHash:      hash,
			RollupBlock: nil,
			Status:      domain.StatusQueued,
			FailReason:  nil,
		},
	}
}
