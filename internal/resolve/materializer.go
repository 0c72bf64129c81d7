package resolve

import (
	"context"
	"errors"

	"github.com/rollgate/rollgate/internal/core/domain"
	"github.com/rollgate/rollgate/internal/infra/storage"
)

// tagIntegrity attaches the transaction hash to an integrity fault raised
// while decoding one of its stored fields.
func tagIntegrity(err error, hash domain.TxHash) error {
	var ie *domain.IntegrityError
	if errors.As(err, &ie) && ie.TxHash.IsZero() {
		ie.TxHash = hash
	}
	return err
}

// l1TxDataFromOp materializes a durably indexed priority operation.
func l1TxDataFromOp(op *domain.ExecutedL1Op, blockFinalized bool) (*domain.TxData, error) {
	decoded, err := domain.DecodeL1Op(op.Operation)
	if err != nil {
		return nil, tagIntegrity(err, op.TxHash)
	}

	block := op.BlockNumber
	createdAt := op.CreatedAt
	return &domain.TxData{
		Tx: domain.Transaction{
			TxHash:      op.TxHash,
			BlockNumber: &block,
			Op: domain.TransactionData{
				Origin: domain.OriginL1,
				L1: &domain.L1TransactionData{
					Kind:     decoded.Kind,
					Op:       decoded.Raw,
					EthHash:  op.EthHash,
					SerialID: op.SerialID,
					TxHash:   op.TxHash,
				},
			},
			Status:    statusInBlock(blockFinalized),
			CreatedAt: &createdAt,
		},
	}, nil
}

// l1TxDataFromPending materializes a priority operation known only to the
// core service. No creation timestamp exists for these synthesized records.
func l1TxDataFromPending(hash domain.TxHash, op *domain.PendingL1Op) (*domain.TxData, error) {
	decoded, err := domain.DecodeL1Op(op.Data)
	if err != nil {
		return nil, tagIntegrity(err, hash)
	}

	return &domain.TxData{
		Tx: domain.Transaction{
			TxHash: hash,
			Op: domain.TransactionData{
				Origin: domain.OriginL1,
				L1: &domain.L1TransactionData{
					Kind:     decoded.Kind,
					Op:       decoded.Raw,
					EthHash:  op.EthHash,
					SerialID: op.SerialID,
					TxHash:   hash,
				},
			},
			Status: domain.StatusQueued,
		},
	}, nil
}

// l2TransactionData projects a stored transaction payload into its API
// shape. Withdraw and forced-exit kinds additionally carry the origin-chain
// settlement transaction hash, when one has been produced.
func l2TransactionData(ctx context.Context, settle storage.SettlementLookup, hash domain.TxHash, raw []byte) (*domain.TransactionData, error) {
	tx, err := domain.DecodeL2Tx(raw)
	if err != nil {
		return nil, tagIntegrity(err, hash)
	}

	data := &domain.L2TransactionData{
		Kind: tx.Kind,
		Tx:   tx.Raw,
	}
	switch tx.Kind {
	case domain.L2TxWithdraw, domain.L2TxForcedExit:
		ethTx, err := settle.EthTxForWithdrawal(ctx, hash)
		if err != nil {
			return nil, err
		}
		data.EthTxHash = ethTx
	case domain.L2TxTransfer, domain.L2TxChangePubKey:
		// no enrichment
	}

	return &domain.TransactionData{Origin: domain.OriginL2, L2: data}, nil
}

// l2TxDataFromExecuted materializes an executed transaction, including its
// origin-chain signature when one was stored.
func l2TxDataFromExecuted(ctx context.Context, settle storage.SettlementLookup, tx *domain.ExecutedL2Tx, blockFinalized bool) (*domain.TxData, error) {
	var signature *string
	if len(tx.EthSignData) > 0 {
		sig, err := domain.DecodeSignature(tx.EthSignData)
		if err != nil {
			return nil, tagIntegrity(err, tx.TxHash)
		}
		signature = &sig
	}

	op, err := l2TransactionData(ctx, settle, tx.TxHash, tx.Tx)
	if err != nil {
		return nil, err
	}

	block := tx.BlockNumber
	createdAt := tx.CreatedAt
	return &domain.TxData{
		Tx: domain.Transaction{
			TxHash:      tx.TxHash,
			BlockNumber: &block,
			Op:          *op,
			Status:      Classify(&tx.Success, blockFinalized),
			FailReason:  tx.FailReason,
			CreatedAt:   &createdAt,
		},
		EthSignature: signature,
	}, nil
}

// l2TxDataFromPending materializes a transaction still sitting in the pool.
func l2TxDataFromPending(ctx context.Context, settle storage.SettlementLookup, pending *domain.PendingTx) (*domain.TxData, error) {
	var signature *string
	if len(pending.EthSignData) > 0 {
		sig, err := domain.DecodeSignature(pending.EthSignData)
		if err != nil {
			return nil, tagIntegrity(err, pending.TxHash)
		}
		signature = &sig
	}

	op, err := l2TransactionData(ctx, settle, pending.TxHash, pending.Tx)
	if err != nil {
		return nil, err
	}

	createdAt := pending.CreatedAt
	return &domain.TxData{
		Tx: domain.Transaction{
			TxHash:    pending.TxHash,
			Op:        *op,
			Status:    domain.StatusQueued,
			CreatedAt: &createdAt,
		},
		EthSignature: signature,
	}, nil
}
