package domain

import (
	"encoding/json"
	"fmt"
)

// L1OpKind enumerates priority operation variants relayed from the origin
// chain. The set is closed: an unknown tag in a stored payload is a data
// integrity fault, not a default case.
type L1OpKind string

const (
	L1OpDeposit  L1OpKind = "deposit"
	L1OpFullExit L1OpKind = "full_exit"
)

// L2TxKind enumerates the user-submitted transaction variants.
type L2TxKind string

const (
	L2TxTransfer     L2TxKind = "transfer"
	L2TxWithdraw     L2TxKind = "withdraw"
	L2TxForcedExit   L2TxKind = "forced_exit"
	L2TxChangePubKey L2TxKind = "change_pubkey"
)

// kindEnvelope is the discriminator common to every stored payload.
type kindEnvelope struct {
	Type string `json:"type"`
}

// L1Op is a decoded priority operation: the variant tag plus the payload as
// stored. The payload is carried opaquely; only the tag is interpreted here.
type L1Op struct {
	Kind L1OpKind
	Raw  json.RawMessage
}

// L2Tx is a decoded rollup transaction: the variant tag plus the payload as
// submitted by the user.
type L2Tx struct {
	Kind L2TxKind
	Raw  json.RawMessage
}

// DecodeL1Op parses a stored priority operation payload. Stored payloads are
// written by trusted components only, so a tag outside the closed set is
// reported as an integrity fault.
func DecodeL1Op(raw json.RawMessage) (L1Op, error) {
	var env kindEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return L1Op{}, &IntegrityError{Field: "operation", Err: err}
	}
	switch kind := L1OpKind(env.Type); kind {
	case L1OpDeposit, L1OpFullExit:
		return L1Op{Kind: kind, Raw: raw}, nil
	default:
		return L1Op{}, &IntegrityError{
			Field: "operation",
			Err:   fmt.Errorf("unknown priority operation type %q", env.Type),
		}
	}
}

// DecodeL2Tx parses a transaction payload into its variant. Used both for
// user submissions (where an unknown tag is a client error, wrapped by the
// caller) and for stored records (where it is an integrity fault).
func DecodeL2Tx(raw json.RawMessage) (L2Tx, error) {
	var env kindEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return L2Tx{}, &IntegrityError{Field: "tx", Err: err}
	}
	switch kind := L2TxKind(env.Type); kind {
	case L2TxTransfer, L2TxWithdraw, L2TxForcedExit, L2TxChangePubKey:
		return L2Tx{Kind: kind, Raw: raw}, nil
	default:
		return L2Tx{}, &IntegrityError{
			Field: "tx",
			Err:   fmt.Errorf("unknown transaction type %q", env.Type),
		}
	}
}

// Hash computes the sync hash of the transaction content.
func (tx L2Tx) Hash() (TxHash, error) {
	return ContentHash(tx.Raw)
}

// SignData is the stored origin-chain signature envelope attached to an L2
// transaction.
type SignData struct {
	Signature string `json:"signature"`
}

// DecodeSignature extracts the signature string from a stored sign-data
// payload. Malformed sign data is an integrity fault scoped to the single
// request; it never takes the process down.
func DecodeSignature(raw json.RawMessage) (string, error) {
	var sd SignData
	if err := json.Unmarshal(raw, &sd); err != nil {
		return "", &IntegrityError{Field: "eth_sign_data", Err: err}
	}
	if sd.Signature == "" {
		return "", &IntegrityError{
			Field: "eth_sign_data",
			Err:   fmt.Errorf("empty signature in stored sign data"),
		}
	}
	return sd.Signature, nil
}
