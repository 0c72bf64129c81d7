package domain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxHash is the rollup-native transaction identifier (sync hash). It is
// derived from transaction content, so a client can compute it before
// submission and poll for it afterwards.
type TxHash [32]byte

// ParseTxHash decodes a 0x-prefixed hex string into a TxHash.
func ParseTxHash(s string) (TxHash, error) {
	var h TxHash
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid tx hash %q: %w", s, err)
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("invalid tx hash length: got %d bytes, want %d", len(raw), len(h))
	}
	copy(h[:], raw)
	return h, nil
}

// TxHashFromBytes converts a raw 32-byte slice into a TxHash.
func TxHashFromBytes(b []byte) (TxHash, error) {
	var h TxHash
	if len(b) != len(h) {
		return h, fmt.Errorf("invalid tx hash length: got %d bytes, want %d", len(b), len(h))
	}
	copy(h[:], b)
	return h, nil
}

// EthHash reinterprets the identifier in the Ethereum hash space. L1
// operations may be looked up by either, since both name the same 32 bytes.
func (h TxHash) EthHash() common.Hash {
	return common.BytesToHash(h[:])
}

func (h TxHash) Bytes() []byte { return h[:] }

func (h TxHash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h TxHash) IsZero() bool { return h == TxHash{} }

func (h TxHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *TxHash) UnmarshalText(text []byte) error {
	parsed, err := ParseTxHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ContentHash computes the sync hash of a transaction payload: keccak256 over
// the compacted JSON encoding, so insignificant whitespace in the submitted
// body does not change the identifier.
func ContentHash(payload json.RawMessage) (TxHash, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return TxHash{}, fmt.Errorf("invalid transaction payload: %w", err)
	}
	var h TxHash
	copy(h[:], crypto.Keccak256(buf.Bytes()))
	return h, nil
}

// BatchHash commits to the ordered sequence of member hashes: keccak256 over
// their concatenation. Reordering members produces a different batch hash.
func BatchHash(hashes []TxHash) TxHash {
	buf := make([]byte, 0, len(hashes)*32)
	for _, h := range hashes {
		buf = append(buf, h[:]...)
	}
	var out TxHash
	copy(out[:], crypto.Keccak256(buf))
	return out
}
