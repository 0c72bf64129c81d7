package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rollgate/rollgate/internal/core/domain"
	"github.com/rollgate/rollgate/internal/infra/coreapi"
	"github.com/rollgate/rollgate/internal/infra/storage"
)

// mockCore records forwarded submissions and can refuse them.
type mockCore struct {
	rejectWith string
	failWith   error
	sentTxs    []coreapi.SignedTx
	sentBatch  [][]coreapi.SignedTx
}

func (m *mockCore) SendTx(ctx context.Context, tx coreapi.SignedTx) error {
	if m.rejectWith != "" {
		return &domain.SubmissionError{Reason: m.rejectWith}
	}
	if m.failWith != nil {
		return m.failWith
	}
	m.sentTxs = append(m.sentTxs, tx)
	return nil
}

func (m *mockCore) SendTxsBatch(ctx context.Context, txs []coreapi.SignedTx, signatures []json.RawMessage) error {
	if m.rejectWith != "" {
		return &domain.SubmissionError{Reason: m.rejectWith}
	}
	if m.failWith != nil {
		return m.failWith
	}
	m.sentBatch = append(m.sentBatch, txs)
	return nil
}

type mockMempool struct {
	inserted []*domain.PendingTx
	err      error
}

func (m *mockMempool) Contains(ctx context.Context, hash domain.TxHash) (bool, error) {
	for _, tx := range m.inserted {
		if tx.TxHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMempool) Fetch(ctx context.Context, hash domain.TxHash) (*domain.PendingTx, error) {
	for _, tx := range m.inserted {
		if tx.TxHash == hash {
			return tx, nil
		}
	}
	return nil, nil
}

func (m *mockMempool) Insert(ctx context.Context, tx *domain.PendingTx) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, tx)
	return nil
}

func (m *mockMempool) InsertBatch(ctx context.Context, txs []*domain.PendingTx) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, txs...)
	return nil
}

// mockSession only needs the batch-record half here.
type mockSession struct {
	batches []*domain.StoredBatch
	err     error
}

func (m *mockSession) L1OpBySyncHash(ctx context.Context, hash domain.TxHash) (*domain.ExecutedL1Op, error) {
	return nil, nil
}
func (m *mockSession) L1OpByEthHash(ctx context.Context, hash common.Hash) (*domain.ExecutedL1Op, error) {
	return nil, nil
}
func (m *mockSession) L2TxByHash(ctx context.Context, hash domain.TxHash) (*domain.ExecutedL2Tx, error) {
	return nil, nil
}
func (m *mockSession) IsBlockFinalized(ctx context.Context, blockNumber uint64) (bool, error) {
	return false, nil
}
func (m *mockSession) BatchByHash(ctx context.Context, batchHash domain.TxHash) (*domain.StoredBatch, error) {
	return nil, nil
}
func (m *mockSession) InsertBatch(ctx context.Context, batch *domain.StoredBatch) error {
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, batch)
	return nil
}
func (m *mockSession) EthTxForWithdrawal(ctx context.Context, hash domain.TxHash) (*common.Hash, error) {
	return nil, nil
}
func (m *mockSession) Release() error { return nil }

type mockPool struct {
	session *mockSession
}

func (p *mockPool) Acquire(ctx context.Context) (storage.Session, error) {
	return p.session, nil
}

func newTestSender(core *mockCore, mempool *mockMempool, session *mockSession) *Sender {
	return NewSender(SenderOpts{
		Core:    core,
		Mempool: mempool,
		Pool:    &mockPool{session: session},
		Logger:  slog.Default(),
	})
}

func TestSubmitTx_ReturnsLocalHash(t *testing.T) {
	raw := json.RawMessage(`{"type":"transfer","amount":"5"}`)
	core := &mockCore{}
	mempool := &mockMempool{}
	s := newTestSender(core, mempool, &mockSession{})

	hash, err := s.SubmitTx(context.Background(), raw, json.RawMessage(`{"signature":"0xsig"}`))
	if err != nil {
		t.Fatalf("SubmitTx failed: %v", err)
	}

	want, _ := domain.ContentHash(raw)
	if hash != want {
		t.Errorf("Expected locally computed hash %s, got %s", want, hash)
	}
	if len(core.sentTxs) != 1 {
		t.Fatalf("Expected 1 forwarded tx, got %d", len(core.sentTxs))
	}
	if len(mempool.inserted) != 1 || mempool.inserted[0].TxHash != want {
		t.Errorf("Expected pool insert under %s, got %+v", want, mempool.inserted)
	}
}

func TestSubmitTx_MalformedPayloadRejected(t *testing.T) {
	core := &mockCore{}
	mempool := &mockMempool{}
	s := newTestSender(core, mempool, &mockSession{})

	_, err := s.SubmitTx(context.Background(), json.RawMessage(`{"type":"mint"}`), nil)
	if err == nil {
		t.Fatal("Expected rejection for unknown type")
	}
	if !domain.IsSubmissionRejected(err) {
		t.Errorf("Expected submission rejection, got %v", err)
	}
	if len(core.sentTxs) != 0 {
		t.Error("Rejected payload must not reach the core service")
	}
}

func TestSubmitTx_CoreRejectionSkipsPool(t *testing.T) {
	core := &mockCore{rejectWith: "fee too low"}
	mempool := &mockMempool{}
	s := newTestSender(core, mempool, &mockSession{})

	_, err := s.SubmitTx(context.Background(), json.RawMessage(`{"type":"transfer"}`), nil)
	if !domain.IsSubmissionRejected(err) {
		t.Fatalf("Expected submission rejection, got %v", err)
	}
	if len(mempool.inserted) != 0 {
		t.Error("Pool must not hold a transaction the core refused")
	}
}

func TestSubmitTx_CoreUnavailable(t *testing.T) {
	core := &mockCore{failWith: errors.New("connection refused")}
	mempool := &mockMempool{}
	s := newTestSender(core, mempool, &mockSession{})

	_, err := s.SubmitTx(context.Background(), json.RawMessage(`{"type":"transfer"}`), nil)
	if err == nil {
		t.Fatal("Expected error when core is unreachable")
	}
	if domain.IsSubmissionRejected(err) {
		t.Error("Transport failure must not masquerade as a rejection")
	}
	if len(mempool.inserted) != 0 {
		t.Error("Pool must stay empty on core failure")
	}
}

func TestSubmitBatch_OrderedHashes(t *testing.T) {
	txs := []json.RawMessage{
		json.RawMessage(`{"type":"transfer","n":1}`),
		json.RawMessage(`{"type":"withdraw","n":2}`),
		json.RawMessage(`{"type":"transfer","n":3}`),
	}
	core := &mockCore{}
	mempool := &mockMempool{}
	session := &mockSession{}
	s := newTestSender(core, mempool, session)

	resp, err := s.SubmitBatch(context.Background(), txs, nil)
	if err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}
	if len(resp.TransactionHashes) != 3 {
		t.Fatalf("Expected 3 hashes, got %d", len(resp.TransactionHashes))
	}

	for i, raw := range txs {
		want, _ := domain.ContentHash(raw)
		if resp.TransactionHashes[i] != want {
			t.Errorf("Member %d: expected %s, got %s", i, want, resp.TransactionHashes[i])
		}
	}
	if resp.BatchHash != domain.BatchHash(resp.TransactionHashes) {
		t.Error("Batch hash must commit to the ordered member hashes")
	}
	if len(session.batches) != 1 {
		t.Fatalf("Expected 1 recorded batch, got %d", len(session.batches))
	}
	if session.batches[0].BatchHash != resp.BatchHash {
		t.Error("Recorded batch hash differs from response")
	}
	if len(mempool.inserted) != 3 {
		t.Errorf("Expected 3 pool inserts, got %d", len(mempool.inserted))
	}
}

func TestSubmitBatch_Empty(t *testing.T) {
	s := newTestSender(&mockCore{}, &mockMempool{}, &mockSession{})

	_, err := s.SubmitBatch(context.Background(), nil, nil)
	if !domain.IsSubmissionRejected(err) {
		t.Errorf("Expected rejection for empty batch, got %v", err)
	}
}

func TestSubmitBatch_CoreRejectionSkipsWrites(t *testing.T) {
	core := &mockCore{rejectWith: "batch too large"}
	mempool := &mockMempool{}
	session := &mockSession{}
	s := newTestSender(core, mempool, session)

	_, err := s.SubmitBatch(context.Background(), []json.RawMessage{
		json.RawMessage(`{"type":"transfer"}`),
	}, nil)
	if !domain.IsSubmissionRejected(err) {
		t.Fatalf("Expected rejection, got %v", err)
	}
	if len(session.batches) != 0 {
		t.Error("Batch record must not be written on core rejection")
	}
	if len(mempool.inserted) != 0 {
		t.Error("Pool must stay empty on core rejection")
	}
}

func TestSubmitBatch_OneMalformedMemberRejectsAll(t *testing.T) {
	core := &mockCore{}
	s := newTestSender(core, &mockMempool{}, &mockSession{})

	_, err := s.SubmitBatch(context.Background(), []json.RawMessage{
		json.RawMessage(`{"type":"transfer"}`),
		json.RawMessage(`{"type":"mint"}`),
	}, nil)
	if !domain.IsSubmissionRejected(err) {
		t.Fatalf("Expected rejection, got %v", err)
	}
	if len(core.sentBatch) != 0 {
		t.Error("Malformed batch must not reach the core service")
	}
}
