package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rollgate/rollgate/internal/core/domain"
)

// IncomingTx is the body of a single-transaction submission.
type IncomingTx struct {
	Tx        json.RawMessage `json:"tx"`
	Signature json.RawMessage `json:"signature,omitempty"`
}

// IncomingTxBatch is the body of a batch submission. Member order defines
// the batch hash.
type IncomingTxBatch struct {
	Txs        []json.RawMessage `json:"txs"`
	Signatures []json.RawMessage `json:"signatures,omitempty"`
}

func (s *Server) handleSubmitTx(w http.ResponseWriter, r *http.Request) {
	var body IncomingTx
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ERROR(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	hash, err := s.sender.SubmitTx(r.Context(), body.Tx, body.Signature)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	JSON(w, http.StatusOK, hash)
}

func (s *Server) handleTxStatus(w http.ResponseWriter, r *http.Request) {
	hash, err := domain.ParseTxHash(chi.URLParam(r, "txHash"))
	if err != nil {
		ERROR(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	receipt, err := s.resolver.TxStatus(r.Context(), hash)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	if receipt == nil {
		JSON(w, http.StatusOK, nil)
		return
	}
	JSON(w, http.StatusOK, receipt)
}

func (s *Server) handleTxData(w http.ResponseWriter, r *http.Request) {
	hash, err := domain.ParseTxHash(chi.URLParam(r, "txHash"))
	if err != nil {
		ERROR(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	data, err := s.resolver.TxData(r.Context(), hash)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	if data == nil {
		JSON(w, http.StatusOK, nil)
		return
	}
	JSON(w, http.StatusOK, data)
}

func (s *Server) handleSubmitBatch(w http.ResponseWriter, r *http.Request) {
	var body IncomingTxBatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ERROR(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if len(body.Txs) == 0 {
		ERROR(w, http.StatusBadRequest, "bad_request", errors.New("empty transaction batch"))
		return
	}

	resp, err := s.sender.SubmitBatch(r.Context(), body.Txs, body.Signatures)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchHash, err := domain.ParseTxHash(chi.URLParam(r, "batchHash"))
	if err != nil {
		ERROR(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	batch, err := s.resolver.BatchInfo(r.Context(), batchHash)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	if batch == nil {
		JSON(w, http.StatusOK, nil)
		return
	}
	JSON(w, http.StatusOK, batch)
}
