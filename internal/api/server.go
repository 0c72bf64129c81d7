package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rollgate/rollgate/internal/core/domain"
	"github.com/rollgate/rollgate/internal/submit"
)

// TxResolver answers read requests. Nil results mean not found.
type TxResolver interface {
	TxStatus(ctx context.Context, hash domain.TxHash) (*domain.Receipt, error)
	TxData(ctx context.Context, hash domain.TxHash) (*domain.TxData, error)
	BatchInfo(ctx context.Context, batchHash domain.TxHash) (*domain.BatchInfo, error)
}

// TxSubmitter accepts new transactions and batches.
type TxSubmitter interface {
	SubmitTx(ctx context.Context, tx, signature json.RawMessage) (domain.TxHash, error)
	SubmitBatch(ctx context.Context, txs, signatures []json.RawMessage) (*submit.SubmitBatchResponse, error)
}

// Server is the HTTP API server.
type Server struct {
	r        chi.Router
	log      *slog.Logger
	resolver TxResolver
	sender   TxSubmitter
	srv      *http.Server
}

// ServerOpts holds API server configuration.
type ServerOpts struct {
	Logger   *slog.Logger
	Port     int
	Resolver TxResolver
	Sender   TxSubmitter
}

// NewServer creates the API server and wires its routes.
func NewServer(opts ServerOpts) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		log:      opts.Logger,
		resolver: opts.Resolver,
		sender:   opts.Sender,
	}
	s.routes()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: s.r,
	}
	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info("API server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ServeHTTP makes the server usable as a plain http.Handler in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

// Response is the envelope every endpoint returns. A not-found read is a
// success with a null result, distinct from an error.
type Response struct {
	Status string    `json:"status"`
	Result any       `json:"result"`
	Error  *APIError `json:"error,omitempty"`
}

// APIError carries the fault kind alongside the message so clients can tell
// an unavailable collaborator from corrupt data or a rejected submission.
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(Response{Status: "success", Result: data})
	if err != nil {
		fmt.Fprintf(w, "%s", err.Error())
	}
}

// ERROR writes an error envelope.
func ERROR(w http.ResponseWriter, statusCode int, kind string, err error) {
	w.WriteHeader(statusCode)
	encErr := json.NewEncoder(w).Encode(Response{
		Status: "error",
		Error:  &APIError{Kind: kind, Message: err.Error()},
	})
	if encErr != nil {
		fmt.Fprintf(w, "%s", encErr.Error())
	}
}

// writeFault maps the error taxonomy onto HTTP responses: rejected
// submissions are client errors, corrupt stored data is an internal fault
// scoped to the request, anything else is a failed collaborator.
func (s *Server) writeFault(w http.ResponseWriter, err error) {
	switch {
	case domain.IsSubmissionRejected(err):
		ERROR(w, http.StatusBadRequest, "submission_rejected", err)
	case domain.IsIntegrity(err):
		s.log.Error("stored data integrity fault", "error", err)
		ERROR(w, http.StatusInternalServerError, "integrity", err)
	default:
		s.log.Error("source unavailable", "error", err)
		ERROR(w, http.StatusBadGateway, "source_unavailable", err)
	}
}
