package coreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/rollgate/rollgate/internal/core/domain"
)

// Config holds core service client configuration.
type Config struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client talks to the remote core service: the component that owns the
// sequencer-side mempool and observes priority operations before they are
// durably indexed. One immutably-configured client is shared across all
// requests.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a core service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// OpLookupQuery selects the identifier space for an unconfirmed-op lookup.
// Exactly one field is set.
type OpLookupQuery struct {
	BySyncHash *domain.TxHash `json:"by_sync_hash,omitempty"`
	ByEthHash  *common.Hash   `json:"by_eth_hash,omitempty"`
}

// BySyncHash builds a lookup query in the sync-hash identifier space.
func BySyncHash(hash domain.TxHash) OpLookupQuery {
	return OpLookupQuery{BySyncHash: &hash}
}

// ByEthHash builds a lookup query in the Ethereum-hash identifier space.
func ByEthHash(hash common.Hash) OpLookupQuery {
	return OpLookupQuery{ByEthHash: &hash}
}

// SignedTx is a transaction plus its origin-chain signature, as forwarded to
// the core service. Both parts are carried opaquely.
type SignedTx struct {
	Tx        json.RawMessage `json:"tx"`
	Signature json.RawMessage `json:"signature,omitempty"`
}

type pendingOpResponse struct {
	SerialID uint64          `json:"serial_id"`
	EthHash  common.Hash     `json:"eth_hash"`
	EthBlock uint64          `json:"eth_block"`
	Data     json.RawMessage `json:"data"`
}

// GetUnconfirmedOp asks the core service for a priority operation it has
// observed but not yet handed to the indexer. Nil means the core service does
// not know the operation either.
func (c *Client) GetUnconfirmedOp(ctx context.Context, query OpLookupQuery) (*domain.PendingL1Op, error) {
	body, err := c.post(ctx, "/unconfirmed_op", query)
	if err != nil {
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	var resp pendingOpResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse unconfirmed op response: %w", err)
	}
	return &domain.PendingL1Op{
		SerialID: resp.SerialID,
		EthHash:  resp.EthHash,
		EthBlock: resp.EthBlock,
		Data:     resp.Data,
	}, nil
}

// SendTx forwards one signed transaction to the core service. A rejection
// reason from the core service surfaces as a domain.SubmissionError.
func (c *Client) SendTx(ctx context.Context, tx SignedTx) error {
	_, err := c.post(ctx, "/new_tx", tx)
	return err
}

type batchRequest struct {
	Txs        []SignedTx        `json:"txs"`
	Signatures []json.RawMessage `json:"signatures,omitempty"`
}

// SendTxsBatch forwards a batch, preserving member order, together with the
// batch-level signatures.
func (c *Client) SendTxsBatch(ctx context.Context, txs []SignedTx, signatures []json.RawMessage) error {
	_, err := c.post(ctx, "/new_txs_batch", batchRequest{Txs: txs, Signatures: signatures})
	return err
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("core api call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read core api response: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	// 4xx carries a structured rejection; anything else is a transport fault.
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var rejection struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &rejection); err == nil && rejection.Error != "" {
			return nil, &domain.SubmissionError{Reason: rejection.Error}
		}
	}
	return nil, fmt.Errorf("core api http %d: %s", resp.StatusCode, string(body))
}
