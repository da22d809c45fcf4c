// Package chain provides the read-only block explorer client used to
// cross-check outpoint-bound Color IDs against on-chain output scripts.
package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	klog "github.com/chaincolor/colorverd/internal/log"
	"github.com/chaincolor/colorverd/pkg/types"
	"github.com/rs/zerolog"
)

// ScriptFetcher is the collaborator interface consumed by the
// verification orchestrator: look up the script of one transaction
// output. Implementations make at most one outbound request per call
// and never retry.
type ScriptFetcher interface {
	OutputScript(ctx context.Context, txid types.Hash, index uint32) ([]byte, error)
}

// Lookup errors.
var (
	// ErrTxNotFound means the explorer does not know the transaction.
	ErrTxNotFound = errors.New("transaction not found")
	// ErrOutputMissing means the transaction exists but has no output
	// at the requested index.
	ErrOutputMissing = errors.New("output index out of range")
)

// NetworkError wraps a transport failure (connection, timeout, bad
// response). It is recoverable by the caller via re-submission and is
// never folded into a script mismatch.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("chain query %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// maxResponseSize bounds explorer responses (4 MB covers any tx).
const maxResponseSize = 4 << 20

// Client fetches output scripts from a block-explorer REST API
// (GET {base}/api/tx/{txid}).
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a client for the given explorer base URL.
func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, 10*time.Second)
}

// NewWithTimeout creates a client with a custom HTTP timeout. The
// timeout is the single bounded wait for the whole request.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		logger: klog.WithComponent("chain"),
	}
}

// txResponse is the subset of the explorer's transaction document we
// consume.
type txResponse struct {
	Vout []struct {
		ScriptPubKey string `json:"scriptpubkey"`
	} `json:"vout"`
}

// OutputScript returns the locking script recorded at txid:index.
func (c *Client) OutputScript(ctx context.Context, txid types.Hash, index uint32) ([]byte, error) {
	url := fmt.Sprintf("%s/api/tx/%s", c.baseURL, txid.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txid)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	var tx txResponse
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("decode response: %w", err)}
	}

	if int(index) >= len(tx.Vout) {
		return nil, fmt.Errorf("%w: tx %s has %d outputs, want index %d",
			ErrOutputMissing, txid, len(tx.Vout), index)
	}

	script, err := hex.DecodeString(tx.Vout[index].ScriptPubKey)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("script hex: %w", err)}
	}

	c.logger.Debug().
		Str("txid", txid.String()).
		Uint32("index", index).
		Int("script_len", len(script)).
		Msg("fetched output script")

	return script, nil
}
