package chain

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// RequestType tells the node how long to wait before answering.
const RequestType = "WaitForLocalExecution"

// TransactionOptions selects the parts of a TransactionResult returned by
// the node.
type TransactionOptions struct {
	ShowInput          bool `json:"showInput"`
	ShowRawInput       bool `json:"showRawInput"`
	ShowEffects        bool `json:"showEffects"`
	ShowEvents         bool `json:"showEvents"`
	ShowObjectChanges  bool `json:"showObjectChanges"`
	ShowBalanceChanges bool `json:"showBalanceChanges"`
	ShowRawEffects     bool `json:"showRawEffects"`
}

// DefaultTransactionOptions asks for what the escrow flow reads back.
var DefaultTransactionOptions = TransactionOptions{
	ShowEffects:       true,
	ShowRawEffects:    true,
	ShowObjectChanges: true,
}

// Client talks to a full node over JSON-RPC.
// A zero timeout means calls wait as long as their context allows.
type Client struct {
	rpc        *rpc.Client
	timeout    time.Duration
	httpClient *http.Client
	txOptions  TransactionOptions
	logger     *slog.Logger
}

type clientOption func(Client) Client

// WithTimeout bounds every call made by the client.
func WithTimeout(timeout time.Duration) clientOption {
	return func(c Client) Client {
		c.timeout = timeout
		return c
	}
}

// WithHTTPClient replaces the HTTP client used by Dial.
func WithHTTPClient(hc *http.Client) clientOption {
	return func(c Client) Client {
		c.httpClient = hc
		return c
	}
}

// WithTransactionOptions overrides DefaultTransactionOptions.
func WithTransactionOptions(opts TransactionOptions) clientOption {
	return func(c Client) Client {
		c.txOptions = opts
		return c
	}
}

// WithLogger sets the logger used for call tracing.
func WithLogger(logger *slog.Logger) clientOption {
	return func(c Client) Client {
		c.logger = logger
		return c
	}
}

func newClient(opts []clientOption) Client {
	c := Client{
		txOptions: DefaultTransactionOptions,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		c = opt(c)
	}
	return c
}

// Dial connects to the node at url.
func Dial(ctx context.Context, url string, opts ...clientOption) (*Client, error) {
	c := newClient(opts)
	var rpcOpts []rpc.ClientOption
	if c.httpClient != nil {
		rpcOpts = append(rpcOpts, rpc.WithHTTPClient(c.httpClient))
	}
	r, err := rpc.DialOptions(ctx, url, rpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.rpc = r
	return &c, nil
}

// NewClient wraps an already connected rpc client, e.g. an in-process one.
func NewClient(r *rpc.Client, opts ...clientOption) *Client {
	c := newClient(opts)
	c.rpc = r
	return &c
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// ExecuteTransactionBlock submits signed transaction bytes and waits for
// local execution.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes []byte, signatures []string) (*TransactionResult, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var result TransactionResult
	err := c.rpc.CallContext(ctx, &result, "sui_executeTransactionBlock",
		base64.StdEncoding.EncodeToString(txBytes),
		signatures,
		c.txOptions,
		RequestType,
	)
	if err != nil {
		return nil, fmt.Errorf("execute transaction block: %w", err)
	}
	c.logger.Debug("transaction executed", "digest", result.Digest, "changes", len(result.ObjectChanges))
	return &result, nil
}

// GetObject fetches the current state of an object.
func (c *Client) GetObject(ctx context.Context, id string, opts ObjectOptions) (*ObjectState, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	var state ObjectState
	if err := c.rpc.CallContext(ctx, &state, "sui_getObject", id, opts); err != nil {
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	return &state, nil
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}
