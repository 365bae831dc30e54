package shaped

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/model"
	"github.com/shaped-ai/relay/pkg/domain/types"
)

const (
	// DefaultBaseURL is the hosted Shaped API endpoint
	DefaultBaseURL = "https://api.shaped.ai/v1"

	// DefaultTimeout bounds every remote call. Timeout expiry is treated
	// as a normal remote failure by callers.
	DefaultTimeout = 10 * time.Second

	apiKeyHeader = "x-api-key"
)

// Service is the client interface to the hosted relevance API
type Service interface {
	Query(ctx context.Context, modelName string, req *QueryRequest) (*QueryResponse, error)
	Retrieve(ctx context.Context, modelName string, payload map[string]any) (json.RawMessage, error)
	SimilarItems(ctx context.Context, modelName string, itemID types.ItemID) (json.RawMessage, error)
	InsertEvents(ctx context.Context, dataset string, events []model.TrackEvent) error
}

// client implements Service
type client struct {
	http     *http.Client
	baseURL  string
	apiKey   string `masq:"secret"`
	writeKey string `masq:"secret"`
}

// Option configures the client
type Option func(*client)

// WithBaseURL overrides the API endpoint (used in tests)
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithWriteAPIKey sets a separate key for event inserts. When unset,
// the read key is used for writes as well.
func WithWriteAPIKey(key string) Option {
	return func(c *client) {
		c.writeKey = key
	}
}

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.http.Timeout = d
	}
}

// New creates a new Shaped API client with the provided read API key
func New(apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("Shaped API key is required")
	}

	c := &client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.writeKey == "" {
		c.writeKey = c.apiKey
	}

	return c, nil
}

func (c *client) Query(ctx context.Context, modelName string, req *QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	url := fmt.Sprintf("%s/models/%s/query", c.baseURL, modelName)
	if err := c.post(ctx, url, c.apiKey, req, &resp); err != nil {
		return nil, goerr.Wrap(err, "query failed", goerr.V("model", modelName))
	}
	return &resp, nil
}

func (c *client) Retrieve(ctx context.Context, modelName string, payload map[string]any) (json.RawMessage, error) {
	var resp json.RawMessage
	url := fmt.Sprintf("%s/models/%s/retrieve", c.baseURL, modelName)
	if err := c.post(ctx, url, c.apiKey, payload, &resp); err != nil {
		return nil, goerr.Wrap(err, "retrieve failed", goerr.V("model", modelName))
	}
	return resp, nil
}

func (c *client) SimilarItems(ctx context.Context, modelName string, itemID types.ItemID) (json.RawMessage, error) {
	body := map[string]any{
		"item_id":         itemID.String(),
		"return_metadata": true,
	}

	var resp json.RawMessage
	url := fmt.Sprintf("%s/models/%s/similar_items", c.baseURL, modelName)
	if err := c.post(ctx, url, c.apiKey, body, &resp); err != nil {
		return nil, goerr.Wrap(err, "similar_items failed",
			goerr.V("model", modelName), goerr.V("item_id", itemID))
	}
	return resp, nil
}

func (c *client) InsertEvents(ctx context.Context, dataset string, events []model.TrackEvent) error {
	if len(events) == 0 {
		return nil
	}

	body := map[string]any{"data": events}
	url := fmt.Sprintf("%s/datasets/%s/insert", c.baseURL, dataset)
	if err := c.post(ctx, url, c.writeKey, body, nil); err != nil {
		return goerr.Wrap(err, "event insert failed",
			goerr.V("dataset", dataset), goerr.V("count", len(events)))
	}
	return nil
}

// post sends a JSON request and decodes the response into out (skipped
// when out is nil). Non-2xx responses become errors carrying the status
// and a bounded slice of the body for server-side logging only.
func (c *client) post(ctx context.Context, url, apiKey string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return goerr.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("remote service error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(errBody)),
		)
	}

	if out == nil {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response")
	}
	return nil
}
