package massa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 30 * time.Second

// HTTPTransport implements Transport over HTTP JSON-RPC 2.0.
// The underlying http.Client keeps its connection alive between calls.
type HTTPTransport struct {
	endpoint  string
	client    *http.Client
	requestID atomic.Uint64
}

// HTTPOption configures HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// NewHTTPTransport creates a transport posting to endpoint.
// It does not contact the node; use Dial for a checked connection.
func NewHTTPTransport(endpoint string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Endpoint returns the URL requests are posted to.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Call performs a single JSON-RPC call. Failures are never retried.
func (t *HTTPTransport) Call(ctx context.Context, method string, params []any, result any) error {
	reqID := t.requestID.Add(1)
	body, err := json.Marshal(newRequest(reqID, method, params))
	if err != nil {
		return newRPCError(method, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return newRPCError(method, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return newRPCError(method, "http request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newRPCError(method, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return newRPCError(method, "http status", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return newRPCError(method, "unmarshal response", err)
	}

	return decodeResult(method, reqID, &rpcResp, result)
}

// Close releases idle keep-alive connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
