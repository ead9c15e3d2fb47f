package massa

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig configures WSTransport behavior.
type WSConfig struct {
	// HandshakeTimeout bounds the initial WebSocket handshake.
	HandshakeTimeout time.Duration
	// WriteTimeout is timeout for writing one request.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// WSTransport implements Transport over a single WebSocket connection.
// Concurrent calls are multiplexed by request id. Once the connection
// drops every pending and later call fails with an RPCError wrapping
// ErrClosed; the transport does not reconnect.
type WSTransport struct {
	endpoint string
	config   WSConfig

	conn      *websocket.Conn
	writeMu   sync.Mutex
	requestID atomic.Uint64

	// pending maps request ID to the channel waiting for its response
	pending   map[uint64]chan *rpcResponse
	pendingMu sync.Mutex

	closed    atomic.Bool
	closing   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	readErr   error
	wg        sync.WaitGroup
}

// DialWS connects to endpoint and starts the read loop.
func DialWS(ctx context.Context, endpoint string, config *WSConfig) (*WSTransport, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, &ConnectError{Endpoint: endpoint, Err: fmt.Errorf("websocket dial: %w", err)}
	}

	t := &WSTransport{
		endpoint: endpoint,
		config:   cfg,
		conn:     conn,
		pending:  make(map[uint64]chan *rpcResponse),
		done:     make(chan struct{}),
	}

	t.wg.Add(1)
	go t.readLoop()

	return t, nil
}

// Endpoint returns the WebSocket URL.
func (t *WSTransport) Endpoint() string {
	return t.endpoint
}

// Call sends one request and waits for the matching response.
func (t *WSTransport) Call(ctx context.Context, method string, params []any, result any) error {
	if t.closed.Load() {
		return newRPCError(method, "send", t.closeReason())
	}

	reqID := t.requestID.Add(1)
	respCh := make(chan *rpcResponse, 1)

	t.pendingMu.Lock()
	t.pending[reqID] = respCh
	t.pendingMu.Unlock()
	defer t.forget(reqID)

	t.writeMu.Lock()
	if t.config.WriteTimeout > 0 {
		t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
	}
	err := t.conn.WriteJSON(newRequest(reqID, method, params))
	t.writeMu.Unlock()
	if err != nil {
		return newRPCError(method, "write request", err)
	}

	select {
	case resp := <-respCh:
		return decodeResult(method, reqID, resp, result)
	case <-t.done:
		return newRPCError(method, "await response", t.closeReason())
	case <-ctx.Done():
		return newRPCError(method, "await response", ctx.Err())
	}
}

// Close closes the WebSocket connection and waits for the read loop.
func (t *WSTransport) Close() error {
	if t.closing.Swap(true) {
		t.wg.Wait()
		return nil
	}
	t.closed.Store(true)

	t.writeMu.Lock()
	t.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.writeMu.Unlock()

	err := t.conn.Close()
	t.shutdown(ErrClosed)
	t.wg.Wait()
	return err
}

// readLoop reads responses and dispatches them to waiting calls.
func (t *WSTransport) readLoop() {
	defer t.wg.Done()

	for {
		_, message, err := t.conn.ReadMessage()
		if err != nil {
			t.closed.Store(true)
			t.shutdown(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}

		var resp rpcResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			// Not a response we can route; drop it.
			continue
		}

		// The first response for an id wins; repeats find no waiter.
		t.pendingMu.Lock()
		ch, ok := t.pending[resp.ID]
		delete(t.pending, resp.ID)
		t.pendingMu.Unlock()
		if ok {
			ch <- &resp
		}
	}
}

// shutdown records why the transport stopped and wakes all waiters.
func (t *WSTransport) shutdown(reason error) {
	t.closeOnce.Do(func() {
		t.pendingMu.Lock()
		t.readErr = reason
		t.pendingMu.Unlock()
		close(t.done)
	})
}

func (t *WSTransport) closeReason() error {
	t.pendingMu.Lock()
	defer t.pendingMu.Unlock()
	if t.readErr != nil {
		return t.readErr
	}
	return ErrClosed
}

func (t *WSTransport) forget(reqID uint64) {
	t.pendingMu.Lock()
	delete(t.pending, reqID)
	t.pendingMu.Unlock()
}
