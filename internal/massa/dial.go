package massa

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// DefaultPort is the node's public API port.
const DefaultPort uint16 = 33035

type dialConfig struct {
	websocket   bool
	wsConfig    *WSConfig
	httpOptions []HTTPOption
	observer    CallObserver
}

// DialOption configures Dial.
type DialOption func(*dialConfig)

// WithWebSocket selects the WebSocket transport.
func WithWebSocket(cfg *WSConfig) DialOption {
	return func(c *dialConfig) {
		c.websocket = true
		c.wsConfig = cfg
	}
}

// WithHTTPOptions passes options to the HTTP transport.
func WithHTTPOptions(opts ...HTTPOption) DialOption {
	return func(c *dialConfig) {
		c.httpOptions = append(c.httpOptions, opts...)
	}
}

// WithObserver reports every call to o.
func WithObserver(o CallObserver) DialOption {
	return func(c *dialConfig) {
		c.observer = o
	}
}

// Dial connects to the node at host:port and returns a typed client.
// An unreachable node yields a *ConnectError; callers treat it as fatal.
func Dial(ctx context.Context, host string, port uint16, opts ...DialOption) (*Client, error) {
	var cfg dialConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	hostPort := net.JoinHostPort(host, strconv.Itoa(int(port)))

	var t Transport
	if cfg.websocket {
		ws, err := DialWS(ctx, "ws://"+hostPort, cfg.wsConfig)
		if err != nil {
			return nil, err
		}
		t = ws
	} else {
		endpoint := "http://" + hostPort
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", hostPort)
		if err != nil {
			return nil, &ConnectError{Endpoint: endpoint, Err: fmt.Errorf("tcp dial: %w", err)}
		}
		conn.Close()
		t = NewHTTPTransport(endpoint, cfg.httpOptions...)
	}

	if cfg.observer != nil {
		t = observedTransport{Transport: t, observer: cfg.observer}
	}
	return NewClient(t), nil
}
