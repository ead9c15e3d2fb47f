package massa

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu      sync.Mutex
	methods []string
	errs    []error
}

func (o *recordingObserver) ObserveCall(method string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.methods = append(o.methods, method)
	o.errs = append(o.errs, err)
}

func splitHostPort(t *testing.T, rawURL string) (string, uint16) {
	u := rawURL[len("http://"):]
	host, portStr, err := net.SplitHostPort(u)
	require.NoError(t, err)
	port, err := strconv.ParseUint(portStr, 10, 16)
	require.NoError(t, err)
	return host, uint16(port)
}

func TestDial_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	}))
	defer server.Close()

	host, port := splitHostPort(t, server.URL)
	observer := &recordingObserver{}

	client, err := Dial(context.Background(), host, port, WithObserver(observer))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.StopNode(context.Background()))
	assert.Equal(t, []string{"stop_node"}, observer.methods)
	assert.Equal(t, []error{nil}, observer.errs)
}

func TestDial_WebSocket(t *testing.T) {
	server := newWSEchoServer(t)
	defer server.Close()

	host, port := splitHostPort(t, server.URL)

	client, err := Dial(context.Background(), host, port, WithWebSocket(nil))
	require.NoError(t, err)
	defer client.Close()

	_, ok := client.Transport().(*WSTransport)
	assert.True(t, ok, "expected WebSocket transport")
}

func TestDial_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host, port := splitHostPort(t, server.URL)
	server.Close()

	_, err := Dial(context.Background(), host, port)

	var connErr *ConnectError
	require.True(t, errors.As(err, &connErr), "expected *ConnectError, got %v", err)
	assert.True(t, errors.Is(err, ErrConnect))
	assert.Contains(t, connErr.Endpoint, "http://")
}
