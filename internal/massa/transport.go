package massa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Transport errors.
var (
	// ErrConnect is wrapped by every ConnectError.
	ErrConnect = errors.New("unable to connect to node")

	// ErrClosed is returned for calls on a closed or dropped transport.
	ErrClosed = errors.New("transport closed")
)

// Transport performs one JSON-RPC 2.0 round trip per Call.
// params is always sent as a JSON array; result receives the decoded
// "result" member and may be nil.
type Transport interface {
	Call(ctx context.Context, method string, params []any, result any) error
	Close() error
}

// CallObserver receives the outcome of every RPC call.
type CallObserver interface {
	ObserveCall(method string, elapsed time.Duration, err error)
}

// Call invokes method with params and decodes the result as R.
// Every typed client method goes through Call.
func Call[R any](ctx context.Context, t Transport, method string, params ...any) (R, error) {
	var result R
	if params == nil {
		params = []any{}
	}
	if err := t.Call(ctx, method, params, &result); err != nil {
		var zero R
		return zero, err
	}
	return result, nil
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcErrorObject `json:"error,omitempty"`

	// hasResult is set when the "result" member is present, even as null.
	hasResult bool
}

// UnmarshalJSON implements json.Unmarshaler. Anything other than a JSON
// object is rejected.
func (r *rpcResponse) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	if members == nil {
		return errors.New("response is not a JSON object")
	}

	type plain rpcResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = rpcResponse(p)
	_, r.hasResult = members["result"]
	return nil
}

// rpcErrorObject represents a JSON-RPC 2.0 error member.
type rpcErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newRequest(id uint64, method string, params []any) rpcRequest {
	if params == nil {
		params = []any{}
	}
	return rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
}

// decodeResult turns the response to request id into the caller's result
// or an RPCError. A success response must carry a result member and echo id;
// error responses are reported as node errors whatever their id.
func decodeResult(method string, id uint64, resp *rpcResponse, result any) error {
	if resp.Error != nil {
		return &RPCError{Method: method, Code: resp.Error.Code, Message: resp.Error.Message}
	}
	if !resp.hasResult {
		return newRPCError(method, "malformed response", errors.New("neither result nor error present"))
	}
	if resp.ID != id {
		return newRPCError(method, "malformed response", fmt.Errorf("response id %d does not match request id %d", resp.ID, id))
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return newRPCError(method, "unmarshal result", err)
		}
	}
	return nil
}

// RPCError is the uniform per-call failure. Code and Message come from the
// node's error object; Err is set for transport and decoding failures.
type RPCError struct {
	Method  string
	Code    int
	Message string
	Err     error
}

func newRPCError(method, step string, err error) *RPCError {
	return &RPCError{Method: method, Message: fmt.Sprintf("%s: %v", step, err), Err: err}
}

func (e *RPCError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rpc %s: node error %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("rpc %s: %s", e.Method, e.Message)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}

// IsNodeError reports whether the node answered with a JSON-RPC error object.
func (e *RPCError) IsNodeError() bool {
	return e.Err == nil
}

// ConnectError is returned when the initial connection cannot be established.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%v at %s: %v", ErrConnect, e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() []error {
	return []error{ErrConnect, e.Err}
}

// observedTransport reports every call to a CallObserver.
type observedTransport struct {
	Transport
	observer CallObserver
}

func (t observedTransport) Call(ctx context.Context, method string, params []any, result any) error {
	start := time.Now()
	err := t.Transport.Call(ctx, method, params, result)
	t.observer.ObserveCall(method, time.Since(start), err)
	return err
}
