package testsupport

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/goliatone/go-formstate/pkg/transport"
)

// Call records one request made through a Transport.
type Call struct {
	Method string
	Path   string
	Params url.Values
	Body   any
}

// Transport is a scriptable transport.Transport that records every call.
// Unset hooks fail with ErrUnscripted.
type Transport struct {
	GetFunc  func(ctx context.Context, path string, params url.Values) (transport.Payload, error)
	PostFunc func(ctx context.Context, path string, body any) (transport.Payload, error)
	PutFunc  func(ctx context.Context, path string, body any) (transport.Payload, error)

	mu    sync.Mutex
	calls []Call
}

// ErrUnscripted is returned by hooks the test did not configure.
var ErrUnscripted = errors.New("testsupport: call not scripted")

var _ transport.Transport = (*Transport)(nil)

// EchoTransport answers POST and PUT with the submitted body wrapped in a
// data envelope.
func EchoTransport() *Transport {
	echo := func(_ context.Context, _ string, body any) (transport.Payload, error) {
		return map[string]any{"data": body}, nil
	}
	return &Transport{PostFunc: echo, PutFunc: echo}
}

// FailingTransport rejects submissions with a 422 carrying the given field
// errors and message.
func FailingTransport(message string, fieldErrors map[string][]string) *Transport {
	fail := func(context.Context, string, any) (transport.Payload, error) {
		return nil, &transport.Error{
			Status:  http.StatusUnprocessableEntity,
			Message: message,
			Errors:  fieldErrors,
		}
	}
	return &Transport{PostFunc: fail, PutFunc: fail}
}

func (t *Transport) Get(ctx context.Context, path string, params url.Values) (transport.Payload, error) {
	t.record(Call{Method: http.MethodGet, Path: path, Params: params})
	if t.GetFunc == nil {
		return nil, ErrUnscripted
	}
	return t.GetFunc(ctx, path, params)
}

func (t *Transport) Post(ctx context.Context, path string, body any) (transport.Payload, error) {
	t.record(Call{Method: http.MethodPost, Path: path, Body: body})
	if t.PostFunc == nil {
		return nil, ErrUnscripted
	}
	return t.PostFunc(ctx, path, body)
}

func (t *Transport) Put(ctx context.Context, path string, body any) (transport.Payload, error) {
	t.record(Call{Method: http.MethodPut, Path: path, Body: body})
	if t.PutFunc == nil {
		return nil, ErrUnscripted
	}
	return t.PutFunc(ctx, path, body)
}

// Calls returns a copy of the recorded calls in order.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Count returns how many calls used method.
func (t *Transport) Count(method string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, call := range t.calls {
		if call.Method == method {
			n++
		}
	}
	return n
}

func (t *Transport) record(call Call) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, call)
}
