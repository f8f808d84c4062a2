// Package mock provides a state-based api.Registrar for tests.
//
//	reg := mock.NewRegistrar()
//	reg.RegisterFunc = func(ctx context.Context, v registration.Values) (string, error) {
//	    return "", &api.ServerError{StatusCode: 409, Message: "username taken"}
//	}
//
// Block holds every call until Release is called, which lets tests observe
// the form while a submit is in flight.
package mock

import (
	"context"
	"sync"

	"github.com/zjrosen/signup/internal/registration"
)

// Registrar records calls and answers with RegisterFunc, or "ok" when unset.
type Registrar struct {
	// RegisterFunc is called when Register is invoked.
	RegisterFunc func(ctx context.Context, values registration.Values) (string, error)

	mu    sync.Mutex
	calls []registration.Values
	gate  chan struct{}
}

// NewRegistrar returns a Registrar that accepts everything.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// Register implements api.Registrar.
func (r *Registrar) Register(ctx context.Context, values registration.Values) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, values)
	gate := r.gate
	fn := r.RegisterFunc
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if fn != nil {
		return fn(ctx, values)
	}
	return "ok", nil
}

// Block makes subsequent calls wait for Release.
func (r *Registrar) Block() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gate == nil {
		r.gate = make(chan struct{})
	}
}

// Release lets blocked calls through.
func (r *Registrar) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gate != nil {
		close(r.gate)
		r.gate = nil
	}
}

// Calls returns the values of every Register call so far.
func (r *Registrar) Calls() []registration.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]registration.Values, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallCount returns how many times Register was called.
func (r *Registrar) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
