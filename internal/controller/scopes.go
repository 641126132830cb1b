package controller

import (
	"context"
	"sync"
)

// Scopes tracks one cancellable context per open view. Opening a view again,
// or closing it, cancels whatever the previous instance still had in flight.
type Scopes struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewScopes creates an empty registry
func NewScopes() *Scopes {
	return &Scopes{cancels: make(map[string]context.CancelFunc)}
}

// Open returns a context for view derived from parent, cancelling the
// previous context for the same view
func (s *Scopes) Open(parent context.Context, view string) context.Context {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	prev := s.cancels[view]
	s.cancels[view] = cancel
	s.mu.Unlock()
	if prev != nil {
		prev()
	}
	return ctx
}

// Close cancels the context of view
func (s *Scopes) Close(view string) {
	s.mu.Lock()
	cancel := s.cancels[view]
	delete(s.cancels, view)
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// CloseAll cancels every open view
func (s *Scopes) CloseAll() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = make(map[string]context.CancelFunc)
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Resetter is a store that can return to its initial state
type Resetter interface {
	Reset()
}

// ForgetAll cancels every open view and then resets stores, so nothing loaded
// under the previous credential survives or arrives late.
func ForgetAll(scopes *Scopes, stores ...Resetter) {
	scopes.CloseAll()
	for _, st := range stores {
		st.Reset()
	}
}
