package views

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned when a result arrives after its view was closed.
	ErrClosed = errors.New("view closed")
	// ErrInFlight rejects a second submission while the first is running.
	ErrInFlight = errors.New("submission already in progress")
)

// Scope is the lifetime of one mounted view.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
}

func Open(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context is cancelled when the scope closes.
func (s *Scope) Context() context.Context { return s.ctx }

func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.ctx.Err() != nil
}

// Apply runs fn unless the scope is closed and reports whether it ran.
// Close waits for a running fn.
func (s *Scope) Apply(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// Submit lets one submission through at a time.
type Submit struct {
	busy atomic.Bool
}

func (s *Submit) Run(fn func() error) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer s.busy.Store(false)
	return fn()
}

func (s *Submit) Busy() bool { return s.busy.Load() }
