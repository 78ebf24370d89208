package actionqueue

import (
	"context"
	"sync"
)

// NeverCanceled is the token for callers that do not care about
// cancellation; its Canceled is permanently false.
var NeverCanceled CancelToken = neverCanceled{}

type neverCanceled struct{}

func (neverCanceled) Canceled() bool { return false }

// ContextToken returns a token view of ctx.
func ContextToken(ctx context.Context) CancelToken { return ctxToken{ctx} }

type ctxToken struct{ ctx context.Context }

func (t ctxToken) Canceled() bool { return t.ctx.Err() != nil }

// NewCancelSource creates a cancel source. The source counts as cancelled
// after its own Cancel call, once ctx is done, or while any parent token
// reports cancelled. Parents are polled on every query, so the source's
// token is a live view, not a snapshot.
func NewCancelSource(ctx context.Context, parents ...CancelToken) *CancelSource {
	if ctx == nil {
		ctx = context.Background()
	}
	c, cancel := context.WithCancel(ctx)
	return &CancelSource{
		ctx:        c,
		cancelFunc: cancel,
		parents:    parents,
		mu:         new(sync.RWMutex),
	}
}

// CancelSource owner side of a cancellation token.
type CancelSource struct {
	ctx        context.Context
	cancelFunc context.CancelFunc

	parents []CancelToken

	mu       *sync.RWMutex
	canceled bool
}

// Cancel requests cancellation. Idempotent. Flips the source and its
// derived context into the cancelled state, nothing else.
func (s *CancelSource) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
	s.cancelFunc()
}

// Canceled reports whether cancellation has been requested on this
// source, its context, or any parent token.
func (s *CancelSource) Canceled() bool {
	s.mu.RLock()
	canceled := s.canceled
	s.mu.RUnlock()
	if canceled || s.ctx.Err() != nil {
		return true
	}
	for _, parent := range s.parents {
		if parent != nil && parent.Canceled() {
			return true
		}
	}
	return false
}

// Release frees the derived context's hold on its parent. For owners that
// are done with the source; the derived context becomes done, so a
// released source counts as cancelled to anyone still polling it.
func (s *CancelSource) Release() { s.cancelFunc() }

// Token returns the source's cancellation view.
func (s *CancelSource) Token() CancelToken { return token{s} }

// Context returns the context that is cancelled together with the source.
func (s *CancelSource) Context() context.Context { return s.ctx }

type token struct{ src *CancelSource }

func (t token) Canceled() bool { return t.src.Canceled() }
