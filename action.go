package actionqueue

import (
	"context"
	"sync"
	"time"
)

var _ Action = ActionFunc(nil)

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(ctx context.Context, token CancelToken) (bool, error)

// Run calls f.
func (f ActionFunc) Run(ctx context.Context, token CancelToken) (bool, error) {
	return f(ctx, token)
}

var (
	_ Action           = new(DelayAction)
	_ ProgressReporter = new(DelayAction)
	_ WeightedAction   = new(DelayAction)
)

// NewDelayAction creates an action that succeeds after waiting d.
func NewDelayAction(d time.Duration) *DelayAction {
	return NewWeightedDelayAction(d, 1)
}

// NewWeightedDelayAction creates an action that succeeds after waiting d
// and carries weight w in aggregated progress.
func NewWeightedDelayAction(d time.Duration, w float64) *DelayAction {
	return &DelayAction{duration: d, weight: w, mu: new(sync.RWMutex)}
}

// DelayAction action that succeeds after a fixed duration, or fails early
// when cancelled. Progress reports the elapsed fraction of the delay.
type DelayAction struct {
	duration time.Duration
	weight   float64

	mu      *sync.RWMutex
	started time.Time
	done    bool
}

// Run waits out the delay or the cancellation, whichever comes first.
func (a *DelayAction) Run(ctx context.Context, _ CancelToken) (bool, error) {
	a.mu.Lock()
	a.started = time.Now()
	a.done = false
	a.mu.Unlock()

	select {
	case <-time.After(a.duration):
		a.mu.Lock()
		a.done = true
		a.mu.Unlock()
		return true, nil
	case <-ctx.Done():
		return false, nil
	}
}

// Progress elapsed fraction of the delay, in [0, 1].
func (a *DelayAction) Progress() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.done {
		return 1
	}
	if a.started.IsZero() || a.duration <= 0 {
		return 0
	}
	if p := float64(time.Since(a.started)) / float64(a.duration); p < 1 {
		return p
	}
	return 1
}

// ProgressWeight the action's relative weight in aggregated progress.
func (a *DelayAction) ProgressWeight() float64 { return a.weight }
