package actionqueue

import "context"

// Action a unit of asynchronous work managed by a queue.
type Action interface {
	// Run executes the action. The context is done and the token reports
	// cancelled once the owning queue wants the action to stop; checking
	// either is cooperative, the queue never aborts a started action.
	// Return false when the action did not succeed, return an error for
	// abnormal failures.
	Run(ctx context.Context, token CancelToken) (bool, error)
}

// ProgressReporter optional action capability: fractional completion.
type ProgressReporter interface {
	// Progress returns the action's completion in [0, 1].
	Progress() float64
}

// WeightedAction optional action capability: relative progress weight.
// Actions without it weigh 1 in aggregated progress.
type WeightedAction interface {
	ProgressWeight() float64
}

// CancelToken live cancellation signal, polled by whoever holds it.
type CancelToken interface {
	Canceled() bool
}
