package actionqueue

// NewSerialQueue creates a queue running actions one at a time, in list
// order. The next action starts only after the previous one settled,
// unless cancellation was requested in between.
func NewSerialQueue(actions ...Action) *SerialQueue {
	return &SerialQueue{NewParallelQueue(1, actions...)}
}

// SerialQueue ParallelQueue restricted to a single action in flight.
type SerialQueue struct {
	*ParallelQueue
}

// CurrentAction returns the action currently running, nil when none.
func (q *SerialQueue) CurrentAction() Action {
	if actions := q.RunningActions(); len(actions) > 0 {
		return actions[0]
	}
	return nil
}
