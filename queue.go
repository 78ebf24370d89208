// Package actionqueue runs ordered batches of asynchronous actions with a
// bounded number of them in flight, aggregating weighted progress and
// collecting errors until every started action has settled.
package actionqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riverchu/pkg/log"
	"github.com/riverchu/pkg/pools"
	"golang.org/x/time/rate"
)

// NewParallelQueue creates a queue running actions with at most
// concurrency of them in flight at once. The action list and the
// concurrency are fixed for the queue's lifetime.
//
// Panics when concurrency <= 0.
func NewParallelQueue(concurrency int, actions ...Action) *ParallelQueue {
	if concurrency <= 0 {
		panic("actionqueue: concurrency must be > 0")
	}
	var total float64
	for _, action := range actions {
		total += actionWeight(action)
	}
	return &ParallelQueue{
		concurrency: concurrency,
		actions:     actions,
		totalWeight: total,
		limiter:     rate.NewLimiter(rate.Inf, 0),
		callbacks:   newCallbackController(),
		mu:          new(sync.RWMutex),
	}
}

// ParallelQueue bounded-concurrency action runner.
type ParallelQueue struct {
	concurrency int
	actions     []Action
	totalWeight float64

	callbacks *callbackController

	mu         *sync.RWMutex
	limiter    *rate.Limiter
	state      queueState
	inflight   map[int]Action
	order      []int
	doneWeight float64
	errs       []error
	lastRun    *RunInfo
}

type queueState int

const (
	stateIdle queueState = iota
	stateRunning
)

// RunInfo bookkeeping of a finished run.
type RunInfo struct {
	Token     string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
}

// Run executes all actions and reports whether every action succeeded and
// no cancellation was requested. The caller stops a run in flight through
// ctx or token (pass NeverCanceled or nil when unused); the first failing
// action also cancels the batch. Cancellation only prevents new starts,
// actions already in flight are always drained to settlement.
//
// Errors raised by individual actions never surface early: they are
// aggregated into a single *RunError returned once the whole batch has
// settled. Calling Run while the queue is already running is a no-op
// returning true.
func (q *ParallelQueue) Run(ctx context.Context, token CancelToken) (bool, error) {
	if token == nil {
		token = NeverCanceled
	}

	q.mu.Lock()
	if q.state == stateRunning {
		q.mu.Unlock()
		return true, nil
	}
	q.state = stateRunning
	q.inflight = make(map[int]Action, q.concurrency)
	q.order = q.order[:0]
	q.doneWeight = 0
	q.errs = nil
	q.mu.Unlock()

	src := NewCancelSource(ctx, token)
	info := &RunInfo{Token: uuid.New().String(), StartTime: time.Now()}
	log.Info("queue run %s: %d actions, concurrency %d", info.Token, len(q.actions), q.concurrency)

	pool := pools.NewPool(q.concurrency)
	q.schedule(src, pool)
	pool.WaitAll()

	success := !src.Canceled()
	src.Release()
	info.EndTime = time.Now()
	info.Success = success

	q.mu.Lock()
	q.state = stateIdle
	q.lastRun = info
	errs := q.errs
	q.mu.Unlock()

	log.Info("queue run %s done: success=%t errors=%d", info.Token, success, len(errs))

	if len(errs) > 0 {
		return false, &RunError{Errs: errs}
	}
	return success, nil
}

// schedule starts actions in list order: the pool gates the concurrency
// cap, the limiter the start rate. No action starts once cancellation is
// requested; actions already started are left to finish on their own.
func (q *ParallelQueue) schedule(src *CancelSource, pool pools.Pool) {
	for index, action := range q.actions {
		if err := q.getLimiter().Wait(src.Context()); err != nil {
			return
		}

		select {
		case <-pool.AsyncWait():
		case <-src.Context().Done():
			return
		}

		// A freed slot and a cancellation may arrive together, and
		// poll-only parent tokens never fire the context. Re-check
		// before committing the start.
		if src.Canceled() {
			pool.Done()
			return
		}

		q.track(index, action)
		go q.exec(src, pool, index, action)
	}
}

func (q *ParallelQueue) track(index int, action Action) {
	q.mu.Lock()
	q.inflight[index] = action
	q.order = append(q.order, index)
	q.mu.Unlock()

	for _, call := range q.callbacks.Start() {
		call(index, action)
	}
}

func (q *ParallelQueue) exec(src *CancelSource, pool pools.Pool, index int, action Action) {
	defer pool.Done()

	ok, err := q.runAction(src, index, action)
	if err != nil {
		log.Warn("queue action failed: %s", err)
		ok = false
	}

	q.settle(src, index, action, ok, err)

	for _, call := range q.callbacks.Done() {
		call(index, action, ok, err)
	}
}

// runAction invokes the action, converting a panic into an error so that
// every started action settles exactly once.
func (q *ParallelQueue) runAction(src *CancelSource, index int, action Action) (ok bool, err error) {
	defer func() {
		if e := recover(); e != nil {
			log.Error("action %d panic: %v\n%s", index, e, catchStack())
			ok, err = false, fmt.Errorf("action %d panic: %v", index, e)
		}
	}()
	ok, err = action.Run(src.Context(), src.Token())
	if err != nil {
		err = fmt.Errorf("action %d: %w", index, err)
	}
	return ok, err
}

func (q *ParallelQueue) settle(src *CancelSource, index int, action Action, ok bool, err error) {
	q.mu.Lock()
	delete(q.inflight, index)
	for i, idx := range q.order {
		if idx == index {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	if err != nil {
		q.errs = append(q.errs, err)
	}
	if ok {
		q.doneWeight += actionWeight(action)
	}
	q.mu.Unlock()

	if !ok {
		src.Cancel()
	}
}

// Progress aggregated weighted completion in [0, 1]. Actions in flight
// contribute their current Progress scaled by their weight, successfully
// finished actions their full weight. A queue without actions reports 1.
func (q *ParallelQueue) Progress() float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.totalWeight == 0 {
		return 1
	}
	progress := q.doneWeight
	for _, index := range q.order {
		action := q.actions[index]
		progress += actionWeight(action) * actionProgress(action)
	}
	return progress / q.totalWeight
}

// RunningActions returns the actions currently in flight, in start order.
func (q *ParallelQueue) RunningActions() []Action {
	q.mu.RLock()
	defer q.mu.RUnlock()
	actions := make([]Action, 0, len(q.order))
	for _, index := range q.order {
		actions = append(actions, q.inflight[index])
	}
	return actions
}

// RunningCount number of actions currently in flight.
func (q *ParallelQueue) RunningCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.inflight)
}

// IsRunning reports whether a run is in progress.
func (q *ParallelQueue) IsRunning() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state == stateRunning
}

// LastRun returns info of the most recently finished run, nil before the
// first run completes.
func (q *ParallelQueue) LastRun() *RunInfo {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.lastRun
}

// SetRateLimit caps how fast new actions may start. The default is
// unlimited.
func (q *ParallelQueue) SetRateLimit(r rate.Limit, b int) {
	if b < 1 {
		b = 1
	}
	limiter := rate.NewLimiter(r, b)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.limiter = limiter
}

func (q *ParallelQueue) getLimiter() *rate.Limiter {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.limiter
}

// OnActionStart registers callbacks observing each action start.
func (q *ParallelQueue) OnActionStart(calls ...StartCallback) {
	q.callbacks.RegisterStart(calls...)
}

// OnActionDone registers callbacks observing each action settlement.
func (q *ParallelQueue) OnActionDone(calls ...DoneCallback) {
	q.callbacks.RegisterDone(calls...)
}
