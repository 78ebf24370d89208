package actionqueue

import (
	"sync"
)

// StartCallback observes an action being started; index is the action's
// position in the queue's list.
type StartCallback func(index int, action Action)

// DoneCallback observes an action settling with its result.
type DoneCallback func(index int, action Action, ok bool, err error)

func newCallbackController() *callbackController {
	return &callbackController{mu: new(sync.RWMutex)}
}

type callbackController struct {
	mu      *sync.RWMutex
	onStart []StartCallback
	onDone  []DoneCallback
}

func (c *callbackController) RegisterStart(calls ...StartCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStart = append(c.onStart, calls...)
}
func (c *callbackController) RegisterDone(calls ...DoneCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = append(c.onDone, calls...)
}
func (c *callbackController) Start() []StartCallback {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onStart
}
func (c *callbackController) Done() []DoneCallback {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onDone
}
