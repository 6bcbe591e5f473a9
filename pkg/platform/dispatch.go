package platform

import (
	"context"
	"sync"
)

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch sets the function used to schedule callbacks on the UI
// sequence. Registry, adapter and dispatcher state is only touched from there.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules a callback to run on the UI sequence.
// Returns true if the callback was successfully scheduled, false if no dispatch function
// is registered or the callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// Invoke runs fn on the UI sequence and waits for it to finish.
// Without a registered dispatch function fn runs on the calling goroutine.
// If ctx ends first Invoke returns ctx.Err(); fn may still run later.
func Invoke(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	scheduled := Dispatch(func() {
		defer close(done)
		fn()
	})
	if !scheduled {
		fn()
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
