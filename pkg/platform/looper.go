package platform

import (
	"context"
	"sync"

	"github.com/go-drift/textfield/pkg/errors"
)

// Looper is the single logical UI sequence. Callbacks posted from any
// goroutine run one at a time, in posting order, on the goroutine that
// called Run.
type Looper struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	closed  bool
	running bool
}

// NewLooper creates an idle looper. Call Run to start draining it.
func NewLooper() *Looper {
	return &Looper{wake: make(chan struct{}, 1)}
}

// Post enqueues callback. Callbacks posted after Run returns are dropped.
func (l *Looper) Post(callback func()) {
	if callback == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, callback)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done. Pending callbacks are discarded
// on return. Run may only be called once.
func (l *Looper) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running || l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.closed = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		for _, cb := range l.drain() {
			l.run(cb)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Pending reports the number of queued callbacks.
func (l *Looper) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Looper) drain() []func() {
	l.mu.Lock()
	callbacks := l.queue
	l.queue = nil
	l.mu.Unlock()
	return callbacks
}

func (l *Looper) run(cb func()) {
	defer errors.Recover("platform.Looper")
	cb()
}
