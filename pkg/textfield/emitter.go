package textfield

import (
	"sync"
	"sync/atomic"

	drifterrors "github.com/go-drift/textfield/pkg/errors"
	"github.com/go-drift/textfield/pkg/platform"
)

// Event is one notification sent to the host.
type Event struct {
	Seq        uint64 `json:"seq"`
	Method     string `json:"method"`
	InstanceID int64  `json:"instanceId"`
	Text       string `json:"text,omitempty"`
	HasFocus   bool   `json:"hasFocus"`
}

// Payload returns the argument map sent over the channel.
func (e Event) Payload() map[string]any {
	if e.Method == EventFocusChanged {
		return map[string]any{"instanceId": e.InstanceID, "hasFocus": e.HasFocus}
	}
	return map[string]any{"instanceId": e.InstanceID, "text": e.Text}
}

// Subscription represents an active event observer.
type Subscription struct {
	emitter  *Emitter
	fn       func(Event)
	canceled atomic.Bool
}

// Cancel stops delivery to this subscription.
func (s *Subscription) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		s.emitter.removeSubscription(s)
	}
}

// IsCanceled returns true if this subscription has been canceled.
func (s *Subscription) IsCanceled() bool {
	return s.canceled.Load()
}

// Emitter is the EventSink that turns adapter callbacks into host
// notifications on a method channel. Events are sent in call order, one
// per callback.
type Emitter struct {
	channel atomic.Pointer[platform.MethodChannel]
	seq     atomic.Uint64

	mu            sync.Mutex
	subscriptions []*Subscription
}

// NewEmitter creates an emitter sending on channel. channel may be nil
// until Bind is called; events emitted meanwhile are reported as
// undeliverable.
func NewEmitter(channel *platform.MethodChannel) *Emitter {
	e := &Emitter{}
	e.channel.Store(channel)
	return e
}

// Bind switches the channel events are sent on.
func (e *Emitter) Bind(channel *platform.MethodChannel) {
	e.channel.Store(channel)
}

// TextChanged sends onTextChanged.
func (e *Emitter) TextChanged(instanceID int64, text string) {
	e.emit(Event{Method: EventTextChanged, InstanceID: instanceID, Text: text})
}

// FocusChanged sends onFocusChanged.
func (e *Emitter) FocusChanged(instanceID int64, hasFocus bool) {
	e.emit(Event{Method: EventFocusChanged, InstanceID: instanceID, HasFocus: hasFocus})
}

// Subscribe registers fn to observe every emitted event. fn runs on the UI
// sequence and must not block.
func (e *Emitter) Subscribe(fn func(Event)) *Subscription {
	sub := &Subscription{emitter: e, fn: fn}
	e.mu.Lock()
	e.subscriptions = append(e.subscriptions, sub)
	e.mu.Unlock()
	return sub
}

// Subscribers returns the number of active subscriptions.
func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subscriptions)
}

func (e *Emitter) removeSubscription(sub *Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subscriptions {
		if s == sub {
			e.subscriptions = append(e.subscriptions[:i], e.subscriptions[i+1:]...)
			return
		}
	}
}

func (e *Emitter) emit(ev Event) {
	ev.Seq = e.seq.Add(1)
	EventsEmitted.WithLabelValues(ev.Method).Inc()

	// Delivery failures never reach the native caller.
	var err error
	channelName := ""
	if ch := e.channel.Load(); ch != nil {
		channelName = ch.Name()
		err = ch.Notify(ev.Method, ev.Payload())
	} else {
		err = platform.ErrNotConnected
	}
	if err != nil {
		EventsFailed.WithLabelValues(ev.Method).Inc()
		drifterrors.Report(&drifterrors.BridgeError{
			Op:         "textfield.emit." + ev.Method,
			Kind:       drifterrors.KindPlatform,
			Channel:    channelName,
			InstanceID: ev.InstanceID,
			Err:        err,
		})
	}

	e.mu.Lock()
	subs := make([]*Subscription, len(e.subscriptions))
	copy(subs, e.subscriptions)
	e.mu.Unlock()

	for _, sub := range subs {
		if !sub.IsCanceled() {
			sub.fn(ev)
		}
	}
}
