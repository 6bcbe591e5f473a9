package platform

import "sync"

// noopBridge is a HostBridge that accepts all notifications without side effects.
type noopBridge struct{}

func (noopBridge) Notify(channel, method string, args []byte) error { return nil }

// SetupTestBridge installs a no-op host bridge and synchronous dispatch
// function for testing. The cleanup function should be testing.T.Cleanup or
// equivalent; it registers a teardown that calls ResetForTest.
//
//	platform.SetupTestBridge(t.Cleanup)
func SetupTestBridge(cleanup func(func())) {
	SetHostBridge(noopBridge{})
	RegisterDispatch(func(cb func()) { cb() })
	cleanup(ResetForTest)
}

// Message is a notification captured by RecordingBridge.
type Message struct {
	Channel string
	Method  string
	Args    any // decoded with DefaultCodec
}

// RecordingBridge is a HostBridge that keeps every notification for
// assertions. Err, when set, is returned from Notify after recording.
type RecordingBridge struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

// Notify records the message.
func (b *RecordingBridge) Notify(channel, method string, args []byte) error {
	decoded, _ := DefaultCodec.Decode(args)
	b.mu.Lock()
	b.messages = append(b.messages, Message{Channel: channel, Method: method, Args: decoded})
	err := b.Err
	b.mu.Unlock()
	return err
}

// Messages returns a copy of the recorded notifications.
func (b *RecordingBridge) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.messages...)
}

// Reset discards recorded notifications.
func (b *RecordingBridge) Reset() {
	b.mu.Lock()
	b.messages = b.messages[:0]
	b.mu.Unlock()
}

// SetupRecordingBridge is SetupTestBridge with a RecordingBridge installed.
func SetupRecordingBridge(cleanup func(func())) *RecordingBridge {
	SetupTestBridge(cleanup)
	bridge := &RecordingBridge{}
	SetHostBridge(bridge)
	return bridge
}
