package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/textfield/pkg/errors"
)

// channelRegistry manages all registered method channels.
type channelRegistry struct {
	methodChannels map[string]*MethodChannel
	mu             sync.RWMutex
}

var registry = &channelRegistry{
	methodChannels: make(map[string]*MethodChannel),
}

func (r *channelRegistry) registerMethod(name string, ch *MethodChannel) {
	r.mu.Lock()
	r.methodChannels[name] = ch
	r.mu.Unlock()
}

// unregisterMethod removes name only if it still maps to ch, so a channel
// re-created under the same name is not dropped by a stale Close.
func (r *channelRegistry) unregisterMethod(name string, ch *MethodChannel) {
	r.mu.Lock()
	if r.methodChannels[name] == ch {
		delete(r.methodChannels, name)
	}
	r.mu.Unlock()
}

func (r *channelRegistry) getMethodChannel(name string) *MethodChannel {
	r.mu.RLock()
	ch := r.methodChannels[name]
	r.mu.RUnlock()
	return ch
}

// HostBridge delivers native-originated messages to the host framework.
type HostBridge interface {
	// Notify sends a one-way message on a channel. Implementations must not
	// block on a reply from the host.
	Notify(channel, method string, args []byte) error
}

var (
	hostBridge   HostBridge
	hostBridgeMu sync.RWMutex
)

// SetHostBridge installs the transport used for native-to-host messages.
// Passing nil disconnects it; subsequent notifications fail with ErrNotConnected.
func SetHostBridge(bridge HostBridge) {
	hostBridgeMu.Lock()
	hostBridge = bridge
	hostBridgeMu.Unlock()
}

// CurrentHostBridge returns the installed bridge, or nil.
func CurrentHostBridge() HostBridge {
	hostBridgeMu.RLock()
	defer hostBridgeMu.RUnlock()
	return hostBridge
}

// notifyHost encodes args and hands them to the host bridge.
func notifyHost(channel string, codec MessageCodec, method string, args any) error {
	bridge := CurrentHostBridge()
	if bridge == nil {
		return ErrNotConnected
	}
	data, err := codec.Encode(args)
	if err != nil {
		return err
	}
	return bridge.Notify(channel, method, data)
}

// HandleMethodCall is called by a transport when the host invokes a method.
// The returned error is suitable for ToChannelError.
func HandleMethodCall(channel, method string, argsData []byte) ([]byte, error) {
	ch := registry.getMethodChannel(channel)
	if ch == nil {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channel)
	}

	args, err := ch.codec.Decode(argsData)
	if err != nil {
		errors.Report(&errors.BridgeError{
			Op:      "platform.HandleMethodCall",
			Kind:    errors.KindParsing,
			Channel: channel,
			Err:     err,
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	result, err := ch.handleCall(method, args)
	if err != nil {
		return nil, err
	}

	return ch.codec.Encode(result)
}

// ResetForTest clears the host bridge, the dispatch function and every
// registered channel. This should only be called from tests.
func ResetForTest() {
	SetHostBridge(nil)

	registry.mu.Lock()
	registry.methodChannels = make(map[string]*MethodChannel)
	registry.mu.Unlock()

	dispatchMu.Lock()
	dispatchFunc = nil
	dispatchMu.Unlock()
}
