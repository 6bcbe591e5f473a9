package platform

import "sync"

// MethodHandler handles incoming method calls on a channel.
type MethodHandler func(method string, args any) (any, error)

// MethodChannel carries host-to-native method calls and native-to-host
// notifications under one name.
type MethodChannel struct {
	name    string
	codec   MessageCodec
	handler MethodHandler
	mu      sync.RWMutex
}

// NewMethodChannel creates a method channel and registers it so that
// HandleMethodCall can route host calls to it.
func NewMethodChannel(name string) *MethodChannel {
	ch := &MethodChannel{
		name:  name,
		codec: DefaultCodec,
	}
	registry.registerMethod(name, ch)
	return ch
}

// Name returns the channel name.
func (c *MethodChannel) Name() string {
	return c.name
}

// SetHandler sets the handler for incoming method calls from the host.
// Passing nil detaches the current handler.
func (c *MethodChannel) SetHandler(handler MethodHandler) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

// Close detaches the handler and removes the channel from the registry.
// Host calls addressed to it afterwards fail with ErrChannelNotFound.
func (c *MethodChannel) Close() {
	c.SetHandler(nil)
	registry.unregisterMethod(c.name, c)
}

// Notify sends a one-way message to the host. No reply is expected.
func (c *MethodChannel) Notify(method string, args any) error {
	return notifyHost(c.name, c.codec, method, args)
}

// handleCall processes an incoming method call from the host.
func (c *MethodChannel) handleCall(method string, args any) (any, error) {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()
	if handler == nil {
		return nil, ErrMethodNotFound
	}
	return handler(method, args)
}
