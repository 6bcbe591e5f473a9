// Package textfield bridges native single-line text inputs to a host UI
// framework that embeds them inline in its own view tree.
//
// The host creates a text field through the platform view channel, then
// addresses it by instance identifier on one shared method channel:
//
//	host                         native
//	 |-- create {params} ---------> Plugin.Create -> Adapter (registered)
//	 |-- setText {instanceId} ----> Dispatcher -> Registry -> Adapter -> NativeWidget
//	 |<- onTextChanged {instanceId} -- Emitter <- Adapter <- NativeWidget listener
//	 |-- dispose {viewId} --------> Adapter deregistered, listeners detached
//
// The native widget stays the authoritative owner of text and focus. An
// Adapter never caches text; it reads the widget on every query and forwards
// every change notification, one event per callback, in callback order.
//
// All registry, adapter and dispatcher work happens on the UI sequence (see
// platform.Dispatch). Callbacks raised by a toolkit on other goroutines must
// be marshalled there before they reach an Adapter.
package textfield
