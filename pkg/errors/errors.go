// Package errors provides structured error reporting for the text field bridge.
//
// Failures that cannot be returned to a caller (event delivery, transport
// loops, recovered panics) are reported here and routed to the configured
// ErrorHandler.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPlatform indicates a platform channel or host bridge error.
	KindPlatform
	// KindParsing indicates a payload decoding failure.
	KindParsing
	// KindInit indicates an attach or configuration error.
	KindInit
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindInstance indicates a widget instance lookup or lifecycle error.
	KindInstance
	// KindTransport indicates a host link failure.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindParsing:
		return "parsing"
	case KindInit:
		return "init"
	case KindPanic:
		return "panic"
	case KindInstance:
		return "instance"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// BridgeError represents a structured error raised somewhere in the bridge.
type BridgeError struct {
	// Op is the operation that failed (e.g., "emitter.onTextChanged").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Channel is the platform channel name, if applicable.
	Channel string
	// InstanceID is the widget instance involved, or 0.
	InstanceID int64
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BridgeError) Error() string {
	switch {
	case e.Channel != "" && e.InstanceID != 0:
		return fmt.Sprintf("%s [%s] channel=%s instance=%d: %v", e.Op, e.Kind, e.Channel, e.InstanceID, e.Err)
	case e.Channel != "":
		return fmt.Sprintf("%s [%s] channel=%s: %v", e.Op, e.Kind, e.Channel, e.Err)
	case e.InstanceID != 0:
		return fmt.Sprintf("%s [%s] instance=%d: %v", e.Op, e.Kind, e.InstanceID, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "platform.Looper").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a failure to decode a payload field.
type ParseError struct {
	// Channel is the platform channel that carried the payload.
	Channel string
	// Field is the payload field name.
	Field string
	// DataType is the expected type name.
	DataType string
	// Got is the actual value received.
	Got any
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("failed to parse %s field %q from channel %s: got %T", e.DataType, e.Field, e.Channel, e.Got)
	}
	return fmt.Sprintf("failed to parse %s from channel %s: got %T", e.DataType, e.Channel, e.Got)
}

// ErrorHandler receives errors reported by the bridge.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *BridgeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
