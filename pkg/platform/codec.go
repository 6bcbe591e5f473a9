// Package platform provides the channel layer between the host framework and
// native widget code. The host invokes methods on named channels; native code
// answers them and pushes one-way notifications back through a HostBridge.
package platform

import (
	"encoding/json"
	"errors"
)

// MessageCodec encodes and decodes messages for platform channel communication.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to the host.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from the host to a Go value.
	Decode(data []byte) (any, error)
}

// JsonCodec implements MessageCodec using JSON encoding.
// JSON prioritizes interoperability and minimal host dependencies.
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeInto deserializes JSON bytes into a specific type.
func (c JsonCodec) DecodeInto(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DefaultCodec is the codec used by platform channels.
var DefaultCodec MessageCodec = JsonCodec{}

// Standard errors for platform channel operations.
var (
	// ErrChannelNotFound indicates the requested platform channel does not exist.
	ErrChannelNotFound = errors.New("platform channel not found")

	// ErrMethodNotFound indicates the method is not implemented by the handler.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrInvalidArguments indicates the arguments passed to the method were invalid.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrViewTypeNotFound indicates the platform view type is not registered.
	ErrViewTypeNotFound = errors.New("platform view type not registered")
)

// Error codes carried in ChannelError.Code.
const (
	CodeNotImplemented      = "NOT_IMPLEMENTED"
	CodeInvalidArguments    = "INVALID_ARGUMENTS"
	CodeChannelNotFound     = "CHANNEL_NOT_FOUND"
	CodeViewTypeNotFound    = "VIEW_TYPE_NOT_FOUND"
	CodeInvalidInstance     = "INVALID_INSTANCE"
	CodeInstanceUnavailable = "INSTANCE_UNAVAILABLE"
	CodeDuplicateInstance   = "DUPLICATE_INSTANCE"
	CodeInternal            = "INTERNAL"
)

// ChannelError is the structured error returned to the host.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// NewChannelError creates a new ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}

// NewChannelErrorWithDetails creates a new ChannelError with additional details.
func NewChannelErrorWithDetails(code, message string, details any) *ChannelError {
	return &ChannelError{Code: code, Message: message, Details: details}
}

// ToChannelError converts any error into the envelope sent to the host.
// A ChannelError anywhere in the chain is returned as is.
func ToChannelError(err error) *ChannelError {
	if err == nil {
		return nil
	}
	var ce *ChannelError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, ErrMethodNotFound):
		return NewChannelError(CodeNotImplemented, err.Error())
	case errors.Is(err, ErrInvalidArguments):
		return NewChannelError(CodeInvalidArguments, err.Error())
	case errors.Is(err, ErrChannelNotFound):
		return NewChannelError(CodeChannelNotFound, err.Error())
	case errors.Is(err, ErrViewTypeNotFound):
		return NewChannelError(CodeViewTypeNotFound, err.Error())
	}
	return NewChannelError(CodeInternal, err.Error())
}
