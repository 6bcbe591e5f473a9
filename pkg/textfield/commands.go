package textfield

import (
	"fmt"

	"github.com/go-drift/textfield/pkg/platform"
)

// Method names accepted on the text field channel.
const (
	MethodGetPlatformVersion = "getPlatformVersion"
	MethodGetProtocolVersion = "getProtocolVersion"
	MethodSetText            = "setText"
	MethodGetText            = "getText"
	MethodRequestFocus       = "requestFocus"
	MethodClearFocus         = "clearFocus"
	MethodHasFocus           = "hasFocus"
	MethodSetEnabled         = "setEnabled"
	MethodSetHint            = "setHint"
	MethodSetObscureText     = "setObscureText"
	MethodSetMaxLines        = "setMaxLines"
	MethodMoveCursor         = "moveCursor"
)

// Event names sent to the host.
const (
	EventTextChanged  = "onTextChanged"
	EventFocusChanged = "onFocusChanged"
)

// CursorDirection is the argument of moveCursor.
type CursorDirection string

const (
	CursorLeft  CursorDirection = "left"
	CursorRight CursorDirection = "right"
)

// Command is a decoded host request.
type Command interface {
	Method() string
}

// InstanceCommand is a Command addressed to one text field.
type InstanceCommand interface {
	Command
	Instance() int64
}

// Target identifies the text field a command applies to.
type Target struct {
	InstanceID int64
}

// Instance returns the target instance id.
func (t Target) Instance() int64 { return t.InstanceID }

type (
	GetPlatformVersion struct{}
	GetProtocolVersion struct{}

	SetText struct {
		Target
		Text string
	}
	GetText      struct{ Target }
	RequestFocus struct{ Target }
	ClearFocus   struct{ Target }
	HasFocus     struct{ Target }

	SetEnabled struct {
		Target
		Enabled bool
	}
	// SetHint clears the placeholder when Hint is nil.
	SetHint struct {
		Target
		Hint *string
	}
	SetObscureText struct {
		Target
		Obscure bool
	}
	SetMaxLines struct {
		Target
		MaxLines int
	}
	MoveCursor struct {
		Target
		Direction CursorDirection
	}
)

func (GetPlatformVersion) Method() string { return MethodGetPlatformVersion }
func (GetProtocolVersion) Method() string { return MethodGetProtocolVersion }
func (SetText) Method() string            { return MethodSetText }
func (GetText) Method() string            { return MethodGetText }
func (RequestFocus) Method() string       { return MethodRequestFocus }
func (ClearFocus) Method() string         { return MethodClearFocus }
func (HasFocus) Method() string           { return MethodHasFocus }
func (SetEnabled) Method() string         { return MethodSetEnabled }
func (SetHint) Method() string            { return MethodSetHint }
func (SetObscureText) Method() string     { return MethodSetObscureText }
func (SetMaxLines) Method() string        { return MethodSetMaxLines }
func (MoveCursor) Method() string         { return MethodMoveCursor }

// DecodeCommand validates a raw host call and returns its typed form.
// Unknown methods fail with platform.ErrMethodNotFound and malformed
// payloads with platform.ErrInvalidArguments.
func DecodeCommand(method string, args any) (Command, error) {
	switch method {
	case MethodGetPlatformVersion:
		return GetPlatformVersion{}, nil
	case MethodGetProtocolVersion:
		return GetProtocolVersion{}, nil
	case MethodSetText, MethodGetText, MethodRequestFocus, MethodClearFocus,
		MethodHasFocus, MethodSetEnabled, MethodSetHint, MethodSetObscureText,
		MethodSetMaxLines, MethodMoveCursor:
	default:
		return nil, fmt.Errorf("%w: %s", platform.ErrMethodNotFound, method)
	}

	a, err := platform.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	id, ok := a.Int64(ParamInstanceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires an integer instanceId", platform.ErrInvalidArguments, method)
	}
	target := Target{InstanceID: id}

	switch method {
	case MethodSetText:
		text, ok := a.String("text")
		if !ok {
			return nil, fmt.Errorf("%w: setText requires a string text", platform.ErrInvalidArguments)
		}
		return SetText{Target: target, Text: text}, nil

	case MethodGetText:
		return GetText{target}, nil
	case MethodRequestFocus:
		return RequestFocus{target}, nil
	case MethodClearFocus:
		return ClearFocus{target}, nil
	case MethodHasFocus:
		return HasFocus{target}, nil

	case MethodSetEnabled:
		enabled := true
		if a.Has("enabled") {
			if enabled, ok = a.Bool("enabled"); !ok {
				return nil, fmt.Errorf("%w: enabled must be a boolean", platform.ErrInvalidArguments)
			}
		}
		return SetEnabled{Target: target, Enabled: enabled}, nil

	case MethodSetHint:
		cmd := SetHint{Target: target}
		if a.Has("hint") {
			hint, ok := a.String("hint")
			if !ok {
				return nil, fmt.Errorf("%w: hint must be a string or null", platform.ErrInvalidArguments)
			}
			cmd.Hint = &hint
		}
		return cmd, nil

	case MethodSetObscureText:
		obscure, ok := a.Bool(ParamObscureText)
		if !ok {
			return nil, fmt.Errorf("%w: setObscureText requires a boolean obscureText", platform.ErrInvalidArguments)
		}
		return SetObscureText{Target: target, Obscure: obscure}, nil

	case MethodSetMaxLines:
		lines, ok := a.Int64(ParamMaxLines)
		if !ok || lines < 1 {
			return nil, fmt.Errorf("%w: setMaxLines requires maxLines >= 1", platform.ErrInvalidArguments)
		}
		return SetMaxLines{Target: target, MaxLines: int(lines)}, nil

	default: // MethodMoveCursor
		dir, _ := a.String("direction")
		switch CursorDirection(dir) {
		case CursorLeft, CursorRight:
			return MoveCursor{Target: target, Direction: CursorDirection(dir)}, nil
		}
		return nil, fmt.Errorf("%w: direction must be %q or %q", platform.ErrInvalidArguments, CursorLeft, CursorRight)
	}
}
