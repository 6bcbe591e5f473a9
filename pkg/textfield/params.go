package textfield

import (
	"fmt"

	"github.com/go-drift/textfield/pkg/platform"
)

// Creation parameter keys sent by the host.
const (
	ParamInstanceID  = "instanceId"
	ParamHint        = "hint"
	ParamInitialText = "initialText"
	ParamObscureText = "obscureText"
	ParamMaxLines    = "maxLines"
)

// CreationParams is the construction-time configuration of a text field.
type CreationParams struct {
	InstanceID  int64
	Hint        string
	InitialText string
	ObscureText bool
	MaxLines    int
}

// DecodeCreationParams validates the host's creation map. The instance id
// falls back to viewID and the hint to defaultHint when absent.
func DecodeCreationParams(viewID int64, raw map[string]any, defaultHint string) (CreationParams, error) {
	a, err := platform.ParseArgs(raw)
	if err != nil {
		return CreationParams{}, err
	}

	p := CreationParams{
		InstanceID: viewID,
		Hint:       defaultHint,
		MaxLines:   1,
	}

	if a.Has(ParamInstanceID) {
		id, ok := a.Int64(ParamInstanceID)
		if !ok {
			return CreationParams{}, invalidField(ParamInstanceID, "an integer", a[ParamInstanceID])
		}
		p.InstanceID = id
	}
	if a.Has(ParamHint) {
		hint, ok := a.String(ParamHint)
		if !ok {
			return CreationParams{}, invalidField(ParamHint, "a string", a[ParamHint])
		}
		p.Hint = hint
	}
	if a.Has(ParamInitialText) {
		text, ok := a.String(ParamInitialText)
		if !ok {
			return CreationParams{}, invalidField(ParamInitialText, "a string", a[ParamInitialText])
		}
		p.InitialText = text
	}
	if a.Has(ParamObscureText) {
		obscure, ok := a.Bool(ParamObscureText)
		if !ok {
			return CreationParams{}, invalidField(ParamObscureText, "a boolean", a[ParamObscureText])
		}
		p.ObscureText = obscure
	}
	if a.Has(ParamMaxLines) {
		lines, ok := a.Int64(ParamMaxLines)
		if !ok || lines < 1 {
			return CreationParams{}, invalidField(ParamMaxLines, "a positive integer", a[ParamMaxLines])
		}
		p.MaxLines = int(lines)
	}
	return p, nil
}

func invalidField(field, want string, got any) error {
	return fmt.Errorf("%w: %s must be %s, got %T", platform.ErrInvalidArguments, field, want, got)
}
