package textfield

import (
	"fmt"
	"time"

	drifterrors "github.com/go-drift/textfield/pkg/errors"
	"github.com/go-drift/textfield/pkg/platform"
	"go.uber.org/zap"
)

// Dispatcher routes host commands to adapters by instance id.
type Dispatcher struct {
	registry        *Registry
	platformVersion string
	protocolVersion string
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, platformVersion, protocolVersion string) *Dispatcher {
	return &Dispatcher{
		registry:        registry,
		platformVersion: platformVersion,
		protocolVersion: protocolVersion,
	}
}

// HandleMethodCall is a platform.MethodHandler. Every error it returns is a
// *platform.ChannelError; a panicking operation is reported and answered
// with INTERNAL.
func (d *Dispatcher) HandleMethodCall(method string, args any) (result any, err error) {
	start := time.Now()
	span := startCommandSpan(method)
	defer func() {
		code := codeOK
		if ce := toChannelError(err); ce != nil {
			code = ce.Code
			err = ce
		}
		endCommandSpan(span, code, err)
		CommandsTotal.WithLabelValues(method, code).Inc()
		CommandLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
		if code != codeOK {
			Logger().Debug("command rejected",
				zap.String("method", method),
				zap.String("code", code),
				zap.Error(err),
			)
		}
	}()
	defer drifterrors.RecoverWithCallback("textfield.dispatch."+method, func(r any) {
		result = nil
		err = platform.NewChannelError(platform.CodeInternal, fmt.Sprintf("panic in %s: %v", method, r))
	})

	cmd, err := DecodeCommand(method, args)
	if err != nil {
		return nil, err
	}
	if ic, ok := cmd.(InstanceCommand); ok {
		span.SetAttributes(AttrInstanceID.Int64(ic.Instance()))
	}
	return d.Dispatch(cmd)
}

// Dispatch executes a decoded command.
func (d *Dispatcher) Dispatch(cmd Command) (any, error) {
	switch cmd.(type) {
	case GetPlatformVersion:
		return d.platformVersion, nil
	case GetProtocolVersion:
		return d.protocolVersion, nil
	}

	ic, ok := cmd.(InstanceCommand)
	if !ok {
		return nil, fmt.Errorf("%w: %s", platform.ErrMethodNotFound, cmd.Method())
	}
	adapter, ok := d.registry.Lookup(ic.Instance())
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInstance, ic.Instance())
	}

	switch c := cmd.(type) {
	case SetText:
		return nil, adapter.SetText(c.Text)
	case GetText:
		return adapter.Text()
	case RequestFocus:
		return nil, adapter.RequestFocus()
	case ClearFocus:
		return nil, adapter.ClearFocus()
	case HasFocus:
		return adapter.HasFocus()
	case SetEnabled:
		return nil, adapter.SetEnabled(c.Enabled)
	case SetHint:
		return nil, adapter.SetHint(c.Hint)
	case SetObscureText:
		return nil, adapter.SetObscured(c.Obscure)
	case SetMaxLines:
		return nil, adapter.SetMaxLines(c.MaxLines)
	case MoveCursor:
		return nil, adapter.MoveCursor(c.Direction)
	default:
		return nil, fmt.Errorf("%w: %s", platform.ErrMethodNotFound, cmd.Method())
	}
}
