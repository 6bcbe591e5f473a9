package textfield

import (
	"errors"

	"github.com/go-drift/textfield/pkg/platform"
)

var (
	// ErrInvalidInstance is returned when no live adapter has the requested id.
	// Late commands racing a disposal end here; it is not a crash condition.
	ErrInvalidInstance = errors.New("textfield: invalid instance")

	// ErrInstanceUnavailable is returned by an adapter whose native widget
	// has been disposed or released.
	ErrInstanceUnavailable = errors.New("textfield: instance unavailable")

	// ErrDuplicateInstance is returned when registering an id that is
	// already live. It indicates a host bug.
	ErrDuplicateInstance = errors.New("textfield: duplicate instance")
)

// toChannelError maps bridge errors onto the codes the host understands.
func toChannelError(err error) *platform.ChannelError {
	if err == nil {
		return nil
	}
	var ce *platform.ChannelError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, ErrInvalidInstance):
		return platform.NewChannelError(platform.CodeInvalidInstance, err.Error())
	case errors.Is(err, ErrInstanceUnavailable):
		return platform.NewChannelError(platform.CodeInstanceUnavailable, err.Error())
	case errors.Is(err, ErrDuplicateInstance):
		return platform.NewChannelError(platform.CodeDuplicateInstance, err.Error())
	}
	return platform.ToChannelError(err)
}
