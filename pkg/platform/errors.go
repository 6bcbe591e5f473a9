package platform

import "errors"

// Sentinel errors for platform operations.
var (
	// ErrClosed is returned when the UI sequence has stopped.
	ErrClosed = errors.New("platform: sequence closed")

	// ErrNotConnected is returned when no host bridge is connected.
	ErrNotConnected = errors.New("platform: not connected")
)
