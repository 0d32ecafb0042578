package offcanvas

import "errors"

var (
	// ErrQueueFull is returned when a message cannot be queued without blocking.
	ErrQueueFull = errors.New("offcanvas: queue full")

	// ErrClosed is returned by sends after the channel has been closed.
	ErrClosed = errors.New("offcanvas: channel closed")

	// ErrNotSetup is reported when a surface message arrives before setup.
	ErrNotSetup = errors.New("offcanvas: surface not set up")

	// ErrNilFrame is reported for a render message without a frame.
	ErrNilFrame = errors.New("offcanvas: render without frame")

	// ErrTransformBuffer is returned for a serialized transform of the wrong length.
	ErrTransformBuffer = errors.New("offcanvas: bad transform buffer")

	// ErrUnknownFormat is returned for unsupported capture formats.
	ErrUnknownFormat = errors.New("offcanvas: unknown image format")
)
