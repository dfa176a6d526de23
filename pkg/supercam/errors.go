package supercam

import "errors"

// Sentinel errors returned by the engine. Wrapped errors carry context;
// test with errors.Is.
var (
	// ErrNotFound means no matching camera is connected.
	ErrNotFound = errors.New("camera not found")

	// ErrOpenFailed means the device node could not be acquired.
	ErrOpenFailed = errors.New("open failed")

	// ErrInitFailed means interface negotiation or worker setup failed.
	ErrInitFailed = errors.New("initialization failed")

	// ErrNoFrame means the camera is not streaming, so no frame can ever
	// become available.
	ErrNoFrame = errors.New("no frame available")

	// ErrBufferTooSmall means the caller's buffer cannot hold the ready
	// frame. The frame stays queued; retry with a larger buffer.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrInvalidParam means a nil or otherwise unusable argument.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrTransport means a USB transfer failed.
	ErrTransport = errors.New("usb transport failed")

	// ErrTimeout means the wait deadline expired. Retryable.
	ErrTimeout = errors.New("timed out")

	// ErrClosed means the camera session was already closed.
	ErrClosed = errors.New("camera closed")
)
