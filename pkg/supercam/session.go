package supercam

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Camera is one open capture session. A Camera owns its transport handle
// and frame ring exclusively; it is created by Open/OpenPath and destroyed
// only by Close. All methods are safe for concurrent use, and every public
// method fails with ErrClosed once Close has run.
type Camera struct {
	mu        sync.Mutex
	transport Transport
	path      string
	logger    *slog.Logger

	streaming bool
	closed    bool
	stopCh    chan struct{}
	doneCh    chan struct{}

	ring *frameRing

	errMu   sync.Mutex
	lastErr string
}

// Enumerate returns connected cameras, qualified matches first. max > 0
// truncates the result; max <= 0 returns everything found. An empty slice
// is a valid result; an error is returned only when platform enumeration
// itself fails.
func Enumerate(max int) ([]DeviceInfo, error) {
	devices, err := enumerateDevices()
	if err != nil {
		return nil, fmt.Errorf("device enumeration failed: %w", err)
	}

	// Stable ranking: qualified candidates before fallback ones, original
	// discovery order otherwise. Callers should prefer index 0.
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Qualified && !devices[j].Qualified
	})

	if max > 0 && len(devices) > max {
		devices = devices[:max]
	}
	return devices, nil
}

// Open opens the first camera reported by Enumerate.
func Open(opts ...Option) (*Camera, error) {
	devices, err := Enumerate(1)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no camera connected: %w", ErrNotFound)
	}
	return OpenPath(devices[0].Path, opts...)
}

// OpenPath opens the camera at the given device path. The transport is
// cleared of any stale state left by a previous session before the Camera
// is returned; on any failure all partially acquired resources are released
// and no session is exposed.
func OpenPath(path string, opts ...Option) (*Camera, error) {
	if path == "" {
		return nil, fmt.Errorf("empty device path: %w", ErrInvalidParam)
	}
	cfg := applyOptions(opts)

	transport, err := openTransport(path)
	if err != nil {
		return nil, err
	}

	c := &Camera{
		transport: transport,
		path:      path,
		logger:    cfg.logger.With("device", path),
	}
	c.ring = newFrameRing(RingDepth, c.logger)

	// A prior session's unclean termination can leave stale in-flight
	// data in the host-side queues; without this the first frames of a
	// new session contain leftover bytes from the previous one.
	c.clearStaleState()

	c.logger.Info("camera opened")
	return c, nil
}

// clearStaleState aborts and flushes both pipes and parks the interface on
// the idle alternate setting. Individual failures are tolerated: a freshly
// attached device has nothing to clear and may stall these requests.
func (c *Camera) clearStaleState() {
	for _, ep := range []uint8{EndpointIn, EndpointOut} {
		if err := c.transport.ClearHalt(ep); err != nil {
			c.logger.Debug("clear halt during open", "endpoint", ep, "error", err)
		}
	}
	if err := c.transport.SetAltSetting(altIdle); err != nil {
		c.logger.Debug("idle alt setting during open", "error", err)
	}
	time.Sleep(settleLong)
}

// Close stops streaming if active, runs the aggressive two-direction
// cleanup sequence so the device can be reopened by a later session, and
// releases the transport. Idempotent, and a no-op on a nil receiver.
func (c *Camera) Close() error {
	if c == nil {
		return nil
	}
	c.StopStreaming()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	transport := c.transport
	c.mu.Unlock()

	c.logger.Debug("running transport cleanup sequence")

	// The delays let the host controller settle between operations.
	// Without them a later open in the same process can fail to
	// reacquire the device.
	for _, ep := range []uint8{EndpointIn, EndpointOut} {
		if err := transport.ClearHalt(ep); err != nil {
			c.logger.Debug("clear halt during close", "endpoint", ep, "error", err)
		}
	}
	time.Sleep(settleShort)

	if err := transport.Reset(); err != nil {
		c.logger.Debug("device reset during close", "error", err)
	}
	time.Sleep(settleShort)

	if err := transport.SetAltSetting(altIdle); err != nil {
		c.logger.Debug("idle alt setting during close", "error", err)
	}
	time.Sleep(settleLong)

	err := transport.Close()
	if err != nil {
		c.logger.Warn("transport close failed", "error", err)
	}
	c.logger.Info("camera closed")
	return err
}

// IsStreaming reports whether the session is currently streaming.
func (c *Camera) IsStreaming() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// Path returns the device path this session was opened from.
func (c *Camera) Path() string {
	return c.path
}

// Stats returns the frame counters for the current streaming run. Counters
// reset each time streaming starts.
func (c *Camera) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return c.ring.stats()
}

// LastError returns the most recent error message recorded by a failing
// call on this session, or the empty string.
func (c *Camera) LastError() string {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

// errorf records a failure in the session's last-error slot and returns it
// wrapped around the given sentinel.
func (c *Camera) errorf(sentinel error, format string, args ...any) error {
	err := fmt.Errorf(format+": %w", append(args, sentinel)...)
	c.errMu.Lock()
	c.lastErr = err.Error()
	c.errMu.Unlock()
	return err
}

// ReadFrame blocks until the next complete JPEG frame is ready and copies
// it into buf, returning the frame length. A zero timeout waits
// indefinitely. ErrBufferTooSmall leaves the frame queued for a retry with
// a larger buffer; ErrTimeout and ErrBufferTooSmall are the only retryable
// failures.
func (c *Camera) ReadFrame(buf []byte, timeout time.Duration) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("nil camera: %w", ErrInvalidParam)
	}
	if buf == nil {
		return 0, c.errorf(ErrInvalidParam, "nil frame buffer")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, c.errorf(ErrClosed, "read on closed camera")
	}
	if !c.streaming {
		c.mu.Unlock()
		return 0, c.errorf(ErrNoFrame, "camera is not streaming")
	}
	ring := c.ring
	c.mu.Unlock()

	n, err := ring.readFrame(buf, timeout)
	if err != nil {
		c.errMu.Lock()
		c.lastErr = err.Error()
		c.errMu.Unlock()
		return 0, err
	}
	return n, nil
}
