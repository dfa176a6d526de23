package supercam

import (
	"errors"
	"fmt"
	"time"
)

// StartStreaming switches the device into streaming mode, sends the vendor
// start command and launches the capture goroutine. Starting an already
// streaming session is a no-op. Frame counters reset on every start.
func (c *Camera) StartStreaming() error {
	if c == nil {
		return fmt.Errorf("nil camera: %w", ErrInvalidParam)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.errorf(ErrClosed, "start on closed camera")
	}
	if c.streaming {
		return nil
	}

	// Bounce through the idle alt setting first. The firmware only arms
	// its streaming engine on an idle-to-streaming transition, so a
	// direct switch after an unclean stop produces no data.
	if err := c.transport.SetAltSetting(altIdle); err != nil {
		return c.errorf(ErrInitFailed, "idle alt setting: %v", err)
	}
	time.Sleep(altSettleDelay)

	if err := c.transport.ClearHalt(EndpointIn); err != nil {
		c.logger.Debug("clear halt before streaming", "error", err)
	}

	if err := c.transport.SetAltSetting(altStreaming); err != nil {
		return c.errorf(ErrInitFailed, "streaming alt setting: %v", err)
	}
	time.Sleep(altSettleDelay)

	n, err := c.transport.BulkOut(EndpointOut, handshakeCommand, commandTimeout)
	if err != nil {
		return c.errorf(ErrTransport, "start command: %v", err)
	}
	if n != len(handshakeCommand) {
		return c.errorf(ErrTransport, "short start command write: %d of %d bytes", n, len(handshakeCommand))
	}

	c.ring.reset()
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	go c.captureLoop(c.transport, c.stopCh, c.doneCh)

	c.streaming = true
	c.logger.Info("streaming started")
	return nil
}

// StopStreaming signals the capture goroutine, aborts any transfer it is
// blocked in and waits a bounded time for it to exit. Safe to call on a
// session that is not streaming.
func (c *Camera) StopStreaming() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if !c.streaming {
		c.mu.Unlock()
		return
	}
	c.streaming = false
	stopCh, doneCh := c.stopCh, c.doneCh
	c.mu.Unlock()

	close(stopCh)

	// Kick the capture goroutine out of a blocked bulk read so it can
	// observe the stop signal promptly.
	if err := c.transport.ClearHalt(EndpointIn); err != nil {
		c.logger.Debug("clear halt to abort read", "error", err)
	}

	select {
	case <-doneCh:
	case <-time.After(joinTimeout):
		// The goroutine is stuck in the kernel; it will exit on its own
		// once the transfer times out. Never force termination.
		c.logger.Error("capture goroutine did not stop in time", "timeout", joinTimeout)
	}

	if err := c.transport.ClearHalt(EndpointIn); err != nil {
		c.logger.Debug("clear halt after stop", "error", err)
	}

	c.ring.stop()
	time.Sleep(settleShort)
	c.logger.Info("streaming stopped")
}

// captureLoop is the single producer for the frame ring. It runs until the
// stop channel closes or the transport fails with a non-timeout error.
func (c *Camera) captureLoop(transport Transport, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, SlotCapacity)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := transport.BulkIn(EndpointIn, buf, readTimeout)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				// The device pauses between frames at low light or
				// during mode switches; keep polling.
				continue
			}
			select {
			case <-stop:
				// Transfer aborted by StopStreaming; not a failure.
				return
			default:
			}
			c.errorf(ErrTransport, "bulk read: %v", err)
			c.logger.Error("capture read failed, stopping", "error", err)
			return
		}
		if n > 0 {
			c.ring.ingest(buf[:n])
		}
	}
}
