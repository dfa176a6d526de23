package supercam

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeTransport is an in-memory Transport. Inbound packets are delivered
// through a channel so BulkIn blocks realistically and reports ErrTimeout
// when nothing arrives.
type fakeTransport struct {
	in chan []byte

	mu         sync.Mutex
	writes     [][]byte
	altChanges []uint8
	halts      []uint8
	resets     int
	closed     bool

	// failWrite truncates the next BulkOut; failRead makes BulkIn return
	// a permanent transport error.
	failWrite bool
	failRead  bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{in: make(chan []byte, 32)}
}

func (f *fakeTransport) BulkIn(endpoint uint8, buf []byte, timeout time.Duration) (int, error) {
	f.mu.Lock()
	fail := f.failRead
	f.mu.Unlock()
	if fail {
		return 0, errors.New("endpoint gone")
	}
	select {
	case packet := <-f.in:
		return copy(buf, packet), nil
	case <-time.After(10 * time.Millisecond):
		return 0, fmt.Errorf("bulk transfer: %w", ErrTimeout)
	}
}

func (f *fakeTransport) BulkOut(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, append([]byte(nil), data...))
	if f.failWrite {
		return len(data) - 1, nil
	}
	return len(data), nil
}

func (f *fakeTransport) SetAltSetting(alt uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.altChanges = append(f.altChanges, alt)
	return nil
}

func (f *fakeTransport) ClearHalt(endpoint uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.halts = append(f.halts, endpoint)
	return nil
}

func (f *fakeTransport) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newTestCamera(tr Transport) *Camera {
	c := &Camera{
		transport: tr,
		path:      "/dev/bus/usb/001/004",
		logger:    testLogger(),
	}
	c.ring = newFrameRing(RingDepth, c.logger)
	return c
}

func TestStartStreamingHandshake(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)
	defer c.Close()

	if err := c.StartStreaming(); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	if !c.IsStreaming() {
		t.Error("IsStreaming = false after successful start")
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.writes) != 1 || !bytes.Equal(tr.writes[0], handshakeCommand) {
		t.Errorf("start command writes = %x, want exactly %x", tr.writes, handshakeCommand)
	}
	// Idle first, then streaming: the firmware needs the transition.
	if len(tr.altChanges) < 2 || tr.altChanges[0] != altIdle || tr.altChanges[1] != altStreaming {
		t.Errorf("alt setting sequence = %v, want [0 1]", tr.altChanges)
	}
}

func TestStartStreamingIdempotent(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)
	defer c.Close()

	if err := c.StartStreaming(); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := c.StartStreaming(); err != nil {
		t.Fatalf("second start: %v", err)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.writes) != 1 {
		t.Errorf("start command sent %d times, want 1", len(tr.writes))
	}
}

func TestStartStreamingShortWrite(t *testing.T) {
	tr := newFakeTransport()
	tr.failWrite = true
	c := newTestCamera(tr)
	defer c.Close()

	err := c.StartStreaming()
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if c.IsStreaming() {
		t.Error("IsStreaming = true after failed start")
	}
	if c.LastError() == "" {
		t.Error("LastError empty after failed start")
	}
}

func TestReadFrameEndToEnd(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)
	defer c.Close()

	if err := c.StartStreaming(); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}

	frame := makeJPEG(2000)
	tr.in <- makePacket(frame)

	buf := make([]byte, SlotCapacity)
	n, err := c.ReadFrame(buf, time.Second)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(buf[:n], frame) {
		t.Errorf("frame mismatch: got %d bytes, want %d", n, len(frame))
	}
	if s := c.Stats(); s.Captured != 1 {
		t.Errorf("captured = %d, want 1", s.Captured)
	}
}

func TestReadFrameValidation(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)

	if _, err := c.ReadFrame(nil, time.Second); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("nil buffer: err = %v, want ErrInvalidParam", err)
	}

	buf := make([]byte, SlotCapacity)
	if _, err := c.ReadFrame(buf, time.Second); !errors.Is(err, ErrNoFrame) {
		t.Errorf("not streaming: err = %v, want ErrNoFrame", err)
	}

	c.Close()
	if _, err := c.ReadFrame(buf, time.Second); !errors.Is(err, ErrClosed) {
		t.Errorf("closed: err = %v, want ErrClosed", err)
	}
}

func TestStopStreamingJoinsWorker(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)
	defer c.Close()

	if err := c.StartStreaming(); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	done := c.doneCh

	c.StopStreaming()
	if c.IsStreaming() {
		t.Error("IsStreaming = true after stop")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("capture goroutine still running after stop")
	}

	// Stopping again must be a no-op.
	c.StopStreaming()
}

func TestCaptureLoopStopsOnTransportError(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)
	defer c.Close()

	if err := c.StartStreaming(); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	done := c.doneCh

	tr.mu.Lock()
	tr.failRead = true
	tr.mu.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("capture goroutine survived a transport failure")
	}
	if c.LastError() == "" {
		t.Error("LastError empty after transport failure")
	}
}

func TestStatsResetOnRestart(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)
	defer c.Close()

	if err := c.StartStreaming(); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	tr.in <- makePacket(makeJPEG(2000))

	buf := make([]byte, SlotCapacity)
	if _, err := c.ReadFrame(buf, time.Second); err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	c.StopStreaming()
	if err := c.StartStreaming(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if s := c.Stats(); s.Captured != 0 || s.Dropped != 0 {
		t.Errorf("stats after restart = %+v, want zeros", s)
	}
}

func TestCloseIdempotent(t *testing.T) {
	tr := newFakeTransport()
	c := newTestCamera(tr)

	if err := c.StartStreaming(); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if !tr.closed {
		t.Error("transport not closed")
	}
	if tr.resets != 1 {
		t.Errorf("resets = %d, want 1", tr.resets)
	}
}

func TestCloseNilCamera(t *testing.T) {
	var c *Camera
	if err := c.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
	if c.IsStreaming() {
		t.Error("nil camera reports streaming")
	}
}
