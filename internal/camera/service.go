// Package camera manages the capture session shared by the API and CLI:
// one camera open at a time, with event publication and metrics updates
// around the raw capture engine.
package camera

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/smazurov/supercam/internal/events"
	"github.com/smazurov/supercam/internal/logging"
	"github.com/smazurov/supercam/internal/metrics"
	"github.com/smazurov/supercam/pkg/supercam"
)

// Session is the slice of the capture engine the service drives.
// *supercam.Camera satisfies it; tests substitute a fake.
type Session interface {
	StartStreaming() error
	StopStreaming()
	ReadFrame(buf []byte, timeout time.Duration) (int, error)
	IsStreaming() bool
	Stats() supercam.Stats
	LastError() string
	Path() string
	Close() error
}

// Opener opens a capture session on a device path.
type Opener func(path string) (Session, error)

// Status is a point-in-time snapshot of the service state.
type Status struct {
	Open      bool
	Streaming bool
	Path      string
	Stats     supercam.Stats
	LastError string
}

// Service serializes access to a single camera session.
type Service struct {
	mu          sync.Mutex
	session     Session
	open        Opener
	enumerate   func(max int) ([]supercam.DeviceInfo, error)
	bus         *events.Bus
	logger      Logger
	lastDropped uint64
}

// Logger is the subset of slog used by the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// New creates a camera service publishing to the given event bus.
func New(bus *events.Bus) *Service {
	logger := logging.GetLogger("camera")
	return &Service{
		open: func(path string) (Session, error) {
			return supercam.OpenPath(path, supercam.WithLogger(logging.GetLogger("usb")))
		},
		enumerate: supercam.Enumerate,
		bus:       bus,
		logger:    logger,
	}
}

// Devices enumerates connected cameras and refreshes the device gauge.
func (s *Service) Devices() ([]supercam.DeviceInfo, error) {
	devices, err := s.enumerate(0)
	if err != nil {
		return nil, err
	}
	metrics.SetDevicesConnected(len(devices))
	return devices, nil
}

// Start opens the device (first qualified camera when path is empty) and
// begins streaming. Starting an already streaming session on the same
// device is a no-op; a different device closes the current session first.
func (s *Service) Start(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "" {
		devices, err := s.enumerate(1)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			return fmt.Errorf("no camera connected: %w", supercam.ErrNotFound)
		}
		path = devices[0].Path
	}

	if s.session != nil && s.session.Path() != path {
		s.logger.Info("switching device", "from", s.session.Path(), "to", path)
		s.closeLocked()
	}

	if s.session == nil {
		session, err := s.open(path)
		if err != nil {
			return err
		}
		s.session = session
	}

	if err := s.session.StartStreaming(); err != nil {
		s.publishError(path, err)
		return err
	}

	s.lastDropped = 0
	metrics.UpdateSession(path, 0, 0, true)
	s.bus.Publish(events.StreamStartedEvent{
		Path:      path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Stop halts streaming but keeps the device open for a quick restart.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || !s.session.IsStreaming() {
		return
	}

	stats := s.session.Stats()
	s.session.StopStreaming()

	path := s.session.Path()
	s.noteDropsLocked(path, stats.Dropped)
	metrics.UpdateSession(path, stats.Captured, stats.Dropped, false)
	s.bus.Publish(events.StreamStoppedEvent{
		Path:      path,
		Captured:  stats.Captured,
		Dropped:   stats.Dropped,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Snapshot returns the next complete frame as JPEG bytes, starting
// streaming on the default device first when necessary.
func (s *Service) Snapshot(timeout time.Duration) ([]byte, error) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session == nil || !session.IsStreaming() {
		if err := s.Start(""); err != nil {
			return nil, err
		}
		s.mu.Lock()
		session = s.session
		s.mu.Unlock()
		// A hotplug detach can close the session between Start returning
		// and the re-read above.
		if session == nil {
			return nil, fmt.Errorf("camera detached: %w", supercam.ErrNotFound)
		}
	}

	buf := make([]byte, supercam.SlotCapacity)
	n, err := session.ReadFrame(buf, timeout)
	if err != nil {
		if !errors.Is(err, supercam.ErrTimeout) {
			s.publishError(session.Path(), err)
		}
		return nil, err
	}

	stats := session.Stats()
	s.mu.Lock()
	s.noteDropsLocked(session.Path(), stats.Dropped)
	s.mu.Unlock()
	metrics.UpdateSession(session.Path(), stats.Captured, stats.Dropped, true)
	return buf[:n], nil
}

// Status reports the current session state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Status{}
	}
	stats := s.session.Stats()
	// The periodic status poll is also where drops get noticed when no
	// client is reading frames.
	s.noteDropsLocked(s.session.Path(), stats.Dropped)
	return Status{
		Open:      true,
		Streaming: s.session.IsStreaming(),
		Path:      s.session.Path(),
		Stats:     stats,
		LastError: s.session.LastError(),
	}
}

// HandleDetach closes the session when its device leaves the bus.
func (s *Service) HandleDetach(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.Path() != path {
		return
	}
	s.logger.Warn("active device detached", "device", path)
	s.closeLocked()
}

// Close releases the session if one is open.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Service) closeLocked() {
	if s.session == nil {
		return
	}
	path := s.session.Path()
	if err := s.session.Close(); err != nil {
		s.logger.Warn("session close failed", "device", path, "error", err)
	}
	s.session = nil
	metrics.RemoveSession(path)
}

// noteDropsLocked publishes a FrameDroppedEvent when the ring has
// overwritten frames since the last observation. Caller holds s.mu.
func (s *Service) noteDropsLocked(path string, dropped uint64) {
	if dropped <= s.lastDropped {
		return
	}
	s.lastDropped = dropped
	s.bus.Publish(events.FrameDroppedEvent{
		Path:         path,
		TotalDropped: dropped,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) publishError(path string, err error) {
	s.bus.Publish(events.CaptureErrorEvent{
		Path:      path,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
