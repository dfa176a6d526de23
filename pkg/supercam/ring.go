package supercam

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// frameSlot is one reusable frame buffer. The backing array is allocated on
// first use and kept for the life of the ring; steady-state capture does no
// per-frame allocation.
type frameSlot struct {
	data  []byte
	size  int
	ready bool
}

// append copies payload into the slot, reporting false when it would exceed
// the slot capacity. The slot is untouched on refusal.
func (s *frameSlot) append(payload []byte) bool {
	if s.size+len(payload) > SlotCapacity {
		return false
	}
	if s.data == nil {
		s.data = make([]byte, SlotCapacity)
	}
	copy(s.data[s.size:], payload)
	s.size += len(payload)
	return true
}

// restart discards any accumulated bytes and, when the payload begins a new
// JPEG, seeds the slot with it.
func (s *frameSlot) restart(payload []byte) {
	s.size = 0
	s.ready = false
	if hasSOIPrefix(payload) {
		s.append(payload)
	}
}

// frameRing is the fixed-depth ring of frame slots shared between the
// capture worker (producer) and blocking readers (consumers). One mutex
// guards all state; it is held only for the duration of a single packet
// ingest or frame copy, never across I/O or waits.
type frameRing struct {
	mu    sync.Mutex
	slots []frameSlot
	read  int
	write int

	captured uint64
	dropped  uint64

	// readyCh carries a token per newly completed frame; receives may be
	// spurious from a reader's perspective, so readers re-check under the
	// lock and loop. stopCh is closed when streaming stops so blocked
	// readers do not hang forever.
	readyCh chan struct{}
	stopCh  chan struct{}
	stopped bool

	logger *slog.Logger
}

func newFrameRing(depth int, logger *slog.Logger) *frameRing {
	r := &frameRing{
		slots:   make([]frameSlot, depth),
		readyCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		stopped: true,
		logger:  logger,
	}
	close(r.stopCh)
	return r
}

// reset prepares the ring for a new streaming run: all slots empty, indices
// and counters zeroed, stop state cleared.
func (r *frameRing) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		r.slots[i].size = 0
		r.slots[i].ready = false
	}
	r.read = 0
	r.write = 0
	r.captured = 0
	r.dropped = 0
	r.stopped = false
	r.readyCh = make(chan struct{}, 1)
	r.stopCh = make(chan struct{})
}

// stop clears every slot and index so a later start never serves stale
// frames, and wakes all blocked readers.
func (r *frameRing) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	for i := range r.slots {
		r.slots[i].size = 0
		r.slots[i].ready = false
	}
	r.read = 0
	r.write = 0
	r.stopped = true
	close(r.stopCh)
}

// stats returns the counters for the current streaming run.
func (r *frameRing) stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{Captured: r.captured, Dropped: r.dropped}
}

// signalReady makes one token available to waiting readers. Non-blocking:
// an already pending token satisfies any number of completed frames.
func (r *frameRing) signalReady() {
	select {
	case r.readyCh <- struct{}{}:
	default:
	}
}

// readFrame copies the next ready frame into buf. It blocks until a frame
// is ready, the timeout expires (zero waits indefinitely), or streaming
// stops. A frame larger than buf is left queued so a retry with a larger
// buffer succeeds.
func (r *frameRing) readFrame(buf []byte, timeout time.Duration) (int, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			return 0, fmt.Errorf("streaming stopped: %w", ErrNoFrame)
		}
		slot := &r.slots[r.read]
		if slot.ready {
			if slot.size > len(buf) {
				need := slot.size
				r.mu.Unlock()
				return 0, fmt.Errorf("frame is %d bytes, buffer holds %d: %w", need, len(buf), ErrBufferTooSmall)
			}
			n := copy(buf, slot.data[:slot.size])
			slot.ready = false
			slot.size = 0
			r.read = (r.read + 1) % len(r.slots)
			r.mu.Unlock()
			return n, nil
		}
		ready := r.readyCh
		stop := r.stopCh
		r.mu.Unlock()

		select {
		case <-ready:
			// A frame completed since we last looked; re-check. Another
			// reader may have consumed it first, in which case we wait
			// again.
		case <-stop:
			// Loop once more to report ErrNoFrame under the lock.
		case <-deadline:
			return 0, fmt.Errorf("no frame within %v: %w", timeout, ErrTimeout)
		}
	}
}
