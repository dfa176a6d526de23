package supercam

import "bytes"

// The camera wraps every bulk transfer in a proprietary packet: a 3-byte
// magic, nine more header bytes, then a payload that is an arbitrary slice
// of the JPEG byte stream. Frame boundaries are not aligned to packets; a
// packet can end mid-frame and the tail of one frame can share a packet
// with the head of the next. Reassembly therefore keys off the embedded
// JPEG SOI/EOI markers.

func hasSOIPrefix(b []byte) bool {
	return bytes.HasPrefix(b, jpegSOI)
}

// ingest processes exactly one transport packet under the ring lock. It
// never blocks; all failure modes (bad magic, overflow, desync) recover
// locally by discarding buffered data.
func (r *frameRing) ingest(packet []byte) {
	// Packets without the vendor magic are protocol noise.
	if !bytes.HasPrefix(packet, packetMagic) {
		return
	}
	if len(packet) <= packetHeaderLen {
		return
	}
	payload := packet[packetHeaderLen:]

	r.mu.Lock()
	defer r.mu.Unlock()

	slot := &r.slots[r.write]

	// A payload opening with SOI announces a new frame. Any unfinished
	// accumulation in the slot is a casualty of lost packets; abandon it
	// in favor of the frame we know is starting.
	if hasSOIPrefix(payload) && slot.size > 0 && !slot.ready {
		r.logger.Debug("incomplete frame abandoned for new SOI", "discarded", slot.size)
		slot.size = 0
	}

	if !slot.append(payload) {
		// Appending would overrun the slot. Drop the accumulation; if the
		// payload itself starts a frame it becomes the new beginning.
		r.logger.Debug("frame slot overflow, restarting", "accumulated", slot.size, "payload", len(payload))
		slot.restart(payload)
		return
	}

	r.scanForFrame(slot)

	// Safety valve: a desynced stream may never produce an EOI. Cut the
	// accumulation off before it pins the slot near capacity forever.
	slot = &r.slots[r.write]
	if slot.size > maxFrameSize && !slot.ready {
		r.logger.Debug("oversized frame without EOI discarded", "size", slot.size)
		slot.size = 0
	}
}

// scanForFrame looks for the first EOI marker in the write slot and, when
// it terminates a plausible JPEG, completes the frame: marks the slot
// ready, advances the write pointer (dropping the oldest unread frame on
// overflow), and carries any post-EOI leftover into the next slot.
// Called with the ring lock held.
func (r *frameRing) scanForFrame(slot *frameSlot) {
	for i := 1; i < slot.size; i++ {
		if slot.data[i-1] != 0xff || slot.data[i] != 0xd9 {
			continue
		}
		frameLen := i + 1

		// A real frame starts with SOI and is at least plausibly sized;
		// anything else is an FF D9 pair inside entropy-coded data.
		if frameLen < MinFrameSize || !hasSOIPrefix(slot.data[:slot.size]) {
			continue
		}

		// Bytes past the EOI belong to the next frame, delivered early in
		// the same transfer.
		leftover := append([]byte(nil), slot.data[frameLen:slot.size]...)

		slot.size = frameLen
		slot.ready = true
		r.captured++
		r.signalReady()

		next := (r.write + 1) % len(r.slots)
		if next == r.read && r.slots[next].ready {
			// Consumer fell behind; overwrite the oldest unread frame and
			// move the read pointer past it in the same critical section
			// so the reader can never observe the torn slot.
			r.dropped++
			r.read = (r.read + 1) % len(r.slots)
			r.logger.Debug("ring full, oldest frame dropped", "total_dropped", r.dropped)
		}
		r.write = next

		// Carry the leftover only when it opens with SOI; a partial tail
		// would corrupt the front of the next frame.
		r.slots[next].restart(leftover)
		return
	}
}
