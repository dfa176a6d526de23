package supercam

import "time"

// Transport is the bulk USB channel a Camera drives. The production
// implementation sits on usbfs; tests substitute an in-memory fake.
//
// BulkIn and BulkOut return ErrTimeout (possibly wrapped) when the transfer
// deadline expires; the capture worker treats that as an empty iteration.
type Transport interface {
	// BulkIn reads from an inbound endpoint into buf.
	BulkIn(endpoint uint8, buf []byte, timeout time.Duration) (int, error)

	// BulkOut writes data to an outbound endpoint.
	BulkOut(endpoint uint8, data []byte, timeout time.Duration) (int, error)

	// SetAltSetting selects an alternate setting on the streaming
	// interface. The camera idles on setting 0 and streams on setting 1.
	SetAltSetting(alt uint8) error

	// ClearHalt clears stall state and pending host-side data on one
	// endpoint. Doubles as the abort/flush primitive: issuing it against
	// the IN endpoint unblocks a worker stuck in BulkIn.
	ClearHalt(endpoint uint8) error

	// Reset performs a device-level reset.
	Reset() error

	// Close releases the interface and the underlying handle.
	Close() error
}
