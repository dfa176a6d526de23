package events

// Event type constants for kelindar/event.
const (
	TypeDeviceAttached uint32 = iota + 1
	TypeDeviceDetached
	TypeStreamStarted
	TypeStreamStopped
	TypeCaptureError
	TypeFrameDropped
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DeviceAttachedEvent fires when a camera appears on the bus.
type DeviceAttachedEvent struct {
	Path      string `json:"path" example:"/dev/bus/usb/001/004" doc:"USB device node path"`
	VendorID  uint16 `json:"vendor_id" example:"11491" doc:"USB vendor identifier"`
	ProductID uint16 `json:"product_id" example:"14376" doc:"USB product identifier"`
	Timestamp string `json:"timestamp" example:"2026-08-31T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceAttachedEvent.
func (e DeviceAttachedEvent) Type() uint32 { return TypeDeviceAttached }

// DeviceDetachedEvent fires when a camera leaves the bus.
type DeviceDetachedEvent struct {
	Path      string `json:"path" example:"/dev/bus/usb/001/004" doc:"USB device node path"`
	Timestamp string `json:"timestamp" example:"2026-08-31T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceDetachedEvent.
func (e DeviceDetachedEvent) Type() uint32 { return TypeDeviceDetached }

// StreamStartedEvent fires when a capture session starts streaming.
type StreamStartedEvent struct {
	Path      string `json:"path" example:"/dev/bus/usb/001/004" doc:"USB device node path"`
	Timestamp string `json:"timestamp" example:"2026-08-31T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StreamStartedEvent.
func (e StreamStartedEvent) Type() uint32 { return TypeStreamStarted }

// StreamStoppedEvent fires when a capture session stops streaming,
// carrying the final counters for the run.
type StreamStoppedEvent struct {
	Path      string `json:"path" example:"/dev/bus/usb/001/004" doc:"USB device node path"`
	Captured  uint64 `json:"captured" example:"1452" doc:"Frames captured during the run"`
	Dropped   uint64 `json:"dropped" example:"3" doc:"Frames dropped during the run"`
	Timestamp string `json:"timestamp" example:"2026-08-31T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StreamStoppedEvent.
func (e StreamStoppedEvent) Type() uint32 { return TypeStreamStopped }

// CaptureErrorEvent fires when the capture worker hits a transport failure.
type CaptureErrorEvent struct {
	Path      string `json:"path" example:"/dev/bus/usb/001/004" doc:"USB device node path"`
	Error     string `json:"error" example:"bulk read: endpoint gone" doc:"Error description"`
	Timestamp string `json:"timestamp" example:"2026-08-31T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CaptureErrorEvent.
func (e CaptureErrorEvent) Type() uint32 { return TypeCaptureError }

// FrameDroppedEvent fires when the frame ring overwrites an unread frame.
type FrameDroppedEvent struct {
	Path         string `json:"path" example:"/dev/bus/usb/001/004" doc:"USB device node path"`
	TotalDropped uint64 `json:"total_dropped" example:"4" doc:"Cumulative drops this run"`
	Timestamp    string `json:"timestamp" example:"2026-08-31T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for FrameDroppedEvent.
func (e FrameDroppedEvent) Type() uint32 { return TypeFrameDropped }
