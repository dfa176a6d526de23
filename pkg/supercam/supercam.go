package supercam

import (
	"log/slog"
	"time"
)

// Device identity and USB topology.
const (
	// VendorID and ProductID identify the Useeplus SuperCamera.
	VendorID  = 0x2ce3
	ProductID = 0x3828

	// StreamInterface is the vendor bulk interface carrying video data.
	// Interface 0 is a non-functional UVC-lookalike; the camera only
	// streams on interface 1.
	StreamInterface = 1

	// EndpointIn and EndpointOut are the bulk endpoint addresses on the
	// streaming interface.
	EndpointIn  = 0x81
	EndpointOut = 0x01

	altIdle      = 0
	altStreaming = 1
)

// Protocol constants.
const (
	// packetHeaderLen is the length of the proprietary header preceding
	// each payload slice.
	packetHeaderLen = 12

	// SlotCapacity is the fixed capacity of one frame slot and the upper
	// bound for any single JPEG the camera produces.
	SlotCapacity = 64 * 1024

	// maxFrameSize bounds an in-progress frame that has not yet seen an
	// EOI marker. Slightly below SlotCapacity so a desynced stream is cut
	// off before the slot fills completely.
	maxFrameSize = SlotCapacity - 4096

	// MinFrameSize is the smallest byte count accepted as a complete JPEG.
	// Guards against FF D9 byte pairs that occur inside entropy-coded data
	// rather than as a true end-of-image marker.
	MinFrameSize = 1000

	// RingDepth is the number of frame slots. The camera buffers about ten
	// frames internally, so twelve gives a safety margin.
	RingDepth = 12
)

// Timing constants.
const (
	// readTimeout bounds each bulk read so the capture worker stays
	// responsive to stop requests. Expiry is a normal empty iteration.
	readTimeout = time.Second

	// commandTimeout bounds the handshake write.
	commandTimeout = time.Second

	// joinTimeout bounds the wait for the capture worker during stop.
	joinTimeout = 2 * time.Second

	// settleShort and settleLong let the host controller settle between
	// pipe operations. Skipping them makes a reopen of the same physical
	// device racy.
	settleShort = 50 * time.Millisecond
	settleLong  = 100 * time.Millisecond

	// altSettleDelay follows the reset to the idle alternate setting
	// before switching to the streaming one.
	altSettleDelay = 10 * time.Millisecond
)

// handshakeCommand switches the camera into active streaming mode when
// written to the OUT endpoint.
var handshakeCommand = []byte{0xbb, 0xaa, 0x05, 0x00, 0x00}

// packetMagic prefixes every valid protocol packet.
var packetMagic = []byte{0xaa, 0xbb, 0x07}

// JPEG frame boundary markers.
var (
	jpegSOI = []byte{0xff, 0xd8}
	jpegEOI = []byte{0xff, 0xd9}
)

// DeviceInfo describes one enumerated camera.
type DeviceInfo struct {
	VendorID    uint16 `json:"vendor_id"`
	ProductID   uint16 `json:"product_id"`
	Path        string `json:"path"`
	Description string `json:"description"`

	// Qualified is true when the device exposes the expected streaming
	// interface with its bulk IN endpoint. Unqualified entries are
	// fallback candidates reported after all qualified ones.
	Qualified bool `json:"qualified"`
}

// Stats holds per-session frame counters. Counters increase monotonically
// while streaming and reset when streaming starts.
type Stats struct {
	Captured uint64 `json:"captured"`
	Dropped  uint64 `json:"dropped"`
}

// Option configures a Camera at open time.
type Option func(*cameraOptions)

type cameraOptions struct {
	logger *slog.Logger
}

// WithLogger injects the logger used by the camera session. Without it the
// session logs to the package debug sink when enabled (see SetDebugLogging)
// and is silent otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *cameraOptions) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) cameraOptions {
	var cfg cameraOptions
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	return cfg
}
