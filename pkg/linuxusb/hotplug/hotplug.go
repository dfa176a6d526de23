//go:build linux

// Package hotplug provides pure Go USB attach/detach monitoring using netlink.
//
// This package listens for kernel uevents without cgo and reduces them to
// typed USB device events, optionally filtered to one vendor/product pair.
package hotplug

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"syscall"
)

// Action constants for device events.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Event represents a USB device attach or detach.
type Event struct {
	Action    string            // "add" or "remove"
	VendorID  uint16            // from the PRODUCT uevent variable
	ProductID uint16            // from the PRODUCT uevent variable
	Path      string            // usbfs node path, e.g. /dev/bus/usb/001/004
	Env       map[string]string // all environment variables from the uevent
}

// Monitor listens for kernel USB device events via netlink.
type Monitor struct {
	fd       int
	vendor   uint16
	product  uint16
	filtered bool
	mu       sync.Mutex
}

// netlinkKobjectUEvent is the netlink protocol for kernel object events.
const netlinkKobjectUEvent = 15

// NewMonitor creates a new USB device event monitor.
func NewMonitor() (*Monitor, error) {
	fd, err := syscall.Socket(syscall.AF_NETLINK, syscall.SOCK_DGRAM|syscall.SOCK_CLOEXEC, netlinkKobjectUEvent)
	if err != nil {
		return nil, err
	}

	addr := &syscall.SockaddrNetlink{
		Family: syscall.AF_NETLINK,
		Groups: 1, // Kernel broadcast group
	}
	if err := syscall.Bind(fd, addr); err != nil {
		syscall.Close(fd)
		return nil, err
	}

	return &Monitor{fd: fd}, nil
}

// SetDeviceFilter restricts events to one vendor/product pair.
// Safe for concurrent use with Run.
func (m *Monitor) SetDeviceFilter(vendor, product uint16) {
	m.mu.Lock()
	m.vendor = vendor
	m.product = product
	m.filtered = true
	m.mu.Unlock()
}

// Close releases the monitor resources.
func (m *Monitor) Close() error {
	return syscall.Close(m.fd)
}

// Run starts the monitor and sends events to the provided channel.
// It blocks until the context is cancelled or an error occurs.
// The events channel is closed when Run returns.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	defer close(events)

	buf := make([]byte, 8192)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Set read timeout so we can check context periodically
		tv := syscall.Timeval{Sec: 1}
		if err := syscall.SetsockoptTimeval(m.fd, syscall.SOL_SOCKET, syscall.SO_RCVTIMEO, &tv); err != nil {
			return err
		}

		n, _, err := syscall.Recvfrom(m.fd, buf, 0)
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
				continue // Timeout, check context and retry
			}
			if errors.Is(err, syscall.EINTR) {
				continue // Interrupted, retry
			}
			return err
		}

		if n == 0 {
			continue
		}

		event := ParseUEvent(buf[:n])
		if event == nil {
			continue
		}

		m.mu.Lock()
		vendor, product, filtered := m.vendor, m.product, m.filtered
		m.mu.Unlock()
		if filtered && (event.VendorID != vendor || event.ProductID != product) {
			continue
		}

		select {
		case events <- *event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ParseUEvent parses a kernel uevent message into a USB device event.
// Format: "ACTION@KOBJ\0KEY=VALUE\0KEY=VALUE\0..."
// Returns nil for uevents that are not usb_device add/remove events.
// Exported for testing.
func ParseUEvent(data []byte) *Event {
	if len(data) == 0 {
		return nil
	}

	// Skip libudev header if present (starts with "libudev")
	if bytes.HasPrefix(data, []byte("libudev")) {
		for i := 0; i < len(data)-1; i++ {
			if data[i] == 0 {
				rest := data[i+1:]
				if idx := bytes.IndexByte(rest, '@'); idx > 0 && idx < 20 {
					data = rest
					break
				}
			}
		}
	}

	parts := bytes.Split(data, []byte{0})
	if len(parts) < 1 || len(parts[0]) == 0 {
		return nil
	}

	header := string(parts[0])
	atIdx := strings.Index(header, "@")
	if atIdx < 1 {
		return nil
	}

	event := &Event{
		Action: header[:atIdx],
		Env:    make(map[string]string),
	}
	if event.Action != ActionAdd && event.Action != ActionRemove {
		return nil
	}

	for _, part := range parts[1:] {
		if len(part) == 0 {
			continue
		}
		kv := string(part)
		eqIdx := strings.Index(kv, "=")
		if eqIdx < 1 {
			continue
		}
		event.Env[kv[:eqIdx]] = kv[eqIdx+1:]
	}

	// Whole-device events only; interface events carry DEVTYPE=usb_interface.
	if event.Env["SUBSYSTEM"] != "usb" || event.Env["DEVTYPE"] != "usb_device" {
		return nil
	}

	vendor, product, ok := parseProduct(event.Env["PRODUCT"])
	if !ok {
		return nil
	}
	event.VendorID = vendor
	event.ProductID = product
	event.Path = nodePath(event.Env["BUSNUM"], event.Env["DEVNUM"])

	return event
}

// parseProduct decodes the PRODUCT uevent variable ("vid/pid/bcdDevice",
// lowercase hex without leading zeros).
func parseProduct(product string) (uint16, uint16, bool) {
	fields := strings.Split(product, "/")
	if len(fields) < 2 {
		return 0, 0, false
	}
	vendor, err := strconv.ParseUint(fields[0], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	device, err := strconv.ParseUint(fields[1], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return uint16(vendor), uint16(device), true
}

// nodePath rebuilds the usbfs node path from the BUSNUM/DEVNUM variables.
func nodePath(busnum, devnum string) string {
	if busnum == "" || devnum == "" {
		return ""
	}
	bus, err := strconv.Atoi(busnum)
	if err != nil {
		return ""
	}
	dev, err := strconv.Atoi(devnum)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("/dev/bus/usb/%03d/%03d", bus, dev)
}
