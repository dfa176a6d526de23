//go:build !linux

package supercam

import (
	"fmt"
	"runtime"
)

// Device access requires the Linux usbfs API. Other platforms can still
// compile against the package for its types and errors.

func enumerateDevices() ([]DeviceInfo, error) {
	return nil, fmt.Errorf("usb enumeration is not supported on %s: %w", runtime.GOOS, ErrNotFound)
}

func openTransport(path string) (Transport, error) {
	return nil, fmt.Errorf("usb access is not supported on %s: %w", runtime.GOOS, ErrOpenFailed)
}
