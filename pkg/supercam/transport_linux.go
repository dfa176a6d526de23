//go:build linux

package supercam

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/smazurov/supercam/pkg/linuxusb/usbfs"
)

// usbfsTransport adapts a usbfs device handle to the Transport contract.
// The streaming interface is claimed for the lifetime of the transport.
type usbfsTransport struct {
	dev *usbfs.Device
}

// openTransport opens the device node, detaches any kernel driver bound to
// the streaming interface and claims it.
func openTransport(path string) (Transport, error) {
	dev, err := usbfs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, ErrOpenFailed)
	}

	// A UVC-capable kernel may have bound its driver to the interface;
	// usbfs refuses the claim until it is detached.
	if err := dev.DetachKernelDriver(StreamInterface); err != nil {
		dev.Close()
		return nil, fmt.Errorf("detach kernel driver: %v: %w", err, ErrOpenFailed)
	}
	if err := dev.ClaimInterface(StreamInterface); err != nil {
		dev.Close()
		return nil, fmt.Errorf("claim interface %d: %v: %w", StreamInterface, err, ErrOpenFailed)
	}
	return &usbfsTransport{dev: dev}, nil
}

func (t *usbfsTransport) BulkIn(endpoint uint8, buf []byte, timeout time.Duration) (int, error) {
	n, err := t.dev.Bulk(endpoint, buf, timeout)
	return n, mapBulkError(err)
}

func (t *usbfsTransport) BulkOut(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	n, err := t.dev.Bulk(endpoint, data, timeout)
	return n, mapBulkError(err)
}

func (t *usbfsTransport) SetAltSetting(alt uint8) error {
	return t.dev.SetInterface(StreamInterface, uint32(alt))
}

func (t *usbfsTransport) ClearHalt(endpoint uint8) error {
	return t.dev.ClearHalt(endpoint)
}

func (t *usbfsTransport) Reset() error {
	return t.dev.Reset()
}

func (t *usbfsTransport) Close() error {
	if err := t.dev.ReleaseInterface(StreamInterface); err != nil {
		return errors.Join(err, t.dev.Close())
	}
	return t.dev.Close()
}

func mapBulkError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.ETIMEDOUT) {
		return fmt.Errorf("bulk transfer: %w", ErrTimeout)
	}
	return err
}
