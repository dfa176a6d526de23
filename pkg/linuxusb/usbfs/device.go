//go:build linux

package usbfs

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

// Device is an open usbfs device node.
type Device struct {
	fd   int
	path string
}

// Open opens a usbfs device node (for example /dev/bus/usb/001/004) for
// transfers. Write access to the node is required.
func Open(path string) (*Device, error) {
	fd, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Device{fd: fd, path: path}, nil
}

// Path returns the device node path this handle was opened from.
func (d *Device) Path() string {
	return d.path
}

// Descriptors reads and parses the device's descriptor blob. The kernel
// exposes the device descriptor followed by all configuration descriptors
// as the readable content of the device node.
func (d *Device) Descriptors() (*Descriptors, error) {
	raw, err := readDescriptorBlob(d.fd)
	if err != nil {
		return nil, fmt.Errorf("read descriptors from %s: %w", d.path, err)
	}
	return parseDescriptors(raw)
}

// ClaimInterface claims an interface for exclusive use by this handle.
func (d *Device) ClaimInterface(ifno uint32) error {
	if _, err := ioctl(d.fd, reqClaimInterface, unsafe.Pointer(&ifno)); err != nil {
		return fmt.Errorf("claim interface %d: %w", ifno, err)
	}
	return nil
}

// ReleaseInterface releases a previously claimed interface.
func (d *Device) ReleaseInterface(ifno uint32) error {
	if _, err := ioctl(d.fd, reqReleaseInterface, unsafe.Pointer(&ifno)); err != nil {
		return fmt.Errorf("release interface %d: %w", ifno, err)
	}
	return nil
}

// DetachKernelDriver asks the kernel to unbind whatever driver currently
// owns the interface. ENODATA (no driver bound) is not an error.
func (d *Device) DetachKernelDriver(ifno int32) error {
	cmd := usbdevfsIoctl{ifno: ifno, ioctlCode: reqDisconnect}
	_, err := ioctl(d.fd, reqIoctl, unsafe.Pointer(&cmd))
	if err == syscall.ENODATA {
		return nil
	}
	if err != nil {
		return fmt.Errorf("detach kernel driver from interface %d: %w", ifno, err)
	}
	return nil
}

// SetInterface selects an alternate setting on a claimed interface.
func (d *Device) SetInterface(ifno, alt uint32) error {
	arg := usbdevfsSetInterface{iface: ifno, altSetting: alt}
	if _, err := ioctl(d.fd, reqSetInterface, unsafe.Pointer(&arg)); err != nil {
		return fmt.Errorf("set interface %d alt %d: %w", ifno, alt, err)
	}
	return nil
}

// ClearHalt clears a halt/stall condition on the given endpoint address and
// resets its data toggle. This also cancels pending state the host side has
// queued for the endpoint, which is the usbfs equivalent of an abort+flush.
func (d *Device) ClearHalt(endpoint uint8) error {
	ep := uint32(endpoint)
	if _, err := ioctl(d.fd, reqClearHalt, unsafe.Pointer(&ep)); err != nil {
		return fmt.Errorf("clear halt on endpoint 0x%02x: %w", endpoint, err)
	}
	return nil
}

// Reset performs a USB port reset. The device re-enumerates with the same
// address, so the handle stays usable.
func (d *Device) Reset() error {
	if _, err := ioctl(d.fd, reqReset, nil); err != nil {
		return fmt.Errorf("reset device: %w", err)
	}
	return nil
}

// Bulk performs one synchronous bulk transfer. Direction is taken from the
// endpoint address (bit 7 set = IN). A timeout of zero waits forever.
// Returns the number of bytes actually transferred; syscall.ETIMEDOUT is
// returned unwrapped so callers can test for it.
func (d *Device) Bulk(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	arg := usbdevfsBulkTransfer{
		endpoint: uint32(endpoint),
		length:   uint32(len(data)),
		timeout:  uint32(timeout.Milliseconds()),
		data:     unsafe.Pointer(&data[0]),
	}
	n, err := ioctl(d.fd, reqBulk, unsafe.Pointer(&arg))
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Close releases the device node.
func (d *Device) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := syscall.Close(d.fd)
	d.fd = -1
	return err
}

// readDescriptorBlob reads the full descriptor content of a device node
// without disturbing any transfer state.
func readDescriptorBlob(fd int) ([]byte, error) {
	buf := make([]byte, 4096)
	total := 0
	for total < len(buf) {
		n, err := syscall.Pread(fd, buf[total:], int64(total))
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		total += n
	}
	return buf[:total], nil
}
