//go:build linux

package usbfs

import (
	"syscall"
	"unsafe"
)

// ioctl issues a request against the device fd and returns the kernel's
// positive result (transfer length for USBDEVFS_BULK) or the errno.
func ioctl(fd int, req uint, arg unsafe.Pointer) (int, error) {
	r1, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return 0, errno
	}
	return int(r1), nil
}

func open(path string) (int, error) {
	return syscall.Open(path, syscall.O_RDWR|syscall.O_CLOEXEC, 0)
}

func openReadOnly(path string) (int, error) {
	return syscall.Open(path, syscall.O_RDONLY|syscall.O_CLOEXEC, 0)
}
