//go:build linux && (amd64 || arm64)

package usbfs

import "unsafe"

// Compile-time struct size assertions.
// These will cause build failures if struct sizes don't match kernel expectations.
var (
	_ [8]byte  = [unsafe.Sizeof(usbdevfsSetInterface{})]byte{}
	_ [24]byte = [unsafe.Sizeof(usbdevfsBulkTransfer{})]byte{}
	_ [16]byte = [unsafe.Sizeof(usbdevfsIoctl{})]byte{}
)

// usbfs ioctl request codes for 64-bit architectures (from linux/usbdevice_fs.h).
const (
	reqSetInterface     = 0x80085504 // USBDEVFS_SETINTERFACE
	reqClaimInterface   = 0x8004550f // USBDEVFS_CLAIMINTERFACE
	reqReleaseInterface = 0x80045510 // USBDEVFS_RELEASEINTERFACE
	reqBulk             = 0xc0185502 // USBDEVFS_BULK
	reqClearHalt        = 0x80045515 // USBDEVFS_CLEARHALT
	reqReset            = 0x00005514 // USBDEVFS_RESET
	reqIoctl            = 0xc0105512 // USBDEVFS_IOCTL
	reqDisconnect       = 0x00005516 // USBDEVFS_DISCONNECT (via USBDEVFS_IOCTL)
)

// usbdevfsSetInterface has size 8 bytes.
type usbdevfsSetInterface struct {
	iface      uint32 // offset 0
	altSetting uint32 // offset 4
}

// usbdevfsBulkTransfer has size 24 bytes (pointer is 8-byte aligned).
type usbdevfsBulkTransfer struct {
	endpoint uint32         // offset 0
	length   uint32         // offset 4
	timeout  uint32         // offset 8, milliseconds
	_        uint32         // offset 12, padding
	data     unsafe.Pointer // offset 16
}

// usbdevfsIoctl has size 16 bytes.
type usbdevfsIoctl struct {
	ifno      int32          // offset 0
	ioctlCode int32          // offset 4
	data      unsafe.Pointer // offset 8
}
