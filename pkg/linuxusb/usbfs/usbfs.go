//go:build linux

// Package usbfs provides pure Go bindings to the Linux usbfs API for
// device enumeration, descriptor parsing, and synchronous bulk transfers.
//
// This package does not use cgo, enabling simple cross-compilation for
// different Linux architectures (amd64, arm64, arm).
//
// # Device Enumeration
//
// Use FindDevices to discover devices matching a vendor/product pair:
//
//	devices, err := usbfs.FindDevices(0x2ce3, 0x3828)
//	for _, dev := range devices {
//	    fmt.Printf("%s: %04x:%04x\n", dev.Path, dev.Device.VendorID, dev.Device.ProductID)
//	}
//
// # Device Access
//
// Open a device node and drive it directly:
//
//	dev, _ := usbfs.Open("/dev/bus/usb/001/004")
//	defer dev.Close()
//	dev.DetachKernelDriver(1)
//	dev.ClaimInterface(1)
//	n, err := dev.Bulk(0x81, buf, time.Second)
//
// Claiming an interface and issuing transfers requires write access to the
// device node (typically root or a udev rule).
package usbfs

// Descriptor types from the USB specification.
const (
	descTypeDevice    = 0x01
	descTypeConfig    = 0x02
	descTypeInterface = 0x04
	descTypeEndpoint  = 0x05
)

// Endpoint attribute transfer types (bmAttributes & 0x03).
const (
	TransferTypeControl     = 0x00
	TransferTypeIsochronous = 0x01
	TransferTypeBulk        = 0x02
	TransferTypeInterrupt   = 0x03
)

// DirectionIn is the endpoint address direction bit.
const DirectionIn = 0x80

// DeviceDescriptor is the parsed USB device descriptor.
type DeviceDescriptor struct {
	USBVersion        uint16
	Class             uint8
	SubClass          uint8
	Protocol          uint8
	MaxPacketSize0    uint8
	VendorID          uint16
	ProductID         uint16
	DeviceVersion     uint16
	NumConfigurations uint8
}

// InterfaceDescriptor is the parsed USB interface descriptor.
type InterfaceDescriptor struct {
	Number       uint8
	AltSetting   uint8
	NumEndpoints uint8
	Class        uint8
	SubClass     uint8
	Protocol     uint8
}

// EndpointDescriptor is the parsed USB endpoint descriptor.
type EndpointDescriptor struct {
	Address       uint8
	Attributes    uint8
	MaxPacketSize uint16
	Interval      uint8
}

// Interface groups an interface descriptor (one alternate setting) with
// the endpoints it declares.
type Interface struct {
	Descriptor InterfaceDescriptor
	Endpoints  []EndpointDescriptor
}

// Descriptors holds everything parsed from a device node.
type Descriptors struct {
	Device     DeviceDescriptor
	Interfaces []Interface
}

// DeviceInfo describes one enumerated device.
type DeviceInfo struct {
	Path       string
	Device     DeviceDescriptor
	Interfaces []Interface
}
