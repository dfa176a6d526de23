//go:build linux

package usbfs

import (
	"encoding/binary"
	"fmt"
)

const deviceDescriptorLen = 18

// parseDescriptors decodes the raw descriptor blob read from a device node:
// an 18-byte device descriptor followed by the configuration descriptors
// with their embedded interface, endpoint, and class-specific descriptors.
// Unknown descriptor types are skipped; a zero-length descriptor terminates
// parsing since the blob can no longer be walked.
func parseDescriptors(raw []byte) (*Descriptors, error) {
	if len(raw) < deviceDescriptorLen {
		return nil, fmt.Errorf("descriptor blob too short: %d bytes", len(raw))
	}
	if raw[1] != descTypeDevice {
		return nil, fmt.Errorf("blob does not start with a device descriptor (type 0x%02x)", raw[1])
	}

	d := &Descriptors{
		Device: DeviceDescriptor{
			USBVersion:        binary.LittleEndian.Uint16(raw[2:4]),
			Class:             raw[4],
			SubClass:          raw[5],
			Protocol:          raw[6],
			MaxPacketSize0:    raw[7],
			VendorID:          binary.LittleEndian.Uint16(raw[8:10]),
			ProductID:         binary.LittleEndian.Uint16(raw[10:12]),
			DeviceVersion:     binary.LittleEndian.Uint16(raw[12:14]),
			NumConfigurations: raw[17],
		},
	}

	var current *Interface
	for off := int(raw[0]); off+2 <= len(raw); {
		length := int(raw[off])
		if length < 2 || off+length > len(raw) {
			break
		}
		desc := raw[off : off+length]

		switch desc[1] {
		case descTypeInterface:
			if length >= 9 {
				d.Interfaces = append(d.Interfaces, Interface{
					Descriptor: InterfaceDescriptor{
						Number:       desc[2],
						AltSetting:   desc[3],
						NumEndpoints: desc[4],
						Class:        desc[5],
						SubClass:     desc[6],
						Protocol:     desc[7],
					},
				})
				current = &d.Interfaces[len(d.Interfaces)-1]
			}
		case descTypeEndpoint:
			if length >= 7 && current != nil {
				current.Endpoints = append(current.Endpoints, EndpointDescriptor{
					Address:       desc[2],
					Attributes:    desc[3],
					MaxPacketSize: binary.LittleEndian.Uint16(desc[4:6]),
					Interval:      desc[6],
				})
			}
		}

		off += length
	}

	return d, nil
}

// HasBulkIn reports whether any alternate setting of the numbered interface
// declares a bulk IN endpoint with the given address.
func (d *Descriptors) HasBulkIn(ifno uint8, endpoint uint8) bool {
	for _, iface := range d.Interfaces {
		if iface.Descriptor.Number != ifno {
			continue
		}
		for _, ep := range iface.Endpoints {
			if ep.Address == endpoint && ep.Attributes&0x03 == TransferTypeBulk {
				return true
			}
		}
	}
	return false
}

// HasInterface reports whether the descriptor blob declares the numbered
// interface at all.
func (d *Descriptors) HasInterface(ifno uint8) bool {
	for _, iface := range d.Interfaces {
		if iface.Descriptor.Number == ifno {
			return true
		}
	}
	return false
}
