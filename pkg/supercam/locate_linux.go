//go:build linux

package supercam

import (
	"github.com/smazurov/supercam/pkg/linuxusb/usbfs"
)

// enumerateDevices scans the USB bus for cameras matching the known
// vendor/product pair and inspects each candidate's descriptors for the
// streaming interface.
func enumerateDevices() ([]DeviceInfo, error) {
	found, err := usbfs.FindDevices(VendorID, ProductID)
	if err != nil {
		return nil, err
	}

	devices := make([]DeviceInfo, 0, len(found))
	for _, f := range found {
		desc := usbfs.Descriptors{Device: f.Device, Interfaces: f.Interfaces}
		info := DeviceInfo{
			VendorID:  f.Device.VendorID,
			ProductID: f.Device.ProductID,
			Path:      f.Path,
			Qualified: desc.HasBulkIn(StreamInterface, EndpointIn),
		}
		if info.Qualified {
			info.Description = "Useeplus SuperCamera"
		} else {
			info.Description = "Useeplus SuperCamera (no streaming interface)"
		}
		devices = append(devices, info)
	}
	return devices, nil
}
