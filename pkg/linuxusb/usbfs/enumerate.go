//go:build linux

package usbfs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

const busRoot = "/dev/bus/usb"

// FindDevices scans the usbfs tree for devices matching the vendor/product
// pair and returns their paths and parsed descriptors. Devices that cannot
// be opened or parsed are skipped. Returns an empty slice (not an error)
// when usbfs is absent or no device matches; an error is returned only when
// walking the tree itself fails.
func FindDevices(vendor, product uint16) ([]DeviceInfo, error) {
	buses, err := os.ReadDir(busRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return []DeviceInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read usbfs bus directory: %w", err)
	}

	log := slog.With("component", "usbfs")
	var devices []DeviceInfo

	for _, bus := range buses {
		if !bus.IsDir() {
			continue
		}
		busDir := filepath.Join(busRoot, bus.Name())
		nodes, err := os.ReadDir(busDir)
		if err != nil {
			log.Debug("failed to read bus directory", "path", busDir, "error", err)
			continue
		}

		for _, node := range nodes {
			path := filepath.Join(busDir, node.Name())

			// Descriptor reads do not need write access.
			fd, err := openReadOnly(path)
			if err != nil {
				log.Debug("failed to open device node", "path", path, "error", err)
				continue
			}
			raw, err := readDescriptorBlob(fd)
			syscall.Close(fd)
			if err != nil {
				log.Debug("failed to read descriptors", "path", path, "error", err)
				continue
			}

			desc, err := parseDescriptors(raw)
			if err != nil {
				log.Debug("failed to parse descriptors", "path", path, "error", err)
				continue
			}

			if desc.Device.VendorID != vendor || desc.Device.ProductID != product {
				continue
			}

			devices = append(devices, DeviceInfo{
				Path:       path,
				Device:     desc.Device,
				Interfaces: desc.Interfaces,
			})
		}
	}

	return devices, nil
}
