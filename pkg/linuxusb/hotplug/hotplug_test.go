//go:build linux

package hotplug

import (
	"testing"
)

func TestParseUEvent(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected *Event
	}{
		{
			name:     "empty input",
			input:    []byte{},
			expected: nil,
		},
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "no @ separator",
			input:    []byte("invalid"),
			expected: nil,
		},
		{
			name:     "non-usb subsystem",
			input:    []byte("add@/devices/pci0000:00/video0\x00SUBSYSTEM=video4linux\x00DEVNAME=video0\x00"),
			expected: nil,
		},
		{
			name:     "usb interface event is skipped",
			input:    []byte("add@/devices/usb/1-1:1.0\x00SUBSYSTEM=usb\x00DEVTYPE=usb_interface\x00PRODUCT=2ce3/3828/100\x00"),
			expected: nil,
		},
		{
			name:     "bind action is skipped",
			input:    []byte("bind@/devices/usb/1-1\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00PRODUCT=2ce3/3828/100\x00"),
			expected: nil,
		},
		{
			name:     "missing product variable",
			input:    []byte("add@/devices/usb/1-1\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00"),
			expected: nil,
		},
		{
			name: "camera attach",
			input: []byte("add@/devices/usb/1-1\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00" +
				"PRODUCT=2ce3/3828/100\x00BUSNUM=001\x00DEVNUM=004\x00"),
			expected: &Event{
				Action:    ActionAdd,
				VendorID:  0x2ce3,
				ProductID: 0x3828,
				Path:      "/dev/bus/usb/001/004",
			},
		},
		{
			name: "camera detach without node numbers",
			input: []byte("remove@/devices/usb/1-1\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00" +
				"PRODUCT=2ce3/3828/100\x00"),
			expected: &Event{
				Action:    ActionRemove,
				VendorID:  0x2ce3,
				ProductID: 0x3828,
				Path:      "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseUEvent(tt.input)
			if tt.expected == nil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected an event, got nil")
			}
			if got.Action != tt.expected.Action {
				t.Errorf("Action = %q, want %q", got.Action, tt.expected.Action)
			}
			if got.VendorID != tt.expected.VendorID {
				t.Errorf("VendorID = %04x, want %04x", got.VendorID, tt.expected.VendorID)
			}
			if got.ProductID != tt.expected.ProductID {
				t.Errorf("ProductID = %04x, want %04x", got.ProductID, tt.expected.ProductID)
			}
			if got.Path != tt.expected.Path {
				t.Errorf("Path = %q, want %q", got.Path, tt.expected.Path)
			}
		})
	}
}

func TestParseProduct(t *testing.T) {
	tests := []struct {
		name    string
		product string
		vendor  uint16
		device  uint16
		ok      bool
	}{
		{"camera", "2ce3/3828/100", 0x2ce3, 0x3828, true},
		{"short ids", "46d/825/12", 0x046d, 0x0825, true},
		{"two fields only", "2ce3/3828", 0x2ce3, 0x3828, true},
		{"empty", "", 0, 0, false},
		{"one field", "2ce3", 0, 0, false},
		{"garbage", "zz/qq/1", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor, device, ok := parseProduct(tt.product)
			if ok != tt.ok || vendor != tt.vendor || device != tt.device {
				t.Errorf("parseProduct(%q) = (%04x, %04x, %v), want (%04x, %04x, %v)",
					tt.product, vendor, device, ok, tt.vendor, tt.device, tt.ok)
			}
		})
	}
}
