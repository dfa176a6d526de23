//go:build !linux

package camera

import (
	"errors"

	"github.com/smazurov/supercam/internal/events"
)

// StartHotplugMonitor requires the Linux netlink uevent interface.
func StartHotplugMonitor(svc *Service, bus *events.Bus) (func(), error) {
	return nil, errors.New("hotplug monitoring is only supported on linux")
}
