//go:build linux

package camera

import (
	"context"
	"time"

	"github.com/smazurov/supercam/internal/events"
	"github.com/smazurov/supercam/internal/logging"
	"github.com/smazurov/supercam/pkg/linuxusb/hotplug"
	"github.com/smazurov/supercam/pkg/supercam"
)

// StartHotplugMonitor watches the kernel uevent stream for SuperCamera
// attach and detach events, publishing them on the bus and closing the
// service's session when its device disappears. Returns a stop function.
func StartHotplugMonitor(svc *Service, bus *events.Bus) (func(), error) {
	logger := logging.GetLogger("hotplug")

	monitor, err := hotplug.NewMonitor()
	if err != nil {
		return nil, err
	}
	monitor.SetDeviceFilter(supercam.VendorID, supercam.ProductID)

	ctx, cancel := context.WithCancel(context.Background())
	eventCh := make(chan hotplug.Event, 8)
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := monitor.Run(ctx, eventCh); err != nil && ctx.Err() == nil {
			logger.Error("hotplug monitor stopped", "error", err)
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				now := time.Now().UTC().Format(time.RFC3339)
				switch ev.Action {
				case "add":
					logger.Info("camera attached", "device", ev.Path)
					bus.Publish(events.DeviceAttachedEvent{
						Path:      ev.Path,
						VendorID:  ev.VendorID,
						ProductID: ev.ProductID,
						Timestamp: now,
					})
				case "remove":
					logger.Info("camera detached", "device", ev.Path)
					svc.HandleDetach(ev.Path)
					bus.Publish(events.DeviceDetachedEvent{
						Path:      ev.Path,
						Timestamp: now,
					})
				}
			}
		}
	}()

	stop := func() {
		cancel()
		<-done
		monitor.Close()
	}
	return stop, nil
}
