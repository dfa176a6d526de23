// Package metrics provides Prometheus metrics for camera capture sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesCaptured = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "supercam",
		Subsystem: "camera",
		Name:      "frames_captured_total",
		Help:      "Frames captured during the current streaming run",
	}, []string{"device"})

	framesDropped = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "supercam",
		Subsystem: "camera",
		Name:      "frames_dropped_total",
		Help:      "Frames dropped during the current streaming run",
	}, []string{"device"})

	streaming = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "supercam",
		Subsystem: "camera",
		Name:      "streaming",
		Help:      "Whether the camera is currently streaming (1) or not (0)",
	}, []string{"device"})

	devicesConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "supercam",
		Subsystem: "usb",
		Name:      "devices_connected",
		Help:      "Number of matching cameras currently on the bus",
	})
)

// UpdateSession records the counters for one capture session. The capture
// counters are per-run values, mirroring what the session reports; they
// reset when streaming restarts.
func UpdateSession(device string, captured, dropped uint64, active bool) {
	framesCaptured.WithLabelValues(device).Set(float64(captured))
	framesDropped.WithLabelValues(device).Set(float64(dropped))
	if active {
		streaming.WithLabelValues(device).Set(1)
	} else {
		streaming.WithLabelValues(device).Set(0)
	}
}

// RemoveSession drops all series for a device that went away.
func RemoveSession(device string) {
	labels := prometheus.Labels{"device": device}
	framesCaptured.Delete(labels)
	framesDropped.Delete(labels)
	streaming.Delete(labels)
}

// SetDevicesConnected records the camera count from the last enumeration.
func SetDevicesConnected(n int) {
	devicesConnected.Set(float64(n))
}
