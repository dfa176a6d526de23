// Package logging provides structured logging with per-module log level
// configuration.
//
// The logging system uses Go's slog package with automatic output routing:
//   - systemd journal when available (journald socket present)
//   - stdout when a terminal, pipe, or file is connected
//   - an in-memory ring buffer backing the /api/logs endpoint
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"camera": "debug",
//			"api":    "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("camera")
//	logger.Info("streaming started", "device", path)
//
// When running under systemd:
//
//	journalctl -t supercam -f
//	journalctl -t supercam MODULE=camera
//
// Module-specific levels override the global level for that module only:
//
//	[logging]
//	level = "info"
//
//	[logging.modules]
//	camera = "debug"
//	usb = "debug"
package logging
