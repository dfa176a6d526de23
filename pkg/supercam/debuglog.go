package supercam

import (
	"log/slog"
	"os"
	"sync"
)

// debugLogFile is created in the working directory when debug logging is
// enabled. Appended to across sessions so a flaky device's history
// survives restarts.
const debugLogFile = "supercam_debug.log"

var debugState struct {
	mu      sync.Mutex
	envOnce sync.Once
	enabled bool
	file    *os.File
	logger  *slog.Logger
}

// SetDebugLogging enables or disables the package debug log file. When
// enabled, sessions created without WithLogger write debug-level records
// to supercam_debug.log in the working directory. Disabling closes the
// file. Also togglable at startup via SUPERCAM_DEBUG=1.
func SetDebugLogging(enable bool) error {
	debugState.mu.Lock()
	defer debugState.mu.Unlock()

	if enable == debugState.enabled {
		return nil
	}
	if !enable {
		debugState.enabled = false
		debugState.logger = nil
		if debugState.file != nil {
			err := debugState.file.Close()
			debugState.file = nil
			return err
		}
		return nil
	}

	f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	debugState.file = f
	debugState.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	debugState.enabled = true
	return nil
}

// IsDebugLoggingEnabled reports whether the debug log file is active.
func IsDebugLoggingEnabled() bool {
	checkDebugEnv()
	debugState.mu.Lock()
	defer debugState.mu.Unlock()
	return debugState.enabled
}

func checkDebugEnv() {
	debugState.envOnce.Do(func() {
		if os.Getenv("SUPERCAM_DEBUG") == "1" {
			if err := SetDebugLogging(true); err != nil {
				slog.Warn("could not open debug log file", "path", debugLogFile, "error", err)
			}
		}
	})
}

// defaultLogger returns the logger used by sessions created without
// WithLogger: the debug log file when enabled, otherwise a logger that
// discards everything.
func defaultLogger() *slog.Logger {
	checkDebugEnv()
	debugState.mu.Lock()
	defer debugState.mu.Unlock()
	if debugState.logger != nil {
		return debugState.logger
	}
	return slog.New(slog.DiscardHandler)
}
