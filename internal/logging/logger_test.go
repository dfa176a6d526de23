package logging

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"
)

func resetState() {
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	logBuffer = nil
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetState()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"camera": "debug",
			"api":    "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"camera", true, true, true},
		{"api", false, false, true},
		{"usb", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()

			if got := handler.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := handler.Enabled(context.Background(), slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := handler.Enabled(context.Background(), slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestSetModuleLevel(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info", Format: "text"})

	logger := GetLogger("camera")
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug enabled before override")
	}

	if !SetModuleLevel("camera", "debug") {
		t.Fatal("SetModuleLevel failed for existing module")
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug still disabled after override")
	}

	if SetModuleLevel("camera", "nonsense") {
		t.Error("SetModuleLevel accepted an invalid level")
	}
	if SetModuleLevel("never-created", "debug") {
		t.Error("SetModuleLevel succeeded for unknown module")
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetState()

	// Loggers handed out before Initialize must be cached and pick up
	// configured levels once Initialize runs.
	loggerBefore := GetLogger("early")
	loggerBefore.Info("pre-init message")

	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"early": "debug"},
	})

	loggerAfter := GetLogger("early")
	if !loggerAfter.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("pre-init logger did not pick up configured level")
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			if tt.isNil {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
				}
			} else if got == nil || *got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRingBufferWraparound(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.Write(LogEntry{
			Timestamp: time.Now(),
			Level:     "info",
			Module:    "test",
			Message:   fmt.Sprintf("entry %d", i),
		})
	}

	all := rb.ReadAll()
	if len(all) != 3 {
		t.Fatalf("ReadAll returned %d entries, want 3", len(all))
	}
	for i, entry := range all {
		want := fmt.Sprintf("entry %d", i+2)
		if entry.Message != want {
			t.Errorf("entry[%d] = %q, want %q", i, entry.Message, want)
		}
	}

	last := rb.Last(2)
	if len(last) != 2 || last[1].Message != "entry 4" {
		t.Errorf("Last(2) = %v, want the two newest entries", last)
	}
}

func TestBufferHandlerRecordsEntries(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info", Format: "text"})

	logger := GetLogger("camera")
	logger.Info("frame captured", "bytes", 2000)

	entries := GetBuffer().ReadAll()
	if len(entries) == 0 {
		t.Fatal("no entries recorded")
	}
	entry := entries[len(entries)-1]
	if entry.Module != "camera" {
		t.Errorf("module = %q, want camera", entry.Module)
	}
	if entry.Message != "frame captured" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Attributes["bytes"] != int64(2000) {
		t.Errorf("bytes attribute = %v (%T)", entry.Attributes["bytes"], entry.Attributes["bytes"])
	}
}
