package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/supercam/cmd"
	"github.com/smazurov/supercam/internal/api"
	"github.com/smazurov/supercam/internal/camera"
	"github.com/smazurov/supercam/internal/config"
	"github.com/smazurov/supercam/internal/events"
	"github.com/smazurov/supercam/internal/logging"
	"github.com/smazurov/supercam/internal/metrics"
	"github.com/smazurov/supercam/internal/metrics/exporters"
	"github.com/smazurov/supercam/pkg/supercam"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Capture settings
	SnapshotTimeoutMs int  `help:"Snapshot read timeout in milliseconds" default:"5000" toml:"capture.snapshot_timeout_ms" env:"CAPTURE_SNAPSHOT_TIMEOUT_MS"`
	AutoStart         bool `help:"Start streaming from the first qualified camera at boot" default:"false" toml:"capture.auto_start" env:"CAPTURE_AUTO_START"`
	DebugDump         bool `help:"Write capture engine debug records to supercam_debug.log" default:"false" toml:"capture.debug_dump" env:"CAPTURE_DEBUG_DUMP"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCamera  string `help:"Camera session logging level" default:"info" toml:"logging.camera" env:"LOGGING_CAMERA"`
	LoggingUSB     string `help:"USB transport logging level" default:"info" toml:"logging.usb" env:"LOGGING_USB"`
	LoggingHotplug string `help:"Hotplug monitor logging level" default:"info" toml:"logging.hotplug" env:"LOGGING_HOTPLUG"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func loggingConfigFromOptions(opts *Options) logging.Config {
	return logging.Config{
		Level:  opts.LoggingLevel,
		Format: opts.LoggingFormat,
		Modules: map[string]string{
			"camera":  opts.LoggingCamera,
			"usb":     opts.LoggingUSB,
			"hotplug": opts.LoggingHotplug,
			"api":     opts.LoggingAPI,
		},
	}
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(loggingConfigFromOptions(opts))
		logger := logging.GetLogger("main")

		if opts.DebugDump {
			if err := supercam.SetDebugLogging(true); err != nil {
				logger.Warn("could not enable capture debug log", "error", err)
			}
		}

		eventBus := events.New()
		cameraService := camera.New(eventBus)

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Camera:            cameraService,
			EventBus:          eventBus,
			PrometheusHandler: exporters.HTTPHandler(),
			SnapshotTimeout:   time.Duration(opts.SnapshotTimeoutMs) * time.Millisecond,
		})

		// Log level changes in config.toml apply without a restart.
		watcher := config.NewConfigWatcher(
			opts.Config,
			func(path string) (logging.Config, error) {
				return config.LoadLoggingConfig(path), nil
			},
			logging.GetLogger("config"),
		)
		watcher.OnReload(func(cfg logging.Config) {
			for module, level := range cfg.Modules {
				logging.SetModuleLevel(module, level)
			}
		})

		var stopHotplug func()
		var statsTicker *time.Ticker
		statsStop := make(chan struct{})

		hooks.OnStart(func() {
			if err := watcher.Start(); err != nil {
				logger.Warn("config watcher not started", "error", err)
			}

			stop, err := camera.StartHotplugMonitor(cameraService, eventBus)
			if err != nil {
				logger.Warn("hotplug monitoring unavailable", "error", err)
			} else {
				stopHotplug = stop
			}

			if opts.AutoStart {
				if err := cameraService.Start(""); err != nil {
					logger.Warn("auto-start failed", "error", err)
				}
			}

			statsTicker = time.NewTicker(15 * time.Second)
			go func() {
				for {
					select {
					case <-statsStop:
						return
					case <-statsTicker.C:
						status := cameraService.Status()
						if status.Open {
							metrics.UpdateSession(status.Path, status.Stats.Captured, status.Stats.Dropped, status.Streaming)
						}
					}
				}
			}()

			if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
				logger.Warn("sd_notify failed", "error", err)
			} else if sent {
				logger.Debug("notified systemd of readiness")
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
			}
		})

		hooks.OnStop(func() {
			daemon.SdNotify(false, daemon.SdNotifyStopping)
			logger.Info("Shutting down")

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if statsTicker != nil {
				statsTicker.Stop()
				close(statsStop)
			}
			if stopHotplug != nil {
				stopHotplug()
			}
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping config watcher", "error", stopErr)
			}
			cameraService.Close()
		})
	})

	cli.Root().AddCommand(cmd.CreateDevicesCmd())
	cli.Root().AddCommand(cmd.CreateCaptureCmd())

	cli.Run()
}
