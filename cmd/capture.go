package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/smazurov/supercam/internal/logging"
	"github.com/smazurov/supercam/pkg/supercam"
	"github.com/spf13/cobra"
)

// CreateCaptureCmd creates the capture command.
func CreateCaptureCmd() *cobra.Command {
	var (
		device  string
		outDir  string
		count   int
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture JPEG frames to disk",
		Long: `Opens a SuperCamera device, starts streaming, and writes complete JPEG ` +
			`frames to the output directory until the requested count is reached or the ` +
			`process is interrupted.`,
		Run: func(_ *cobra.Command, _ []string) {
			level := "info"
			if verbose {
				level = "debug"
			}
			logging.Initialize(logging.Config{Level: level, Format: "text"})
			logger := logging.GetLogger("capture")

			cam, err := openCamera(device, logger)
			if err != nil {
				logger.Error("could not open camera", "error", err)
				os.Exit(1)
			}
			defer cam.Close()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				logger.Error("could not create output directory", "dir", outDir, "error", err)
				os.Exit(1)
			}

			if err := cam.StartStreaming(); err != nil {
				logger.Error("could not start streaming", "error", err)
				os.Exit(1)
			}
			defer cam.StopStreaming()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			buf := make([]byte, supercam.SlotCapacity)
			written := 0
			for count <= 0 || written < count {
				select {
				case <-sigCh:
					logger.Info("interrupted", "frames", written)
					return
				default:
				}

				n, err := cam.ReadFrame(buf, timeout)
				if err != nil {
					logger.Error("frame read failed", "error", err)
					break
				}

				name := filepath.Join(outDir, fmt.Sprintf("frame_%05d.jpg", written))
				if err := os.WriteFile(name, buf[:n], 0o644); err != nil {
					logger.Error("could not write frame", "file", name, "error", err)
					break
				}
				written++
				logger.Debug("frame written", "file", name, "bytes", n)
			}

			stats := cam.Stats()
			logger.Info("capture finished", "written", written, "captured", stats.Captured, "dropped", stats.Dropped)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "Device path (default: first qualified camera)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory for JPEG frames")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of frames to capture (0 for unlimited)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "Per-frame read timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func openCamera(device string, logger *slog.Logger) (*supercam.Camera, error) {
	opts := []supercam.Option{supercam.WithLogger(logging.GetLogger("usb"))}
	if device != "" {
		logger.Info("opening device", "device", device)
		return supercam.OpenPath(device, opts...)
	}
	logger.Info("opening first qualified device")
	return supercam.Open(opts...)
}
