package cmd

import (
	"fmt"
	"os"

	"github.com/smazurov/supercam/internal/logging"
	"github.com/smazurov/supercam/pkg/supercam"
	"github.com/spf13/cobra"
)

// CreateDevicesCmd creates the devices command.
func CreateDevicesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List connected SuperCamera devices",
		Long: `Scans the USB bus for SuperCamera devices and prints one line per device. ` +
			`Qualified devices expose the vendor streaming interface and are listed first.`,
		Run: func(_ *cobra.Command, _ []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logging.Initialize(logging.Config{Level: level, Format: "text"})

			devices, err := supercam.Enumerate(0)
			if err != nil {
				fmt.Fprintf(os.Stderr, "enumeration failed: %v\n", err)
				os.Exit(1)
			}
			if len(devices) == 0 {
				fmt.Println("no devices found")
				return
			}

			for _, d := range devices {
				marker := " "
				if d.Qualified {
					marker = "*"
				}
				fmt.Printf("%s %s  %04x:%04x  %s\n", marker, d.Path, d.VendorID, d.ProductID, d.Description)
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}
