package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vkngwrapper/vkdemo/internal/logger"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
	"github.com/vkngwrapper/vkdemo/internal/vkng"
)

var infoCmd = &cobra.Command{
	Use:          "info",
	Short:        "List Vulkan layers, extensions and physical devices without opening a window",
	Args:         cobra.NoArgs,
	RunE:         runInfo,
	SilenceUsage: true,
}

// newDriver is replaced in tests.
var newDriver = func(log logger.LoggerInterface) (vkinit.Driver, error) {
	return vkng.NewSystemDriver(log)
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	cfg := NewLogConfigFromFlags(cmd, nil)

	log, err := initializeLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer log.Close()

	driver, err := newDriver(log)
	if err != nil {
		return err
	}

	inv, err := vkinit.TakeInventory(driver, log)
	if err != nil {
		return err
	}

	return PrintInventory(cmd.OutOrStdout(), inv)
}

var heading = color.New(color.FgCyan, color.Bold)

// PrintInventory renders inv as aligned tables.
func PrintInventory(w io.Writer, inv *vkinit.Inventory) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	heading.Fprintf(tw, "Instance layers (%d)\n", len(inv.Layers))
	for _, layer := range inv.Layers {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", layer.Name, layer.SpecVersion, layer.Description)
	}
	if !inv.HasValidationLayer() {
		color.New(color.FgYellow).Fprintf(tw, "  %s is not installed\n", vkinit.ValidationLayerName)
	}

	heading.Fprintf(tw, "\nInstance extensions (%d)\n", len(inv.Extensions))
	for _, ext := range inv.Extensions {
		fmt.Fprintf(tw, "  %s\tv%d\n", ext.Name, ext.SpecVersion)
	}

	heading.Fprintf(tw, "\nPhysical devices (%d)\n", len(inv.Devices))
	for i, device := range inv.Devices {
		fmt.Fprintf(tw, "\n  [%d] %s\n", i, device.Properties.Describe())
		fmt.Fprintf(tw, "  max 2D image\t%d\n", device.Properties.MaxImageDimension2D)
		fmt.Fprintf(tw, "  driver\t%s\n", device.Properties.DriverVersion)
		fmt.Fprintf(tw, "  swapchain\t%s\n", yesNo(device.SupportsSwapchain()))

		for _, family := range device.QueueFamilies {
			fmt.Fprintf(tw, "  queue family %d\t%d queue(s)\t%s\n", family.Index, family.QueueCount, queueCaps(family))
		}

		fmt.Fprintf(tw, "  extensions (%d)\n", len(device.Extensions))
		for _, ext := range device.Extensions {
			fmt.Fprintf(tw, "    %s\tv%d\n", ext.Name, ext.SpecVersion)
		}
	}

	return tw.Flush()
}

func queueCaps(family vkinit.QueueFamily) string {
	var caps []string
	if family.Graphics {
		caps = append(caps, "graphics")
	}
	if family.Compute {
		caps = append(caps, "compute")
	}
	if family.Transfer {
		caps = append(caps, "transfer")
	}
	if len(caps) == 0 {
		return "-"
	}
	return strings.Join(caps, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
