/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/driver/uart"
	"github.com/allbin/anyserial/driver/usbcdc"
	"github.com/allbin/anyserial/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system together with the port
variant to open them with.

This command scans for communication-capable serial devices including:
- USB serial adapters (ttyUSB*), opened as hardware UARTs
- USB CDC/ACM devices (ttyACM*), opened as usb
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)

Virtual terminals and pseudo-terminals are excluded from the listing.
With --enumerate the USB enumerator is used instead of /dev, which also
works on hosts without sysfs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")
		enumerate, _ := cmd.Flags().GetBool("enumerate")

		if enumerate {
			devices, err := usbcdc.Devices()
			if err != nil {
				return fmt.Errorf("failed to enumerate USB devices: %w", err)
			}
			renderDevices(devices)
			return nil
		}

		ports, err := uart.ListPorts()
		if err != nil {
			return fmt.Errorf("failed to list ports: %w", err)
		}

		infos := describePorts(ports)
		filtered := filterPorts(infos, filterType)
		logger.Debug("ports listed", zap.Int("found", len(infos)), zap.Int("shown", len(filtered)))

		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return nil
		}

		if tableFormat {
			renderTable(filtered)
		} else {
			renderSimple(filtered)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
	listCmd.Flags().BoolP("enumerate", "e", false, "List USB serial devices through the USB enumerator")
}

// describePorts looks up every path. Ports that vanish between listing and
// lookup keep a bare entry.
func describePorts(paths []string) []*uart.PortInfo {
	infos := make([]*uart.PortInfo, 0, len(paths))
	for _, path := range paths {
		info, err := uart.GetPortInfo(path)
		if err != nil {
			logger.Debug("port lookup failed", zap.String("path", path), zap.Error(err))
			info = &uart.PortInfo{Path: path, Name: filepath.Base(path)}
		}
		infos = append(infos, info)
	}
	return infos
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(infos []*uart.PortInfo, filterType string) []*uart.PortInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return infos
	}

	var filtered []*uart.PortInfo
	for _, info := range infos {
		name := strings.ToLower(info.Name)
		switch filterType {
		case "usb":
			if strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, info)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") {
				filtered = append(filtered, info)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, info)
			}
		}
	}
	return filtered
}

// suggestedVariant picks the variant a port is best opened as. CDC/ACM
// endpoints are a board's own USB serial; everything else is a UART.
func suggestedVariant(info *uart.PortInfo) anyserial.Variant {
	if info.CDC() {
		return anyserial.USB
	}
	return anyserial.Hardware
}

// renderTable renders the port list in a styled static table format
func renderTable(infos []*uart.PortInfo) {
	fmt.Printf("Found %d serial port(s):\n\n", len(infos))

	const (
		portWidth    = 15
		variantWidth = 10
		typeWidth    = 18
		idWidth      = 10
		descWidth    = 30
	)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240"))

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		portWidth, "Port",
		variantWidth, "Variant",
		typeWidth, "Type",
		idWidth, "VID:PID",
		descWidth, "Description")
	fmt.Println(headerStyle.Render(header))

	for _, info := range infos {
		variant := suggestedVariant(info).String()
		id := "-"
		if info.VendorID != "" {
			id = info.VendorID + ":" + info.ProductID
		}
		desc := info.Description
		if info.Product != "" {
			desc = info.Product
		}
		row := fmt.Sprintf("%-*s %s %-*s %-*s %-*s",
			portWidth, info.Name,
			styles.VariantStyle(variant).Render(fmt.Sprintf("%-*s", variantWidth, variant)),
			typeWidth, getPortType(info.Name),
			idWidth, id,
			descWidth, desc)
		fmt.Println(cellStyle.Render(row))
	}
}

// renderSimple renders the port list in simple text format
func renderSimple(infos []*uart.PortInfo) {
	for _, info := range infos {
		fmt.Printf("%s\t%s\n", info.Path, suggestedVariant(info))
	}
}

func renderDevices(devices []usbcdc.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(os.Stderr, "No USB serial devices found")
		return
	}
	for _, d := range devices {
		fmt.Printf("%s\t%s:%s\t%s\t%s\n", d.Path, d.VID, d.PID, d.SerialNumber, d.Product)
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}
