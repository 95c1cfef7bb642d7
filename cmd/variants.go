/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/driver/console"
	"github.com/allbin/anyserial/driver/softuart"
	"github.com/allbin/anyserial/driver/uart"
	"github.com/allbin/anyserial/driver/usbcdc"
	"github.com/allbin/anyserial/internal/tui/colors"
	"github.com/allbin/anyserial/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// variantsCmd represents the variants command
var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "Show compiled variants and what each driver supports",
	Long: `Show the port variants compiled into this build and, for each bundled
driver, which optional operations a port bound to it really performs.

Operations outside a driver's capabilities still work on a port but return
neutral values: Listen succeeds, Overflow is false, ReadUntil reads nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var names []string
		for _, v := range anyserial.CompiledVariants() {
			names = append(names, styles.VariantStyle(v.String()).Render(v.String()))
		}
		fmt.Printf("Compiled variants: %s\n\n", strings.Join(names, ", "))

		rows, err := capabilityMatrix()
		if err != nil {
			return err
		}
		fmt.Println(renderMatrix(rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variantsCmd)
}

type driverCaps struct {
	Driver  string
	Variant anyserial.Variant
	Caps    anyserial.Capability
}

// capabilityMatrix binds an unopened instance of every bundled driver to a
// port and reads back its capabilities.
func capabilityMatrix() ([]driverCaps, error) {
	timer := softuart.NewTimer()
	u, err := uart.New("/dev/null")
	if err != nil {
		return nil, err
	}
	sw, err := timer.NewSoftware(nil)
	if err != nil {
		return nil, err
	}
	alt, err := timer.NewAlt(nil)
	if err != nil {
		return nil, err
	}
	defer alt.Release()
	usb, err := usbcdc.New("")
	if err != nil {
		return nil, err
	}

	bind := []struct {
		name string
		new  func() (*anyserial.Port, error)
	}{
		{"uart", func() (*anyserial.Port, error) { return anyserial.NewHardware(u) }},
		{"softuart.Software", func() (*anyserial.Port, error) { return anyserial.NewSoftware(sw) }},
		{"softuart.Alt", func() (*anyserial.Port, error) { return anyserial.NewAltSoftware(alt) }},
		{"usbcdc", func() (*anyserial.Port, error) { return anyserial.NewUSB(usb) }},
		{"console", func() (*anyserial.Port, error) { return anyserial.NewUSB(console.New(nil, nil)) }},
	}

	rows := make([]driverCaps, 0, len(bind))
	for _, b := range bind {
		p, err := b.new()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
		rows = append(rows, driverCaps{Driver: b.name, Variant: p.Variant(), Caps: p.Capabilities()})
	}
	return rows, nil
}

func renderMatrix(rows []driverCaps) string {
	columns := []table.Column{
		table.NewColumn("driver", "Driver", 19),
		table.NewColumn("variant", "Variant", 12),
	}
	for _, c := range anyserial.AllCapabilities() {
		columns = append(columns, table.NewColumn(c.String(), c.String(), len(c.String())+2).
			WithStyle(lipgloss.NewStyle().Align(lipgloss.Center)))
	}

	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		data := table.RowData{
			"driver":  r.Driver,
			"variant": table.NewStyledCell(r.Variant.String(), styles.VariantStyle(r.Variant.String())),
		}
		for _, c := range anyserial.AllCapabilities() {
			if r.Caps.Has(c) {
				data[c.String()] = table.NewStyledCell("✓", styles.SuccessStyle)
			} else {
				data[c.String()] = table.NewStyledCell("·", styles.MutedStyle)
			}
		}
		tableRows = append(tableRows, table.NewRow(data))
	}

	return table.New(columns).
		WithRows(tableRows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		View()
}
