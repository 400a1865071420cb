package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regbus/adapter"
	"github.com/mklimuk/regbus/cmd/regbus/console"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "list attached HID devices and known I2C bridges",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name:  "ls",
	Usage: "list every HID device",
	Action: func(c *cli.Context) error {
		return hidTable(console.Writer(), hid.Enumerate(0, 0), "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT",
			func(_ int, d hid.DeviceInfo) string {
				return fmt.Sprintf("%s\t%s\t%#04x\t%#04x\t%s\t%s", d.Path, d.Serial, d.VendorID, d.ProductID, d.Manufacturer, d.Product)
			})
	},
}

var usbDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "list attached MCP2221 bridges with the index to put in the config file",
	Action: func(c *cli.Context) error {
		devices := hid.Enumerate(adapter.VendorID, adapter.ProductID)
		if len(devices) == 0 {
			console.PInfof(console.PictoStop, "no MCP2221 bridge attached")
			return nil
		}
		err := hidTable(console.Writer(), devices, "INDEX\tPATH\tSERIAL",
			func(i int, d hid.DeviceInfo) string {
				return fmt.Sprintf("%d\t%s\t%s", i, d.Path, d.Serial)
			})
		if err != nil {
			return err
		}
		if len(devices) > 1 {
			console.PInfof(console.PictoChip, "select one with mcp2221.device_index in the config file")
		}
		return nil
	},
}

func hidTable(w io.Writer, devices []hid.DeviceInfo, header string, row func(int, hid.DeviceInfo) string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, header)
	for i, d := range devices {
		_, _ = fmt.Fprintln(tw, row(i, d))
	}
	return tw.Flush()
}
