package main

import (
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/regbus/adapter"
	"github.com/mklimuk/regbus/cmd/regbus/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 USB bridge maintenance",
	Subcommands: cli.Commands{
		mcp2221SubCmd("status", func(c *cli.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
			return a.Status(busContext(c, "mcp2221"))
		}),
		mcp2221SubCmd("release", func(c *cli.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
			return a.ReleaseBus(busContext(c, "mcp2221"))
		}),
	},
}

func mcp2221SubCmd(name string, action func(c *cli.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error)) *cli.Command {
	return &cli.Command{
		Name: name,
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			a := adapter.NewMCP2221(
				adapter.WithResponseWait(cfg.MCP2221.ResponseWait),
				adapter.WithDeviceIndex(cfg.MCP2221.DeviceIndex),
			)
			status, err := action(c, a)
			if err != nil {
				return console.Exit(1, "adapter communication error: %s", console.Red(err))
			}
			enc := yaml.NewEncoder(console.Writer())
			defer func() { _ = enc.Close() }()
			err = enc.Encode(status)
			if err != nil {
				return console.Exit(1, "encoding error: %s", console.Red(err))
			}
			return nil
		},
	}
}
