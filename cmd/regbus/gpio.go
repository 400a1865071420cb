package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regbus/cmd/regbus/console"
	"github.com/mklimuk/regbus/gpio"
)

var gpioCmd = cli.Command{
	Name:  "gpio",
	Usage: "MCP23017 I/O expander",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "retry", Usage: "attempts when the bus is busy", Value: 3},
		&cli.IntFlag{Name: "bank", Usage: "IOCON.BANK register layout (0 or 1)", Value: 0},
	},
	Subcommands: cli.Commands{
		gpioSubCmd("read", 0, func(c *cli.Context, exp *gpio.MCP23017, _ []byte) error {
			ctx := busContext(c, "mcp23017")
			err := exp.InitA(ctx, 0xFF)
			if err != nil {
				return err
			}
			err = exp.InitB(ctx, 0xFF)
			if err != nil {
				return err
			}
			ab, err := exp.ReadAB(ctx)
			if err != nil {
				return err
			}
			console.Printf("I/O A: %s\nI/O B: %s\n", console.Hex(ab>>8), console.Hex(ab&0xFF))
			return nil
		}),
		gpioSubCmd("status", 0, func(c *cli.Context, exp *gpio.MCP23017, _ []byte) error {
			data, err := exp.ReadSettingsA(busContext(c, "mcp23017"))
			if err != nil {
				return err
			}
			console.Printf("IOCON content: %s\n", console.Hex(data))
			return nil
		}),
		gpioSubCmd("configure", 1, func(c *cli.Context, exp *gpio.MCP23017, args []byte) error {
			err := exp.WriteSettingsA(busContext(c, "mcp23017"), args[0])
			if err != nil {
				return err
			}
			console.Printf("Wrote IOCON content: %s\n", console.Hex(args[0]))
			return nil
		}),
		gpioSubCmd("pull", 1, func(c *cli.Context, exp *gpio.MCP23017, args []byte) error {
			err := exp.PullUpA(busContext(c, "mcp23017"), args[0])
			if err != nil {
				return err
			}
			console.Printf("Wrote GPPU content: %s\n", console.Hex(args[0]))
			return nil
		}),
		gpioSubCmd("set", 2, func(c *cli.Context, exp *gpio.MCP23017, args []byte) error {
			ctx := busContext(c, "mcp23017")
			err := exp.InitA(ctx, 0x00)
			if err != nil {
				return err
			}
			err = exp.InitB(ctx, 0x00)
			if err != nil {
				return err
			}
			err = exp.WriteA(ctx, args[0])
			if err != nil {
				return err
			}
			return exp.WriteB(ctx, args[1])
		}),
	},
}

// gpioSubCmd builds a subcommand taking nargs hex byte arguments.
func gpioSubCmd(name string, nargs int, action func(c *cli.Context, exp *gpio.MCP23017, args []byte) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Flags: []cli.Flag{addrFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != nargs {
				return console.Exit(1, "expected %d argument(s), got %d", nargs, c.NArg())
			}
			args := make([]byte, nargs)
			for i := range args {
				v, err := parseByte(c.Args().Get(i))
				if err != nil {
					return console.Exit(1, "could not decode argument %d: %v", i, err)
				}
				args[i] = v
			}
			addr, err := deviceAddress(c, gpio.DefaultMCP23017Address)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			bus, done, err := openBus(c)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			defer done()
			exp := gpio.NewMCP23017(bus, addr, gpio.WithRetryLimit(c.Int("retry")), gpio.WithBank(c.Int("bank")))
			err = action(c, exp, args)
			if err != nil {
				return console.Exit(1, "gpio %s failed: %s", name, console.Red(err))
			}
			return nil
		},
	}
}
