package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regbus/cmd/regbus/console"
	"github.com/mklimuk/regbus/environment"
)

var tempReadCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "read a TC74 temperature sensor",
	Flags: []cli.Flag{
		addrFlag,
		&cli.BoolFlag{Name: "standby", Usage: "put the sensor in standby after reading"},
	},
	Action: func(c *cli.Context) error {
		addr, err := deviceAddress(c, 0x4D)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		bus, done, err := openBus(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer done()
		ctx := busContext(c, "tc74")
		s := environment.NewTC74(bus, environment.WithAddress(addr))
		temp, err := s.GetTemperature(ctx)
		if err != nil {
			return console.Exit(1, "error getting temperature read: %s", console.Red(err))
		}
		console.PInfof(console.PictoThermometer, "%s °C", console.White(temp))
		if c.Bool("standby") {
			err = s.SetStandby(ctx, true)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
		}
		return nil
	},
}
