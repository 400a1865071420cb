package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/cmd/regbus/console"
	"github.com/mklimuk/regbus/pressure"
)

var pressureCmd = cli.Command{
	Name:  "pressure",
	Usage: "read an LPS25H barometer (Sense HAT)",
	Flags: []cli.Flag{
		addrFlag,
		&cli.BoolFlag{Name: "raw", Usage: "print raw register values"},
	},
	Action: func(c *cli.Context) error {
		addr, err := deviceAddress(c, pressure.LPS25HAddrLow)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		bus, done, err := openBus(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer done()
		ctx := busContext(c, "lps25h")
		s := pressure.NewLPS25H(regbus.NewDevice(bus, addr))
		err = s.Init(ctx)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		if c.Bool("raw") {
			p, err := s.RawPressure(ctx)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			t, err := s.RawTemperature(ctx)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			console.Printf("PRESS_OUT: %s\nTEMP_OUT: %s\n", console.Hex(p), console.White(t))
			return nil
		}
		p, err := s.Pressure(ctx)
		if err != nil {
			return console.Exit(1, "error getting pressure read: %s", console.Red(err))
		}
		t, err := s.Temperature(ctx)
		if err != nil {
			return console.Exit(1, "error getting temperature read: %s", console.Red(err))
		}
		console.PInfof(console.PictoGauge, "%s hPa", console.White(fmt.Sprintf("%.2f", p)))
		console.PInfof(console.PictoThermometer, "%s °C", console.White(fmt.Sprintf("%.2f", t)))
		return nil
	},
}
