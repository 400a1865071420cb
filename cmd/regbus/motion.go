package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/accel"
	"github.com/mklimuk/regbus/cmd/regbus/console"
)

var motionCmd = cli.Command{
	Name:  "motion",
	Usage: "BMA220 slope (motion) detection",
	Subcommands: cli.Commands{
		motionSubCmd("init", func(c *cli.Context, s *accel.BMA220) error {
			id, err := s.ChipID(busContext(c, "bma220"))
			if err != nil {
				return err
			}
			if id != accel.ChipIDBMA220 {
				console.Warnf("unexpected chip id %s", console.Hex(id))
			}
			return s.InitMotionDetection(busContext(c, "bma220"))
		}),
		motionSubCmd("check", func(c *cli.Context, s *accel.BMA220) error {
			motion, err := s.CheckMotionInterrupt(busContext(c, "bma220"))
			if err != nil {
				return err
			}
			if motion {
				console.Printf("motion interrupt: %s\n", console.Yellow(motion))
			} else {
				console.Printf("motion interrupt: %s\n", console.Green(motion))
			}
			return nil
		}),
		motionSubCmd("reset", func(c *cli.Context, s *accel.BMA220) error {
			return s.ResetMotionInterrupt(busContext(c, "bma220"))
		}),
	},
}

func motionSubCmd(name string, action func(c *cli.Context, s *accel.BMA220) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Flags: []cli.Flag{addrFlag},
		Action: func(c *cli.Context) error {
			addr, err := deviceAddress(c, accel.DefaultBMA220Address)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			bus, done, err := openBus(c)
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			defer done()
			err = action(c, accel.NewBMA220Device(regbus.NewDevice(bus, addr)))
			if err != nil {
				return console.Exit(1, "bma220 %s failed: %s", name, console.Red(err))
			}
			return nil
		},
	}
}
