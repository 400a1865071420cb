package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/cmd/regbus/console"
	"github.com/mklimuk/regbus/register"
)

var regCmd = cli.Command{
	Name:  "reg",
	Usage: "raw register access",
	Subcommands: cli.Commands{
		&regReadCmd,
		&regDumpCmd,
		&regWriteCmd,
		&regDecodeCmd,
	},
}

var regFlag = &cli.StringFlag{
	Name:     "reg",
	Aliases:  []string{"r"},
	Usage:    "register address in hex",
	Required: true,
}

var orderFlag = &cli.StringFlag{
	Name:    "order",
	Aliases: []string{"o"},
	Usage:   "byte order: be or le",
	Value:   "be",
}

var regReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read an unsigned integer of --width bits from a register",
	Flags: []cli.Flag{
		addrFlag,
		regFlag,
		orderFlag,
		&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Usage: "8, 16, 24 or 32", Value: 8},
	},
	Action: func(c *cli.Context) error {
		dev, reg, done, err := openRegister(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer done()
		order, err := register.ParseByteOrder(c.String("order"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		ctx := busContext(c, "reg")
		msg := fmt.Sprintf("could not read register %#x", reg)
		var v uint32
		switch c.Int("width") {
		case 8:
			var b uint8
			b, err = register.Read8(ctx, dev, reg, msg)
			v = uint32(b)
		case 16:
			var w uint16
			w, err = register.Read16(ctx, dev, reg, order, msg)
			v = uint32(w)
		case 24:
			v, err = register.Read24(ctx, dev, reg, order, msg)
		case 32:
			v, err = register.Read32(ctx, dev, reg, order, msg)
		default:
			return console.Exit(1, "unsupported width %d", c.Int("width"))
		}
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "%s = %s (%d)", console.Cyan(fmt.Sprintf("%#x", reg)), console.Hex(v), v)
		return nil
	},
}

var regDumpCmd = cli.Command{
	Name:  "dump",
	Usage: "read --count bytes starting at a register",
	Flags: []cli.Flag{
		addrFlag,
		regFlag,
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 16},
	},
	Action: func(c *cli.Context) error {
		dev, reg, done, err := openRegister(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer done()
		data, err := register.ReadBytes(busContext(c, "reg"), dev, reg, c.Int("count"), fmt.Sprintf("could not dump register %#x", reg))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		console.Printf("%s", hex.Dump(data))
		return nil
	},
}

var regWriteCmd = cli.Command{
	Name:    "write",
	Aliases: []string{"wr"},
	Usage:   "write one byte to a register",
	Flags: []cli.Flag{
		addrFlag,
		regFlag,
		&cli.StringFlag{Name: "value", Aliases: []string{"v"}, Usage: "byte in hex", Required: true},
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		value, err := parseByte(c.String("value"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		dev, reg, done, err := openRegister(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer done()
		if !c.Bool("yes") {
			ok, err := console.YesOrNo(fmt.Sprintf("write %#x to register %#x of device %#x?", value, reg, dev.Address()))
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				console.PInfof(console.PictoStop, "aborted")
				return nil
			}
		}
		err = register.Write(busContext(c, "reg"), dev, reg, value, fmt.Sprintf("could not write register %#x", reg))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "%s <- %s", console.Cyan(fmt.Sprintf("%#x", reg)), console.Hex(value))
		return nil
	},
}

var regDecodeCmd = cli.Command{
	Name:      "decode",
	Usage:     "decode up to 4 hex bytes as an unsigned integer without touching the bus",
	ArgsUsage: "<hex bytes, e.g. 1234 or 12:34>",
	Flags: []cli.Flag{
		orderFlag,
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		data, err := hex.DecodeString(strings.NewReplacer(":", "", " ", "").Replace(c.Args().First()))
		if err != nil {
			return console.Exit(1, "could not decode bytes: %v", err)
		}
		order, err := register.ParseByteOrder(c.String("order"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		v, err := register.Decode(order, data)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		console.Printf("%s (%d) %s\n", console.Hex(v), v, order)
		return nil
	},
}

func openRegister(c *cli.Context) (*regbus.Device, byte, func(), error) {
	reg, err := parseByte(c.String("reg"))
	if err != nil {
		return nil, 0, nil, err
	}
	if !c.IsSet("addr") && configFrom(c).Address == 0 {
		return nil, 0, nil, fmt.Errorf("device address required (--addr or config file)")
	}
	addr, err := deviceAddress(c, 0)
	if err != nil {
		return nil, 0, nil, err
	}
	bus, done, err := openBus(c)
	if err != nil {
		return nil, 0, nil, err
	}
	return regbus.NewDevice(bus, addr), reg, done, nil
}
