package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/adapter"
	"github.com/mklimuk/regbus/busctx"
	"github.com/mklimuk/regbus/config"
	"github.com/mklimuk/regbus/i2c"
)

var addrFlag = &cli.StringFlag{
	Name:  "addr",
	Usage: "7-bit device address in hex (defaults to the config file or the sensor default)",
}

// openBus builds the transport selected by the configuration. The returned
// function releases it.
func openBus(c *cli.Context) (regbus.I2CBus, func(), error) {
	cfg := configFrom(c)
	switch cfg.Adapter {
	case config.AdapterMCP2221:
		a := adapter.NewMCP2221(
			adapter.WithResponseWait(cfg.MCP2221.ResponseWait),
			adapter.WithDeviceIndex(cfg.MCP2221.DeviceIndex),
		)
		err := a.Init()
		if err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		if cfg.MCP2221.SpeedHz > 0 {
			err = a.SetSpeed(c.Context, cfg.MCP2221.SpeedHz)
			if err != nil {
				return nil, nil, err
			}
		}
		return a, func() {}, nil
	case config.AdapterPeriph:
		var opts []i2c.GenericBusOpt
		if cfg.Periph.SpeedKHz > 0 {
			opts = append(opts, i2c.WithSpeed(physic.Frequency(cfg.Periph.SpeedKHz)*physic.KiloHertz))
		}
		b, err := i2c.NewGenericBus(cfg.Periph.Bus, opts...)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	case config.AdapterGobot:
		npi := nanopi.NewNeoAdaptor()
		err := npi.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		b := i2c.NewGobotBus(npi, cfg.Gobot.Bus)
		return b, func() {
			_ = b.Close()
			_ = npi.Finalize()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
}

// deviceAddress resolves --addr, then the config file, then def.
func deviceAddress(c *cli.Context, def byte) (byte, error) {
	if c.IsSet("addr") {
		return parseAddress(c.String("addr"))
	}
	if cfg := configFrom(c); cfg.Address != 0 {
		return cfg.Address, nil
	}
	return def, nil
}

// busContext attaches the verbose flag and the device label used in frame traces.
func busContext(c *cli.Context, label string) context.Context {
	ctx := busctx.SetVerbose(c.Context, configFrom(c).Verbose)
	return busctx.WithLabel(ctx, label)
}

// parseAddress is parseByte limited to 7-bit device addresses.
func parseAddress(s string) (byte, error) {
	v, err := parseByte(s)
	if err != nil {
		return 0, err
	}
	if v > 0x7F {
		return 0, fmt.Errorf("device address %#x does not fit in 7 bits", v)
	}
	return v, nil
}

// parseByte accepts "5c", "0x5c" and "0X5C".
func parseByte(s string) (byte, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q: %w", s, err)
	}
	return byte(v), nil
}
