// Package i2c provides host I2C transports: a periph.io bus for Linux
// /dev/i2c-* devices and an adapter for gobot platform connections.
package i2c

import (
	"context"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mklimuk/regbus"
)

var _ regbus.I2CBus = &GenericBus{}

type GenericBus struct {
	bus i2c.BusCloser
}

type GenericBusOpts struct {
	Speed physic.Frequency
}

type GenericBusOpt func(*GenericBusOpts)

// WithSpeed sets the bus clock; slow devices such as gas sensors need <= 30kHz.
func WithSpeed(f physic.Frequency) GenericBusOpt {
	return func(o *GenericBusOpts) {
		o.Speed = f
	}
}

// NewGenericBus opens the named bus ("" picks the first one, "1" or "/dev/i2c-1" a specific one).
func NewGenericBus(dev string, opts ...GenericBusOpt) (*GenericBus, error) {
	var config GenericBusOpts
	for _, opt := range opts {
		opt(&config)
	}
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %q: %w", dev, err)
	}
	if config.Speed > 0 {
		err = bus.SetSpeed(config.Speed)
		if err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("could not set i2c bus speed to %s: %w", config.Speed, err)
		}
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// Release is a no-op; the kernel driver owns bus arbitration.
func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) String() string {
	return b.bus.String()
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
