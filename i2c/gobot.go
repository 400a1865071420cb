package i2c

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gobi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/regbus"
)

var _ regbus.I2CDevice = &GobotDevice{}

// GobotDevice exposes a gobot I2C connection (already bound to one address)
// as a regbus.I2CDevice.
type GobotDevice struct {
	conn gobi2c.Connection
}

func NewGobotDevice(conn gobi2c.Connection) *GobotDevice {
	return &GobotDevice{conn: conn}
}

// OpenGobotDevice asks a gobot adaptor for a connection to address on busNr.
// A negative busNr selects the adaptor's default bus.
func OpenGobotDevice(adaptor gobi2c.Connector, busNr int, address byte) (*GobotDevice, error) {
	if busNr < 0 {
		busNr = adaptor.DefaultI2cBus()
	}
	conn, err := adaptor.GetI2cConnection(int(address), busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c connection to %#x on bus %d: %w", address, busNr, err)
	}
	return &GobotDevice{conn: conn}, nil
}

func (d *GobotDevice) Write(ctx context.Context, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := d.conn.Write(buffer)
	if err != nil {
		return fmt.Errorf("gobot i2c write failed: %w", err)
	}
	if n != len(buffer) {
		return fmt.Errorf("gobot i2c wrote %d of %d bytes: %w", n, len(buffer), regbus.ErrShortWrite)
	}
	return nil
}

func (d *GobotDevice) Read(ctx context.Context, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := d.conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("gobot i2c read failed: %w", err)
	}
	if n != len(buffer) {
		return fmt.Errorf("gobot i2c read %d of %d bytes: %w", n, len(buffer), regbus.ErrShortRead)
	}
	return nil
}

func (d *GobotDevice) Close() error {
	return d.conn.Close()
}

var _ regbus.I2CBus = &GobotBus{}

// GobotBus opens one gobot connection per peripheral address on first use.
type GobotBus struct {
	mx      sync.Mutex
	adaptor gobi2c.Connector
	busNr   int
	devices map[byte]*GobotDevice
}

func NewGobotBus(adaptor gobi2c.Connector, busNr int) *GobotBus {
	return &GobotBus{adaptor: adaptor, busNr: busNr, devices: make(map[byte]*GobotDevice)}
}

func (b *GobotBus) device(address byte) (*GobotDevice, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if dev, ok := b.devices[address]; ok {
		return dev, nil
	}
	dev, err := OpenGobotDevice(b.adaptor, b.busNr, address)
	if err != nil {
		return nil, err
	}
	b.devices[address] = dev
	return dev, nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	return dev.Write(ctx, buffer)
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	return dev.Read(ctx, buffer)
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close closes every connection opened so far.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var errs []error
	for addr, dev := range b.devices {
		if err := dev.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close connection to %#x: %w", addr, err))
		}
		delete(b.devices, addr)
	}
	return errors.Join(errs...)
}
