package regbus

import (
	"context"
	"fmt"
)

var _ I2CDevice = &Device{}

// Device binds a bus and a peripheral address so that register helpers can
// talk to one chip without knowing about the bus.
type Device struct {
	bus     I2CBus
	address byte
}

func NewDevice(bus I2CBus, address byte) *Device {
	return &Device{bus: bus, address: address}
}

func (d *Device) Address() byte {
	return d.address
}

// Bus returns the bus the device was bound to, e.g. to release it after ErrBusBusy.
func (d *Device) Bus() I2CBus {
	return d.bus
}

func (d *Device) Write(ctx context.Context, buffer []byte) error {
	err := d.bus.WriteToAddr(ctx, d.address, buffer)
	if err != nil {
		return fmt.Errorf("write to %#x failed: %w", d.address, err)
	}
	return nil
}

func (d *Device) Read(ctx context.Context, buffer []byte) error {
	err := d.bus.ReadFromAddr(ctx, d.address, buffer)
	if err != nil {
		return fmt.Errorf("read from %#x failed: %w", d.address, err)
	}
	return nil
}
