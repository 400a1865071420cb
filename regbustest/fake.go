// Package regbustest provides in-memory stand-ins for I2C devices and buses.
package regbustest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/regbus"
)

var _ regbus.I2CDevice = &FakeDevice{}

// FakeDevice emulates a chip with a register pointer. A one byte write moves
// the pointer, a longer write stores the payload at the pointed register and a
// read returns the bytes stored at the pointer.
//
// Example usage:
//
//	dev := regbustest.NewFakeDevice()
//	dev.SetRegister(0x28, 0x12, 0x34)
//	v, err := register.Read16(ctx, dev, 0x28, register.BigEndian, "read")
type FakeDevice struct {
	mx        sync.Mutex
	registers map[byte][]byte
	pointer   byte

	// WriteErr and ReadErr, when set, are returned by every Write or Read.
	WriteErr error
	ReadErr  error

	writes [][]byte
	reads  []int
}

func NewFakeDevice() *FakeDevice {
	return &FakeDevice{registers: make(map[byte][]byte)}
}

// SetRegister stores the bytes a read starting at reg returns.
func (d *FakeDevice) SetRegister(reg byte, data ...byte) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.registers[reg] = append([]byte(nil), data...)
}

// Register returns a copy of what is stored at reg.
func (d *FakeDevice) Register(reg byte) []byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	return append([]byte(nil), d.registers[reg]...)
}

func (d *FakeDevice) Write(ctx context.Context, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.writes = append(d.writes, append([]byte(nil), buffer...))
	if d.WriteErr != nil {
		return d.WriteErr
	}
	if len(buffer) == 0 {
		return nil
	}
	d.pointer = buffer[0]
	if len(buffer) > 1 {
		d.registers[d.pointer] = append([]byte(nil), buffer[1:]...)
	}
	return nil
}

func (d *FakeDevice) Read(ctx context.Context, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.reads = append(d.reads, len(buffer))
	if d.ReadErr != nil {
		return d.ReadErr
	}
	data := d.registers[d.pointer]
	if len(data) < len(buffer) {
		return fmt.Errorf("register %#x holds %d bytes, %d requested: %w", d.pointer, len(data), len(buffer), regbus.ErrShortRead)
	}
	copy(buffer, data)
	return nil
}

// Writes returns every frame written so far.
func (d *FakeDevice) Writes() [][]byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	return append([][]byte(nil), d.writes...)
}

// Reads returns the requested length of every read so far.
func (d *FakeDevice) Reads() []int {
	d.mx.Lock()
	defer d.mx.Unlock()
	return append([]int(nil), d.reads...)
}
