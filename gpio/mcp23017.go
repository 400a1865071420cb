package gpio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/register"
)

type registry int

const DefaultMCP23017Address = 0x21

// Registers, addressed through BankAddr
const (
	IODIRA registry = iota
	IOPOLA
	GPINTENA
	DEFVALA
	INTCONA
	IOCONA
	GPPUA
	INTFA
	INTCAPA
	GPIOA
	IODIRB
	IOPOLB
	GPINTENB
	DEFVALB
	INTCONB
	IOCONB
	GPPUB
	INTFB
	INTCAPB
	GPIOB
	OLATA
	OLATB
)

var (
	BankAddr = []map[registry]byte{
		{
			IODIRA:   0x00,
			IOPOLA:   0x02,
			GPINTENA: 0x04,
			DEFVALA:  0x06,
			INTCONA:  0x08,
			IOCONA:   0x0A,
			GPPUA:    0x0C,
			INTFA:    0x0E,
			INTCAPA:  0x10,
			GPIOA:    0x12,
			IODIRB:   0x01,
			IOPOLB:   0x03,
			GPINTENB: 0x05,
			DEFVALB:  0x07,
			INTCONB:  0x09,
			IOCONB:   0x0B,
			GPPUB:    0x0D,
			INTFB:    0x0F,
			INTCAPB:  0x11,
			GPIOB:    0x13,
			OLATA:    0x14,
			OLATB:    0x15,
		},
		{
			IODIRA:   0x00,
			IOPOLA:   0x01,
			GPINTENA: 0x02,
			DEFVALA:  0x03,
			INTCONA:  0x04,
			IOCONA:   0x05,
			GPPUA:    0x06,
			INTFA:    0x07,
			INTCAPA:  0x08,
			GPIOA:    0x09,
			IODIRB:   0x10,
			IOPOLB:   0x11,
			GPINTENB: 0x12,
			DEFVALB:  0x13,
			INTCONB:  0x14,
			IOCONB:   0x15,
			GPPUB:    0x16,
			INTFB:    0x17,
			INTCAPB:  0x18,
			GPIOB:    0x19,
			OLATA:    0x0A,
			OLATB:    0x1A,
		},
	}
)

// MCP23017 is a 16-bit I/O expander. Ports A and B are configured and read
// through the register helpers; calls failing with regbus.ErrBusBusy release
// the bus and are retried up to the retry limit.
//
//	exp := NewMCP23017(bus, DefaultMCP23017Address)
//	_ = exp.InitA(ctx, 0xFF) // all inputs
//	a, err := exp.ReadA(ctx)
type MCP23017 struct {
	mx         sync.Mutex
	bus        regbus.I2CBus
	dev        regbus.I2CDevice
	bank       int
	retryLimit int
}

type MCP23017Opt func(*MCP23017)

// WithRetryLimit sets how many times a busy bus is retried (minimum 1 attempt).
func WithRetryLimit(limit int) MCP23017Opt {
	return func(m *MCP23017) {
		if limit > 0 {
			m.retryLimit = limit
		}
	}
}

// WithBank selects the register map matching IOCON.BANK (0 or 1).
func WithBank(bank int) MCP23017Opt {
	return func(m *MCP23017) {
		if bank == 0 || bank == 1 {
			m.bank = bank
		}
	}
}

func NewMCP23017(bus regbus.I2CBus, address byte, opts ...MCP23017Opt) *MCP23017 {
	m := &MCP23017{retryLimit: 1, bus: bus, dev: regbus.NewDevice(bus, address)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MCP23017) retry(ctx context.Context, what string, op func() error) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	var err error
	for i := m.retryLimit; i > 0; i-- {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, regbus.ErrBusBusy) {
			return err
		}
		// try to release the bus
		_ = m.bus.Release(ctx)
	}
	return fmt.Errorf("could not %s (retry limit reached): %w", what, err)
}

func (m *MCP23017) write(ctx context.Context, reg registry, value byte, what string) error {
	return m.retry(ctx, what, func() error {
		return register.Write(ctx, m.dev, BankAddr[m.bank][reg], value, "could not "+what)
	})
}

func (m *MCP23017) read(ctx context.Context, reg registry, what string) (byte, error) {
	var res byte
	err := m.retry(ctx, what, func() error {
		var err error
		res, err = register.Read8(ctx, m.dev, BankAddr[m.bank][reg], "could not "+what)
		return err
	})
	return res, err
}

// InitA sets IODIR register of port A (1 = input)
func (m *MCP23017) InitA(ctx context.Context, inout byte) error {
	return m.write(ctx, IODIRA, inout, "initialize gpio A set")
}

// InitB sets IODIR register of port B (1 = input)
func (m *MCP23017) InitB(ctx context.Context, inout byte) error {
	return m.write(ctx, IODIRB, inout, "initialize gpio B set")
}

// PullUpA sets up pull up resistors on set A
func (m *MCP23017) PullUpA(ctx context.Context, settings byte) error {
	return m.write(ctx, GPPUA, settings, "set pull-up on gpio A set")
}

// PullUpB sets up pull up resistors on set B
func (m *MCP23017) PullUpB(ctx context.Context, settings byte) error {
	return m.write(ctx, GPPUB, settings, "set pull-up on gpio B set")
}

func (m *MCP23017) ReadA(ctx context.Context) (byte, error) {
	return m.read(ctx, GPIOA, "read gpio A set")
}

func (m *MCP23017) ReadB(ctx context.Context) (byte, error) {
	return m.read(ctx, GPIOB, "read gpio B set")
}

// ReadAB returns port A in the high byte and port B in the low byte. In bank 0
// GPIOA and GPIOB are adjacent so both ports come from one sequential read.
func (m *MCP23017) ReadAB(ctx context.Context) (uint16, error) {
	if m.bank == 0 {
		var res uint16
		err := m.retry(ctx, "read gpio sets", func() error {
			var err error
			res, err = register.Read16(ctx, m.dev, BankAddr[0][GPIOA], register.BigEndian, "could not read gpio sets")
			return err
		})
		return res, err
	}
	a, err := m.ReadA(ctx)
	if err != nil {
		return 0, err
	}
	b, err := m.ReadB(ctx)
	if err != nil {
		return 0, err
	}
	return uint16(a)<<8 | uint16(b), nil
}

// WriteA sets the output latch of port A.
func (m *MCP23017) WriteA(ctx context.Context, value byte) error {
	return m.write(ctx, OLATA, value, "write gpio A latch")
}

// WriteB sets the output latch of port B.
func (m *MCP23017) WriteB(ctx context.Context, value byte) error {
	return m.write(ctx, OLATB, value, "write gpio B latch")
}

// ReadSettingsA reads contents of IOCON register
func (m *MCP23017) ReadSettingsA(ctx context.Context) (byte, error) {
	return m.read(ctx, IOCONA, "read gpio A settings")
}

func (m *MCP23017) WriteSettingsA(ctx context.Context, settings byte) error {
	return m.write(ctx, IOCONA, settings, "write settings on gpio A set")
}

func (m *MCP23017) ReadSettingsB(ctx context.Context) (byte, error) {
	return m.read(ctx, IOCONB, "read gpio B settings")
}

func (m *MCP23017) WriteSettingsB(ctx context.Context, settings byte) error {
	return m.write(ctx, IOCONB, settings, "write settings on gpio B set")
}
