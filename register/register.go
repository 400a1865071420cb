// Package register implements register-addressed I2C transactions: a one byte
// address frame followed by a read of the register contents, decoded into
// unsigned integers of the requested byte order.
//
// Every failure is returned as a *SensorError carrying the caller's message
// and the underlying cause, so drivers built on top can use errors.Is against
// transport sentinels such as regbus.ErrBusBusy.
//
//	id, err := register.Read8(ctx, dev, 0x0F, "could not read device id")
//	p, err := register.Read24(ctx, dev, 0x28|0x80, register.LittleEndian, "could not read pressure")
package register

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/busctx"
)

// Write sends the two byte frame [reg, command].
func Write(ctx context.Context, dev regbus.I2CDevice, reg, command byte, msg string) error {
	frame := []byte{reg, command}
	err := dev.Write(ctx, frame)
	if err != nil {
		return wrap(msg, err)
	}
	trace(ctx, "write", reg, frame[1:])
	return nil
}

func Read8(ctx context.Context, dev regbus.I2CDevice, reg byte, msg string) (uint8, error) {
	data, err := read(ctx, dev, reg, 1)
	if err != nil {
		return 0, wrap(msg, err)
	}
	return data[0], nil
}

func Read16(ctx context.Context, dev regbus.I2CDevice, reg byte, order ByteOrder, msg string) (uint16, error) {
	v, err := readUint(ctx, dev, reg, 2, order)
	if err != nil {
		return 0, wrap(msg, err)
	}
	return uint16(v), nil
}

// Read24 returns the value in the low 24 bits; the top byte is always zero.
func Read24(ctx context.Context, dev regbus.I2CDevice, reg byte, order ByteOrder, msg string) (uint32, error) {
	v, err := readUint(ctx, dev, reg, 3, order)
	if err != nil {
		return 0, wrap(msg, err)
	}
	return v, nil
}

func Read32(ctx context.Context, dev regbus.I2CDevice, reg byte, order ByteOrder, msg string) (uint32, error) {
	v, err := readUint(ctx, dev, reg, 4, order)
	if err != nil {
		return 0, wrap(msg, err)
	}
	return v, nil
}

// ReadBytes returns count bytes starting at reg exactly as the device sent them.
func ReadBytes(ctx context.Context, dev regbus.I2CDevice, reg byte, count int, msg string) ([]byte, error) {
	if count < 0 {
		return nil, wrap(msg, fmt.Errorf("%w: %d", ErrInvalidCount, count))
	}
	data, err := read(ctx, dev, reg, count)
	if err != nil {
		return nil, wrap(msg, err)
	}
	return data, nil
}

func readUint(ctx context.Context, dev regbus.I2CDevice, reg byte, width int, order ByteOrder) (uint32, error) {
	// checked up front so a bad order never touches the bus
	if !order.Valid() {
		return 0, fmt.Errorf("%w %s", ErrUnsupportedByteOrder, order)
	}
	data, err := read(ctx, dev, reg, width)
	if err != nil {
		return 0, err
	}
	return Decode(order, data)
}

func read(ctx context.Context, dev regbus.I2CDevice, reg byte, count int) ([]byte, error) {
	err := dev.Write(ctx, []byte{reg})
	if err != nil {
		return nil, fmt.Errorf("could not set register pointer %#x: %w", reg, err)
	}
	data := make([]byte, count)
	err = dev.Read(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("could not read %d bytes from register %#x: %w", count, reg, err)
	}
	trace(ctx, "read", reg, data)
	return data, nil
}

func trace(ctx context.Context, op string, reg byte, data []byte) {
	if !busctx.IsVerbose(ctx) {
		return
	}
	slog.DebugContext(ctx, "register "+op,
		"device", busctx.Label(ctx),
		"reg", fmt.Sprintf("%#x", reg),
		"data", hex.EncodeToString(data))
}
