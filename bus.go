// Package regbus defines the I2C transport contracts shared by the register
// helper, the drivers and the bus implementations.
package regbus

import (
	"context"
	"fmt"
)

var (
	// ErrBusBusy means the bus engine has not finished the previous transfer.
	// Callers may Release the bus and retry.
	ErrBusBusy = fmt.Errorf("i2c engine busy")
	// ErrShortRead is returned by transports that received fewer bytes than requested.
	ErrShortRead = fmt.Errorf("short read")
	// ErrShortWrite is returned by transports that sent fewer bytes than requested.
	ErrShortWrite = fmt.Errorf("short write")
)

// BusReader fills the whole buffer or fails.
type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

// BusWriter sends the whole buffer as one transfer.
type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	// Release cancels whatever transfer the bus engine is stuck on.
	Release(ctx context.Context) error
}

// I2CBus is shared by several peripherals selected by their 7-bit address.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// I2CDevice is a single peripheral on a bus. It is all the register helpers need.
type I2CDevice interface {
	BusReader
	BusWriter
}
