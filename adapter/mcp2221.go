// Package adapter implements regbus.I2CBus over the Microchip MCP2221 USB to
// I2C bridge. Every call opens the HID device, exchanges one 64-byte report
// (two for reads) and closes it again.
package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/busctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

const reportSize = 64

// MaxTransfer is the largest payload a single report carries.
const MaxTransfer = reportSize - 4

// HID commands (datasheet 3.1)
const (
	cmdStatusSetParams = 0x10
	cmdI2CWriteData    = 0x90
	cmdI2CReadData     = 0x91
	cmdI2CGetData      = 0x40

	subCmdCancelTransfer = 0x10
	subCmdSetSpeed       = 0x20

	statusI2CEngineBusy = 0x01
	statusGetDataError  = 0x41
	statusSpeedNotSet   = 0x21
	readSizeError       = 127
	internalClockHz     = 12_000_000
)

var ErrDeviceNotFound = errors.New("MCP2221 device not found")
var ErrAmbiguousDevice = errors.New("ambiguous device identification")
var ErrCommandFailed = errors.New("command failed")
var ErrTransferTooLarge = errors.New("transfer exceeds one report")
var ErrInvalidAddress = errors.New("not a 7-bit i2c address")

// hidConn is the part of *hid.Device used by the adapter.
type hidConn interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

type opener func() (hidConn, error)

type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	index        int
	open         opener
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

type MCP2221Opt func(*MCP2221)

// WithResponseWait sets how long the adapter waits between sending a report and reading the reply.
func WithResponseWait(d time.Duration) MCP2221Opt {
	return func(m *MCP2221) {
		m.responseWait = d
	}
}

// WithDeviceIndex selects one of several attached adapters (order of hid enumeration).
func WithDeviceIndex(index int) MCP2221Opt {
	return func(m *MCP2221) {
		m.index = index
	}
}

func withOpener(o opener) MCP2221Opt {
	return func(m *MCP2221) {
		m.open = o
	}
}

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	d := &MCP2221{
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
		index:        -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.open == nil {
		d.open = d.openHID
	}
	return d
}

// Init checks that the adapter can be opened.
func (d *MCP2221) Init() error {
	d.mx.Lock()
	defer d.mx.Unlock()
	dev, err := d.open()
	if err != nil {
		return err
	}
	return dev.Close()
}

func checkTransfer(address byte, size int) error {
	if address > 0x7F {
		return fmt.Errorf("%#x: %w", address, ErrInvalidAddress)
	}
	if size > MaxTransfer {
		return fmt.Errorf("%d bytes, at most %d: %w", size, MaxTransfer, ErrTransferTooLarge)
	}
	return nil
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := checkTransfer(address, len(buffer)); err != nil {
		return fmt.Errorf("write to %x failed: %w: %w", address, regbus.ErrShortWrite, err)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	if d.response[1] == statusI2CEngineBusy {
		slog.DebugContext(ctx, "adapter busy", "address", address)
		return regbus.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := checkTransfer(address, len(buffer)); err != nil {
		return fmt.Errorf("bus read from %x failed: %w: %w", address, regbus.ErrShortRead, err)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 | 1
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	if d.response[1] == statusI2CEngineBusy {
		return regbus.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdI2CGetData
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == statusGetDataError {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == readSizeError || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d: %w", len(buffer), d.response[3], regbus.ErrShortRead)
	}
	copy(buffer, d.response[4:])
	return nil
}

// SetSpeed changes the I2C clock. The adapter refuses while a transfer is in progress.
func (d *MCP2221) SetSpeed(ctx context.Context, hz int) error {
	if hz <= 0 || internalClockHz/hz < 4 || internalClockHz/hz-3 > 0xFF {
		return fmt.Errorf("unsupported i2c speed %dHz", hz)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[3] = subCmdSetSpeed
	d.request[4] = byte(internalClockHz/hz - 3)
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("set speed request failed: %w", err)
	}
	if d.response[3] == statusSpeedNotSet {
		return fmt.Errorf("could not set speed to %dHz: %w", hz, ErrCommandFailed)
	}
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	return &MCP2221Status{
		I2CDataBufferCounter:   int(buffer[13]),
		I2CSpeedDivider:        int(buffer[14]),
		I2CTimeout:             int(buffer[15]),
		ReadPending:            int(buffer[25]),
		CurrentAddress:         hex.EncodeToString(buffer[16:18]),
		LastWriteRequestedSize: binary.LittleEndian.Uint16(buffer[9:11]),
		LastWriteSentSize:      binary.LittleEndian.Uint16(buffer[11:13]),
	}
}

// Release cancels a pending transfer so the engine accepts new commands.
func (d *MCP2221) Release(ctx context.Context) error {
	_, err := d.ReleaseBus(ctx)
	return err
}

func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = subCmdCancelTransfer
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("release request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) openHID() (hidConn, error) {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	idx := d.index
	if idx < 0 {
		if len(devs) > 1 {
			return nil, fmt.Errorf("%d adapters attached: %w", len(devs), ErrAmbiguousDevice)
		}
		idx = 0
	}
	if idx >= len(devs) {
		return nil, fmt.Errorf("no device with index %d: %w", idx, ErrDeviceNotFound)
	}
	dev, err := devs[idx].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

func (d *MCP2221) send(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dev, err := d.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			slog.Warn("could not close adapter", "error", err)
		}
	}()
	verbose := busctx.IsVerbose(ctx)
	if verbose {
		slog.DebugContext(ctx, "sending message to adapter", "report", hex.EncodeToString(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d: %w", n, regbus.ErrShortWrite)
	}
	timer := time.NewTimer(d.responseWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d: %w", n, regbus.ErrShortRead)
	}
	if verbose {
		slog.DebugContext(ctx, "read message from adapter", "report", hex.EncodeToString(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	clear(d.request)
	clear(d.response)
}
