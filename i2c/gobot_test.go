package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gobi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/register"
)

// fakeConn implements only the io.ReadWriteCloser part of a gobot connection.
type fakeConn struct {
	gobi2c.Connection
	written [][]byte
	resp    []byte
	short   bool
	err     error
	closed  bool
}

func (c *fakeConn) Write(b []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.written = append(c.written, append([]byte(nil), b...))
	return len(b), nil
}

func (c *fakeConn) Read(b []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n := copy(b, c.resp)
	if c.short && n > 0 {
		n--
	}
	return n, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestGobotDevice_RegisterRead(t *testing.T) {
	conn := &fakeConn{resp: []byte{0x01, 0x02, 0x03}}
	dev := NewGobotDevice(conn)
	v, err := register.Read24(context.Background(), dev, 0xA8, register.LittleEndian, "pressure")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x030201), v)
	assert.Equal(t, [][]byte{{0xA8}}, conn.written)
	require.NoError(t, dev.Close())
	assert.True(t, conn.closed)
}

func TestGobotDevice_ShortRead(t *testing.T) {
	conn := &fakeConn{resp: []byte{0x01, 0x02}, short: true}
	dev := NewGobotDevice(conn)
	_, err := register.Read16(context.Background(), dev, 0x00, register.BigEndian, "short")
	assert.ErrorIs(t, err, regbus.ErrShortRead)
}

func TestGobotDevice_Errors(t *testing.T) {
	fault := errors.New("nack")
	dev := NewGobotDevice(&fakeConn{err: fault})
	err := dev.Write(context.Background(), []byte{0x00})
	assert.ErrorIs(t, err, fault)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = dev.Read(ctx, make([]byte, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeConnector struct {
	conns  map[int]*fakeConn
	opened []int
	busNr  int
}

func (f *fakeConnector) GetI2cConnection(address int, busNr int) (gobi2c.Connection, error) {
	f.opened = append(f.opened, address)
	f.busNr = busNr
	conn, ok := f.conns[address]
	if !ok {
		return nil, errors.New("no device")
	}
	return conn, nil
}

func (f *fakeConnector) DefaultI2cBus() int {
	return 2
}

func TestGobotBus(t *testing.T) {
	tc74 := &fakeConn{resp: []byte{0x19}}
	connector := &fakeConnector{conns: map[int]*fakeConn{0x4D: tc74}}
	bus := NewGobotBus(connector, -1)
	dev := regbus.NewDevice(bus, 0x4D)

	for range 2 {
		v, err := register.Read8(context.Background(), dev, 0x00, "temp")
		require.NoError(t, err)
		assert.Equal(t, byte(0x19), v)
	}
	assert.Equal(t, []int{0x4D}, connector.opened)
	assert.Equal(t, 2, connector.busNr)

	err := bus.WriteToAddr(context.Background(), 0x20, []byte{0x00})
	assert.Error(t, err)

	require.NoError(t, bus.Close())
	assert.True(t, tc74.closed)
}
