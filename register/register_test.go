package register

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/busctx"
	"github.com/mklimuk/regbus/regbustest"
)

var errBus = fmt.Errorf("bus fault")

func TestWrite(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	err := Write(context.Background(), dev, 0x20, 0xC0, "could not power on")
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x20, 0xC0}}, dev.Writes())
	assert.Empty(t, dev.Reads())
	assert.Equal(t, []byte{0xC0}, dev.Register(0x20))

	v, err := Read8(context.Background(), dev, 0x20, "read back")
	require.NoError(t, err)
	assert.Equal(t, byte(0xC0), v)
}

func TestWrite_Failure(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	dev.WriteErr = errBus
	err := Write(context.Background(), dev, 0x20, 0xC0, "could not power on")
	var sensorErr *SensorError
	require.ErrorAs(t, err, &sensorErr)
	assert.Equal(t, "could not power on", sensorErr.Msg)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, "could not power on: bus fault", err.Error())
}

func TestRead8(t *testing.T) {
	for _, reg := range []byte{0x00, 0x0F, 0x7F, 0xFF} {
		t.Run(fmt.Sprintf("%#x", reg), func(t *testing.T) {
			dev := regbustest.NewFakeDevice()
			dev.SetRegister(reg, reg^0xA5)
			v, err := Read8(context.Background(), dev, reg, "read8")
			require.NoError(t, err)
			assert.Equal(t, reg^0xA5, v)
			assert.Equal(t, [][]byte{{reg}}, dev.Writes())
			assert.Equal(t, []int{1}, dev.Reads())
		})
	}
}

func TestRead16(t *testing.T) {
	tests := []struct {
		given    []byte
		order    ByteOrder
		expected uint16
	}{
		{[]byte{0x12, 0x34}, BigEndian, 0x1234},
		{[]byte{0x12, 0x34}, LittleEndian, 0x3412},
		{[]byte{0xFF, 0x00}, BigEndian, 0xFF00},
		{[]byte{0xFF, 0x00}, LittleEndian, 0x00FF},
		{[]byte{0x00, 0x00}, BigEndian, 0},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%x/%s", test.given, test.order), func(t *testing.T) {
			dev := regbustest.NewFakeDevice()
			dev.SetRegister(0x28, test.given...)
			v, err := Read16(context.Background(), dev, 0x28, test.order, "read16")
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
			assert.Equal(t, uint16(test.given[0])*256+uint16(test.given[1]), mustRead16(t, test.given, BigEndian))
			assert.Equal(t, uint16(test.given[1])*256+uint16(test.given[0]), mustRead16(t, test.given, LittleEndian))
			assert.Equal(t, []int{2}, dev.Reads())
		})
	}
}

func mustRead16(t *testing.T, data []byte, order ByteOrder) uint16 {
	t.Helper()
	dev := regbustest.NewFakeDevice()
	dev.SetRegister(0x01, data...)
	v, err := Read16(context.Background(), dev, 0x01, order, "read16")
	require.NoError(t, err)
	return v
}

func TestRead24(t *testing.T) {
	tests := []struct {
		given    []byte
		order    ByteOrder
		expected uint32
	}{
		{[]byte{0x01, 0x02, 0x03}, BigEndian, 0x010203},
		{[]byte{0x01, 0x02, 0x03}, LittleEndian, 0x030201},
		{[]byte{0xFF, 0xFF, 0xFF}, BigEndian, 0xFFFFFF},
		{[]byte{0x00, 0xA0, 0x3F}, LittleEndian, 0x3FA000},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%x/%s", test.given, test.order), func(t *testing.T) {
			dev := regbustest.NewFakeDevice()
			dev.SetRegister(0xA8, test.given...)
			v, err := Read24(context.Background(), dev, 0xA8, test.order, "read24")
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
			assert.Zero(t, v&0xFF000000)
			assert.Equal(t, []int{3}, dev.Reads())
		})
	}
}

func TestRead32(t *testing.T) {
	tests := []struct {
		given    []byte
		order    ByteOrder
		expected uint32
	}{
		{[]byte{0x01, 0x02, 0x03, 0x04}, BigEndian, 0x01020304},
		{[]byte{0x01, 0x02, 0x03, 0x04}, LittleEndian, 0x04030201},
		{[]byte{0xFF, 0x00, 0x00, 0x80}, BigEndian, 0xFF000080},
		{[]byte{0xFF, 0x00, 0x00, 0x80}, LittleEndian, 0x800000FF},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%x/%s", test.given, test.order), func(t *testing.T) {
			dev := regbustest.NewFakeDevice()
			dev.SetRegister(0x10, test.given...)
			v, err := Read32(context.Background(), dev, 0x10, test.order, "read32")
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
			assert.Equal(t, []int{4}, dev.Reads())
		})
	}
}

func TestReadBytes(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	dev.SetRegister(0x3C, 0xDE, 0xAD, 0xBE, 0xEF, 0x01)
	data, err := ReadBytes(context.Background(), dev, 0x3C, 5, "dump")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01}, data)

	data, err = ReadBytes(context.Background(), dev, 0x3C, 2, "dump")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, data)
}

func TestReadBytes_NegativeCount(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	data, err := ReadBytes(context.Background(), dev, 0x3C, -1, "dump")
	assert.Nil(t, data)
	assert.ErrorIs(t, err, ErrInvalidCount)
	assert.Empty(t, dev.Writes())
}

func TestRead_TransportFailures(t *testing.T) {
	ops := map[string]func(dev regbus.I2CDevice) (any, error){
		"read8": func(dev regbus.I2CDevice) (any, error) {
			return Read8(context.Background(), dev, 0x01, "op failed")
		},
		"read16": func(dev regbus.I2CDevice) (any, error) {
			return Read16(context.Background(), dev, 0x01, BigEndian, "op failed")
		},
		"read24": func(dev regbus.I2CDevice) (any, error) {
			return Read24(context.Background(), dev, 0x01, LittleEndian, "op failed")
		},
		"read32": func(dev regbus.I2CDevice) (any, error) {
			return Read32(context.Background(), dev, 0x01, BigEndian, "op failed")
		},
		"bytes": func(dev regbus.I2CDevice) (any, error) {
			b, err := ReadBytes(context.Background(), dev, 0x01, 4, "op failed")
			if b == nil {
				return nil, err
			}
			return b, err
		},
	}
	faults := map[string]func(dev *regbustest.FakeDevice){
		"address write": func(dev *regbustest.FakeDevice) { dev.WriteErr = errBus },
		"data read":     func(dev *regbustest.FakeDevice) { dev.ReadErr = errBus },
	}
	for opName, op := range ops {
		for faultName, fault := range faults {
			t.Run(opName+"/"+faultName, func(t *testing.T) {
				dev := regbustest.NewFakeDevice()
				dev.SetRegister(0x01, 0x01, 0x02, 0x03, 0x04)
				fault(dev)
				v, err := op(dev)
				require.Error(t, err)
				var sensorErr *SensorError
				require.ErrorAs(t, err, &sensorErr)
				assert.Equal(t, "op failed", sensorErr.Msg)
				assert.ErrorIs(t, err, errBus)
				assert.False(t, errors.Is(err, ErrUnsupportedByteOrder))
				switch val := v.(type) {
				case nil:
				case uint8:
					assert.Zero(t, val)
				case uint16:
					assert.Zero(t, val)
				case uint32:
					assert.Zero(t, val)
				default:
					t.Fatalf("unexpected result %#v", v)
				}
			})
		}
	}
}

func TestRead_ShortRead(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	dev.SetRegister(0x01, 0xAB)
	v, err := Read16(context.Background(), dev, 0x01, BigEndian, "short")
	assert.Zero(t, v)
	assert.ErrorIs(t, err, regbus.ErrShortRead)
}

func TestRead_UnsupportedByteOrder(t *testing.T) {
	bad := ByteOrder(7)
	dev := regbustest.NewFakeDevice()
	dev.SetRegister(0x01, 0x01, 0x02, 0x03, 0x04)

	v16, err := Read16(context.Background(), dev, 0x01, bad, "bad order")
	assert.Zero(t, v16)
	assert.ErrorIs(t, err, ErrUnsupportedByteOrder)
	assert.Contains(t, err.Error(), "ByteOrder(7)")

	v24, err := Read24(context.Background(), dev, 0x01, bad, "bad order")
	assert.Zero(t, v24)
	assert.ErrorIs(t, err, ErrUnsupportedByteOrder)

	v32, err := Read32(context.Background(), dev, 0x01, bad, "bad order")
	assert.Zero(t, v32)
	var sensorErr *SensorError
	require.ErrorAs(t, err, &sensorErr)
	assert.Equal(t, "bad order", sensorErr.Msg)

	assert.Empty(t, dev.Reads())
	assert.Empty(t, dev.Writes())
}

func TestRead_Verbose(t *testing.T) {
	ctx := busctx.WithLabel(busctx.SetVerbose(context.Background(), true), "lps25h")
	dev := regbustest.NewFakeDevice()
	dev.SetRegister(0x0F, 0xBD)
	v, err := Read8(ctx, dev, 0x0F, "who am i")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xBD), v)
}
