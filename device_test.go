package regbus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/regbustest"
)

func TestDevice_ForwardsAddress(t *testing.T) {
	bus := new(regbustest.MockBus)
	dev := regbus.NewDevice(bus, 0x5C)
	ctx := context.Background()

	bus.On("WriteToAddr", mock.Anything, byte(0x5C), []byte{0x0F}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(0x5C), mock.Anything).Return([]byte{0xBD}, nil).Once()

	require.NoError(t, dev.Write(ctx, []byte{0x0F}))
	buf := make([]byte, 1)
	require.NoError(t, dev.Read(ctx, buf))
	assert.Equal(t, byte(0xBD), buf[0])
	assert.Equal(t, byte(0x5C), dev.Address())
	assert.Same(t, bus, dev.Bus())
	bus.AssertExpectations(t)
}

func TestDevice_WrapsBusErrors(t *testing.T) {
	bus := new(regbustest.MockBus)
	dev := regbus.NewDevice(bus, 0x21)
	bus.On("WriteToAddr", mock.Anything, byte(0x21), mock.Anything).Return(regbus.ErrBusBusy)
	bus.On("ReadFromAddr", mock.Anything, byte(0x21), mock.Anything).Return(nil, regbus.ErrShortRead)

	err := dev.Write(context.Background(), []byte{0x00})
	assert.ErrorIs(t, err, regbus.ErrBusBusy)
	assert.Contains(t, err.Error(), "0x21")

	err = dev.Read(context.Background(), make([]byte, 2))
	assert.ErrorIs(t, err, regbus.ErrShortRead)
}
