package gpio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/register"
	"github.com/mklimuk/regbus/regbustest"
)

const addr = DefaultMCP23017Address

func TestMCP23017_InitAndPullUp(t *testing.T) {
	bus := new(regbustest.MockBus)
	bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{0x00, 0xFF}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{0x01, 0x0F}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{0x0C, 0xFF}).Return(nil).Once()

	exp := NewMCP23017(bus, addr)
	require.NoError(t, exp.InitA(context.Background(), 0xFF))
	require.NoError(t, exp.InitB(context.Background(), 0x0F))
	require.NoError(t, exp.PullUpA(context.Background(), 0xFF))
	bus.AssertExpectations(t)
}

func TestMCP23017_ReadAB(t *testing.T) {
	tests := []struct {
		name string
		bank int
	}{
		{"bank 0", 0},
		{"bank 1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(regbustest.MockBus)
			gpioA, gpioB := BankAddr[tt.bank][GPIOA], BankAddr[tt.bank][GPIOB]
			if tt.bank == 0 {
				bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{gpioA}).Return(nil).Once()
				bus.On("ReadFromAddr", mock.Anything, byte(addr), mock.Anything).Return([]byte{0xA5, 0x3C}, nil).Once()
			} else {
				bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{gpioA}).Return(nil).Once()
				bus.On("ReadFromAddr", mock.Anything, byte(addr), mock.Anything).Return([]byte{0xA5}, nil).Once()
				bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{gpioB}).Return(nil).Once()
				bus.On("ReadFromAddr", mock.Anything, byte(addr), mock.Anything).Return([]byte{0x3C}, nil).Once()
			}
			exp := NewMCP23017(bus, addr, WithBank(tt.bank))
			v, err := exp.ReadAB(context.Background())
			require.NoError(t, err)
			assert.Equal(t, uint16(0xA53C), v)
			bus.AssertExpectations(t)
		})
	}
}

func TestMCP23017_RetryOnBusy(t *testing.T) {
	bus := new(regbustest.MockBus)
	bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{0x12}).Return(regbus.ErrBusBusy).Once()
	bus.On("Release", mock.Anything).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(addr), []byte{0x12}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(addr), mock.Anything).Return([]byte{0x42}, nil).Once()

	exp := NewMCP23017(bus, addr, WithRetryLimit(2))
	v, err := exp.ReadA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), v)
	bus.AssertExpectations(t)
}

func TestMCP23017_RetryLimitReached(t *testing.T) {
	bus := new(regbustest.MockBus)
	bus.On("WriteToAddr", mock.Anything, byte(addr), mock.Anything).Return(regbus.ErrBusBusy)
	bus.On("Release", mock.Anything).Return(nil)

	exp := NewMCP23017(bus, addr, WithRetryLimit(3))
	err := exp.WriteSettingsA(context.Background(), 0x20)
	assert.ErrorIs(t, err, regbus.ErrBusBusy)
	assert.ErrorContains(t, err, "retry limit reached")
	bus.AssertNumberOfCalls(t, "WriteToAddr", 3)
	bus.AssertNumberOfCalls(t, "Release", 3)
}

func TestMCP23017_NoRetryOnOtherErrors(t *testing.T) {
	fault := errors.New("nack")
	bus := new(regbustest.MockBus)
	bus.On("WriteToAddr", mock.Anything, byte(addr), mock.Anything).Return(fault)

	exp := NewMCP23017(bus, addr, WithRetryLimit(3))
	_, err := exp.ReadSettingsB(context.Background())
	var sensorErr *register.SensorError
	require.ErrorAs(t, err, &sensorErr)
	assert.Equal(t, "could not read gpio B settings", sensorErr.Msg)
	assert.ErrorIs(t, err, fault)
	bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
	bus.AssertNotCalled(t, "Release", mock.Anything)
}
