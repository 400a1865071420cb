package accel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regbus/regbustest"
)

func TestBMA220_InitMotionDetection(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	require.NoError(t, NewBMA220Device(dev).InitMotionDetection(context.Background()))
	assert.Equal(t, [][]byte{
		{regRange, 0x03},
		{regLatch, 0x70},
		{regSlopeDet, 0x38},
		{regSlopeSettings, 0x45},
		{regWatchdog, 0x06},
	}, dev.Writes())
}

func TestBMA220_InitStopsOnFirstError(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	dev.WriteErr = errors.New("nack")
	err := NewBMA220Device(dev).InitMotionDetection(context.Background())
	assert.ErrorContains(t, err, "could not set detection sensitivity")
	assert.Len(t, dev.Writes(), 1)
}

func TestBMA220_CheckMotionInterrupt(t *testing.T) {
	dev := regbustest.NewFakeDevice()
	s := NewBMA220Device(dev)

	dev.SetRegister(regInterrupts, 0x81)
	motion, err := s.CheckMotionInterrupt(context.Background())
	require.NoError(t, err)
	assert.True(t, motion)

	dev.SetRegister(regInterrupts, 0x80)
	motion, err = s.CheckMotionInterrupt(context.Background())
	require.NoError(t, err)
	assert.False(t, motion)
}

func TestBMA220_OverBus(t *testing.T) {
	bus := new(regbustest.MockBus)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultBMA220Address), []byte{regChipID}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultBMA220Address), mock.Anything).Return([]byte{ChipIDBMA220}, nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(DefaultBMA220Address), []byte{regLatch, 0xF0}).Return(nil).Once()

	s := NewBMA220(bus)
	id, err := s.ChipID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(ChipIDBMA220), id)
	require.NoError(t, s.ResetMotionInterrupt(context.Background()))
	bus.AssertExpectations(t)
}
