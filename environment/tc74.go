package environment

import (
	"context"
	"errors"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/register"
)

const tc74DefaultAddress = 0x4D

const (
	tc74TempRegister   = 0x00
	tc74ConfigRegister = 0x01
)

const (
	tc74ConfigStandby   = 0x80
	tc74ConfigDataReady = 0x40
)

// ErrNotReady is returned when the first conversion after power-up or standby has not completed yet.
var ErrNotReady = errors.New("tc74: conversion not ready")

// TC74 represents a Microchip TC74 Digital Temperature Sensor
// See: https://ww1.microchip.com/downloads/en/DeviceDoc/21462D.pdf
type TC74 struct {
	dev regbus.I2CDevice
}

type TC74Config struct {
	Address byte
}

type TC74ConfigOption func(*TC74Config)

func WithAddress(address byte) TC74ConfigOption {
	return func(c *TC74Config) {
		c.Address = address
	}
}

// NewTC74 binds the sensor to bus at 0x4D unless WithAddress says otherwise.
func NewTC74(bus regbus.I2CBus, opts ...TC74ConfigOption) *TC74 {
	config := &TC74Config{
		Address: tc74DefaultAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	return &TC74{dev: regbus.NewDevice(bus, config.Address)}
}

// NewTC74Device uses an already addressed device (e.g. a gobot connection).
func NewTC74Device(dev regbus.I2CDevice) *TC74 {
	return &TC74{dev: dev}
}

// GetConfig reads the configuration register (0x01).
func (sensor *TC74) GetConfig(ctx context.Context) (byte, error) {
	return register.Read8(ctx, sensor.dev, tc74ConfigRegister, "tc74: could not read config register")
}

// SetStandby switches the sensor between standby (no conversions) and normal mode.
func (sensor *TC74) SetStandby(ctx context.Context, standby bool) error {
	var value byte
	if standby {
		value = tc74ConfigStandby
	}
	return register.Write(ctx, sensor.dev, tc74ConfigRegister, value, "tc74: could not write config register")
}

// GetTemperature reads the temperature in Celsius once DATA_RDY is set.
func (sensor *TC74) GetTemperature(ctx context.Context) (float32, error) {
	config, err := sensor.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	if config&tc74ConfigDataReady == 0 {
		return 0, ErrNotReady
	}
	raw, err := register.Read8(ctx, sensor.dev, tc74TempRegister, "tc74: could not read temperature register")
	if err != nil {
		return 0, err
	}
	// two's complement, 1°C per LSB
	return float32(int8(raw)), nil
}
