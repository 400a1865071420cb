package accel

import (
	"context"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/register"
)

const (
	regChipID        = 0x00
	regSlopeSettings = 0x12
	regInterrupts    = 0x18
	regSlopeDet      = 0x1A
	regLatch         = 0x1C
	regRange         = 0x22
	regWatchdog      = 0x2E
)

const DefaultBMA220Address = 0x0A

// ChipIDBMA220 is the content of the chip id register.
const ChipIDBMA220 = 0xDD

// BMA220 represents Bosh BMA220 accelerometer
type BMA220 struct {
	dev regbus.I2CDevice
}

func NewBMA220(bus regbus.I2CBus) *BMA220 {
	return &BMA220{dev: regbus.NewDevice(bus, DefaultBMA220Address)}
}

func NewBMA220Device(dev regbus.I2CDevice) *BMA220 {
	return &BMA220{dev: dev}
}

func (b *BMA220) ChipID(ctx context.Context) (byte, error) {
	return register.Read8(ctx, b.dev, regChipID, "bma220: could not read chip id")
}

/*
en_slope_x (0x1A.5) enable slope detection on x-axis
en_slope_y (0x1A.4) enable slope detection on y-axis
en_slope_z (0x1A.3) enable slope detection on z-axis
slope_th (0x12[5:2]) define the threshold level of the slope 1 LSB threshold is 1 LSB of acc_data
slope_dur (0x12[1:0]) define the number of consecutive slope data points above slope_th which are required to set the interrupt (“00” = 1,”01” = 2,”10” = 3, “11” = 4)
slope_filt (0x12.6) defines whether filtered or unfiltered acceleration data should be used (evaluated) (‘0’=unfiltered, ‘1’=filtered)
slope_int (0x0C.0) whether slope interrupt has been triggered
*/
func (b *BMA220) InitMotionDetection(ctx context.Context) error {
	steps := []struct {
		reg, value byte
		msg        string
	}{
		{regRange, 0x03, "bma220: could not set detection sensitivity"},
		// permanent interrupt latch lat_int[2:0] = 111
		{regLatch, 0b01110000, "bma220: could not set interrupt settings"},
		{regSlopeDet, 0b00111000, "bma220: could not enable slope detection"},
		// default 0x45
		{regSlopeSettings, 0x45, "bma220: could not set slope detection settings"},
		{regWatchdog, 0x06, "bma220: could not set watchdog settings"},
	}
	for _, s := range steps {
		err := register.Write(ctx, b.dev, s.reg, s.value, s.msg)
		if err != nil {
			return err
		}
	}
	return nil
}

// CheckMotionInterrupt reports whether the slope interrupt has been latched.
func (b *BMA220) CheckMotionInterrupt(ctx context.Context) (bool, error) {
	status, err := register.Read8(ctx, b.dev, regInterrupts, "bma220: could not read interrupt status")
	if err != nil {
		return false, err
	}
	// slope detection is on bit 0
	return status&0x01 != 0, nil
}

// ResetMotionInterrupt clears the latched interrupt, keeping the permanent latch mode.
func (b *BMA220) ResetMotionInterrupt(ctx context.Context) error {
	return register.Write(ctx, b.dev, regLatch, 0b11110000, "bma220: could not reset interrupt latch")
}
