// Package pressure contains barometric pressure sensor drivers.
package pressure

import (
	"context"
	"errors"

	"github.com/mklimuk/regbus"
	"github.com/mklimuk/regbus/register"
)

// LPS25H addresses: 0x5C with SA0 low (Sense HAT), 0x5D with SA0 high.
const (
	LPS25HAddrLow  = 0x5C
	LPS25HAddrHigh = 0x5D
)

const (
	regResConf  = 0x10
	regWhoAmI   = 0x0F
	regCtrl1    = 0x20
	regCtrl2    = 0x21
	regStatus   = 0x27
	regPressOut = 0x28
	regTempOut  = 0x2B
	regFIFOCtrl = 0x2E

	// set on the register address to read consecutive registers
	autoIncrement = 0x80
)

const LPS25HID = 0xBD

const (
	statusTempAvailable     = 0x01
	statusPressureAvailable = 0x02
)

var ErrUnexpectedDevice = errors.New("lps25h: unexpected device id")
var ErrNoData = errors.New("lps25h: no new sample available")

// LPS25H is the ST pressure sensor fitted on the Raspberry Pi Sense HAT.
//
//	s := pressure.NewLPS25H(regbus.NewDevice(bus, pressure.LPS25HAddrLow))
//	_ = s.Init(ctx)
//	hpa, err := s.Pressure(ctx)
type LPS25H struct {
	dev regbus.I2CDevice
}

func NewLPS25H(dev regbus.I2CDevice) *LPS25H {
	return &LPS25H{dev: dev}
}

func (s *LPS25H) WhoAmI(ctx context.Context) (byte, error) {
	return register.Read8(ctx, s.dev, regWhoAmI, "lps25h: could not read id")
}

// Init checks the device id and starts continuous conversion at 25Hz with
// block data update and FIFO mean mode.
func (s *LPS25H) Init(ctx context.Context) error {
	id, err := s.WhoAmI(ctx)
	if err != nil {
		return err
	}
	if id != LPS25HID {
		return &register.SensorError{Msg: "lps25h: could not initialize", Err: ErrUnexpectedDevice}
	}
	steps := []struct {
		reg, value byte
		msg        string
	}{
		{regCtrl1, 0xC4, "lps25h: could not set power and output rate"},
		{regResConf, 0x05, "lps25h: could not set resolution"},
		{regFIFOCtrl, 0xC0, "lps25h: could not set fifo mode"},
		{regCtrl2, 0x40, "lps25h: could not enable fifo"},
	}
	for _, st := range steps {
		err = register.Write(ctx, s.dev, st.reg, st.value, st.msg)
		if err != nil {
			return err
		}
	}
	return nil
}

// PowerDown stops conversions.
func (s *LPS25H) PowerDown(ctx context.Context) error {
	return register.Write(ctx, s.dev, regCtrl1, 0x00, "lps25h: could not power down")
}

func (s *LPS25H) Status(ctx context.Context) (byte, error) {
	return register.Read8(ctx, s.dev, regStatus, "lps25h: could not read status")
}

// RawPressure returns the 24-bit PRESS_OUT value (XL, L, H registers).
func (s *LPS25H) RawPressure(ctx context.Context) (uint32, error) {
	return register.Read24(ctx, s.dev, regPressOut|autoIncrement, register.LittleEndian, "lps25h: could not read pressure")
}

// RawTemperature returns the signed TEMP_OUT value.
func (s *LPS25H) RawTemperature(ctx context.Context) (int16, error) {
	raw, err := register.Read16(ctx, s.dev, regTempOut|autoIncrement, register.LittleEndian, "lps25h: could not read temperature")
	if err != nil {
		return 0, err
	}
	return int16(raw), nil
}

// Pressure returns the latest sample in hPa.
func (s *LPS25H) Pressure(ctx context.Context) (float64, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return 0, err
	}
	if status&statusPressureAvailable == 0 {
		return 0, ErrNoData
	}
	raw, err := s.RawPressure(ctx)
	if err != nil {
		return 0, err
	}
	return float64(raw) / 4096, nil
}

// Temperature returns the latest sample in °C.
func (s *LPS25H) Temperature(ctx context.Context) (float64, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return 0, err
	}
	if status&statusTempAvailable == 0 {
		return 0, ErrNoData
	}
	raw, err := s.RawTemperature(ctx)
	if err != nil {
		return 0, err
	}
	return 42.5 + float64(raw)/480, nil
}
