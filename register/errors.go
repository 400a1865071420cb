package register

import "fmt"

var ErrUnsupportedByteOrder = fmt.Errorf("unsupported byte order")
var ErrUnsupportedWidth = fmt.Errorf("unsupported value width")
var ErrInvalidCount = fmt.Errorf("invalid byte count")

// SensorError is the only error type returned by the register helpers. Msg
// names the sensor operation the caller was performing; Err is the transport
// failure or contract violation behind it.
type SensorError struct {
	Msg string
	Err error
}

func (e *SensorError) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *SensorError) Unwrap() error {
	return e.Err
}

func wrap(msg string, err error) error {
	return &SensorError{Msg: msg, Err: err}
}
