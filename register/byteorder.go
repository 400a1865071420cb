package register

import (
	"fmt"
	"strings"
)

// ByteOrder tells how a multi-byte register value is laid out on the wire.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big-endian"
	case LittleEndian:
		return "little-endian"
	default:
		return fmt.Sprintf("ByteOrder(%d)", uint8(o))
	}
}

// Valid reports whether o is one of the defined orders.
func (o ByteOrder) Valid() bool {
	return o == BigEndian || o == LittleEndian
}

// ParseByteOrder accepts be/big/big-endian/msb and le/little/little-endian/lsb
// (case insensitive).
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "be", "big", "big-endian", "msb":
		return BigEndian, nil
	case "le", "little", "little-endian", "lsb":
		return LittleEndian, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnsupportedByteOrder, s)
}

// Decode assembles up to four bytes into an unsigned integer. The result of a
// 3-byte decode occupies the low 24 bits.
func Decode(order ByteOrder, data []byte) (uint32, error) {
	if len(data) == 0 || len(data) > 4 {
		return 0, fmt.Errorf("%w: %d bytes", ErrUnsupportedWidth, len(data))
	}
	var v uint32
	switch order {
	case BigEndian:
		for _, b := range data {
			v = v<<8 | uint32(b)
		}
	case LittleEndian:
		for i := len(data) - 1; i >= 0; i-- {
			v = v<<8 | uint32(data[i])
		}
	default:
		return 0, fmt.Errorf("%w %s", ErrUnsupportedByteOrder, order)
	}
	return v, nil
}
