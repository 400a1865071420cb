package regbustest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mklimuk/regbus"
)

var _ regbus.I2CBus = &MockBus{}

// MockBus is a testify mock of regbus.I2CBus. ReadFromAddr copies a []byte
// returned as the first value into the caller's buffer.
type MockBus struct {
	mock.Mock
}

func (m *MockBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
