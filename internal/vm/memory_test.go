package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestMemory_ReadWrite(t *testing.T) {
	m := NewMemory(16)

	assert.NoError(t, m.Write(0, 0x12))
	assert.NoError(t, m.Write(15, 0x34))

	v, err := m.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x12), v)

	v, err = m.Read(15)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x34), v)
}

func TestMemory_OutOfRange(t *testing.T) {
	m := NewMemory(16)

	tests := []struct {
		name string
		addr int
	}{
		{"negative", -1},
		{"size", 16},
		{"far", 0x1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Read(tt.addr)
			assert.True(t, errors.Is(err, ErrAddressOutOfRange))

			err = m.Write(tt.addr, 1)
			assert.True(t, errors.Is(err, ErrAddressOutOfRange))

			var rangeErr *RangeError
			assert.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.addr, rangeErr.Address)
			assert.Equal(t, 16, rangeErr.Size)
		})
	}
}

func TestMemory_Load(t *testing.T) {
	m := NewMemory(8)

	assert.NoError(t, m.Load(4, []byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4}, m.Bytes())

	err := m.Load(6, []byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4}, m.Bytes())
}

func TestMemory_Clear(t *testing.T) {
	m := NewMemory(4)
	assert.NoError(t, m.Load(0, []byte{9, 9, 9, 9}))

	m.Clear()
	assert.Equal(t, []byte{0, 0, 0, 0}, m.Bytes())
}
