package vm

import (
	"errors"
	"fmt"
)

var ErrAddressOutOfRange = errors.New("address out of range")

// RangeError reports an access outside of a Memory.
type RangeError struct {
	Address int
	Size    int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("address 0x%04x out of range [0x0000, 0x%04x)", e.Address, e.Size)
}

func (e *RangeError) Unwrap() error {
	return ErrAddressOutOfRange
}

// Memory is a bounds-checked byte array. It backs both RAM and the V registers.
type Memory struct {
	data []uint8
}

func NewMemory(size int) *Memory {
	return &Memory{data: make([]uint8, size)}
}

func (m *Memory) Size() int {
	return len(m.data)
}

func (m *Memory) Read(addr int) (uint8, error) {
	if err := m.check(addr); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

func (m *Memory) Write(addr int, value uint8) error {
	if err := m.check(addr); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// Load copies bs into memory starting at addr.
func (m *Memory) Load(addr int, bs []byte) error {
	if len(bs) == 0 {
		return m.check(addr)
	}
	if err := m.check(addr); err != nil {
		return err
	}
	if err := m.check(addr + len(bs) - 1); err != nil {
		return err
	}
	copy(m.data[addr:], bs)
	return nil
}

func (m *Memory) Clear() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// Bytes returns a copy of the memory contents.
func (m *Memory) Bytes() []byte {
	bs := make([]byte, len(m.data))
	copy(bs, m.data)
	return bs
}

func (m *Memory) check(addr int) error {
	if addr < 0 || addr >= len(m.data) {
		return &RangeError{Address: addr, Size: len(m.data)}
	}
	return nil
}
