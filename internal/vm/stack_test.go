package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStack_PushPop(t *testing.T) {
	s := NewStack(4)

	for _, v := range []uint16{0x200, 0x300, 0x400, 0xFFFF} {
		assert.NoError(t, s.Push(v))
	}
	assert.Equal(t, 4, s.Len())

	for _, want := range []uint16{0xFFFF, 0x400, 0x300, 0x200} {
		v, err := s.Pop()
		assert.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestStack_Overflow(t *testing.T) {
	s := NewStack(4)
	for i := 0; i < 4; i++ {
		assert.NoError(t, s.Push(uint16(i)))
	}

	err := s.Push(5)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, 4, s.Len())
}

func TestStack_Underflow(t *testing.T) {
	s := NewStack(4)

	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestStack_Clear(t *testing.T) {
	s := NewStack(2)
	assert.NoError(t, s.Push(0x222))
	assert.NoError(t, s.Push(0x333))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, s.Cap())
	assert.Equal(t, []uint16{}, s.Values())

	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}
