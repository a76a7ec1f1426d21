package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func newTestMemoryManager(t *testing.T) *MemoryManager {
	t.Helper()

	mm := NewMemoryManager(DefaultConfig(), nil)
	assert.NoError(t, mm.ResetMemory())
	return mm
}

func TestMemoryManager_FetchNextInstruction(t *testing.T) {
	mm := newTestMemoryManager(t)

	ok, err := mm.LoadProgram([]byte{0x12, 0x34, 0xAB, 0xCD})
	assert.NoError(t, err)
	assert.True(t, ok)

	opcode, err := mm.FetchNextInstruction()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), opcode)
	assert.Equal(t, ProgramStart+2, mm.PC())

	opcode, err = mm.FetchNextInstruction()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), opcode)
	assert.Equal(t, ProgramStart+4, mm.PC())
}

func TestMemoryManager_FetchOutOfRange(t *testing.T) {
	mm := newTestMemoryManager(t)
	mm.SetPC(MemorySize - 1)

	_, err := mm.FetchNextInstruction()
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
}

func TestMemoryManager_SkipNextInstruction(t *testing.T) {
	mm := newTestMemoryManager(t)
	mm.SkipNextInstruction()
	assert.Equal(t, ProgramStart+2, mm.PC())

	mm.SetPC(0xFFFE)
	mm.SkipNextInstruction()
	assert.Equal(t, uint16(0), mm.PC())
}

func TestMemoryManager_ResetMemory(t *testing.T) {
	tone := &fakeTone{}
	mm := NewMemoryManager(DefaultConfig(), tone)

	mm.SetPC(0x345)
	mm.SetI(0x456)
	assert.NoError(t, mm.SetRegister(3, 0x77))
	assert.NoError(t, mm.Write(0x300, 0x99))
	assert.NoError(t, mm.Stack().Push(0x222))
	mm.Delay().Set(10)
	mm.Sound().Set(10)

	assert.NoError(t, mm.ResetMemory())

	assert.Equal(t, ProgramStart, mm.PC())
	assert.Equal(t, uint16(0), mm.I())
	assert.Equal(t, 0, mm.Stack().Len())
	assert.Equal(t, uint8(0), mm.Delay().Value())
	assert.Equal(t, uint8(0), mm.Sound().Value())
	assert.Equal(t, 1, tone.stops)

	v, err := mm.Register(3)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)

	v, err = mm.Read(0x300)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)
}

func TestMemoryManager_FontSprites(t *testing.T) {
	mm := newTestMemoryManager(t)

	tests := []struct {
		digit uint8
		glyph []byte
	}{
		{0x0, []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}},
		{0x1, []byte{0x20, 0x60, 0x20, 0x20, 0x70}},
		{0xA, []byte{0xF0, 0x90, 0xF0, 0x90, 0x90}},
		{0xF, []byte{0xF0, 0x80, 0xF0, 0x80, 0x80}},
	}

	for _, tt := range tests {
		addr := mm.SpriteLocation(tt.digit)
		assert.Equal(t, InterpreterStart+uint16(tt.digit)*5, addr)

		for i, want := range tt.glyph {
			v, err := mm.Read(int(addr) + i)
			assert.NoError(t, err)
			assert.Equal(t, want, v)
		}
	}
}

func TestMemoryManager_FontAtCustomStart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InterpreterStart = 0x050
	mm := NewMemoryManager(cfg, nil)
	assert.NoError(t, mm.ResetMemory())

	assert.Equal(t, uint16(0x050+5*2), mm.SpriteLocation(2))
	v, err := mm.Read(0x050)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xF0), v)
}

func TestMemoryManager_LoadProgram(t *testing.T) {
	mm := newTestMemoryManager(t)

	ok, err := mm.LoadProgram(nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = mm.LoadProgram(make([]byte, MemorySize))
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))

	ok, err = mm.LoadProgram(make([]byte, MemorySize-int(ProgramStart)))
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryManager_RegisterBounds(t *testing.T) {
	mm := newTestMemoryManager(t)

	_, err := mm.Register(16)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.True(t, errors.Is(mm.SetRegister(16, 1), ErrAddressOutOfRange))
}

func TestMemoryManager_String(t *testing.T) {
	mm := newTestMemoryManager(t)
	assert.NoError(t, mm.SetRegister(0xA, 0x5C))
	assert.NoError(t, mm.Stack().Push(0x0202))

	dump := mm.String()
	assert.True(t, strings.HasPrefix(dump, "pc=0x0200 i=0x0000 dt=0 st=0\n"))
	assert.True(t, strings.Contains(dump, "va=5c"))
	assert.True(t, strings.Contains(dump, "stack=[0x0202]"))
	assert.True(t, strings.Contains(dump, "00000000  f0 90 90 90 f0 20 60 20"))
}
