package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestQuirksFor(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected Quirks
	}{
		{ModeChip8, Quirks{Mode: ModeChip8, ShiftUsesVY: true, LoadStoreIncrementsI: true, LogicResetsVF: true}},
		{ModeChip48, Quirks{Mode: ModeChip48, LoadStoreIncrementsI: true, JumpUsesVX: true}},
		{ModeSuperChip, Quirks{Mode: ModeSuperChip, JumpUsesVX: true}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, QuirksFor(tt.mode))
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"chip8", ModeChip8},
		{"CHIP-8", ModeChip8},
		{"chip48", ModeChip48},
		{"schip", ModeSuperChip},
		{" super-chip ", ModeSuperChip},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMode(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}

	_, err := ParseMode("xochip")
	assert.Error(t, err, `unknown mode "xochip"`)
}

func TestMode_String(t *testing.T) {
	for _, m := range []Mode{ModeChip8, ModeChip48, ModeSuperChip} {
		parsed, err := ParseMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	assert.Equal(t, "mode(7)", Mode(7).String())
}
