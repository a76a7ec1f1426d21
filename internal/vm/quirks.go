package vm

import (
	"fmt"
	"strings"
)

// Mode selects the interpreter generation whose opcode behavior is emulated.
type Mode uint8

const (
	ModeChip8 = Mode(iota)
	ModeChip48
	ModeSuperChip
)

func (m Mode) String() string {
	switch m {
	case ModeChip8:
		return "chip8"
	case ModeChip48:
		return "chip48"
	case ModeSuperChip:
		return "schip"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chip8", "chip-8":
		return ModeChip8, nil
	case "chip48", "chip-48":
		return ModeChip48, nil
	case "schip", "superchip", "super-chip":
		return ModeSuperChip, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Quirks holds the behavior switches for opcodes that differ between
// interpreter generations.
type Quirks struct {
	Mode Mode

	// 8XY6/8XYE shift VY into VX instead of shifting VX in place.
	ShiftUsesVY bool

	// FX55/FX65 leave I pointing past the last register transferred.
	LoadStoreIncrementsI bool

	// BXNN jumps to XNN plus VX instead of NNN plus V0.
	JumpUsesVX bool

	// 8XY1/8XY2/8XY3 clear VF.
	LogicResetsVF bool
}

func QuirksFor(mode Mode) Quirks {
	switch mode {
	case ModeChip48:
		return Quirks{
			Mode:                 mode,
			LoadStoreIncrementsI: true,
			JumpUsesVX:           true,
		}
	case ModeSuperChip:
		return Quirks{
			Mode:       mode,
			JumpUsesVX: true,
		}
	default:
		return Quirks{
			Mode:                 ModeChip8,
			ShiftUsesVY:          true,
			LoadStoreIncrementsI: true,
			LogicResetsVF:        true,
		}
	}
}
