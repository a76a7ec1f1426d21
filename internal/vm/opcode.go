package vm

import (
	"errors"
	"fmt"
)

var ErrUnknownOpcode = errors.New("unknown opcode")

type UnknownOpcodeError struct {
	Opcode uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown op code 0x%04X", e.Opcode)
}

func (e *UnknownOpcodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// Op identifies the operation an opcode performs.
type Op uint8

const (
	OpUnknown = Op(iota)
	OpSys     // 0NNN
	OpCls     // 00E0
	OpRts     // 00EE
	OpJmp     // 1NNN
	OpJsr     // 2NNN
	OpSkeqImm // 3XNN
	OpSkneImm // 4XNN
	OpSkeqReg // 5XY0
	OpMovImm  // 6XNN
	OpAddImm  // 7XNN
	OpMovReg  // 8XY0
	OpOr      // 8XY1
	OpAnd     // 8XY2
	OpXor     // 8XY3
	OpAddReg  // 8XY4
	OpSub     // 8XY5
	OpShr     // 8XY6
	OpRsb     // 8XY7
	OpShl     // 8XYE
	OpSkneReg // 9XY0
	OpMvi     // ANNN
	OpJmi     // BNNN
	OpRand    // CXNN
	OpSprite  // DXYN
	OpSkpr    // EX9E
	OpSkup    // EXA1
	OpGdelay  // FX07
	OpKey     // FX0A
	OpSdelay  // FX15
	OpSsound  // FX18
	OpAdi     // FX1E
	OpFont    // FX29
	OpBcd     // FX33
	OpStr     // FX55
	OpLdr     // FX65
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpSys:     "sys",
	OpCls:     "cls",
	OpRts:     "rts",
	OpJmp:     "jmp",
	OpJsr:     "jsr",
	OpSkeqImm: "skeq",
	OpSkneImm: "skne",
	OpSkeqReg: "skeq",
	OpMovImm:  "mov",
	OpAddImm:  "add",
	OpMovReg:  "mov",
	OpOr:      "or",
	OpAnd:     "and",
	OpXor:     "xor",
	OpAddReg:  "add",
	OpSub:     "sub",
	OpShr:     "shr",
	OpRsb:     "rsb",
	OpShl:     "shl",
	OpSkneReg: "skne",
	OpMvi:     "mvi",
	OpJmi:     "jmi",
	OpRand:    "rand",
	OpSprite:  "sprite",
	OpSkpr:    "skpr",
	OpSkup:    "skup",
	OpGdelay:  "gdelay",
	OpKey:     "key",
	OpSdelay:  "sdelay",
	OpSsound:  "ssound",
	OpAdi:     "adi",
	OpFont:    "font",
	OpBcd:     "bcd",
	OpStr:     "str",
	OpLdr:     "ldr",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Instruction is a decoded opcode together with its operand fields.
type Instruction struct {
	Op     Op
	Opcode uint16
	X      uint8  // second nibble
	Y      uint8  // third nibble
	N      uint8  // low nibble
	KK     uint8  // low byte
	NNN    uint16 // low 12 bits
}

// Decode maps an opcode to the operation it encodes.
func Decode(opcode uint16) (Instruction, error) {
	instr := Instruction{
		Opcode: opcode,
		X:      uint8((opcode & 0x0F00) >> 8),
		Y:      uint8((opcode & 0x00F0) >> 4),
		N:      uint8(opcode & 0x000F),
		KK:     uint8(opcode & 0x00FF),
		NNN:    opcode & 0x0FFF,
	}
	instr.Op = decodeOp(opcode)

	if instr.Op == OpUnknown {
		return instr, &UnknownOpcodeError{Opcode: opcode}
	}
	return instr, nil
}

func decodeOp(opcode uint16) Op {
	switch opcode {
	case 0x00E0:
		// 00E0 - Clear screen
		return OpCls

	case 0x00EE:
		// 00EE - Return from subroutine
		return OpRts
	}

	switch opcode & 0xF000 {
	case 0x0000:
		// 0NNN - Machine code routine, ignored
		return OpSys

	case 0x1000:
		// 1NNN - Jumps to address NNN
		return OpJmp

	case 0x2000:
		// 2NNN - Calls subroutine at NNN
		return OpJsr

	case 0x3000:
		// 3XNN - Skips the next instruction if VX equals NN
		return OpSkeqImm

	case 0x4000:
		// 4XNN - Skips the next instruction if VX does not equal NN
		return OpSkneImm

	case 0x5000:
		if opcode&0x000F == 0x0000 {
			// 5XY0 - Skips the next instruction if VX equals VY
			return OpSkeqReg
		}

	case 0x6000:
		// 6XNN - Sets VX to NN
		return OpMovImm

	case 0x7000:
		// 7XNN - Adds NN to VX
		return OpAddImm

	case 0x8000:
		switch opcode & 0x000F {
		case 0x0000:
			// 8XY0 - Sets VX to the value of VY
			return OpMovReg

		case 0x0001:
			// 8XY1 - Sets VX to (VX OR VY)
			return OpOr

		case 0x0002:
			// 8XY2 - Sets VX to (VX AND VY)
			return OpAnd

		case 0x0003:
			// 8XY3 - Sets VX to (VX XOR VY)
			return OpXor

		case 0x0004:
			// 8XY4 - Adds VY to VX. VF is set to 1 when there's a carry, and to 0 when there isn't.
			return OpAddReg

		case 0x0005:
			// 8XY5 - VY is subtracted from VX. VF is set to 0 when there's a borrow, and 1 when there isn't.
			return OpSub

		case 0x0006:
			// 8XY6 - Shifts right by one. VF is set to the bit shifted out.
			return OpShr

		case 0x0007:
			// 8XY7 - Sets VX to VY minus VX. VF is set to 0 when there's a borrow, and 1 when there isn't.
			return OpRsb

		case 0x000E:
			// 8XYE - Shifts left by one. VF is set to the bit shifted out.
			return OpShl
		}

	case 0x9000:
		if opcode&0x000F == 0x0000 {
			// 9XY0 - Skips the next instruction if VX doesn't equal VY
			return OpSkneReg
		}

	case 0xA000:
		// ANNN - Sets I to the address NNN
		return OpMvi

	case 0xB000:
		// BNNN - Jumps to the address NNN plus V0
		return OpJmi

	case 0xC000:
		// CXNN - Sets VX to a random number, masked by NN
		return OpRand

	case 0xD000:
		// DXYN - Draws an 8xN sprite from I at (VX, VY)
		return OpSprite

	case 0xE000:
		switch opcode & 0x00FF {
		case 0x009E:
			// EX9E - Skips the next instruction if the key stored in VX is pressed
			return OpSkpr

		case 0x00A1:
			// EXA1 - Skips the next instruction if the key stored in VX isn't pressed
			return OpSkup
		}

	case 0xF000:
		switch opcode & 0x00FF {
		case 0x0007:
			// FX07 - Sets VX to the value of the delay timer
			return OpGdelay

		case 0x000A:
			// FX0A - A key press is awaited, and then stored in VX
			return OpKey

		case 0x0015:
			// FX15 - Sets the delay timer to VX
			return OpSdelay

		case 0x0018:
			// FX18 - Sets the sound timer to VX
			return OpSsound

		case 0x001E:
			// FX1E - Adds VX to I
			return OpAdi

		case 0x0029:
			// FX29 - Sets I to the location of the font sprite for VX
			return OpFont

		case 0x0033:
			// FX33 - Stores the BCD representation of VX at I, I+1, I+2
			return OpBcd

		case 0x0055:
			// FX55 - Stores V0 to VX in memory starting at address I
			return OpStr

		case 0x0065:
			// FX65 - Reads memory starting at address I into V0...VX
			return OpLdr
		}
	}

	return OpUnknown
}

// String renders the instruction as an assembler mnemonic.
func (in Instruction) String() string {
	name := in.Op.String()

	switch in.Op {
	case OpCls, OpRts:
		return name

	case OpSys, OpJmp, OpJsr, OpMvi, OpJmi:
		return fmt.Sprintf("%s 0x%04x", name, in.NNN)

	case OpSkeqImm, OpSkneImm, OpMovImm, OpAddImm:
		return fmt.Sprintf("%s v%x, %d", name, in.X, in.KK)

	case OpSkeqReg, OpSkneReg, OpMovReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpShr, OpRsb, OpShl:
		return fmt.Sprintf("%s v%x, v%x", name, in.X, in.Y)

	case OpRand:
		return fmt.Sprintf("%s v%x, 0x%02x", name, in.X, in.KK)

	case OpSprite:
		return fmt.Sprintf("%s v%x, v%x, %d", name, in.X, in.Y, in.N)

	case OpSkpr, OpSkup, OpGdelay, OpKey, OpSdelay, OpSsound, OpAdi, OpFont, OpBcd:
		return fmt.Sprintf("%s v%x", name, in.X)

	case OpStr, OpLdr:
		return fmt.Sprintf("%s v0-v%x", name, in.X)

	default:
		return fmt.Sprintf("%s 0x%04X", name, in.Opcode)
	}
}
