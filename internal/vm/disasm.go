package vm

import (
	"fmt"
	"io"
)

// Line is one disassembled word of a program image.
type Line struct {
	Address uint16
	Opcode  uint16
	Instr   Instruction
	Known   bool
}

func (l Line) String() string {
	if !l.Known {
		return fmt.Sprintf("0x%04x  %04x  db 0x%04x", l.Address, l.Opcode, l.Opcode)
	}
	return fmt.Sprintf("0x%04x  %04x  %s", l.Address, l.Opcode, l.Instr)
}

// Disassemble decodes program word by word as if loaded at origin. A
// trailing odd byte is rendered as data.
func Disassemble(program []byte, origin uint16) []Line {
	lines := make([]Line, 0, (len(program)+1)/InstructionSize)
	for i := 0; i < len(program); i += InstructionSize {
		opcode := uint16(program[i]) << 8
		if i+1 < len(program) {
			opcode |= uint16(program[i+1])
		}

		instr, err := Decode(opcode)
		lines = append(lines, Line{
			Address: origin + uint16(i),
			Opcode:  opcode,
			Instr:   instr,
			Known:   err == nil && i+1 < len(program),
		})
	}
	return lines
}

func WriteDisassembly(w io.Writer, program []byte, origin uint16) error {
	for _, line := range Disassemble(program, origin) {
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}
