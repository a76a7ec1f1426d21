package vm

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

const fontGlyphSize = 5

var chip8Font = []byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// MemoryManager owns the addressable state of the machine: RAM, the V
// registers, the call stack, PC, I and both timers.
type MemoryManager struct {
	ram       *Memory // Memory (4k)
	registers *Memory // V registers (V0-VF)

	stack *Stack

	pc    uint16 // Program counter
	index uint16 // Index register

	delay *Timer
	sound *SoundTimer

	programStart     uint16
	interpreterStart uint16
}

func NewMemoryManager(cfg Config, tone ToneGenerator) *MemoryManager {
	return &MemoryManager{
		ram:              NewMemory(cfg.MemorySize),
		registers:        NewMemory(RegisterCount),
		stack:            NewStack(cfg.StackSize),
		pc:               cfg.ProgramStart,
		delay:            &Timer{},
		sound:            NewSoundTimer(tone),
		programStart:     cfg.ProgramStart,
		interpreterStart: cfg.InterpreterStart,
	}
}

// FetchNextInstruction reads the big-endian opcode at PC and advances PC.
func (m *MemoryManager) FetchNextInstruction() (uint16, error) {
	hi, err := m.ram.Read(int(m.pc))
	if err != nil {
		return 0, fmt.Errorf("fetch at 0x%04x: %w", m.pc, err)
	}
	lo, err := m.ram.Read(int(m.pc) + 1)
	if err != nil {
		return 0, fmt.Errorf("fetch at 0x%04x: %w", m.pc, err)
	}

	m.pc += InstructionSize
	return uint16(hi)<<8 | uint16(lo), nil
}

func (m *MemoryManager) SkipNextInstruction() {
	m.pc += InstructionSize
}

// ResetMemory puts the machine back into its power-on state with the
// hexadecimal font loaded.
func (m *MemoryManager) ResetMemory() error {
	m.pc = m.programStart
	m.index = 0

	slog.Debug("clear stack", "n", m.stack.Cap())
	m.stack.Clear()

	slog.Debug("clear registers", "n", m.registers.Size())
	m.registers.Clear()

	slog.Debug("clear memory", "n", m.ram.Size())
	m.ram.Clear()

	slog.Debug("load font", "at", fmt.Sprintf("0x%04x", m.interpreterStart), "n", len(chip8Font))
	if err := m.ram.Load(int(m.interpreterStart), chip8Font); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	m.delay.Clear()
	m.sound.Clear()
	return nil
}

// LoadProgram copies rom to the program start address. It returns false when
// there is nothing to load.
func (m *MemoryManager) LoadProgram(rom []byte) (bool, error) {
	if len(rom) == 0 {
		return false, nil
	}

	slog.Info("load program", "at", fmt.Sprintf("0x%04x", m.programStart), "n", len(rom))
	if err := m.ram.Load(int(m.programStart), rom); err != nil {
		return false, fmt.Errorf("load program: %w", err)
	}
	return true, nil
}

// SpriteLocation returns the address of the font glyph for a hex digit.
func (m *MemoryManager) SpriteLocation(digit uint8) uint16 {
	return m.interpreterStart + uint16(digit)*fontGlyphSize
}

func (m *MemoryManager) PC() uint16 {
	return m.pc
}

func (m *MemoryManager) SetPC(pc uint16) {
	m.pc = pc
}

func (m *MemoryManager) I() uint16 {
	return m.index
}

func (m *MemoryManager) SetI(v uint16) {
	m.index = v
}

func (m *MemoryManager) Register(x uint8) (uint8, error) {
	return m.registers.Read(int(x))
}

func (m *MemoryManager) SetRegister(x uint8, v uint8) error {
	return m.registers.Write(int(x), v)
}

func (m *MemoryManager) Read(addr int) (uint8, error) {
	return m.ram.Read(addr)
}

func (m *MemoryManager) Write(addr int, v uint8) error {
	return m.ram.Write(addr, v)
}

func (m *MemoryManager) Size() int {
	return m.ram.Size()
}

func (m *MemoryManager) Stack() *Stack {
	return m.stack
}

func (m *MemoryManager) Delay() *Timer {
	return m.delay
}

func (m *MemoryManager) Sound() *SoundTimer {
	return m.sound
}

// String renders a human readable dump of the machine state.
func (m *MemoryManager) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "pc=0x%04x i=0x%04x dt=%d st=%d\n", m.pc, m.index, m.delay.Value(), m.sound.Value())

	regs := m.registers.Bytes()
	for i, v := range regs {
		fmt.Fprintf(&sb, "v%x=%02x", i, v)
		if i == len(regs)-1 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}

	sb.WriteString("stack=[")
	for i, v := range m.stack.Values() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "0x%04x", v)
	}
	sb.WriteString("]\n")

	sb.WriteString(hex.Dump(m.ram.Bytes()))
	return sb.String()
}
