package vm

import (
	"errors"
	"fmt"
)

const (
	MemorySize    = 4096
	StackSize     = 16
	RegisterCount = 16
	ScreenWidth   = 64
	ScreenHeight  = 32
	KeyCount      = 16

	ProgramStart     = uint16(0x200)
	InterpreterStart = uint16(0x000)
	InstructionSize  = 2

	CPUHz   = 540
	TimerHz = 60
)

// maxMemorySize is the largest memory a 16-bit address can reach.
const maxMemorySize = 0x10000

var ErrInvalidConfig = errors.New("invalid config")

// Config sizes the machine. It is read once, when the VM is created.
type Config struct {
	MemorySize       int
	StackSize        int
	ProgramStart     uint16
	InterpreterStart uint16

	CPUHz   int
	TimerHz int

	Quirks Quirks

	// Seed for the CXNN random source; 0 picks a random seed.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		MemorySize:       MemorySize,
		StackSize:        StackSize,
		ProgramStart:     ProgramStart,
		InterpreterStart: InterpreterStart,
		CPUHz:            CPUHz,
		TimerHz:          TimerHz,
		Quirks:           QuirksFor(ModeChip8),
	}
}

// TicksPerFrame is the number of CPU ticks executed per timer tick.
func (c Config) TicksPerFrame() int {
	if c.TimerHz <= 0 || c.CPUHz < c.TimerHz {
		return 1
	}
	return c.CPUHz / c.TimerHz
}

func (c Config) Validate() error {
	if c.MemorySize <= 0 || c.MemorySize > maxMemorySize {
		return fmt.Errorf("%w: memory size %d out of range 1..%d", ErrInvalidConfig, c.MemorySize, maxMemorySize)
	}
	if c.StackSize <= 0 {
		return fmt.Errorf("%w: stack size %d must be positive", ErrInvalidConfig, c.StackSize)
	}
	return nil
}
