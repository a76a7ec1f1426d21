package vm

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

var (
	ErrNoProgram    = errors.New("no program loaded")
	ErrInfiniteLoop = errors.New("infinite loop")
)

// VM wires the CPU to its memory, display and input and drives them at the
// configured rates.
type VM struct {
	cfg Config

	mm      *MemoryManager
	display *Display
	input   *Input
	cpu     *CPU

	program []byte
}

func New(cfg Config, tone ToneGenerator) *VM {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	mm := NewMemoryManager(cfg, tone)
	display := NewDisplay()
	input := NewInput()

	return &VM{
		cfg:     cfg,
		mm:      mm,
		display: display,
		input:   input,
		cpu:     NewCPU(mm, display, input, cfg.Quirks, rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))),
	}
}

type HAL interface {
	ReadInput(keyDown func(Key), keyUp func(Key)) error
	Draw(display *Display) error
	WaitForNextFrame() error
}

// Load resets the machine and copies program into memory.
func (vm *VM) Load(program []byte) error {
	if len(program) == 0 {
		return ErrNoProgram
	}
	vm.program = program
	return vm.initialize()
}

func (vm *VM) initialize() error {
	if err := vm.mm.ResetMemory(); err != nil {
		return err
	}

	vm.display.Clear()
	vm.input.Reset()
	vm.cpu.Reset()

	ok, err := vm.mm.LoadProgram(vm.program)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoProgram
	}
	return nil
}

// ExecuteCycle runs n CPU ticks followed by one tick of both timers.
// It stops early with ErrInfiniteLoop when the program jumps to itself.
func (vm *VM) ExecuteCycle(n int) error {
	var loopErr error
	for i := 0; i < n; i++ {
		pc := vm.mm.PC()
		running := vm.cpu.State() == StateRunning

		if err := vm.cpu.Tick(); err != nil {
			return err
		}

		if running && vm.cpu.State() == StateRunning && vm.mm.PC() == pc {
			loopErr = ErrInfiniteLoop
			break
		}
	}

	vm.mm.Delay().Tick()
	vm.mm.Sound().Tick()
	return loopErr
}

func (vm *VM) Run(hal HAL) error {
	if err := vm.initialize(); err != nil {
		return err
	}

	ticks := vm.cfg.TicksPerFrame()
	for {
		if err := hal.ReadInput(vm.input.Press, vm.input.Release); err != nil {
			return err
		}

		err := vm.ExecuteCycle(ticks)

		if drawErr := vm.present(hal); drawErr != nil {
			return drawErr
		}

		if err != nil {
			if errors.Is(err, ErrInfiniteLoop) {
				slog.Info("program looped", "pc", fmt.Sprintf("0x%04x", vm.mm.PC()))
				return vm.waitForReboot(hal)
			}

			slog.Debug("machine state\n" + vm.mm.String())
			return err
		}

		if err := hal.WaitForNextFrame(); err != nil {
			return err
		}
	}
}

func (vm *VM) present(hal HAL) error {
	if !vm.display.Dirty() {
		return nil
	}
	if err := hal.Draw(vm.display); err != nil {
		return err
	}
	vm.display.ClearDirty()
	return nil
}

func (vm *VM) waitForReboot(hal HAL) error {
	vm.mm.Sound().Clear()

	for {
		if err := hal.WaitForNextFrame(); err != nil {
			return err
		}

		if err := hal.ReadInput(func(_ Key) {}, func(_ Key) {}); err != nil {
			return err
		}
	}
}

func (vm *VM) Config() Config {
	return vm.cfg
}

func (vm *VM) Memory() *MemoryManager {
	return vm.mm
}

func (vm *VM) Display() *Display {
	return vm.display
}

func (vm *VM) Input() *Input {
	return vm.input
}

func (vm *VM) CPU() *CPU {
	return vm.cpu
}
