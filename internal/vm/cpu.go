package vm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

type State uint8

const (
	StateRunning = State(iota)
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

const flagRegister = 0x0F

// CPU executes instructions against the machine state. It is not safe for
// concurrent use; only Input's live mask may be written from elsewhere.
type CPU struct {
	mm      *MemoryManager
	display *Display
	input   *Input
	quirks  Quirks
	rng     *rand.Rand

	state   State
	waitReg uint8 // register receiving the key that ends a pause

	trace func(pc uint16, instr Instruction)
}

func NewCPU(mm *MemoryManager, display *Display, input *Input, quirks Quirks, rng *rand.Rand) *CPU {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &CPU{
		mm:      mm,
		display: display,
		input:   input,
		quirks:  quirks,
		rng:     rng,
	}
}

func (c *CPU) State() State {
	return c.state
}

func (c *CPU) Quirks() Quirks {
	return c.quirks
}

// SetTracer registers fn to receive every decoded instruction before it is
// executed.
func (c *CPU) SetTracer(fn func(pc uint16, instr Instruction)) {
	c.trace = fn
}

func (c *CPU) Reset() {
	c.state = StateRunning
	c.waitReg = 0
}

// Tick snapshots the input and, unless waiting for a key, executes one
// instruction.
func (c *CPU) Tick() error {
	pressed := c.input.Lock()

	if c.state == StatePaused {
		key, ok := firstKey(pressed)
		if !ok {
			return nil
		}
		if err := c.mm.SetRegister(c.waitReg, uint8(key)); err != nil {
			return err
		}
		c.state = StateRunning
	}

	pc := c.mm.PC()
	opcode, err := c.mm.FetchNextInstruction()
	if err != nil {
		return err
	}

	instr, err := Decode(opcode)
	if err != nil {
		return fmt.Errorf("decode at 0x%04x: %w", pc, err)
	}

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", pc),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", instr.String(),
		)
	}

	if c.trace != nil {
		c.trace(pc, instr)
	}

	if err := c.execute(instr); err != nil {
		return fmt.Errorf("exec %q at 0x%04x: %w", instr.String(), pc, err)
	}
	return nil
}

func (c *CPU) execute(in Instruction) error {
	switch in.Op {
	case OpSys:
		return nil
	case OpCls:
		c.display.Clear()
		return nil
	case OpRts:
		return c.doReturn()
	case OpJmp:
		c.mm.SetPC(in.NNN)
		return nil
	case OpJsr:
		return c.call(in.NNN)
	case OpSkeqImm:
		return c.skipIfImm(in, true)
	case OpSkneImm:
		return c.skipIfImm(in, false)
	case OpSkeqReg:
		return c.skipIfReg(in, true)
	case OpSkneReg:
		return c.skipIfReg(in, false)
	case OpMovImm:
		return c.mm.SetRegister(in.X, in.KK)
	case OpAddImm:
		return c.addValueToRegister(in.X, in.KK)
	case OpMovReg:
		return c.logic(in, func(_, y uint8) uint8 { return y }, false)
	case OpOr:
		return c.logic(in, func(x, y uint8) uint8 { return x | y }, c.quirks.LogicResetsVF)
	case OpAnd:
		return c.logic(in, func(x, y uint8) uint8 { return x & y }, c.quirks.LogicResetsVF)
	case OpXor:
		return c.logic(in, func(x, y uint8) uint8 { return x ^ y }, c.quirks.LogicResetsVF)
	case OpAddReg:
		return c.addRegisters(in)
	case OpSub:
		return c.subtract(in, false)
	case OpRsb:
		return c.subtract(in, true)
	case OpShr:
		return c.shiftRight(in, c.quirks.ShiftUsesVY)
	case OpShl:
		return c.shiftLeft(in, c.quirks.ShiftUsesVY)
	case OpMvi:
		c.mm.SetI(in.NNN)
		return nil
	case OpJmi:
		return c.jumpWithOffset(in, c.quirks.JumpUsesVX)
	case OpRand:
		return c.random(in)
	case OpSprite:
		return c.draw(in)
	case OpSkpr:
		return c.skipIfKey(in, true)
	case OpSkup:
		return c.skipIfKey(in, false)
	case OpGdelay:
		return c.mm.SetRegister(in.X, c.mm.Delay().Value())
	case OpKey:
		c.waitForKey(in.X)
		return nil
	case OpSdelay:
		return c.withRegister(in.X, c.mm.Delay().Set)
	case OpSsound:
		return c.withRegister(in.X, c.mm.Sound().Set)
	case OpAdi:
		return c.addToIndex(in)
	case OpFont:
		return c.withRegister(in.X, func(v uint8) {
			c.mm.SetI(c.mm.SpriteLocation(v & 0x0F))
		})
	case OpBcd:
		return c.storeBCD(in)
	case OpStr:
		return c.storeRegisters(in.X, c.quirks.LoadStoreIncrementsI)
	case OpLdr:
		return c.loadRegisters(in.X, c.quirks.LoadStoreIncrementsI)
	default:
		return &UnknownOpcodeError{Opcode: in.Opcode}
	}
}

func (c *CPU) registers(in Instruction) (uint8, uint8, error) {
	x, err := c.mm.Register(in.X)
	if err != nil {
		return 0, 0, err
	}
	y, err := c.mm.Register(in.Y)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (c *CPU) withRegister(reg uint8, fn func(uint8)) error {
	v, err := c.mm.Register(reg)
	if err != nil {
		return err
	}
	fn(v)
	return nil
}

// storeWithFlag writes the result to VX first and the flag to VF last, so
// the flag survives when X is F. Interpreters that set VF before storing the
// result leave the result in VF instead.
func (c *CPU) storeWithFlag(reg, result, flag uint8) error {
	if err := c.mm.SetRegister(reg, result); err != nil {
		return err
	}
	return c.mm.SetRegister(flagRegister, flag)
}

func (c *CPU) doReturn() error {
	addr, err := c.mm.Stack().Pop()
	if err != nil {
		return err
	}
	c.mm.SetPC(addr)
	return nil
}

func (c *CPU) call(addr uint16) error {
	if err := c.mm.Stack().Push(c.mm.PC()); err != nil {
		return err
	}
	c.mm.SetPC(addr)
	return nil
}

func (c *CPU) skipIfImm(in Instruction, equal bool) error {
	x, err := c.mm.Register(in.X)
	if err != nil {
		return err
	}
	if (x == in.KK) == equal {
		c.mm.SkipNextInstruction()
	}
	return nil
}

func (c *CPU) skipIfReg(in Instruction, equal bool) error {
	x, y, err := c.registers(in)
	if err != nil {
		return err
	}
	if (x == y) == equal {
		c.mm.SkipNextInstruction()
	}
	return nil
}

func (c *CPU) skipIfKey(in Instruction, pressed bool) error {
	x, err := c.mm.Register(in.X)
	if err != nil {
		return err
	}
	if c.input.IsPressed(Key(x&0x0F)) == pressed {
		c.mm.SkipNextInstruction()
	}
	return nil
}

func (c *CPU) addValueToRegister(reg, value uint8) error {
	x, err := c.mm.Register(reg)
	if err != nil {
		return err
	}
	sum := uint16(x) + uint16(value)
	return c.mm.SetRegister(reg, uint8(sum))
}

func (c *CPU) logic(in Instruction, op func(x, y uint8) uint8, resetVF bool) error {
	x, y, err := c.registers(in)
	if err != nil {
		return err
	}
	if err := c.mm.SetRegister(in.X, op(x, y)); err != nil {
		return err
	}
	if resetVF {
		return c.mm.SetRegister(flagRegister, 0)
	}
	return nil
}

func (c *CPU) addRegisters(in Instruction) error {
	x, y, err := c.registers(in)
	if err != nil {
		return err
	}

	sum := uint16(x) + uint16(y)
	carry := uint8(0)
	if sum > 0xFF {
		carry = 1
	}
	return c.storeWithFlag(in.X, uint8(sum), carry)
}

// subtract computes VX-VY, or VY-VX when reverse is set. VF is 1 when no
// borrow occurs.
func (c *CPU) subtract(in Instruction, reverse bool) error {
	x, y, err := c.registers(in)
	if err != nil {
		return err
	}

	minuend, subtrahend := int16(x), int16(y)
	if reverse {
		minuend, subtrahend = subtrahend, minuend
	}

	notBorrow := uint8(0)
	if minuend >= subtrahend {
		notBorrow = 1
	}
	return c.storeWithFlag(in.X, uint8(minuend-subtrahend), notBorrow)
}

func (c *CPU) shiftRight(in Instruction, useVY bool) error {
	x, y, err := c.registers(in)
	if err != nil {
		return err
	}
	src := x
	if useVY {
		src = y
	}
	return c.storeWithFlag(in.X, src>>1, src&0x01)
}

func (c *CPU) shiftLeft(in Instruction, useVY bool) error {
	x, y, err := c.registers(in)
	if err != nil {
		return err
	}
	src := x
	if useVY {
		src = y
	}
	return c.storeWithFlag(in.X, src<<1, src>>7)
}

func (c *CPU) jumpWithOffset(in Instruction, useVX bool) error {
	reg := uint8(0)
	if useVX {
		reg = in.X
	}
	offset, err := c.mm.Register(reg)
	if err != nil {
		return err
	}
	c.mm.SetPC(in.NNN + uint16(offset))
	return nil
}

func (c *CPU) random(in Instruction) error {
	value := uint8(c.rng.IntN(256))
	return c.mm.SetRegister(in.X, value&in.KK)
}

// draw XORs an N-row sprite from memory at I onto the display at (VX, VY).
// VF is set when any lit pixel was turned off.
func (c *CPU) draw(in Instruction) error {
	x, y, err := c.registers(in)
	if err != nil {
		return err
	}

	collision := uint8(0)
	index := int(c.mm.I())
	for row := 0; row < int(in.N); row++ {
		b, err := c.mm.Read(index + row)
		if err != nil {
			return err
		}
		if c.display.Set(int(x), int(y)+row, b) {
			collision = 1
		}
	}

	return c.mm.SetRegister(flagRegister, collision)
}

func (c *CPU) waitForKey(reg uint8) {
	c.waitReg = reg
	c.state = StatePaused
}

func (c *CPU) addToIndex(in Instruction) error {
	x, err := c.mm.Register(in.X)
	if err != nil {
		return err
	}
	sum := (int(c.mm.I()) + int(x)) % c.mm.Size()
	c.mm.SetI(uint16(sum))
	return nil
}

func (c *CPU) storeBCD(in Instruction) error {
	x, err := c.mm.Register(in.X)
	if err != nil {
		return err
	}

	index := int(c.mm.I())
	digits := [3]uint8{x / 100, (x / 10) % 10, x % 10}
	for i, d := range digits {
		if err := c.mm.Write(index+i, d); err != nil {
			return err
		}
	}
	return nil
}

// storeRegisters copies V0..VX to memory at I.
func (c *CPU) storeRegisters(last uint8, incrementI bool) error {
	index := int(c.mm.I())
	for i := uint8(0); i <= last; i++ {
		v, err := c.mm.Register(i)
		if err != nil {
			return err
		}
		if err := c.mm.Write(index+int(i), v); err != nil {
			return err
		}
	}

	if incrementI {
		c.mm.SetI(c.mm.I() + uint16(last) + 1)
	}
	return nil
}

// loadRegisters copies memory at I into V0..VX.
func (c *CPU) loadRegisters(last uint8, incrementI bool) error {
	index := int(c.mm.I())
	for i := uint8(0); i <= last; i++ {
		v, err := c.mm.Read(index + int(i))
		if err != nil {
			return err
		}
		if err := c.mm.SetRegister(i, v); err != nil {
			return err
		}
	}

	if incrementI {
		c.mm.SetI(c.mm.I() + uint16(last) + 1)
	}
	return nil
}
