package vm

import (
	"math/bits"
	"sync/atomic"
)

type Key uint8

const (
	Key0 = Key(iota)
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

const (
	pressedMask = 0x0000FFFF
	edgeShift   = 16
)

// Input tracks the 16-key pad. The live word may be written from another
// goroutine: the low half holds the keys currently down, the high half
// latches key-down edges until the next Lock. Opcodes only ever see the
// mask captured by the last Lock.
type Input struct {
	live   atomic.Uint32
	locked uint16
}

func NewInput() *Input {
	return &Input{}
}

// Press marks key as down and latches a key-down edge unless the key was
// already held.
func (in *Input) Press(key Key) {
	bit := uint32(1) << (key & 0x0F)
	for {
		old := in.live.Load()
		if old&bit != 0 {
			return
		}
		if in.live.CompareAndSwap(old, old|bit|bit<<edgeShift) {
			return
		}
	}
}

// Release clears key from the held keys. A latched edge stays pending.
func (in *Input) Release(key Key) {
	in.live.And(^(uint32(1) << (key & 0x0F)))
}

// Lock snapshots the held keys, consumes the latched edges and returns them.
// A key pressed and released between two locks is part of the snapshot.
func (in *Input) Lock() uint16 {
	for {
		old := in.live.Load()
		if in.live.CompareAndSwap(old, old&pressedMask) {
			edges := uint16(old >> edgeShift)
			in.locked = uint16(old) | edges
			return edges
		}
	}
}

func (in *Input) IsPressed(key Key) bool {
	return in.locked&(1<<(key&0x0F)) != 0
}

// Locked returns the current snapshot.
func (in *Input) Locked() uint16 {
	return in.locked
}

func (in *Input) Reset() {
	in.live.Store(0)
	in.locked = 0
}

// firstKey returns the lowest key set in mask.
func firstKey(mask uint16) (Key, bool) {
	if mask == 0 {
		return 0, false
	}
	return Key(bits.TrailingZeros16(mask)), true
}
