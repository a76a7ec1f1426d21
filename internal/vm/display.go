package vm

const spriteWidth = 8

// Display is the 64x32 monochrome framebuffer. Each row is one 64-bit word;
// column 0 is the most significant bit.
type Display struct {
	rows  [ScreenHeight]uint64
	dirty bool
}

func NewDisplay() *Display {
	return &Display{dirty: true}
}

// Set XORs one sprite byte into the buffer with its leftmost pixel at (x, y).
// Coordinates wrap around the screen; a byte that would cross the right edge
// is clipped rather than wrapped to the start of the row.
// It reports whether any previously lit pixel was toggled off.
func (d *Display) Set(x, y int, value uint8) bool {
	adjustedX := mod(x, ScreenWidth)
	adjustedY := mod(y, ScreenHeight)

	var shifted uint64
	if remaining := ScreenWidth - adjustedX; remaining < spriteWidth {
		shifted = uint64(value >> (spriteWidth - remaining))
	} else {
		shifted = uint64(value) << (ScreenWidth - spriteWidth - adjustedX)
	}

	prev := d.rows[adjustedY]
	d.rows[adjustedY] = prev ^ shifted
	d.dirty = true

	return prev&shifted != 0
}

func (d *Display) Get(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	mask := uint64(1) << (ScreenWidth - 1 - x)
	return d.rows[y]&mask != 0
}

func (d *Display) Row(y int) uint64 {
	return d.rows[mod(y, ScreenHeight)]
}

func (d *Display) Clear() {
	for i := range d.rows {
		d.rows[i] = 0
	}
	d.dirty = true
}

// Dirty reports whether the buffer changed since the last ClearDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

func (d *Display) ClearDirty() {
	d.dirty = false
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
