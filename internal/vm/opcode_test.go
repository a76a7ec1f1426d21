package vm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode   uint16
		op       Op
		mnemonic string
	}{
		{0x00E0, OpCls, "cls"},
		{0x00EE, OpRts, "rts"},
		{0x0123, OpSys, "sys 0x0123"},
		{0x1234, OpJmp, "jmp 0x0234"},
		{0x2456, OpJsr, "jsr 0x0456"},
		{0x3A10, OpSkeqImm, "skeq va, 16"},
		{0x4B20, OpSkneImm, "skne vb, 32"},
		{0x5120, OpSkeqReg, "skeq v1, v2"},
		{0x63FF, OpMovImm, "mov v3, 255"},
		{0x7401, OpAddImm, "add v4, 1"},
		{0x8120, OpMovReg, "mov v1, v2"},
		{0x8121, OpOr, "or v1, v2"},
		{0x8122, OpAnd, "and v1, v2"},
		{0x8123, OpXor, "xor v1, v2"},
		{0x8124, OpAddReg, "add v1, v2"},
		{0x8125, OpSub, "sub v1, v2"},
		{0x8126, OpShr, "shr v1, v2"},
		{0x8127, OpRsb, "rsb v1, v2"},
		{0x812E, OpShl, "shl v1, v2"},
		{0x9340, OpSkneReg, "skne v3, v4"},
		{0xA2F0, OpMvi, "mvi 0x02f0"},
		{0xB300, OpJmi, "jmi 0x0300"},
		{0xC50F, OpRand, "rand v5, 0x0f"},
		{0xD125, OpSprite, "sprite v1, v2, 5"},
		{0xE69E, OpSkpr, "skpr v6"},
		{0xE7A1, OpSkup, "skup v7"},
		{0xF807, OpGdelay, "gdelay v8"},
		{0xF90A, OpKey, "key v9"},
		{0xFA15, OpSdelay, "sdelay va"},
		{0xFB18, OpSsound, "ssound vb"},
		{0xFC1E, OpAdi, "adi vc"},
		{0xFD29, OpFont, "font vd"},
		{0xFE33, OpBcd, "bcd ve"},
		{0xF555, OpStr, "str v0-v5"},
		{0xF365, OpLdr, "ldr v0-v3"},
	}

	for _, tt := range tests {
		t.Run(tt.mnemonic, func(t *testing.T) {
			instr, err := Decode(tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.op, instr.Op)
			assert.Equal(t, tt.opcode, instr.Opcode)
			assert.Equal(t, tt.mnemonic, instr.String())
		})
	}
}

func TestDecode_Operands(t *testing.T) {
	instr, err := Decode(0xD7A3)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x7), instr.X)
	assert.Equal(t, uint8(0xA), instr.Y)
	assert.Equal(t, uint8(0x3), instr.N)
	assert.Equal(t, uint8(0xA3), instr.KK)
	assert.Equal(t, uint16(0x7A3), instr.NNN)
}

func TestDecode_Unknown(t *testing.T) {
	opcodes := []uint16{0x5121, 0x8128, 0x812F, 0x9341, 0xE100, 0xF0FF, 0xF001}

	for _, opcode := range opcodes {
		instr, err := Decode(opcode)
		assert.Error(t, err, fmt.Sprintf("unknown op code 0x%04X", opcode))
		assert.True(t, errors.Is(err, ErrUnknownOpcode))
		assert.Equal(t, OpUnknown, instr.Op)

		var unknownErr *UnknownOpcodeError
		assert.True(t, errors.As(err, &unknownErr))
		assert.Equal(t, opcode, unknownErr.Opcode)
	}
}

func TestDecode_EveryWordIsHandled(t *testing.T) {
	known := 0
	for w := 0; w <= 0xFFFF; w++ {
		instr, err := Decode(uint16(w))
		if err == nil {
			assert.True(t, instr.Op != OpUnknown)
			known++
		}
	}
	// 0x1000-0x4FFF, 0x6000-0x7FFF, 0xA000-0xDFFF all decode; the rest is sparse.
	assert.True(t, known > 0xA000)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "sprite", OpSprite.String())
	assert.Equal(t, "op(200)", Op(200).String())
}
