package decoder_test

import (
	"errors"
	"testing"

	"github.com/bassosimone/riscv32sim/pkg/decoder"
	"github.com/bassosimone/riscv32sim/pkg/isa"
	"github.com/bassosimone/riscv32sim/pkg/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAddi(t *testing.T) {
	// addi x1, x0, 1
	info, err := decoder.Decode(0x00100093, isa.NewSet())
	require.NoError(t, err)
	assert.Equal(t, decoder.ADDI, info.Kind)
	assert.EqualValues(t, 1, info.RD)
	assert.EqualValues(t, 0, info.RS1)
	assert.EqualValues(t, 1, info.Imm)
}

func TestDecodeAddiNegativeImmediate(t *testing.T) {
	// addi x3, x0, -1
	info, err := decoder.Decode(0xfff00193, isa.NewSet())
	require.NoError(t, err)
	assert.Equal(t, decoder.ADDI, info.Kind)
	assert.EqualValues(t, 0xFFFFFFFF, info.Imm)
}

func TestDecodeStoreWord(t *testing.T) {
	// sw x3, 0(x4)
	info, err := decoder.Decode(0x00322023, isa.NewSet())
	require.NoError(t, err)
	assert.Equal(t, decoder.SW, info.Kind)
	assert.EqualValues(t, 4, info.RS1)
	assert.EqualValues(t, 3, info.RS2)
	assert.EqualValues(t, 0, info.Imm)
}

func TestDecodeLUI(t *testing.T) {
	// lui x27, 50
	info, err := decoder.Decode(0x00032db7, isa.NewSet())
	require.NoError(t, err)
	assert.Equal(t, decoder.LUI, info.Kind)
	assert.EqualValues(t, 27, info.RD)
	assert.EqualValues(t, 50, info.Imm)
}

func TestDecodeCSRRWZicsrEnabled(t *testing.T) {
	// csrrw x0, mtvec, x5
	info, err := decoder.Decode(0x30529073, isa.NewSet(isa.Zicsr))
	require.NoError(t, err)
	assert.Equal(t, decoder.CSRRW, info.Kind)
	assert.EqualValues(t, 5, info.RS1)
	assert.EqualValues(t, 0, info.RD)
	assert.EqualValues(t, mem.MTVEC, info.Imm)
}

func TestDecodeCSRRWZicsrDisabled(t *testing.T) {
	_, err := decoder.Decode(0x30529073, isa.NewSet())
	require.Error(t, err)
	var illegal *mem.IllegalInstructionError
	require.True(t, errors.As(err, &illegal))
	assert.Contains(t, illegal.Detail, "From extension Zicsr")
	assert.True(t, errors.Is(err, mem.ErrIllegalInstruction))
}

func TestDecodeRejectsCompressedEncoding(t *testing.T) {
	_, err := decoder.Decode(0x00000001, isa.NewSet())
	require.Error(t, err)
}

func TestDecodeRejectsSlliWithNonzeroFunct7(t *testing.T) {
	// opcode op-imm (0b00100), funct3=1 (slli) but funct7 nonzero: illegal.
	word := uint32(0b0100000_00001_00000_001_00001_0010011)
	_, err := decoder.Decode(word, isa.NewSet())
	require.Error(t, err)
	require.True(t, errors.Is(err, mem.ErrIllegalInstruction))
}

func TestDecodeDoesNotMutateOnFailure(t *testing.T) {
	before, err := decoder.Decode(0x00100093, isa.NewSet())
	require.NoError(t, err)
	_, err = decoder.Decode(0x0, isa.NewSet())
	require.Error(t, err)
	after, err := decoder.Decode(0x00100093, isa.NewSet())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInstructionTypeIsPureFunctionOfKind(t *testing.T) {
	assert.Equal(t, decoder.TypeI, decoder.InstructionTypeOf(decoder.ADDI))
	assert.Equal(t, decoder.TypeR, decoder.InstructionTypeOf(decoder.ADD))
	assert.Equal(t, decoder.TypeB, decoder.InstructionTypeOf(decoder.BEQ))
	assert.Equal(t, decoder.TypeU, decoder.InstructionTypeOf(decoder.LUI))
	assert.Equal(t, decoder.TypeJ, decoder.InstructionTypeOf(decoder.JAL))
	assert.Equal(t, decoder.TypeNone, decoder.InstructionTypeOf(decoder.FENCE))
}

// encodeRType builds a raw R-type word for round-trip testing.
func encodeRType(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func TestDecodeRoundTripAdd(t *testing.T) {
	word := encodeRType(0b0110011, 0, 0, 5, 6, 7)
	info, err := decoder.Decode(word, isa.NewSet())
	require.NoError(t, err)
	assert.Equal(t, decoder.ADD, info.Kind)
	assert.EqualValues(t, 5, info.RD)
	assert.EqualValues(t, 6, info.RS1)
	assert.EqualValues(t, 7, info.RS2)
}
