package mem_test

import (
	"errors"
	"testing"

	"github.com/bassosimone/riscv32sim/pkg/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrMemReadWithinBounds(t *testing.T) {
	im := mem.NewInstrMem([]uint32{0x11111111, 0x22222222, 0x33333333})
	got, err := im.Read(4, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x22222222, got)
}

func TestInstrMemReadOutOfBounds(t *testing.T) {
	im := mem.NewInstrMem([]uint32{0x11111111})
	_, err := im.Read(4, 0xf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrIllegalAddr))
}

func TestInstrMemReadMisaligned(t *testing.T) {
	im := mem.NewInstrMem([]uint32{0x11111111, 0x22222222})
	_, err := im.Read(2, 0xf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrIllegalAddr))
}

func TestInstrMemWriteAlwaysFails(t *testing.T) {
	im := mem.NewInstrMem([]uint32{0x0})
	err := im.Write(0, 0xdeadbeef, 0xf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrReadOnly))
}

func TestInstrMemLen(t *testing.T) {
	im := mem.NewInstrMem([]uint32{1, 2, 3, 4})
	assert.Equal(t, 4, im.Len())
}
