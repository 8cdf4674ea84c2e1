package mem_test

import (
	"testing"

	"github.com/bassosimone/riscv32sim/pkg/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFileWriteReadRoundTrip(t *testing.T) {
	rf := mem.NewRegisterFile()
	for i := uint32(0); i < 32; i++ {
		require.NoError(t, rf.Write(i, i*3+1, 0xf))
	}
	for i := uint32(0); i < 32; i++ {
		got, err := rf.Read(i, 0xf)
		require.NoError(t, err)
		assert.EqualValues(t, i*3+1, got)
	}
}

func TestRegisterFileX0NotHardwired(t *testing.T) {
	rf := mem.NewRegisterFile()
	require.NoError(t, rf.Write(0, 0x1234, 0xf))
	got, err := rf.Read(0, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x1234, got)
}

func TestRegisterFileWriteHonorsByteEnable(t *testing.T) {
	rf := mem.NewRegisterFile()
	require.NoError(t, rf.Write(1, 0xAABBCCDD, 0xf))
	require.NoError(t, rf.Write(1, 0x11111111, 0b0001))
	got, err := rf.Read(1, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAABBCC11, got)
}

func TestRegisterFileReadHonorsByteEnable(t *testing.T) {
	rf := mem.NewRegisterFile()
	require.NoError(t, rf.Write(1, 0xAABBCCDD, 0xf))
	got, err := rf.Read(1, 0b0010)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0000CC00, got)
}

func TestRegisterFileInitiallyZero(t *testing.T) {
	rf := mem.NewRegisterFile()
	content := rf.Content()
	for i, v := range content {
		assert.EqualValuesf(t, 0, v, "register %d", i)
	}
}
