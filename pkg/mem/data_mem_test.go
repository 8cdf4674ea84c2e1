package mem_test

import (
	"errors"
	"testing"

	"github.com/bassosimone/riscv32sim/pkg/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataMemWriteReadRoundTrip(t *testing.T) {
	dm := mem.NewDataMem()
	require.NoError(t, dm.Write(4, 0xAABBCCDD, 0xf))
	got, err := dm.Read(4, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAABBCCDD, got)
}

func TestDataMemByteEnableSelectsLanes(t *testing.T) {
	dm := mem.NewDataMem()
	require.NoError(t, dm.Write(0, 0xAABBCCDD, 0xf))
	// Overwrite only the low lane.
	require.NoError(t, dm.Write(0, 0x000000FF, 0b0001))
	got, err := dm.Read(0, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAABBCCFF, got)
}

func TestDataMemReadUnselectedLanesAreZero(t *testing.T) {
	dm := mem.NewDataMem()
	require.NoError(t, dm.Write(0, 0xAABBCCDD, 0xf))
	got, err := dm.Read(0, 0b0001)
	require.NoError(t, err)
	assert.EqualValues(t, 0x000000DD, got)
}

func TestDataMemReadNeverWrittenFails(t *testing.T) {
	dm := mem.NewDataMem()
	_, err := dm.Read(100, 0xf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrIllegalAddr))
}

func TestDataMemBytesExposesSparseMap(t *testing.T) {
	dm := mem.NewDataMem()
	require.NoError(t, dm.Write(8, 0xFFFFFFFF, 0xf))
	assert.Len(t, dm.Bytes(), 4)
}
