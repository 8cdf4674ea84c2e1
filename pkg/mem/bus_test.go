package mem_test

import (
	"errors"
	"testing"

	"github.com/bassosimone/riscv32sim/pkg/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusRoutesToLargestBaseNotExceedingAddr(t *testing.T) {
	b := mem.NewBus()
	low := mem.NewDataMem()
	high := mem.NewDataMem()
	require.NoError(t, b.Attach(0x0000, low))
	require.NoError(t, b.Attach(0x1000, high))

	require.NoError(t, b.Write(0x0004, 0x11111111, 0xf))
	require.NoError(t, b.Write(0x1004, 0x22222222, 0xf))

	gotLow, err := low.Read(0x0004, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x11111111, gotLow)

	gotHigh, err := high.Read(0x0004, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x22222222, gotHigh)
}

func TestBusDuplicateBaseFails(t *testing.T) {
	b := mem.NewBus()
	require.NoError(t, b.Attach(0, mem.NewDataMem()))
	err := b.Attach(0, mem.NewDataMem())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrIllegalAddr))
}

func TestBusNoChildCoversAddress(t *testing.T) {
	b := mem.NewBus()
	require.NoError(t, b.Attach(0x1000, mem.NewDataMem()))
	_, err := b.Read(0x0004, 0xf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrIllegalAddr))
}

func TestBusEmptyFails(t *testing.T) {
	b := mem.NewBus()
	_, err := b.Read(0, 0xf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrIllegalAddr))
}
