package mem_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/bassosimone/riscv32sim/pkg/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerForwardsReadsAndWrites(t *testing.T) {
	backing := mem.NewDataMem()
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	tr := mem.NewTracer(backing, logger, "data")

	require.NoError(t, tr.Write(0, 0xAABBCCDD, 0xf))
	got, err := tr.Read(0, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAABBCCDD, got)

	out := buf.String()
	assert.Contains(t, out, "data: write")
	assert.Contains(t, out, "data: read")
}

func TestTracerLogsFailures(t *testing.T) {
	backing := mem.NewDataMem()
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	tr := mem.NewTracer(backing, logger, "data")

	_, err := tr.Read(4, 0xf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "error:")
}
