package mem

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPipedSerial wires a Serial to one end of an in-process net.Pipe,
// giving Read/Write/Poll a real net.Conn to exercise without the
// listen/accept handshake AcceptSerial performs over TCP.
func newPipedSerial() (srv *Serial, peer net.Conn) {
	a, b := net.Pipe()
	return &Serial{conn: a, status: serialStatusTX}, b
}

func TestSerialRegisterOffsets(t *testing.T) {
	assert.EqualValues(t, 0, SerialData)
	assert.EqualValues(t, 4, SerialStatus)
}

func TestSerialInitialStatusHasTXFree(t *testing.T) {
	s, peer := newPipedSerial()
	defer peer.Close()
	got, err := s.Read(SerialStatus, 0xf)
	require.NoError(t, err)
	assert.NotZero(t, got&serialStatusTX)
	assert.Zero(t, got&serialStatusRX)
}

func TestSerialWriteDataClearsTXFreeUntilPolled(t *testing.T) {
	s, peer := newPipedSerial()
	defer peer.Close()

	require.NoError(t, s.Write(SerialData, 0x41, 0xf))
	status, err := s.Read(SerialStatus, 0xf)
	require.NoError(t, err)
	assert.Zero(t, status&serialStatusTX, "tx-free bit clears once a byte is pending")

	done := make(chan struct{})
	var got [1]byte
	go func() {
		peer.Read(got[:])
		close(done)
	}()
	// Give the reader goroutine time to reach its blocking Read so
	// Poll's 1ms write deadline rendezvous immediately.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Poll())
	<-done
	assert.EqualValues(t, 0x41, got[0])

	status, err = s.Read(SerialStatus, 0xf)
	require.NoError(t, err)
	assert.NotZero(t, status&serialStatusTX, "tx-free bit sets again once flushed")
}

func TestSerialPollReceivesByteAndSetsRXFlag(t *testing.T) {
	s, peer := newPipedSerial()
	defer peer.Close()

	go peer.Write([]byte{0x99})
	// net.Pipe's Write blocks until a reader rendezvous; give the
	// goroutine time to reach that blocking call so Poll's 1ms read
	// deadline rendezvous immediately instead of racing it.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Poll())

	status, err := s.Read(SerialStatus, 0xf)
	require.NoError(t, err)
	assert.NotZero(t, status&serialStatusRX)

	data, err := s.Read(SerialData, 0xf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x99, data)

	// Reading SerialData consumes the byte.
	status, err = s.Read(SerialStatus, 0xf)
	require.NoError(t, err)
	assert.Zero(t, status&serialStatusRX)
}

func TestSerialUnknownRegisterFails(t *testing.T) {
	s, peer := newPipedSerial()
	defer peer.Close()

	_, err := s.Read(0x100, 0xf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalAddr)

	err = s.Write(0x100, 0, 0xf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalAddr)
}
