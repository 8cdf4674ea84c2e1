package mem

import (
	"errors"
	"net"
	"time"
)

// Serial device register offsets, attached to the bus as an MMIO
// device so guest code can talk to a host console. Adapted from the
// teacher's pkg/vm/tty.go SerialTTY: a TCP-backed console the host
// polls with a short deadline so it never blocks the cycle loop.
const (
	SerialData   uint32 = 0 // read: last received byte; write: byte to transmit
	SerialStatus uint32 = 4 // bit0: RX has data; bit1: TX register free
)

const (
	serialStatusRX = 1 << 0
	serialStatusTX = 1 << 1
)

// Serial is a bus-attached memory-mapped serial console.
type Serial struct {
	conn   net.Conn
	inReg  uint32
	outReg uint32
	status uint32
}

// AcceptSerial waits for a single controlling TCP connection on an
// ephemeral local port and returns a Serial console bound to it. The
// caller should defer Close.
func AcceptSerial() (*Serial, string, error) {
	nl, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, "", err
	}
	conn, err := nl.Accept()
	if err != nil {
		return nil, "", err
	}
	return &Serial{conn: conn, status: serialStatusTX}, nl.Addr().String(), nil
}

// Close closes the underlying connection.
func (s *Serial) Close() error {
	return s.conn.Close()
}

// Poll performs one non-blocking exchange with the controlling
// connection: it flushes a pending transmit byte and checks for an
// incoming byte, each bounded by a millisecond deadline so the VM
// cycle loop is never stalled by the absence of I/O.
func (s *Serial) Poll() error {
	s.conn.SetDeadline(time.Now().Add(time.Millisecond))
	if s.status&serialStatusTX == 0 {
		var c [1]byte
		c[0] = byte(s.outReg & 0xff)
		if _, err := s.conn.Write(c[:]); err != nil {
			if isTimeout(err) {
				return nil
			}
			return err
		}
		s.status |= serialStatusTX
	}
	if s.status&serialStatusRX == 0 {
		var c [1]byte
		if _, err := s.conn.Read(c[:]); err != nil {
			if isTimeout(err) {
				return nil
			}
			return err
		}
		s.inReg = uint32(c[0])
		s.status |= serialStatusRX
	}
	return nil
}

// isTimeout reports whether err is the deadline expiring, the expected
// outcome when the client side has nothing to send/receive within
// Poll's millisecond budget, as opposed to a real connection failure.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Read implements Memory over the two device registers.
func (s *Serial) Read(addr uint32, byteEnable uint8) (uint32, error) {
	switch addr {
	case SerialData:
		s.status &^= serialStatusRX // byte has been consumed
		return s.inReg, nil
	case SerialStatus:
		return s.status, nil
	default:
		return 0, &IllegalAddrError{Addr: addr, Detail: "serial: no register at this offset"}
	}
}

// Write implements Memory over the data register; writing status is a
// no-op target (it is host-driven) but not an error.
func (s *Serial) Write(addr uint32, data uint32, byteEnable uint8) error {
	switch addr {
	case SerialData:
		s.outReg = data
		s.status &^= serialStatusTX // byte pending transmission
		return nil
	case SerialStatus:
		return nil
	default:
		return &IllegalAddrError{Addr: addr, Detail: "serial: no register at this offset"}
	}
}
