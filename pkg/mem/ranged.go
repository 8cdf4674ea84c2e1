package mem

// Ranged restricts an underlying memory to [Start, Start+Size),
// rebasing offsets so the wrapped memory sees addr-Start. Grounded on
// original_source/inc/memory.hpp's Ranged_mem_span.
type Ranged struct {
	underlying Memory
	start      uint32
	size       uint32
}

// NewRanged wraps underlying, exposing only [start, start+size).
func NewRanged(underlying Memory, start, size uint32) *Ranged {
	return &Ranged{underlying: underlying, start: start, size: size}
}

func (r *Ranged) assertInRange(addr uint32) error {
	if addr < r.start || addr >= r.start+r.size {
		return &IllegalAddrError{Addr: addr, Detail: "address is out of range for this view"}
	}
	return nil
}

// Read implements Memory.
func (r *Ranged) Read(addr uint32, byteEnable uint8) (uint32, error) {
	if err := r.assertInRange(addr); err != nil {
		return 0, err
	}
	return r.underlying.Read(addr-r.start, byteEnable)
}

// Write implements Memory.
func (r *Ranged) Write(addr uint32, data uint32, byteEnable uint8) error {
	if err := r.assertInRange(addr); err != nil {
		return err
	}
	return r.underlying.Write(addr-r.start, data, byteEnable)
}
