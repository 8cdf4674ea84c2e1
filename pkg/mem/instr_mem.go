package mem

// InstrMem is an immutable, word-indexed instruction memory. Reads of
// an out-of-range word fail; every write fails, since code images are
// loaded once at setup and never mutated by the core.
type InstrMem struct {
	words []uint32
}

// NewInstrMem wraps a program image (one entry per 32-bit-aligned
// word, index = byte address / 4) as instruction memory.
func NewInstrMem(words []uint32) *InstrMem {
	return &InstrMem{words: words}
}

// Read implements Memory. byteEnable is accepted for interface
// conformance but ignored: instruction fetch is always a full word.
func (m *InstrMem) Read(addr uint32, byteEnable uint8) (uint32, error) {
	idx := addr / 4
	if addr%4 != 0 || int(idx) >= len(m.words) {
		return 0, &IllegalAddrError{Addr: addr, Detail: "requested address exceeds instruction memory length"}
	}
	return m.words[idx], nil
}

// Write implements Memory. Always fails: instruction memory is
// read-only to the core.
func (m *InstrMem) Write(addr uint32, data uint32, byteEnable uint8) error {
	return &ReadOnlyError{Detail: "write into instruction memory"}
}

// Len returns the number of words backing this memory.
func (m *InstrMem) Len() int {
	return len(m.words)
}
