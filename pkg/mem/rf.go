package mem

// RegisterFile is the 32-entry general purpose register file. All
// entries start at zero. Deviation from the RISC-V spec (documented in
// DESIGN.md open question 2, carried from spec.md §9): writes to index
// 0 are NOT suppressed. A host that wants x0 hard-wired to zero should
// re-zero index 0 itself after dispatch.
type RegisterFile struct {
	regs [32]uint32
}

// NewRegisterFile returns a register file with all entries zeroed.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// Read returns the content of register idx, honoring byteEnable like
// every other Memory: disabled lanes read as zero.
func (rf *RegisterFile) Read(idx uint32, byteEnable uint8) (uint32, error) {
	return readByteEnable(rf.regs[idx], byteEnable), nil
}

// Write stores the byteEnable-selected lanes of value into register
// idx, leaving the other lanes untouched.
func (rf *RegisterFile) Write(idx uint32, value uint32, byteEnable uint8) error {
	applyByteEnable(&rf.regs[idx], value, byteEnable)
	return nil
}

// Content returns a copy of the register array for test-harness
// assertions.
func (rf *RegisterFile) Content() [32]uint32 {
	return rf.regs
}
