package mem

// DataMem is a sparse byte-addressed memory. Writes create entries;
// reading a byte that has never been written fails, matching
// original_source's Data_mem_wrap semantics (std::vector::at throwing
// out_of_range translated here into IllegalAddrError).
type DataMem struct {
	bytes map[uint32]byte
}

// NewDataMem returns an empty data memory.
func NewDataMem() *DataMem {
	return &DataMem{bytes: make(map[uint32]byte)}
}

// Write stores the byteEnable-selected lanes of data at addr.
func (m *DataMem) Write(addr uint32, data uint32, byteEnable uint8) error {
	for lane := uint32(0); lane < 4; lane++ {
		if byteEnable&(1<<lane) != 0 {
			m.bytes[addr+lane] = byte(data >> (lane * 8))
		}
	}
	return nil
}

// Read assembles the byteEnable-selected lanes at addr into a word;
// unselected lanes read as zero. A selected lane that was never
// written fails with IllegalAddrError.
func (m *DataMem) Read(addr uint32, byteEnable uint8) (uint32, error) {
	var word uint32
	for lane := uint32(0); lane < 4; lane++ {
		if byteEnable&(1<<lane) == 0 {
			continue
		}
		b, ok := m.bytes[addr+lane]
		if !ok {
			return 0, &IllegalAddrError{Addr: addr + lane, Detail: "read address was never written"}
		}
		word |= uint32(b) << (lane * 8)
	}
	return word, nil
}

// Bytes exposes the underlying sparse map for test-harness assertions
// (spec.md §8's "post-state of data_mem" observability requirement).
func (m *DataMem) Bytes() map[uint32]byte {
	return m.bytes
}
