// Package loader reads a program image off disk or stdin and produces
// the word slice that backs pkg/mem.InstrMem. Grounded on
// bassosimone-risc32/pkg/vm.LoadBytecode's scanner-based hex-word
// reader, generalized with a second raw-byte format for images
// produced by a real RV32I toolchain (SPEC_FULL.md §4.9).
package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadHexWords reads one 0x-prefixed 32-bit word per line. A '#'
// starts a trailing comment; blank lines are skipped.
func LoadHexWords(r io.Reader) ([]uint32, error) {
	var words []uint32
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, err := strconv.ParseUint(line, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("loader: line %d: %w", lineNo, err)
		}
		words = append(words, uint32(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return words, nil
}

// LoadRawBytes reads a flat little-endian byte stream, four bytes per
// word. The final partial word, if any, fails the load rather than
// silently zero-padding.
func LoadRawBytes(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("loader: raw image length %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return words, nil
}
