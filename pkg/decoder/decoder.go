// Package decoder implements the two-stage RV32I+Zicsr decoder:
// resolving a raw 32-bit word to a concrete mnemonic (stage 1), then
// extracting its structured operand fields by instruction format
// (stage 2). Grounded on original_source/src/decoder.cpp, whose
// opcode/funct3/funct7 legality table and mret/Zicsr gating this
// package reproduces exactly, and on
// bassosimone-risc32/pkg/vm.Decode's free-function decomposition
// style for the Go surface.
package decoder

import (
	"fmt"

	"github.com/bassosimone/riscv32sim/pkg/bits"
	"github.com/bassosimone/riscv32sim/pkg/isa"
	"github.com/bassosimone/riscv32sim/pkg/mem"
)

// Concrete identifies one of the 45 recognised RV32I/Zicsr mnemonics.
type Concrete int

const (
	LUI Concrete = iota
	AUIPC
	JAL
	JALR
	BEQ
	BNE
	BLT
	BGE
	BLTU
	BGEU
	LB
	LH
	LW
	LBU
	LHU
	SB
	SH
	SW
	ADDI
	SLTI
	SLTIU
	XORI
	ORI
	ANDI
	SLLI
	SRLI
	SRAI
	ADD
	SUB
	SLL
	SLT
	SLTU
	XOR
	SRL
	SRA
	OR
	AND
	FENCE
	MRET
	CSRRW
	CSRRS
	CSRRC
	CSRRWI
	CSRRSI
	CSRRCI
)

var mnemonics = map[Concrete]string{
	LUI: "lui", AUIPC: "auipc", JAL: "jal", JALR: "jalr",
	BEQ: "beq", BNE: "bne", BLT: "blt", BGE: "bge", BLTU: "bltu", BGEU: "bgeu",
	LB: "lb", LH: "lh", LW: "lw", LBU: "lbu", LHU: "lhu",
	SB: "sb", SH: "sh", SW: "sw",
	ADDI: "addi", SLTI: "slti", SLTIU: "sltiu", XORI: "xori", ORI: "ori", ANDI: "andi",
	SLLI: "slli", SRLI: "srli", SRAI: "srai",
	ADD: "add", SUB: "sub", SLL: "sll", SLT: "slt", SLTU: "sltu",
	XOR: "xor", SRL: "srl", SRA: "sra", OR: "or", AND: "and",
	FENCE: "fence", MRET: "mret",
	CSRRW: "csrrw", CSRRS: "csrrs", CSRRC: "csrrc",
	CSRRWI: "csrrwi", CSRRSI: "csrrsi", CSRRCI: "csrrci",
}

// String returns the mnemonic for c.
func (c Concrete) String() string {
	if s, ok := mnemonics[c]; ok {
		return s
	}
	return fmt.Sprintf("Concrete(%d)", int(c))
}

// Type is the instruction format class, a pure function of Concrete
// that governs which InstructionInfo fields are meaningful.
type Type int

const (
	TypeR Type = iota
	TypeI
	TypeS
	TypeU
	TypeJ
	TypeB
	TypeIsh5
	TypeNone
)

var instructionTypes = map[Concrete]Type{
	LUI: TypeU, AUIPC: TypeU,
	JAL: TypeJ,
	JALR: TypeI,
	BEQ: TypeB, BNE: TypeB, BLT: TypeB, BGE: TypeB, BLTU: TypeB, BGEU: TypeB,
	LB: TypeI, LH: TypeI, LW: TypeI, LBU: TypeI, LHU: TypeI,
	SB: TypeS, SH: TypeS, SW: TypeS,
	ADDI: TypeI, SLTI: TypeI, SLTIU: TypeI, XORI: TypeI, ORI: TypeI, ANDI: TypeI,
	SLLI: TypeIsh5, SRLI: TypeIsh5, SRAI: TypeIsh5,
	ADD: TypeR, SUB: TypeR, SLL: TypeR, SLT: TypeR, SLTU: TypeR,
	XOR: TypeR, SRL: TypeR, SRA: TypeR, OR: TypeR, AND: TypeR,
	FENCE: TypeNone, MRET: TypeNone,
	CSRRW: TypeI, CSRRS: TypeI, CSRRC: TypeI,
	CSRRWI: TypeI, CSRRSI: TypeI, CSRRCI: TypeI,
}

// InstructionTypeOf returns the format class of a concrete instruction.
func InstructionTypeOf(c Concrete) Type {
	return instructionTypes[c]
}

// Info is the structured decode of one instruction. Unused fields are
// zero, per spec.md §3.
type Info struct {
	RS1, RS2, RD uint32
	Imm          uint32
	Kind         Concrete
}

// opcode values, bits [6:2].
const (
	opcodeLoad    = 0b00000
	opcodeOpImm   = 0b00100
	opcodeAUIPC   = 0b00101
	opcodeStore   = 0b01000
	opcodeOp      = 0b01100
	opcodeLUI     = 0b01101
	opcodeBranch  = 0b11000
	opcodeJALR    = 0b11001
	opcodeJAL     = 0b11011
	opcodeMiscMem = 0b00011
	opcodeSystem  = 0b11100
)

func getOpcode(w uint32) uint32  { return bits.Extract(w, bits.Range{MSB: 6, LSB: 2}, false) }
func getFunct3(w uint32) uint32  { return bits.Extract(w, bits.Range{MSB: 14, LSB: 12}, false) }
func getFunct7(w uint32) uint32  { return bits.Extract(w, bits.Range{MSB: 31, LSB: 25}, false) }

// DecodeConcrete resolves instruction to a concrete mnemonic, or fails
// with an IllegalInstructionError. ext gates the CSR instructions: they
// require isa.Zicsr.
func DecodeConcrete(instruction uint32, ext isa.Set) (Concrete, error) {
	if instruction&0b11 != 0b11 {
		return 0, &mem.IllegalInstructionError{RawWord: instruction, Detail: "(instruction & 0b11) != 0b11"}
	}

	opcode := getOpcode(instruction)
	funct3 := getFunct3(instruction)
	funct7 := getFunct7(instruction)

	switch opcode {
	case opcodeLoad:
		switch funct3 {
		case 0:
			return LB, nil
		case 1:
			return LH, nil
		case 2:
			return LW, nil
		case 4:
			return LBU, nil
		case 5:
			return LHU, nil
		}
	case opcodeOpImm:
		switch funct3 {
		case 0:
			return ADDI, nil
		case 1:
			if funct7 == 0 {
				return SLLI, nil
			}
		case 2:
			return SLTI, nil
		case 3:
			return SLTIU, nil
		case 4:
			return XORI, nil
		case 5:
			switch funct7 {
			case 0:
				return SRLI, nil
			case 0b0100000:
				return SRAI, nil
			}
		case 6:
			return ORI, nil
		case 7:
			return ANDI, nil
		}
	case opcodeAUIPC:
		return AUIPC, nil
	case opcodeStore:
		switch funct3 {
		case 0:
			return SB, nil
		case 1:
			return SH, nil
		case 2:
			return SW, nil
		}
	case opcodeOp:
		switch funct3 {
		case 0:
			switch funct7 {
			case 0:
				return ADD, nil
			case 0b0100000:
				return SUB, nil
			}
		case 1:
			if funct7 == 0 {
				return SLL, nil
			}
		case 2:
			if funct7 == 0 {
				return SLT, nil
			}
		case 3:
			if funct7 == 0 {
				return SLTU, nil
			}
		case 4:
			if funct7 == 0 {
				return XOR, nil
			}
		case 5:
			switch funct7 {
			case 0:
				return SRL, nil
			case 0b0100000:
				return SRA, nil
			}
		case 6:
			if funct7 == 0 {
				return OR, nil
			}
		case 7:
			if funct7 == 0 {
				return AND, nil
			}
		}
	case opcodeLUI:
		return LUI, nil
	case opcodeBranch:
		switch funct3 {
		case 0:
			return BEQ, nil
		case 1:
			return BNE, nil
		case 4:
			return BLT, nil
		case 5:
			return BGE, nil
		case 6:
			return BLTU, nil
		case 7:
			return BGEU, nil
		}
	case opcodeJALR:
		if funct3 == 0 {
			return JALR, nil
		}
	case opcodeJAL:
		return JAL, nil
	case opcodeMiscMem:
		if funct3 == 0 {
			return FENCE, nil
		}
	case opcodeSystem:
		switch funct3 {
		case 0:
			if bits.Extract(instruction, bits.Range{MSB: 31, LSB: 7}, false) == 0b0011000000100000000000000 {
				return MRET, nil
			}
		default:
			if !ext.Has(isa.Zicsr) {
				return 0, &mem.IllegalInstructionError{
					RawWord: instruction,
					Detail:  "From extension " + isa.Zicsr.String(),
				}
			}
			switch funct3 {
			case 1:
				return CSRRW, nil
			case 2:
				return CSRRS, nil
			case 3:
				return CSRRC, nil
			case 5:
				return CSRRWI, nil
			case 6:
				return CSRRSI, nil
			case 7:
				return CSRRCI, nil
			}
		}
	}

	return 0, &mem.IllegalInstructionError{RawWord: instruction}
}

// Decode performs the full two-stage decode, filling Info per the
// field table of spec.md §4.3.
func Decode(instruction uint32, ext isa.Set) (Info, error) {
	concrete, err := DecodeConcrete(instruction, ext)
	if err != nil {
		return Info{}, err
	}
	info := Info{Kind: concrete}
	fillFields(&info, instruction)
	return info, nil
}

func fillFields(info *Info, instr uint32) {
	rd := bits.Extract(instr, bits.Range{MSB: 11, LSB: 7}, false)
	rs1 := bits.Extract(instr, bits.Range{MSB: 19, LSB: 15}, false)
	rs2 := bits.Extract(instr, bits.Range{MSB: 24, LSB: 20}, false)

	switch InstructionTypeOf(info.Kind) {
	case TypeR:
		info.RD, info.RS1, info.RS2 = rd, rs1, rs2
	case TypeI:
		info.RD, info.RS1 = rd, rs1
		info.Imm = bits.Extract(instr, bits.Range{MSB: 31, LSB: 20}, isNonCSRImm(info.Kind))
	case TypeIsh5:
		info.RD, info.RS1 = rd, rs1
		info.Imm = bits.Extract(instr, bits.Range{MSB: 24, LSB: 20}, false)
	case TypeS:
		info.RS1, info.RS2 = rs1, rs2
		info.Imm = bits.ExtractRanges(instr, []bits.Range{{MSB: 31, LSB: 25}, {MSB: 11, LSB: 7}}, true)
	case TypeB:
		info.RS1, info.RS2 = rs1, rs2
		info.Imm = decodeBImm(instr)
	case TypeU:
		info.RD = rd
		info.Imm = bits.Extract(instr, bits.Range{MSB: 31, LSB: 12}, false)
	case TypeJ:
		info.RD = rd
		info.Imm = decodeJImm(instr)
	case TypeNone:
		// no operand fields
	}
}

// isNonCSRImm reports whether the I-type immediate field should be
// sign-extended (ordinary I-type arithmetic/load) rather than
// zero-extended as a CSR address or 5-bit uimm.
func isNonCSRImm(c Concrete) bool {
	switch c {
	case CSRRW, CSRRS, CSRRC, CSRRWI, CSRRSI, CSRRCI:
		return false
	default:
		return true
	}
}

// decodeBImm extracts the B-type immediate: {bit31, bit7, [30:25],
// [11:8], 0}, sign-extended. The trailing zero bit is not present in
// the instruction word, so it is appended after concatenation.
func decodeBImm(instr uint32) uint32 {
	hi := bits.ExtractRanges(instr, []bits.Range{
		bits.Bit(31), bits.Bit(7), {MSB: 30, LSB: 25}, {MSB: 11, LSB: 8},
	}, false)
	word := hi << 1
	return bits.SignExtend(word, 12)
}

// decodeJImm extracts the J-type immediate: {bit31, [19:12], bit20,
// [30:21], 0}, sign-extended.
func decodeJImm(instr uint32) uint32 {
	hi := bits.ExtractRanges(instr, []bits.Range{
		bits.Bit(31), {MSB: 19, LSB: 12}, bits.Bit(20), {MSB: 30, LSB: 21},
	}, false)
	word := hi << 1
	return bits.SignExtend(word, 20)
}
