package core

import (
	"github.com/bassosimone/riscv32sim/pkg/alu"
	"github.com/bassosimone/riscv32sim/pkg/decoder"
	"github.com/bassosimone/riscv32sim/pkg/lsu"
)

// handlerType is the coarse dispatch key the cycle loop switches on,
// per spec.md §4.7.
type handlerType int

const (
	handlerCalcReg handlerType = iota
	handlerCalcImm
	handlerLoad
	handlerStore
	handlerBranch
	handlerCSRImm
	handlerCSRReg
	handlerJAL
	handlerJALR
	handlerLUI
	handlerAUIPC
	handlerMRET
	handlerFence
)

var handlerOf = map[decoder.Concrete]handlerType{
	decoder.ADDI: handlerCalcImm, decoder.SLTI: handlerCalcImm, decoder.SLTIU: handlerCalcImm,
	decoder.XORI: handlerCalcImm, decoder.ORI: handlerCalcImm, decoder.ANDI: handlerCalcImm,
	decoder.SLLI: handlerCalcImm, decoder.SRLI: handlerCalcImm, decoder.SRAI: handlerCalcImm,

	decoder.ADD: handlerCalcReg, decoder.SUB: handlerCalcReg, decoder.SLL: handlerCalcReg,
	decoder.SLT: handlerCalcReg, decoder.SLTU: handlerCalcReg, decoder.XOR: handlerCalcReg,
	decoder.SRL: handlerCalcReg, decoder.SRA: handlerCalcReg, decoder.OR: handlerCalcReg,
	decoder.AND: handlerCalcReg,

	decoder.LB: handlerLoad, decoder.LH: handlerLoad, decoder.LW: handlerLoad,
	decoder.LBU: handlerLoad, decoder.LHU: handlerLoad,

	decoder.SB: handlerStore, decoder.SH: handlerStore, decoder.SW: handlerStore,

	decoder.BEQ: handlerBranch, decoder.BNE: handlerBranch, decoder.BLT: handlerBranch,
	decoder.BGE: handlerBranch, decoder.BLTU: handlerBranch, decoder.BGEU: handlerBranch,

	decoder.JAL:  handlerJAL,
	decoder.JALR: handlerJALR,
	decoder.LUI:  handlerLUI,
	decoder.AUIPC: handlerAUIPC,
	decoder.MRET: handlerMRET,
	decoder.FENCE: handlerFence,

	decoder.CSRRW: handlerCSRReg, decoder.CSRRS: handlerCSRReg, decoder.CSRRC: handlerCSRReg,
	decoder.CSRRWI: handlerCSRImm, decoder.CSRRSI: handlerCSRImm, decoder.CSRRCI: handlerCSRImm,
}

// aluOpOf maps the arithmetic/logic concrete instructions (both
// register and immediate forms) and the branch concrete instructions
// to their ALU operation.
var aluOpOf = map[decoder.Concrete]alu.Op{
	decoder.ADDI: alu.ADD, decoder.SLTI: alu.SLTS, decoder.SLTIU: alu.SLTU,
	decoder.XORI: alu.XOR, decoder.ORI: alu.OR, decoder.ANDI: alu.AND,
	decoder.SLLI: alu.SLL, decoder.SRLI: alu.SRL, decoder.SRAI: alu.SRA,

	decoder.ADD: alu.ADD, decoder.SUB: alu.SUB, decoder.SLL: alu.SLL,
	decoder.SLT: alu.SLTS, decoder.SLTU: alu.SLTU, decoder.XOR: alu.XOR,
	decoder.SRL: alu.SRL, decoder.SRA: alu.SRA, decoder.OR: alu.OR, decoder.AND: alu.AND,

	decoder.BEQ: alu.EQ, decoder.BNE: alu.NE, decoder.BLT: alu.LTS,
	decoder.BGE: alu.GES, decoder.BLTU: alu.LTU, decoder.BGEU: alu.GEU,
}

// lsuOpOf maps load/store concrete instructions to their LSU width.
var lsuOpOf = map[decoder.Concrete]lsu.Op{
	decoder.LB: lsu.B, decoder.LH: lsu.H, decoder.LW: lsu.W, decoder.LBU: lsu.BU, decoder.LHU: lsu.HU,
	decoder.SB: lsu.B, decoder.SH: lsu.H, decoder.SW: lsu.W,
}

// csrOp identifies one of the three CSR read-modify-write combinators.
type csrOp int

const (
	csrRW csrOp = iota
	csrRS
	csrRC
)

var csrOpOf = map[decoder.Concrete]csrOp{
	decoder.CSRRW: csrRW, decoder.CSRRS: csrRS, decoder.CSRRC: csrRC,
	decoder.CSRRWI: csrRW, decoder.CSRRSI: csrRS, decoder.CSRRCI: csrRC,
}
