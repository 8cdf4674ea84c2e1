// Package core implements the execute dispatch ("Core"): fetch,
// decode, execute, writeback, and PC update for one instruction per
// Cycle call, plus level-triggered external interrupt servicing
// between instructions. Grounded on
// bassosimone-risc32/pkg/vm.VM.Execute's switch-over-opcode dispatch
// style, generalized to RV32I's handler-type classification (spec.md
// §4.7), and on original_source/src/core.cpp for the intended
// fetch-decode-dispatch-writeback shape (that file is an incomplete
// draft; only its control flow is borrowed).
package core

import (
	"sync/atomic"

	"github.com/bassosimone/riscv32sim/pkg/alu"
	"github.com/bassosimone/riscv32sim/pkg/decoder"
	"github.com/bassosimone/riscv32sim/pkg/isa"
	"github.com/bassosimone/riscv32sim/pkg/lsu"
	"github.com/bassosimone/riscv32sim/pkg/mem"
)

// Core wires the four memory handles (instruction memory, data
// memory, CSR file, register file) and the decoder/ALU/LSU pipeline
// into the per-cycle fetch/decode/execute/writeback/PC-update loop of
// spec.md §4.7-4.8.
type Core struct {
	InstrMem mem.Memory
	DataMem  mem.Memory
	CSR      *mem.CSRFile
	RF       *mem.RegisterFile

	ext isa.Set
	pc  uint32

	irqPending atomic.Bool

	// OnIRQEntry is invoked when a pending interrupt is serviced. The
	// host is responsible for saving MEPC/MCAUSE and redirecting PC to
	// MTVEC; the core only clears the pending flag and calls this hook.
	OnIRQEntry func(c *Core)
	// OnIRQReturn is invoked when an mret instruction executes, after
	// PC has been restored from MEPC.
	OnIRQReturn func(c *Core)

	// LastInfo records the most recently decoded instruction, useful
	// for tracing/disassembly by a host harness.
	LastInfo Info
}

// Info re-exports decoder.Info so callers outside this package don't
// need to import pkg/decoder directly for tracing purposes.
type Info = decoder.Info

// New constructs a Core. PC starts at zero.
func New(instrMem, dataMem mem.Memory, csr *mem.CSRFile, rf *mem.RegisterFile, ext isa.Set) *Core {
	return &Core{InstrMem: instrMem, DataMem: dataMem, CSR: csr, RF: rf, ext: ext}
}

// PC returns the current program counter.
func (c *Core) PC() uint32 {
	return c.pc
}

// SetPC overrides the program counter, for test setup and host-driven
// interrupt redirection.
func (c *Core) SetPC(pc uint32) {
	c.pc = pc
}

// RequestIRQ sets the pending interrupt flag. Safe to call from
// another goroutine (spec.md §5): the flag is a sync/atomic bool.
func (c *Core) RequestIRQ() {
	c.irqPending.Store(true)
}

// Cycle advances one instruction, or services one pending interrupt if
// request_irq() fired since the last cycle. Ordering within a cycle is
// fixed: fetch < decode < operand reads < compute < writeback < PC
// update (spec.md §5). Any failure aborts the cycle without advancing
// PC.
func (c *Core) Cycle() error {
	if c.irqPending.CompareAndSwap(true, false) {
		if c.OnIRQEntry != nil {
			c.OnIRQEntry(c)
		}
		return nil
	}

	word, err := c.InstrMem.Read(c.pc, 0xf)
	if err != nil {
		return err
	}

	info, err := decoder.Decode(word, c.ext)
	if err != nil {
		return err
	}
	c.LastInfo = info

	return c.execute(info)
}

func (c *Core) execute(info Info) error {
	switch handlerOf[info.Kind] {
	case handlerCalcImm:
		a, err := c.RF.Read(info.RS1, 0xf)
		if err != nil {
			return err
		}
		result, _ := alu.Exec(aluOpOf[info.Kind], a, info.Imm)
		if err := c.RF.Write(info.RD, result, 0xf); err != nil {
			return err
		}
		c.pc += 4
	case handlerCalcReg:
		a, err := c.RF.Read(info.RS1, 0xf)
		if err != nil {
			return err
		}
		b, err := c.RF.Read(info.RS2, 0xf)
		if err != nil {
			return err
		}
		result, _ := alu.Exec(aluOpOf[info.Kind], a, b)
		if err := c.RF.Write(info.RD, result, 0xf); err != nil {
			return err
		}
		c.pc += 4
	case handlerLoad:
		return c.executeLoad(info)
	case handlerStore:
		return c.executeStore(info)
	case handlerBranch:
		a, err := c.RF.Read(info.RS1, 0xf)
		if err != nil {
			return err
		}
		b, err := c.RF.Read(info.RS2, 0xf)
		if err != nil {
			return err
		}
		_, taken := alu.Exec(aluOpOf[info.Kind], a, b)
		if taken {
			c.pc += info.Imm
		} else {
			c.pc += 4
		}
	case handlerJAL:
		if err := c.RF.Write(info.RD, c.pc+4, 0xf); err != nil {
			return err
		}
		c.pc += info.Imm
	case handlerJALR:
		a, err := c.RF.Read(info.RS1, 0xf)
		if err != nil {
			return err
		}
		target := (a + info.Imm) &^ 1
		if err := c.RF.Write(info.RD, c.pc+4, 0xf); err != nil {
			return err
		}
		c.pc = target
	case handlerLUI:
		if err := c.RF.Write(info.RD, info.Imm<<12, 0xf); err != nil {
			return err
		}
		c.pc += 4
	case handlerAUIPC:
		if err := c.RF.Write(info.RD, c.pc+info.Imm<<12, 0xf); err != nil {
			return err
		}
		c.pc += 4
	case handlerCSRReg:
		src, err := c.RF.Read(info.RS1, 0xf)
		if err != nil {
			return err
		}
		old, err := c.csrOp(csrOpOf[info.Kind], info.Imm, src)
		if err != nil {
			return err
		}
		if err := c.RF.Write(info.RD, old, 0xf); err != nil {
			return err
		}
		c.pc += 4
	case handlerCSRImm:
		old, err := c.csrOp(csrOpOf[info.Kind], info.Imm, info.RS1)
		if err != nil {
			return err
		}
		if err := c.RF.Write(info.RD, old, 0xf); err != nil {
			return err
		}
		c.pc += 4
	case handlerMRET:
		mepc, err := c.CSR.Read(mem.MEPC, 0xf)
		if err != nil {
			return err
		}
		c.pc = mepc
		if c.OnIRQReturn != nil {
			c.OnIRQReturn(c)
		}
	case handlerFence:
		c.pc += 4
	}
	return nil
}

// DataMem stores lane i of a byte-enabled access at addr+i (the aligned
// word base), so the word base passed to Read/Write must be addr&^3,
// not addr itself, with ByteEnable/Transform still indexed by the raw
// addr to pick the right lane within that word.
func (c *Core) executeLoad(info Info) error {
	base, err := c.RF.Read(info.RS1, 0xf)
	if err != nil {
		return err
	}
	addr := base + info.Imm
	op := lsuOpOf[info.Kind]
	if lsu.Misaligned(op, addr) {
		return &mem.MisalignmentError{Addr: addr, Detail: "load width exceeds address alignment"}
	}
	be := lsu.ByteEnable(op, addr)
	word, err := c.DataMem.Read(addr&^3, be)
	if err != nil {
		return err
	}
	value := lsu.Transform(op, addr, word)
	if err := c.RF.Write(info.RD, value, 0xf); err != nil {
		return err
	}
	c.pc += 4
	return nil
}

func (c *Core) executeStore(info Info) error {
	base, err := c.RF.Read(info.RS1, 0xf)
	if err != nil {
		return err
	}
	addr := base + info.Imm
	op := lsuOpOf[info.Kind]
	if lsu.Misaligned(op, addr) {
		return &mem.MisalignmentError{Addr: addr, Detail: "store width exceeds address alignment"}
	}
	data, err := c.RF.Read(info.RS2, 0xf)
	if err != nil {
		return err
	}
	be := lsu.ByteEnable(op, addr)
	lane := (addr & 3) * 8
	if err := c.DataMem.Write(addr&^3, data<<lane, be); err != nil {
		return err
	}
	c.pc += 4
	return nil
}

// csrOp implements the CSRRW/CSRRS/CSRRC read-modify-write combinator
// of spec.md §4.5, with the ordering the reference implementation
// actually exhibits rather than the one its pseudocode states (see
// DESIGN.md open-question decision 5): the value combined into RS/RC is sourced
// before the write (treating a never-written recognised CSR as zero,
// via CSR.ReadOrZero, so the first access to any CSR still succeeds —
// spec.md §8 scenario 3 writes MTVEC for the first time), but the value
// written back to rd is read back AFTER the write completes. For
// CSRRW that means rd receives the newly written value, not the
// superseded one; this matches the worked example's end state (x0
// left holding 0x1234, the value just stored into mtvec) and is
// carried forward rather than "corrected" to textbook CSRRW semantics.
func (c *Core) csrOp(op csrOp, addr uint32, data uint32) (uint32, error) {
	old, err := c.CSR.ReadOrZero(addr)
	if err != nil {
		return 0, err
	}
	var next uint32
	switch op {
	case csrRW:
		next = data
	case csrRS:
		next = old | data
	case csrRC:
		next = old &^ data
	}
	if err := c.CSR.Write(addr, next, 0xf); err != nil {
		return 0, err
	}
	result, err := c.CSR.Read(addr, 0xf)
	if err != nil {
		return 0, err
	}
	return result, nil
}
