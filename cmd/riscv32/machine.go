package main

import (
	"fmt"
	"os"

	"github.com/bassosimone/riscv32sim/pkg/config"
	"github.com/bassosimone/riscv32sim/pkg/core"
	"github.com/bassosimone/riscv32sim/pkg/isa"
	"github.com/bassosimone/riscv32sim/pkg/loader"
	"github.com/bassosimone/riscv32sim/pkg/mem"
)

// consoleBase is the fixed MMIO base at which an optional serial
// console is attached alongside data memory.
const consoleBase uint32 = 0x10000000

// mcauseMachineExternalInterrupt is the cause code this harness writes
// on every serviced interrupt: the interrupt bit (31) set, cause 11
// (machine external interrupt) per the standard RISC-V mcause encoding.
const mcauseMachineExternalInterrupt uint32 = 0x8000000B

// machine bundles a Core with the raw memory handles the CLI needs
// for state dumps and teardown.
type machine struct {
	core    *core.Core
	dataMem *mem.DataMem
	serial  *mem.Serial
}

func loadImage(path string, format string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("riscv32: %w", err)
	}
	defer f.Close()

	switch format {
	case "hex":
		return loader.LoadHexWords(f)
	case "raw":
		return loader.LoadRawBytes(f)
	default:
		return nil, fmt.Errorf("riscv32: unknown image format %q", format)
	}
}

// buildMachine wires instruction memory, data memory, CSR file,
// register file, and optionally a serial console into a Core, per
// SPEC_FULL.md §4.10.
func buildMachine(cfg *config.Config, words []uint32, withConsole bool) (*machine, error) {
	instrMem := mem.NewInstrMem(words)
	dataMem := mem.NewDataMem()

	var dataBus mem.Memory = dataMem
	var serial *mem.Serial
	if withConsole {
		bus := mem.NewBus()
		if err := bus.Attach(0, dataMem); err != nil {
			return nil, err
		}
		s, addr, err := mem.AcceptSerial()
		if err != nil {
			return nil, fmt.Errorf("riscv32: console: %w", err)
		}
		fmt.Fprintf(os.Stderr, "riscv32: console listening, accepted connection via %s\n", addr)
		if err := bus.Attach(consoleBase, s); err != nil {
			return nil, err
		}
		serial = s
		dataBus = bus
	}

	var ext isa.Set
	if cfg.Execution.EnableZicsr {
		ext = isa.NewSet(isa.Zicsr)
	}

	csr := mem.NewCSRFile()
	rf := mem.NewRegisterFile()
	c := core.New(instrMem, dataBus, csr, rf, ext)
	installDefaultIRQHandler(c)

	return &machine{core: c, dataMem: dataMem, serial: serial}, nil
}

// installDefaultIRQHandler wires the conventional save-and-redirect
// policy onto OnIRQEntry: MEPC gets the interrupted PC, MCAUSE records
// why, and PC jumps to MTVEC (read via ReadOrZero so an unconfigured
// handler table redirects to address zero rather than failing the
// cycle). This is host policy, not part of core.Core's contract — see
// DESIGN.md open-question 4.
func installDefaultIRQHandler(c *core.Core) {
	c.OnIRQEntry = func(c *core.Core) {
		_ = c.CSR.Write(mem.MEPC, c.PC(), 0xf)
		_ = c.CSR.Write(mem.MCAUSE, mcauseMachineExternalInterrupt, 0xf)
		mtvec, _ := c.CSR.ReadOrZero(mem.MTVEC)
		c.SetPC(mtvec)
	}
}

func (m *machine) close() {
	if m.serial != nil {
		m.serial.Close()
	}
}

// runUntilHaltOrBudget drives Cycle until the conventional all-zero
// halt word is fetched (SPEC_FULL.md §4.11) or maxCycles is exhausted,
// whichever comes first. preCycle, if non-nil, runs immediately before
// each Cycle call (used to inject scheduled interrupts); postCycle, if
// non-nil, runs immediately after (used for trace logging). When a
// console is attached, the serial device is polled once per cycle so
// a pending transmit byte reaches the client and an incoming byte
// becomes visible to the guest. It returns the number of cycles
// executed; reaching the halt word is reported as core.ErrHalt, which
// callers should treat as success via errors.Is, not failure.
func runUntilHaltOrBudget(m *machine, maxCycles uint64, preCycle, postCycle func(n uint64)) (uint64, error) {
	var n uint64
	for ; maxCycles == 0 || n < maxCycles; n++ {
		pc := m.core.PC()
		if word, err := m.core.InstrMem.Read(pc, 0xf); err == nil && word == 0 {
			return n, core.ErrHalt
		}
		if preCycle != nil {
			preCycle(n)
		}
		if err := m.core.Cycle(); err != nil {
			return n, fmt.Errorf("riscv32: cycle %d at pc=0x%08x: %w", n, pc, err)
		}
		if m.serial != nil {
			if err := m.serial.Poll(); err != nil {
				return n, fmt.Errorf("riscv32: console: %w", err)
			}
		}
		if postCycle != nil {
			postCycle(n)
		}
	}
	return n, nil
}

// irqScheduleHook builds a preCycle hook that calls RequestIRQ at the
// cycle numbers listed in cfg.Interrupt.Schedule, for deterministic
// interrupt replay across runs (SPEC_FULL.md's config section). The
// schedule is 1-indexed (cfg.Interrupt.Schedule's doc comment), while
// runUntilHaltOrBudget's preCycle hook receives the 0-indexed count of
// cycles already executed, so entry n of the loop corresponds to
// schedule number n+1.
func irqScheduleHook(m *machine, cfg *config.Config) func(n uint64) {
	if len(cfg.Interrupt.Schedule) == 0 {
		return nil
	}
	due := make(map[uint64]bool, len(cfg.Interrupt.Schedule))
	for _, n := range cfg.Interrupt.Schedule {
		due[n] = true
	}
	return func(n uint64) {
		if due[n+1] {
			m.core.RequestIRQ()
		}
	}
}

func printState(m *machine) {
	rf := m.core.RF.Content()
	fmt.Printf("pc = 0x%08x\n", m.core.PC())
	for i := 0; i < 32; i++ {
		fmt.Printf("x%-2d = 0x%08x", i, rf[i])
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
	fmt.Println("csr:")
	for addr, v := range m.core.CSR.Content() {
		fmt.Printf("  0x%03x = 0x%08x\n", addr, v)
	}
}
