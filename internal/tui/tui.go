// Package tui implements the interactive step debugger launched by
// `riscv32 debug`. Scaled down from
// lookbusy1344-arm_emulator/debugger/tui.go's multi-panel layout
// (source/disassembly/registers/memory/stack/breakpoints/output) to
// the panels this simulator's state actually has: registers, CSRs, a
// data-memory hex dump, the last-decoded instruction, and an output
// log, plus a command line accepting step/continue/stop/irq/quit.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/bassosimone/riscv32sim/pkg/core"
	"github.com/bassosimone/riscv32sim/pkg/mem"
)

// TUI is the step debugger's application state.
type TUI struct {
	core    *core.Core
	dataMem *mem.DataMem

	app      *tview.Application
	registerView *tview.TextView
	csrView      *tview.TextView
	memoryView   *tview.TextView
	disasmView   *tview.TextView
	outputView   *tview.TextView
	commandInput *tview.InputField

	// running is read from the continue goroutine and written from the
	// UI goroutine (via QueueUpdateDraw and the key/command handlers),
	// so it's an atomic.Bool rather than a plain bool — the same
	// cross-goroutine pattern core.Core uses for its IRQ-pending flag.
	running atomic.Bool
}

// Run builds and launches the debugger, blocking until the user quits.
func Run(c *core.Core, dataMem *mem.DataMem) error {
	t := newTUI(c, dataMem)
	return t.app.Run()
}

func newTUI(c *core.Core, dataMem *mem.DataMem) *TUI {
	t := &TUI{core: c, dataMem: dataMem, app: tview.NewApplication()}
	t.initializeViews()
	layout := t.buildLayout()
	t.setupKeyBindings()
	t.app.SetRoot(layout, true).SetFocus(t.commandInput)
	t.refreshAll()
	return t
}

func (t *TUI) initializeViews() {
	t.registerView = tview.NewTextView().SetDynamicColors(true)
	t.registerView.SetBorder(true).SetTitle(" Registers ")

	t.csrView = tview.NewTextView().SetDynamicColors(true)
	t.csrView.SetBorder(true).SetTitle(" CSRs ")

	t.memoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.memoryView.SetBorder(true).SetTitle(" Data memory ")

	t.disasmView = tview.NewTextView().SetDynamicColors(true)
	t.disasmView.SetBorder(true).SetTitle(" Last instruction ")

	t.outputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.outputView.SetBorder(true).SetTitle(" Output ")

	t.commandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.commandInput.SetBorder(true).SetTitle(" Command (step/continue/stop/irq/quit) ")
	t.commandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() tview.Primitive {
	top := tview.NewFlex().
		AddItem(t.registerView, 0, 2, false).
		AddItem(t.csrView, 0, 1, false).
		AddItem(t.disasmView, 0, 1, false)

	content := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 8, 0, false).
		AddItem(t.memoryView, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(content, 0, 2, false)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, 0, 4, false).
		AddItem(t.outputView, 8, 0, false).
		AddItem(t.commandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10:
			t.executeCommand("step")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyCtrlC:
			t.running.Store(false)
			t.app.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := strings.TrimSpace(t.commandInput.GetText())
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.commandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	switch cmd {
	case "step":
		t.step()
		t.refreshAll()
	case "continue":
		t.runContinue()
	case "stop":
		t.running.Store(false)
	case "irq":
		t.core.RequestIRQ()
		t.writeOutput("[yellow]interrupt requested[white]\n")
		t.refreshAll()
	case "quit", "q":
		t.running.Store(false)
		t.app.Stop()
	default:
		t.writeOutput(fmt.Sprintf("[red]unknown command:[white] %s\n", cmd))
		t.refreshAll()
	}
}

// runContinue steps the core repeatedly in a background goroutine,
// stopping at the conventional all-zero halt word (SPEC_FULL.md
// §4.11), a cycle error, or an explicit "stop"/"quit" command. It
// must not block the tview event loop the way a synchronous loop in
// executeCommand would: that would starve SetInputCapture and leave
// the UI unable to react to Ctrl+C or a "stop" command until the loop
// finished on its own. Each step's output/refresh is marshaled back
// onto the UI goroutine via QueueUpdateDraw, tview's documented way
// for background goroutines to touch widgets safely; the goroutine
// waits for each queued update to run before stepping again so a fast-exiting
// program can't flood the draw queue with thousands of queued closures.
func (t *TUI) runContinue() {
	if t.running.Swap(true) {
		return
	}
	go func() {
		for t.running.Load() {
			done := make(chan bool, 1)
			t.app.QueueUpdateDraw(func() {
				if t.atHaltWord() {
					t.writeOutput("[yellow]halted: fetched the conventional all-zero word[white]\n")
					t.running.Store(false)
					done <- true
					return
				}
				cont := t.step()
				t.refreshAll()
				done <- cont
			})
			if !<-done {
				t.running.Store(false)
				return
			}
		}
	}()
}

// atHaltWord reports whether the next fetch would read the
// conventional all-zero halt word, per SPEC_FULL.md §4.11 — the core
// itself has no notion of "stop"; the harness/debugger recognizes it.
func (t *TUI) atHaltWord() bool {
	word, err := t.core.InstrMem.Read(t.core.PC(), 0xf)
	return err == nil && word == 0
}

// step executes one cycle and reports whether execution may continue.
func (t *TUI) step() bool {
	if err := t.core.Cycle(); err != nil {
		t.writeOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
		t.running.Store(false)
		return false
	}
	t.writeOutput(fmt.Sprintf("pc=0x%08x kind=%s\n", t.core.PC(), t.core.LastInfo.Kind))
	return true
}

func (t *TUI) writeOutput(s string) {
	fmt.Fprint(t.outputView, s)
	t.outputView.ScrollToEnd()
}

func (t *TUI) refreshAll() {
	t.updateRegisterView()
	t.updateCSRView()
	t.updateMemoryView()
	t.updateDisasmView()
	t.app.Draw()
}

func (t *TUI) updateRegisterView() {
	t.registerView.Clear()
	regs := t.core.RF.Content()
	var lines []string
	lines = append(lines, fmt.Sprintf("PC : 0x%08x", t.core.PC()))
	for i := 0; i < 32; i += 4 {
		line := fmt.Sprintf("x%-2d: 0x%08x  x%-2d: 0x%08x  x%-2d: 0x%08x  x%-2d: 0x%08x",
			i, regs[i], i+1, regs[i+1], i+2, regs[i+2], i+3, regs[i+3])
		lines = append(lines, line)
	}
	fmt.Fprint(t.registerView, strings.Join(lines, "\n"))
}

func (t *TUI) updateCSRView() {
	t.csrView.Clear()
	content := t.core.CSR.Content()
	addrs := make([]uint32, 0, len(content))
	for addr := range content {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	var lines []string
	for _, addr := range addrs {
		lines = append(lines, fmt.Sprintf("0x%03x: 0x%08x", addr, content[addr]))
	}
	fmt.Fprint(t.csrView, strings.Join(lines, "\n"))
}

func (t *TUI) updateMemoryView() {
	t.memoryView.Clear()
	bytes := t.dataMem.Bytes()
	addrs := make([]uint32, 0, len(bytes))
	for addr := range bytes {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	var lines []string
	for _, addr := range addrs {
		lines = append(lines, fmt.Sprintf("0x%08x: 0x%02x", addr, bytes[addr]))
	}
	if len(lines) == 0 {
		lines = append(lines, "(empty)")
	}
	fmt.Fprint(t.memoryView, strings.Join(lines, "\n"))
}

func (t *TUI) updateDisasmView() {
	t.disasmView.Clear()
	info := t.core.LastInfo
	fmt.Fprintf(t.disasmView, "kind: %s\nrd=%d rs1=%d rs2=%d\nimm=0x%08x", info.Kind, info.RD, info.RS1, info.RS2, info.Imm)
}
