// Command riscv32 is the CLI harness around pkg/core: it loads a
// program image, drives the cycle loop, and exposes a tracing mode and
// an interactive step debugger. Grounded on
// oisee-z80-optimizer/cmd/z80opt/main.go's cobra command-tree wiring
// (flags bound with Flags().XVar, RunE returning wrapped errors).
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/bassosimone/riscv32sim/internal/tui"
	"github.com/bassosimone/riscv32sim/pkg/config"
	"github.com/bassosimone/riscv32sim/pkg/core"
	"github.com/bassosimone/riscv32sim/pkg/mem"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "riscv32",
		Short: "RV32I + Zicsr instruction set simulator",
	}

	rootCmd.AddCommand(newRunCmd(), newTraceCmd(), newDebugCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type sharedFlags struct {
	image      string
	format     string
	configPath string
	cycles     uint64
	console    bool
}

func addSharedFlags(cmd *cobra.Command, f *sharedFlags) {
	cmd.Flags().StringVarP(&f.image, "file", "f", "", "program image path (required)")
	cmd.Flags().StringVar(&f.format, "format", "hex", "image format: hex or raw")
	cmd.Flags().StringVar(&f.configPath, "config", "", "TOML config path (default: platform config dir)")
	cmd.Flags().Uint64Var(&f.cycles, "cycles", 0, "cycle budget override (0 = use config's max_cycles)")
	cmd.Flags().BoolVar(&f.console, "console", false, "attach a TCP-backed serial console (blocks until a client connects)")
	_ = cmd.MarkFlagRequired("file")
}

func loadSharedConfig(f *sharedFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.LoadFrom(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if f.format != "" {
		cfg.Image.Format = f.format
	}
	if f.cycles != 0 {
		cfg.Execution.MaxCycles = f.cycles
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	f := &sharedFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load an image and run it to completion or cycle budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSharedConfig(f)
			if err != nil {
				return err
			}
			words, err := loadImage(f.image, cfg.Image.Format)
			if err != nil {
				return err
			}
			m, err := buildMachine(cfg, words, f.console)
			if err != nil {
				return err
			}
			defer m.close()

			n, err := runUntilHaltOrBudget(m, cfg.Execution.MaxCycles, irqScheduleHook(m, cfg), nil)
			if err != nil && !errors.Is(err, core.ErrHalt) {
				return err
			}
			fmt.Printf("ran %d cycle(s)\n", n)
			printState(m)
			return nil
		},
	}
	addSharedFlags(cmd, f)
	return cmd
}

func newTraceCmd() *cobra.Command {
	f := &sharedFlags{}
	var out string
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run an image, logging every memory access and cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSharedConfig(f)
			if err != nil {
				return err
			}
			words, err := loadImage(f.image, cfg.Image.Format)
			if err != nil {
				return err
			}
			m, err := buildMachine(cfg, words, f.console)
			if err != nil {
				return err
			}
			defer m.close()

			var w *os.File = os.Stdout
			if out != "" {
				outFile, err := os.Create(out)
				if err != nil {
					return err
				}
				defer outFile.Close()
				w = outFile
			}
			logger := log.New(w, "", log.LstdFlags)
			m.core.DataMem = mem.NewTracer(m.core.DataMem, logger, "data")

			n, err := runUntilHaltOrBudget(m, cfg.Execution.MaxCycles, irqScheduleHook(m, cfg), func(cycleNo uint64) {
				logger.Printf("cycle %d: pc=0x%08x kind=%s", cycleNo, m.core.PC(), m.core.LastInfo.Kind)
			})
			if err != nil && !errors.Is(err, core.ErrHalt) {
				return err
			}
			fmt.Printf("ran %d cycle(s), trace written\n", n)
			printState(m)
			return nil
		},
	}
	addSharedFlags(cmd, f)
	cmd.Flags().StringVar(&out, "out", "", "trace output file (default: stdout)")
	return cmd
}

func newDebugCmd() *cobra.Command {
	f := &sharedFlags{}
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Launch the interactive step debugger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSharedConfig(f)
			if err != nil {
				return err
			}
			words, err := loadImage(f.image, cfg.Image.Format)
			if err != nil {
				return err
			}
			m, err := buildMachine(cfg, words, f.console)
			if err != nil {
				return err
			}
			defer m.close()

			return tui.Run(m.core, m.dataMem)
		},
	}
	addSharedFlags(cmd, f)
	return cmd
}
