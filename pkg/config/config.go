// Package config is the TOML-backed host configuration for the CLI
// harness: cycle budget, tracing flags, the deterministic interrupt
// injection schedule, and the initial image path. Grounded on
// lookbusy1344-arm_emulator/config/config.go's struct-of-structs
// shape and its Load/LoadFrom/Save conventions, generalized from the
// ARM emulator's debugger/display/statistics sections to the fields
// this simulator's harness actually needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the full host configuration document.
type Config struct {
	Execution struct {
		MaxCycles   uint64 `toml:"max_cycles"`
		EnableZicsr bool   `toml:"enable_zicsr"`
	} `toml:"execution"`

	Image struct {
		Path   string `toml:"path"`
		Format string `toml:"format"` // "hex" or "raw"
	} `toml:"image"`

	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
	} `toml:"trace"`

	// Interrupt lists the cycle numbers (1-indexed, before the cycle
	// at that index executes) at which the host should call
	// core.Core.RequestIRQ, for deterministic replay across runs.
	Interrupt struct {
		Schedule []uint64 `toml:"schedule"`
	} `toml:"interrupt"`
}

// Default returns a Config with sane standalone-run defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.EnableZicsr = true
	cfg.Image.Format = "hex"
	cfg.Trace.OutputFile = "trace.log"
	return cfg
}

// ConfigPath returns the platform-specific default config file path,
// creating its containing directory if needed.
func ConfigPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "riscv32sim")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "riscv32sim")
	default:
		return "config.toml"
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads configuration from the default config file, falling back
// to Default() when the file does not exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from path, falling back to Default()
// when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveTo writes c to path as TOML, creating the containing directory
// if needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("config: failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("config: failed to encode: %w", err)
	}
	return nil
}
