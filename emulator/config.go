package emulator

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/hmasm/cpu"
)

// Config describes the simulated machine.
type Config struct {
	MemorySize  int    `yaml:"memory_size"`  // Data memory cells.
	PreloadData bool   `yaml:"preload_data"` // Copy operand nibbles into data memory at reset.
	Overrun     string `yaml:"overrun"`      // 'halt' or 'fault' when the PC runs off the program.
	Verbose     bool   `yaml:"verbose"`
}

// DefaultConfig is the stock Minimalmaschine.
func DefaultConfig() Config {
	return Config{
		MemorySize: cpu.MEMORY_SIZE,
		Overrun:    cpu.OVERRUN_HALT.String(),
	}
}

// LoadConfig reads a YAML configuration. Missing keys keep their default
// values, unknown keys are an error.
func LoadConfig(input io.Reader) (cfg Config, err error) {
	cfg = DefaultConfig()

	dec := yaml.NewDecoder(input)
	dec.KnownFields(true)
	err = dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return
	}

	err = cfg.Validate()

	return
}

// Validate checks the configuration values.
func (cfg Config) Validate() (err error) {
	if cfg.MemorySize < 1 || cfg.MemorySize > cpu.MEMORY_SIZE {
		err = ErrMemorySize(cfg.MemorySize)
		return
	}

	_, err = cfg.overrun()

	return
}

func (cfg Config) overrun() (ov cpu.Overrun, err error) {
	switch cfg.Overrun {
	case "", cpu.OVERRUN_HALT.String():
		ov = cpu.OVERRUN_HALT
	case cpu.OVERRUN_FAULT.String():
		ov = cpu.OVERRUN_FAULT
	default:
		err = ErrOverrun(cfg.Overrun)
	}
	return
}
