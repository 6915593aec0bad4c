// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"log"

	"github.com/ezrec/hmasm/asm"
	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

// Emulator state. CPU + the loaded program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.
	Config   Config       // Machine configuration.
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator(cfg Config) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	overrun, _ := cfg.overrun()

	emu = &Emulator{
		Verbose: cfg.Verbose,
		Cpu:     cpu.NewCpu(cfg.MemorySize),
		Program: &asm.Program{},
		Config:  cfg,
	}
	emu.Cpu.Overrun = overrun

	return
}

// Load a program, and reset the machine.
func (emu *Emulator) Load(prog *asm.Program) {
	emu.Program = prog
	emu.Reset()
}

// Reset the machine state, and preload data memory if configured.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	if emu.Program.Table != nil {
		emu.Cpu.Table = emu.Program.Table
	}
	emu.Cpu.Program = emu.Program.Words
	emu.Cpu.Reset()

	if emu.Config.PreloadData {
		copy(emu.Cpu.Memory, emu.Program.DataMemory())
	}
}

// LineNo returns the current line number for the executing word.
func (emu *Emulator) LineNo() int {
	pos, _ := emu.Program.Debug(emu.Cpu.Pc)
	return pos.Line
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	pos, _ := emu.Program.Debug(pc)
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pos: pos, Pc: pc, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		var fault *cpu.ErrFault
		if errors.As(err, &fault) {
			err = fault.Err
		}
		return
	}

	done = emu.Cpu.Status != cpu.STATUS_RUNNING

	return
}

// Run the loaded program for up to cycles steps, recording a snapshot
// before the first step and after every step. The run stops early once
// the machine halts or faults.
//
// A fault returns the partial trace, and a diag.List with the runtime error.
func (emu *Emulator) Run(cycles int) (trace *Trace, err error) {
	if cycles < 0 {
		err = diag.List{diag.New(diag.KIND_RUNTIME, diag.Position{}, ErrCycles(cycles))}
		return
	}

	trace = &Trace{}
	trace.record(emu)

	for range cycles {
		if emu.Cpu.Status != cpu.STATUS_RUNNING {
			break
		}

		_, terr := emu.Tick()
		trace.record(emu)

		if terr != nil {
			if emu.Verbose {
				log.Printf("emulator: %v", terr)
			}
			var rt *ErrRuntime
			if errors.As(terr, &rt) {
				err = diag.List{rt.Diagnostic()}
			} else {
				err = diag.List{diag.New(diag.KIND_RUNTIME, diag.Position{}, terr)}
			}
			return
		}
	}

	return
}

// Simulate assembles a source and runs it on the stock machine.
func Simulate(source string, cycles int) (trace *Trace, err error) {
	return DefaultConfig().Simulate(source, cycles)
}

// Simulate assembles a source and runs it on the configured machine.
// Assembly failures return the assembler's diagnostics and no trace.
func (cfg Config) Simulate(source string, cycles int) (trace *Trace, err error) {
	emu, err := NewEmulator(cfg)
	if err != nil {
		err = diag.List{diag.New(diag.KIND_RUNTIME, diag.Position{}, err)}
		return
	}

	assembler := &asm.Assembler{Verbose: cfg.Verbose}
	prog, err := assembler.Assemble(source)
	if err != nil {
		return
	}

	emu.Load(prog)

	return emu.Run(cycles)
}
