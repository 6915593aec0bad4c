package cpu

import (
	"fmt"
	"slices"
	"strings"
)

// Register indexes the register file.
type Register int

const (
	REG_A  = Register(iota) // A
	REG_IR                  // IR
	REG_DR                  // DR
	REG_COUNT
)

func (reg Register) String() string {
	switch reg {
	case REG_A:
		return "A"
	case REG_IR:
		return "IR"
	case REG_DR:
		return "DR"
	}
	return fmt.Sprintf("Register(%d)", int(reg))
}

// Status is the execution state of a machine.
type Status int

const (
	STATUS_RUNNING = Status(0) // running
	STATUS_HALTED  = Status(1) // halted
	STATUS_FAULTED = Status(2) // faulted
)

func (status Status) String() string {
	switch status {
	case STATUS_RUNNING:
		return f("running")
	case STATUS_HALTED:
		return f("halted")
	case STATUS_FAULTED:
		return f("faulted")
	}
	return fmt.Sprintf("Status(%d)", int(status))
}

// Flags is the status register.
type Flags struct {
	Carry    bool // Carry out of (ADD) or borrow into (SUB) the top bit.
	Zero     bool
	Negative bool // Top bit of the accumulator.
}

// String renders the flags as 'CZN', with '-' for a clear flag.
func (fl Flags) String() string {
	out := []byte("---")
	if fl.Carry {
		out[0] = 'C'
	}
	if fl.Zero {
		out[1] = 'Z'
	}
	if fl.Negative {
		out[2] = 'N'
	}
	return string(out)
}

// Access records the data memory cell touched by the last instruction.
type Access struct {
	Address int
	Value   uint8
	Write   bool
}

// Machine is the complete architectural state of one simulation run.
type Machine struct {
	Register [REG_COUNT]uint8
	Pc       int
	Memory   []uint8
	Flags    Flags

	AddrBus uint8 // Address bus during the last fetch.
	DataBus uint8 // Data bus during the last fetch.
	Access  *Access

	Status Status
	Fault  error
	Cycles int // Executed cycles.
}

// NewMachine creates a zeroed, running machine with the given data memory size.
func NewMachine(size int) (m *Machine) {
	m = &Machine{
		Memory: make([]uint8, size),
	}
	return
}

// Reset zeroes the machine, keeping its memory size.
func (m *Machine) Reset() {
	clear(m.Register[:])
	clear(m.Memory)
	m.Pc = 0
	m.Flags = Flags{}
	m.AddrBus = 0
	m.DataBus = 0
	m.Access = nil
	m.Status = STATUS_RUNNING
	m.Fault = nil
	m.Cycles = 0
}

// A returns the accumulator.
func (m *Machine) A() uint8 {
	return m.Register[REG_A]
}

// Read a data memory cell.
func (m *Machine) Read(address int) (value uint8, err error) {
	if address < 0 || address >= len(m.Memory) {
		err = ErrAddress{Address: address, Size: len(m.Memory)}
		return
	}
	value = m.Memory[address]
	m.Access = &Access{Address: address, Value: value}
	return
}

// Write a data memory cell. Values are truncated to the cell width.
func (m *Machine) Write(address int, value uint8) (err error) {
	if address < 0 || address >= len(m.Memory) {
		err = ErrAddress{Address: address, Size: len(m.Memory)}
		return
	}
	value &= VALUE_MASK
	m.Memory[address] = value
	m.Access = &Access{Address: address, Value: value, Write: true}
	return
}

// Clone returns a deep copy of the machine.
func (m *Machine) Clone() *Machine {
	dup := *m
	dup.Memory = slices.Clone(m.Memory)
	if m.Access != nil {
		access := *m.Access
		dup.Access = &access
	}
	return &dup
}

// String returns the machine state as text.
func (m *Machine) String() string {
	var text strings.Builder
	fmt.Fprintf(&text, "% 6s: %X\n", "pc", m.Pc)
	for reg := range REG_COUNT {
		fmt.Fprintf(&text, "% 6s: %X\n", reg.String(), m.Register[reg])
	}
	fmt.Fprintf(&text, "% 6s: %v\n", "flags", m.Flags)
	fmt.Fprintf(&text, "% 6s: %v\n", "status", m.Status)
	mem := make([]string, len(m.Memory))
	for n, v := range m.Memory {
		mem[n] = fmt.Sprintf("%X", v)
	}
	fmt.Fprintf(&text, "% 6s: %v\n", "memory", strings.Join(mem, " "))
	return text.String()
}
