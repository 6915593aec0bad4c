// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"log"
)

// Overrun selects what happens when the program counter runs past the
// last program word.
type Overrun int

const (
	OVERRUN_HALT  = Overrun(0) // halt
	OVERRUN_FAULT = Overrun(1) // fault
)

func (ov Overrun) String() string {
	if ov == OVERRUN_FAULT {
		return "fault"
	}
	return "halt"
}

// Cpu is the simulation context for a Minimalmaschine.
type Cpu struct {
	Verbose bool    // Set to enable verbose logging.
	Table   *Table  // Opcode table used to decode words.
	Program []Word  // Program memory.
	Overrun Overrun // Program counter overrun policy.

	*Machine
}

// NewCpu creates a new CPU with a specifically sized data memory.
func NewCpu(size int) (cpu *Cpu) {
	cpu = &Cpu{
		Table:   DefaultTable(),
		Machine: NewMachine(size),
	}

	return
}

// Reset the CPU state. The program is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Machine.Reset()
}

// FetchCode fetches the word at the program counter, and drives the busses.
func (cpu *Cpu) FetchCode() (word Word, err error) {
	if cpu.Pc < 0 || cpu.Pc >= len(cpu.Program) {
		err = ErrPcOutOfRange
		return
	}

	word = cpu.Program[cpu.Pc]
	cpu.AddrBus = uint8(cpu.Pc)
	cpu.DataBus = uint8(word)

	return
}

// Tick executes a single instruction cycle.
//
// A halted machine stays halted, and a faulted machine keeps returning
// its fault.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.Status {
	case STATUS_HALTED:
		return
	case STATUS_FAULTED:
		err = cpu.Fault
		return
	}

	cpu.Access = nil

	word, err := cpu.FetchCode()
	if errors.Is(err, ErrPcOutOfRange) && cpu.Overrun == OVERRUN_HALT {
		if cpu.Verbose {
			log.Printf("cpu: halt at pc 0x%X", cpu.Pc)
		}
		err = nil
		cpu.Status = STATUS_HALTED
		cpu.Cycles += 1
		return
	}

	if err == nil {
		err = cpu.Execute(word)
	}

	if err != nil {
		err = &ErrFault{Pc: cpu.Pc, Word: word, Err: err}
		cpu.Status = STATUS_FAULTED
		cpu.Fault = err
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
	}

	cpu.Cycles += 1

	return
}

// Execute executes a single word at the current program counter.
func (cpu *Cpu) Execute(word Word) (err error) {
	enc, err := cpu.Table.Decode(word)
	if err != nil {
		return
	}

	if cpu.Verbose {
		ins := Instruction{Mnemonic: enc.Mnemonic, Mode: enc.Mode, Operand: word.Operand()}
		log.Printf("%X: %02X %v", cpu.Pc, uint8(word), ins)
	}

	operand := word.Operand()
	cpu.Register[REG_IR] = uint8(enc.Opcode)
	cpu.Register[REG_DR] = operand

	next_pc := cpu.Pc + 1
	a := cpu.Register[REG_A]

	switch enc.Mnemonic {
	case NOP:
		// pass
	case LDA:
		var value uint8
		value, err = cpu.getValue(enc.Mode, operand)
		if err != nil {
			return
		}
		cpu.setA(value, false)
	case STA:
		err = cpu.Write(int(operand), a)
		if err != nil {
			return
		}
	case ADD:
		var value uint8
		value, err = cpu.getValue(enc.Mode, operand)
		if err != nil {
			return
		}
		sum := a + value
		cpu.setA(sum, sum > VALUE_MASK)
	case SUB:
		var value uint8
		value, err = cpu.getValue(enc.Mode, operand)
		if err != nil {
			return
		}
		cpu.setA(a-value, value > a)
	case JMP:
		next_pc = int(operand)
	case BRZ, BRC, BRN:
		var taken bool
		switch enc.Mnemonic {
		case BRZ:
			taken = cpu.Flags.Zero
		case BRC:
			taken = cpu.Flags.Carry
		case BRN:
			taken = cpu.Flags.Negative
		}
		if taken {
			next_pc = (cpu.Pc + int(operand)) % PROGRAM_SIZE
		}
	default:
		err = ErrInvalidOpcode
		return
	}

	cpu.Pc = next_pc

	return
}

// getValue gets an ALU input, either the immediate operand or a data cell.
func (cpu *Cpu) getValue(mode Mode, operand uint8) (value uint8, err error) {
	switch mode {
	case MODE_IMMEDIATE:
		value = operand
	case MODE_MEMORY:
		value, err = cpu.Read(int(operand))
	default:
		err = ErrInvalidOpcode
	}

	return
}

// setA stores an ALU result into the accumulator and updates the flags.
func (cpu *Cpu) setA(value uint8, carry bool) {
	value &= VALUE_MASK
	cpu.Register[REG_A] = value
	cpu.Flags = Flags{
		Carry:    carry,
		Zero:     value == 0,
		Negative: (value & 0x8) != 0,
	}
}
