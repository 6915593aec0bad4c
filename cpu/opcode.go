// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"strings"
)

const (
	PROGRAM_SIZE = 16  // Words of program memory.
	MEMORY_SIZE  = 16  // Cells of data memory.
	OPERAND_MASK = 0xf // Operand field of a word.
	VALUE_MASK   = 0xf // Width of the accumulator and a data cell.
)

// Mnemonic is an instruction name.
type Mnemonic int

const (
	NOP = Mnemonic(iota) // NOP
	LDA                  // LDA
	STA                  // STA
	ADD                  // ADD
	SUB                  // SUB
	JMP                  // JMP
	BRZ                  // BRZ
	BRC                  // BRC
	BRN                  // BRN
	MNEMONIC_COUNT
)

var mnemonicName = [MNEMONIC_COUNT]string{
	NOP: "NOP",
	LDA: "LDA",
	STA: "STA",
	ADD: "ADD",
	SUB: "SUB",
	JMP: "JMP",
	BRZ: "BRZ",
	BRC: "BRC",
	BRN: "BRN",
}

func (m Mnemonic) String() string {
	if m < 0 || m >= MNEMONIC_COUNT {
		return fmt.Sprintf("Mnemonic(%d)", int(m))
	}
	return mnemonicName[m]
}

// IsBranch is true for the conditional, PC relative branches.
func (m Mnemonic) IsBranch() bool {
	return m == BRZ || m == BRC || m == BRN
}

// LookupMnemonic finds a mnemonic by name, ignoring case.
func LookupMnemonic(name string) (m Mnemonic, ok bool) {
	name = strings.ToUpper(name)
	for n, str := range mnemonicName {
		if str == name {
			return Mnemonic(n), true
		}
	}
	return
}

// Mode is the addressing mode of an operand.
type Mode int

const (
	MODE_NONE      = Mode(0) // no operand
	MODE_IMMEDIATE = Mode(1) // #n
	MODE_MEMORY    = Mode(2) // (n)
	MODE_ADDRESS   = Mode(3) // n, or a label
)

func (mode Mode) String() string {
	switch mode {
	case MODE_NONE:
		return "none"
	case MODE_IMMEDIATE:
		return "immediate"
	case MODE_MEMORY:
		return "memory"
	case MODE_ADDRESS:
		return "address"
	}
	return fmt.Sprintf("Mode(%d)", int(mode))
}

// Opcode is the upper nibble of a word.
type Opcode uint8

// Encoding is one row of the opcode table.
type Encoding struct {
	Opcode   Opcode
	Mnemonic Mnemonic
	Mode     Mode
}

// Table is the immutable opcode table shared by the parser, the encoder
// and the cpu.
type Table struct {
	byOpcode   [16]*Encoding
	byMnemonic [MNEMONIC_COUNT][]Encoding
}

var defaultEncodings = []Encoding{
	{0x0, NOP, MODE_NONE},
	{0x1, LDA, MODE_IMMEDIATE},
	{0x2, LDA, MODE_MEMORY},
	{0x3, STA, MODE_MEMORY},
	{0x4, ADD, MODE_IMMEDIATE},
	{0x5, ADD, MODE_MEMORY},
	{0x6, SUB, MODE_IMMEDIATE},
	{0x7, SUB, MODE_MEMORY},
	{0x8, JMP, MODE_ADDRESS},
	{0x9, BRZ, MODE_IMMEDIATE},
	{0xa, BRC, MODE_IMMEDIATE},
	{0xb, BRN, MODE_IMMEDIATE},
}

var defaultTable = NewTable(defaultEncodings...)

// DefaultTable returns the Minimalmaschine opcode table.
func DefaultTable() *Table {
	return defaultTable
}

// NewTable builds an opcode table. Each opcode and each mnemonic+mode pair
// must be unique, so that every word decodes to exactly one instruction.
func NewTable(encodings ...Encoding) *Table {
	table := &Table{}
	for _, enc := range encodings {
		if enc.Opcode > 0xf {
			panic(fmt.Sprintf("opcode 0x%x wider than a nibble", enc.Opcode))
		}
		if table.byOpcode[enc.Opcode] != nil {
			panic(fmt.Sprintf("opcode 0x%x duplicated", enc.Opcode))
		}
		if _, ok := table.Lookup(enc.Mnemonic, enc.Mode); ok {
			panic(fmt.Sprintf("%v %v duplicated", enc.Mnemonic, enc.Mode))
		}
		row := enc
		table.byOpcode[enc.Opcode] = &row
		table.byMnemonic[enc.Mnemonic] = append(table.byMnemonic[enc.Mnemonic], enc)
	}
	return table
}

// Lookup finds the encoding of a mnemonic in a given mode.
func (table *Table) Lookup(m Mnemonic, mode Mode) (enc Encoding, ok bool) {
	if m < 0 || m >= MNEMONIC_COUNT {
		return
	}
	for _, enc = range table.byMnemonic[m] {
		if enc.Mode == mode {
			return enc, true
		}
	}
	return Encoding{}, false
}

// Modes lists the operand modes a mnemonic accepts in source form.
// Branches take an immediate offset, or a target address which the
// encoder turns into an offset.
func (table *Table) Modes(m Mnemonic) (modes []Mode) {
	if m < 0 || m >= MNEMONIC_COUNT {
		return
	}
	for _, enc := range table.byMnemonic[m] {
		modes = append(modes, enc.Mode)
	}
	if m.IsBranch() && len(modes) != 0 {
		modes = append(modes, MODE_ADDRESS)
	}
	return
}

// Decode finds the table row for a word.
func (table *Table) Decode(word Word) (enc Encoding, err error) {
	row := table.byOpcode[word.Opcode()]
	if row == nil {
		err = ErrInvalidOpcode
		return
	}
	if row.Mode == MODE_NONE && word.Operand() != 0 {
		err = ErrInvalidOpcode
		return
	}
	enc = *row
	return
}

// Word is one encoded instruction.
type Word uint8

// MakeWord packs an opcode and an operand.
func MakeWord(op Opcode, operand uint8) Word {
	return Word((uint8(op) << 4) | (operand & OPERAND_MASK))
}

// Opcode returns the opcode field.
func (word Word) Opcode() Opcode {
	return Opcode(word >> 4)
}

// Operand returns the operand field.
func (word Word) Operand() uint8 {
	return uint8(word) & OPERAND_MASK
}

// Instruction is a decoded word.
type Instruction struct {
	Mnemonic Mnemonic
	Mode     Mode
	Operand  uint8
}

// String returns the assembly language form of the instruction.
func (ins Instruction) String() string {
	switch ins.Mode {
	case MODE_IMMEDIATE:
		return fmt.Sprintf("%v #%X", ins.Mnemonic, ins.Operand)
	case MODE_MEMORY:
		return fmt.Sprintf("%v (%X)", ins.Mnemonic, ins.Operand)
	case MODE_ADDRESS:
		// A leading 0 keeps A-F from reading as a label.
		return fmt.Sprintf("%v %02X", ins.Mnemonic, ins.Operand)
	}
	return ins.Mnemonic.String()
}

// Disassemble decodes a word into an instruction.
func (table *Table) Disassemble(word Word) (ins Instruction, err error) {
	enc, err := table.Decode(word)
	if err != nil {
		return
	}
	ins = Instruction{
		Mnemonic: enc.Mnemonic,
		Mode:     enc.Mode,
		Operand:  word.Operand(),
	}
	return
}

// Assemble encodes an instruction into a word.
func (table *Table) Assemble(ins Instruction) (word Word, err error) {
	enc, ok := table.Lookup(ins.Mnemonic, ins.Mode)
	if !ok {
		err = ErrInvalidOpcode
		return
	}
	if ins.Operand > OPERAND_MASK {
		err = ErrOperandRange
		return
	}
	word = MakeWord(enc.Opcode, ins.Operand)
	return
}
