package asm

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

// Program is an assembled program.
type Program struct {
	Words    []cpu.Word      // Program words, from address 0.
	Lines    []diag.Position // Source position of each word.
	Labels   map[string]int  // Label addresses.
	Warnings diag.List       // Non-fatal diagnostics.
	Table    *cpu.Table      // Opcode table the words were encoded with.
}

// Len is the number of program words.
func (prog *Program) Len() int {
	return len(prog.Words)
}

func (prog *Program) table() *cpu.Table {
	if prog.Table == nil {
		return cpu.DefaultTable()
	}
	return prog.Table
}

// Debug returns the source position of a program address.
func (prog *Program) Debug(addr int) (pos diag.Position, ok bool) {
	if addr < 0 || addr >= len(prog.Lines) {
		return
	}
	return prog.Lines[addr], true
}

// Codes iterates over the program words and their addresses.
func (prog *Program) Codes() iter.Seq2[int, cpu.Word] {
	return func(yield func(addr int, word cpu.Word) bool) {
		for addr, word := range prog.Words {
			if !yield(addr, word) {
				return
			}
		}
	}
}

// Decode disassembles the program words.
func (prog *Program) Decode() (inss []cpu.Instruction, err error) {
	for addr, word := range prog.Codes() {
		var ins cpu.Instruction
		ins, err = prog.table().Disassemble(word)
		if err != nil {
			err = &cpu.ErrFault{Pc: addr, Word: word, Err: err}
			return
		}
		inss = append(inss, ins)
	}

	return
}

// Binary returns the program as a full program memory image.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, cpu.PROGRAM_SIZE)
	for addr, word := range prog.Codes() {
		bins[addr] = byte(word)
	}

	return
}

// ProgramMemory returns the opcode nibble of every program memory word.
func (prog *Program) ProgramMemory() (nibbles []uint8) {
	nibbles = make([]uint8, cpu.PROGRAM_SIZE)
	for addr, word := range prog.Codes() {
		nibbles[addr] = uint8(word.Opcode())
	}
	return
}

// DataMemory returns the operand nibble of every program memory word.
// The Minimalmaschine keeps operands in data memory, at the address of
// their instruction.
func (prog *Program) DataMemory() (nibbles []uint8) {
	nibbles = make([]uint8, cpu.MEMORY_SIZE)
	for addr, word := range prog.Codes() {
		nibbles[addr] = word.Operand()
	}
	return
}

func dumpNibbles(sb *strings.Builder, nibbles []uint8) {
	for n := 0; n < len(nibbles); n += 4 {
		row := nibbles[n:min(n+4, len(nibbles))]
		for i, v := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%x", v)
		}
		sb.WriteByte('\n')
	}
}

// Dump renders the data and program memory nibbles, four per row.
func (prog *Program) Dump() string {
	sb := &strings.Builder{}
	sb.WriteString(f("Data Memory:") + "\n")
	dumpNibbles(sb, prog.DataMemory())
	sb.WriteString(f("Program Memory:") + "\n")
	dumpNibbles(sb, prog.ProgramMemory())
	return sb.String()
}

// String renders the program as an assembly listing.
func (prog *Program) String() string {
	labels := map[int][]string{}
	for name, addr := range prog.Labels {
		labels[addr] = append(labels[addr], name)
	}

	tw := table.NewWriter()
	tw.SetTitle(f("Program (%d words)", prog.Len()))
	tw.AppendHeader(table.Row{f("Addr"), f("Word"), f("Label"), f("Instruction"), f("Line")})

	for addr, word := range prog.Codes() {
		text := "??"
		ins, err := prog.table().Disassemble(word)
		if err == nil {
			text = ins.String()
		}

		names := labels[addr]
		slices.Sort(names)

		line := ""
		if pos, ok := prog.Debug(addr); ok {
			line = pos.String()
		}

		tw.AppendRow(table.Row{
			fmt.Sprintf("%X", addr),
			fmt.Sprintf("%02X", uint8(word)),
			strings.Join(names, " "),
			text,
			line,
		})
	}

	return tw.Render()
}
