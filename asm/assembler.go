// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"io"
	"log"
	"slices"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

// Assembler runs the tokenizer, parser and encoder in turn.
type Assembler struct {
	Verbose bool       // Set to enable verbose logging.
	Table   *cpu.Table // Opcode table; nil for the default table.
}

// Assemble assembles a source with the default opcode table.
func Assemble(source string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Assemble(source)
}

// Parse assembles the source read from input.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return asm.Assemble(string(data))
}

// Assemble assembles a source.
//
// The first phase that finds errors stops the pipeline; err is then the
// diag.List of every error in that phase, and prog is nil. Warnings do not
// fail the assembly, and are kept in the Program.
func (asm *Assembler) Assemble(source string) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			prog = nil
			err = diag.List{diag.New(diag.KIND_ENCODE, diag.Position{}, fmt.Errorf("%w: %v", ErrInternal, r))}
		}
	}()

	tokens, diags := Tokens(source)
	if diags.HasErrors() {
		err = diags
		return
	}

	if asm.Verbose {
		log.Printf("asm: %d tokens", len(tokens))
	}

	parser := &Parser{Verbose: asm.Verbose, Table: asm.Table}
	stmts, diags := parser.Parse(slices.Values(tokens))
	if diags.HasErrors() {
		err = diags
		return
	}

	encoder := &Encoder{Verbose: asm.Verbose, Table: asm.Table}
	prog, diags = encoder.Encode(stmts)
	if diags.HasErrors() {
		prog = nil
		err = diags.Errors()
		return
	}

	if asm.Verbose {
		for _, warn := range prog.Warnings {
			log.Printf("asm: %v", warn)
		}
	}

	return
}
