// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"log"
	"regexp"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

const (
	IMMEDIATE_MIN = -8               // Smallest immediate, as two's complement.
	IMMEDIATE_MAX = cpu.VALUE_MASK   // Largest immediate.
	ADDRESS_MAX   = cpu.OPERAND_MASK // Largest address.

	EXPRESSION_STEPS = 1 << 16 // Starlark steps allowed per $(...) expression.
)

var reIdentifier = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// labelDef is a label binding from the first pass.
type labelDef struct {
	Address int
	Pos     diag.Position
	Used    bool
}

// Encoder turns statements into program words.
type Encoder struct {
	Verbose bool       // Set to enable verbose logging.
	Table   *cpu.Table // Opcode table; nil for the default table.

	labels map[string]*labelDef
	order  []string
}

func (enc *Encoder) table() *cpu.Table {
	if enc.Table == nil {
		return cpu.DefaultTable()
	}
	return enc.Table
}

// Encode assembles statements into a program.
//
// The first pass binds labels to addresses, the second resolves operands
// and encodes the words. On any error the program is nil, and diags holds
// every encode error found. Warnings never fail the encode.
func (enc *Encoder) Encode(stmts []Statement) (prog *Program, diags diag.List) {
	enc.labels = map[string]*labelDef{}
	enc.order = nil

	diags = append(diags, enc.bindLabels(stmts)...)

	var words []cpu.Word
	var lines []diag.Position

	addr := 0
	for _, stmt := range stmts {
		if !stmt.IsInstruction() {
			continue
		}

		word, err := enc.encode(&stmt, addr)
		if err != nil {
			diags = append(diags, asDiagnostic(diag.KIND_ENCODE, stmt.Pos, err))
		} else if enc.Verbose {
			log.Printf("encode: %X: %02X %v", addr, uint8(word), &stmt)
		}

		words = append(words, word)
		lines = append(lines, stmt.Pos)
		addr++
	}

	var warnings diag.List
	for _, name := range enc.order {
		label := enc.labels[name]
		if !label.Used {
			warnings = append(warnings, diag.Warn(diag.KIND_ENCODE, label.Pos, ErrLabelUnused(name)))
		}
	}
	diags = append(diags, warnings...)

	if diags.HasErrors() {
		return
	}

	prog = &Program{
		Words:    words,
		Lines:    lines,
		Labels:   map[string]int{},
		Warnings: warnings,
		Table:    enc.table(),
	}
	for name, label := range enc.labels {
		prog.Labels[name] = label.Address
	}

	return
}

// bindLabels is the first pass.
func (enc *Encoder) bindLabels(stmts []Statement) (diags diag.List) {
	addr := 0
	for _, stmt := range stmts {
		for _, tok := range stmt.Labels {
			name := tok.Lexeme
			if prior, ok := enc.labels[name]; ok {
				diags = append(diags, diag.New(diag.KIND_ENCODE, tok.Pos, ErrLabelDuplicate{Label: name, LineNo: prior.Pos.Line}))
				continue
			}
			enc.labels[name] = &labelDef{Address: addr, Pos: tok.Pos}
			enc.order = append(enc.order, name)
		}

		if !stmt.IsInstruction() {
			continue
		}

		if addr == cpu.PROGRAM_SIZE {
			diags = append(diags, diag.New(diag.KIND_ENCODE, stmt.Pos, ErrProgramSize(cpu.PROGRAM_SIZE)))
		}
		addr++
	}

	return
}

// encode is the second pass for a single instruction.
func (enc *Encoder) encode(stmt *Statement, addr int) (word cpu.Word, err error) {
	ins := cpu.Instruction{Mnemonic: stmt.Mnemonic, Mode: cpu.MODE_NONE}

	var op Operand
	var value int64
	if len(stmt.Operands) != 0 {
		op = stmt.Operands[0]
		ins.Mode = op.Mode()
		value, err = enc.resolve(op, addr)
		if err != nil {
			return
		}
	}

	switch stmt.Mnemonic {
	case cpu.NOP:
		// pass
	case cpu.LDA, cpu.ADD, cpu.SUB:
		if ins.Mode == cpu.MODE_IMMEDIATE {
			ins.Operand, err = checkRange(op, value, IMMEDIATE_MIN, IMMEDIATE_MAX)
		} else {
			ins.Operand, err = checkRange(op, value, 0, ADDRESS_MAX)
		}
	case cpu.STA, cpu.JMP:
		ins.Operand, err = checkRange(op, value, 0, ADDRESS_MAX)
	case cpu.BRZ, cpu.BRC, cpu.BRN:
		if ins.Mode == cpu.MODE_ADDRESS {
			_, err = checkRange(op, value, 0, ADDRESS_MAX)
			if err != nil {
				return
			}
			// Branch targets become offsets from the branch itself.
			value = (value - int64(addr)) & cpu.OPERAND_MASK
			ins.Mode = cpu.MODE_IMMEDIATE
		}
		ins.Operand, err = checkRange(op, value, IMMEDIATE_MIN, IMMEDIATE_MAX)
	default:
		err = diag.New(diag.KIND_ENCODE, stmt.Pos, ErrInstructionInvalid)
	}
	if err != nil {
		return
	}

	word, err = enc.table().Assemble(ins)
	if err != nil {
		err = diag.New(diag.KIND_ENCODE, stmt.Pos, err)
	}

	return
}

// checkRange limits a value to [lo, hi], and folds negatives into the
// operand field as two's complement.
func checkRange(op Operand, value int64, lo int64, hi int64) (operand uint8, err error) {
	if value < lo || value > hi {
		err = diag.New(diag.KIND_ENCODE, op.Pos, ErrOperandOverflow{Value: value, Min: lo, Max: hi})
		return
	}
	operand = uint8(value) & cpu.OPERAND_MASK
	return
}

// resolve finds the value of an operand.
func (enc *Encoder) resolve(op Operand, addr int) (value int64, err error) {
	switch {
	case op.Kind == OPERAND_LABEL:
		label, ok := enc.labels[op.Label]
		if !ok {
			err = diag.New(diag.KIND_ENCODE, op.Pos, ErrLabelMissing(op.Label))
			return
		}
		label.Used = true
		value = int64(label.Address)
	case len(op.Expr) != 0:
		value, err = enc.parenEval(op.Expr, addr)
		if err != nil {
			err = diag.New(diag.KIND_ENCODE, op.Pos, ErrParseExpression{Expr: op.Expr, Err: err})
		}
	default:
		value = op.Value
	}

	return
}

// parenEval does compile-time $(...) evaluations.
//
// Every label is predeclared with its address, and PC with the address of
// the instruction being encoded.
func (enc *Encoder) parenEval(expr string, addr int) (value int64, err error) {
	thread := starlark.Thread{Name: "hmasm"}
	thread.SetMaxExecutionSteps(EXPRESSION_STEPS)
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"PC": starlark.MakeInt(addr),
	}
	for name, label := range enc.labels {
		pred[name] = starlark.MakeInt(label.Address)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	for _, name := range reIdentifier.FindAllString(expr, -1) {
		if label, ok := enc.labels[name]; ok {
			label.Used = true
		}
	}

	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrInternal
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrNotInteger(st_rc.Type())
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrNumberRange(st_int.String())
		return
	}

	return
}
