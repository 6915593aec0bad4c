package asm

import (
	"fmt"
	"iter"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

// MNEMONIC_NONE marks a statement that only defines labels.
const MNEMONIC_NONE = cpu.Mnemonic(-1)

// OperandKind is the syntactic form of an operand.
type OperandKind int

const (
	OPERAND_IMMEDIATE = OperandKind(iota) // #n
	OPERAND_MEMORY                        // (n)
	OPERAND_ADDRESS                       // n
	OPERAND_LABEL                         // LABEL
)

// Operand is a single instruction operand.
//
// A numeric operand has either a literal Value, or a $(...) Expr that the
// encoder evaluates.
type Operand struct {
	Kind  OperandKind
	Value int64
	Expr  string
	Label string
	Pos   diag.Position
}

// Mode returns the addressing mode the operand is written in.
func (op Operand) Mode() cpu.Mode {
	switch op.Kind {
	case OPERAND_IMMEDIATE:
		return cpu.MODE_IMMEDIATE
	case OPERAND_MEMORY:
		return cpu.MODE_MEMORY
	}
	return cpu.MODE_ADDRESS
}

func (op Operand) number() string {
	if len(op.Expr) != 0 {
		return "$(" + op.Expr + ")"
	}
	return strings.ToUpper(strconv.FormatInt(op.Value, 16))
}

// String returns the operand in assembly language form.
func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_IMMEDIATE:
		return "#" + op.number()
	case OPERAND_MEMORY:
		return "(" + op.number() + ")"
	case OPERAND_LABEL:
		return op.Label
	}
	return op.number()
}

// Describe names the operand for messages.
func (op Operand) Describe() string {
	var kind string
	switch op.Kind {
	case OPERAND_IMMEDIATE:
		kind = f("immediate")
	case OPERAND_MEMORY:
		kind = f("memory reference")
	case OPERAND_LABEL:
		kind = f("label reference")
	default:
		kind = f("address")
	}
	return fmt.Sprintf("%v '%v'", kind, op.String())
}

// Statement is one parsed source line.
type Statement struct {
	Labels   []Token // TOKEN_LABEL definitions on the line.
	Mnemonic cpu.Mnemonic
	Operands []Operand
	Pos      diag.Position
}

// IsInstruction is true if the statement occupies a program word.
func (stmt *Statement) IsInstruction() bool {
	return stmt.Mnemonic != MNEMONIC_NONE
}

func (stmt *Statement) String() string {
	var parts []string
	for _, label := range stmt.Labels {
		parts = append(parts, label.Source())
	}
	if stmt.IsInstruction() {
		parts = append(parts, stmt.Mnemonic.String())
		for n, op := range stmt.Operands {
			if n > 0 {
				parts[len(parts)-1] += ","
			}
			parts = append(parts, op.String())
		}
	}
	return strings.Join(parts, " ")
}

// Parser groups tokens into statements, and checks each statement's shape
// against an opcode table.
type Parser struct {
	Verbose bool       // Set to enable verbose logging.
	Table   *cpu.Table // Opcode table; nil for the default table.
}

func (p *Parser) table() *cpu.Table {
	if p.Table == nil {
		return cpu.DefaultTable()
	}
	return p.Table
}

// Parse parses a token sequence into statements.
//
// Each line reports at most one parse error, and parsing resumes on the
// next line. Lines with errors produce no statement.
func (p *Parser) Parse(tokens iter.Seq[Token]) (stmts []Statement, diags diag.List) {
	var line []Token

	for tok := range tokens {
		if tok.Kind != TOKEN_LINE_END {
			line = append(line, tok)
			continue
		}

		stmt, ok, err := p.parseLine(line)
		line = line[:0]

		if err != nil {
			diags = append(diags, asDiagnostic(diag.KIND_PARSE, tok.Pos, err))
			continue
		}
		if ok {
			if p.Verbose {
				log.Printf("parse: %v: %v", stmt.Pos, &stmt)
			}
			stmts = append(stmts, stmt)
		}
	}

	// A sequence not terminated by a line end.
	if len(line) != 0 {
		stmt, ok, err := p.parseLine(line)
		if err != nil {
			diags = append(diags, asDiagnostic(diag.KIND_PARSE, line[0].Pos, err))
		} else if ok {
			stmts = append(stmts, stmt)
		}
	}

	return
}

// parseLine parses the tokens of one line. ok is false for a blank line.
func (p *Parser) parseLine(line []Token) (stmt Statement, ok bool, err error) {
	if len(line) == 0 {
		return
	}

	stmt.Mnemonic = MNEMONIC_NONE
	stmt.Pos = line[0].Pos

	for len(line) != 0 && line[0].Kind == TOKEN_LABEL {
		stmt.Labels = append(stmt.Labels, line[0])
		line = line[1:]
	}

	if len(line) == 0 {
		ok = true
		return
	}

	tok := line[0]
	if tok.Kind != TOKEN_MNEMONIC {
		err = diag.New(diag.KIND_PARSE, tok.Pos, ErrExpected{Expected: f("mnemonic"), Found: tok})
		return
	}

	m, found := cpu.LookupMnemonic(tok.Lexeme)
	if !found {
		err = diag.New(diag.KIND_PARSE, tok.Pos, ErrMnemonicUnknown(tok.Lexeme))
		return
	}
	stmt.Mnemonic = m
	if len(stmt.Labels) == 0 {
		stmt.Pos = tok.Pos
	}

	stmt.Operands, err = p.parseOperands(line[1:])
	if err != nil {
		return
	}

	err = p.checkShape(&stmt, tok.Pos)
	if err != nil {
		return
	}

	ok = true
	return
}

// parseOperands parses a comma separated operand list.
func (p *Parser) parseOperands(line []Token) (ops []Operand, err error) {
	expectOperand := true
	for _, tok := range line {
		if expectOperand {
			if !tok.Kind.IsOperand() {
				err = diag.New(diag.KIND_PARSE, tok.Pos, ErrExpected{Expected: f("operand"), Found: tok})
				return
			}
			var op Operand
			op, err = makeOperand(tok)
			if err != nil {
				err = diag.New(diag.KIND_PARSE, tok.Pos, err)
				return
			}
			ops = append(ops, op)
			expectOperand = false
			continue
		}

		if tok.Kind != TOKEN_COMMA {
			err = diag.New(diag.KIND_PARSE, tok.Pos, ErrExpected{Expected: f("','"), Found: tok})
			return
		}
		expectOperand = true
	}

	// Trailing comma
	if expectOperand && len(line) != 0 {
		last := line[len(line)-1]
		err = diag.New(diag.KIND_PARSE, last.Pos, ErrExpected{Expected: f("operand"), Found: Token{Kind: TOKEN_LINE_END, Pos: last.Pos}})
		return
	}

	return
}

// makeOperand converts an operand token.
func makeOperand(tok Token) (op Operand, err error) {
	op.Pos = tok.Pos

	switch tok.Kind {
	case TOKEN_IMMEDIATE:
		op.Kind = OPERAND_IMMEDIATE
	case TOKEN_INDIRECT:
		op.Kind = OPERAND_MEMORY
	case TOKEN_DIRECT:
		op.Kind = OPERAND_ADDRESS
	case TOKEN_LABEL_REF:
		op.Kind = OPERAND_LABEL
		op.Label = tok.Lexeme
		return
	default:
		err = ErrExpected{Expected: f("operand"), Found: tok}
		return
	}

	if strings.HasPrefix(tok.Lexeme, "$(") {
		op.Expr = tok.Lexeme[2 : len(tok.Lexeme)-1]
		return
	}

	value, err := strconv.ParseUint(tok.Lexeme, 16, 32)
	if err != nil {
		err = ErrParseNumber(tok.Lexeme)
		return
	}
	op.Value = int64(value)

	return
}

// checkShape verifies the operand count and addressing modes.
func (p *Parser) checkShape(stmt *Statement, pos diag.Position) (err error) {
	modes := p.table().Modes(stmt.Mnemonic)
	if len(modes) == 0 {
		err = diag.New(diag.KIND_PARSE, pos, ErrMnemonicUnknown(stmt.Mnemonic.String()))
		return
	}

	want := 1
	if slices.Contains(modes, cpu.MODE_NONE) {
		want = 0
	}

	if len(stmt.Operands) != want {
		if len(stmt.Operands) > want {
			pos = stmt.Operands[want].Pos
		}
		err = diag.New(diag.KIND_PARSE, pos, ErrOperandCount{
			Mnemonic: stmt.Mnemonic,
			Want:     want,
			Found:    len(stmt.Operands),
		})
		return
	}

	for _, op := range stmt.Operands {
		if !slices.Contains(modes, op.Mode()) {
			err = diag.New(diag.KIND_PARSE, op.Pos, ErrOperandShape{
				Mnemonic: stmt.Mnemonic,
				Modes:    modes,
				Found:    op,
			})
			return
		}
	}

	return
}
