package asm

import (
	"errors"
	"strings"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/translate"
)

var f = translate.From

var (
	// Lexer errors
	ErrNumberMissing     = errors.New(f("number missing"))
	ErrParenMissing      = errors.New(f("')' missing"))
	ErrExpressionLonely  = errors.New(f("$( without )"))
	ErrExpressionMissing = errors.New(f("'$' not followed by '('"))

	// Encoder errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Assembler errors
	ErrInternal = errors.New(f("internal assembler error"))
)

type ErrCharacter rune

func (err ErrCharacter) Error() string {
	return f("unexpected character %q", rune(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a hexadecimal number", string(err))
}

type ErrNumberRange string

func (err ErrNumberRange) Error() string {
	return f("'%v' is too large", string(err))
}

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("unknown mnemonic '%v'", string(err))
}

// ErrExpected is a token that does not fit the statement grammar.
type ErrExpected struct {
	Expected string
	Found    Token
}

func (err ErrExpected) Error() string {
	return f("expected %v, found %v", err.Expected, err.Found.String())
}

// ErrOperandCount is an instruction with the wrong number of operands.
type ErrOperandCount struct {
	Mnemonic cpu.Mnemonic
	Want     int
	Found    int
}

func (err ErrOperandCount) Error() string {
	return f("%v takes %d operand(s), found %d", err.Mnemonic, err.Want, err.Found)
}

// ErrOperandShape is an operand in a mode the mnemonic does not accept.
type ErrOperandShape struct {
	Mnemonic cpu.Mnemonic
	Modes    []cpu.Mode
	Found    Operand
}

func (err ErrOperandShape) Error() string {
	modes := make([]string, 0, len(err.Modes))
	for _, mode := range err.Modes {
		modes = append(modes, mode.String())
	}
	return f("%v operand must be %v, found %v", err.Mnemonic, strings.Join(modes, f(" or ")), err.Found.Describe())
}

type ErrLabelDuplicate struct {
	Label  string
	LineNo int
}

func (err ErrLabelDuplicate) Error() string {
	return f("label %v already defined on line %d", err.Label, err.LineNo)
}

type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

type ErrLabelUnused string

func (err ErrLabelUnused) Error() string {
	return f("label %v never referenced", string(err))
}

type ErrProgramSize int

func (err ErrProgramSize) Error() string {
	return f("program longer than %d words", int(err))
}

// ErrOperandOverflow is an operand value wider than its field.
type ErrOperandOverflow struct {
	Value int64
	Min   int64
	Max   int64
}

func (err ErrOperandOverflow) Error() string {
	return f("operand %d outside of %d..%d", err.Value, err.Min, err.Max)
}

type ErrNotInteger string

func (err ErrNotInteger) Error() string {
	return f("expression is a %v, not an int", string(err))
}

type ErrParseExpression struct {
	Expr string
	Err  error
}

func (err ErrParseExpression) Error() string {
	if err.Err == nil {
		return f("$(%v) is not a valid expression", err.Expr)
	}
	return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
}

func (err ErrParseExpression) Unwrap() error {
	return err.Err
}
