package asm

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

func parse(source string) ([]Statement, diag.List) {
	tokens, diags := Tokens(source)
	if diags.HasErrors() {
		return nil, diags
	}
	parser := &Parser{}
	return parser.Parse(slices.Values(tokens))
}

func TestParser(t *testing.T) {
	assert := assert.New(t)

	stmts, diags := parse("start:\nloop: lda #1\n  sta ($(2*4))\nNOP\n\nBRZ loop")
	assert.Empty(diags)
	if !assert.Len(stmts, 5) {
		return
	}

	assert.False(stmts[0].IsInstruction())
	assert.Equal("start:", stmts[0].String())

	assert.Equal(cpu.LDA, stmts[1].Mnemonic)
	assert.Equal(diag.Position{Line: 2, Column: 1}, stmts[1].Pos)
	assert.Equal([]Operand{{Kind: OPERAND_IMMEDIATE, Value: 1, Pos: diag.Position{Line: 2, Column: 11}}}, stmts[1].Operands)
	assert.Equal("loop: LDA #1", stmts[1].String())

	assert.Equal(cpu.STA, stmts[2].Mnemonic)
	assert.Equal(diag.Position{Line: 3, Column: 3}, stmts[2].Pos)
	assert.Equal("2*4", stmts[2].Operands[0].Expr)
	assert.Equal(cpu.MODE_MEMORY, stmts[2].Operands[0].Mode())

	assert.Equal(cpu.NOP, stmts[3].Mnemonic)
	assert.Empty(stmts[3].Operands)

	assert.Equal(cpu.BRZ, stmts[4].Mnemonic)
	assert.Equal(OPERAND_LABEL, stmts[4].Operands[0].Kind)
	assert.Equal("loop", stmts[4].Operands[0].Label)
	assert.Equal(cpu.MODE_ADDRESS, stmts[4].Operands[0].Mode())
}

func TestParser_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		column int
		err    any
	}){
		{"LDA dkfljlsdkfjsdf", 5, &ErrOperandShape{}},
		{"FOO #1", 1, new(ErrMnemonicUnknown)},
		{"LDA", 1, &ErrOperandCount{}},
		{"NOP #1", 5, &ErrOperandCount{}},
		{"LDA #1, #2", 9, &ErrOperandCount{}},
		{"LDA #1 #2", 8, &ErrExpected{}},
		{"LDA , #1", 5, &ErrExpected{}},
		{"LDA #1,", 7, &ErrExpected{}},
		{"#1", 1, &ErrExpected{}},
		{"LDA x: #1", 5, &ErrExpected{}},
		{"JMP #3", 5, &ErrOperandShape{}},
		{"STA #3", 5, &ErrOperandShape{}},
		{"BRC (3)", 5, &ErrOperandShape{}},
	}

	for _, entry := range table {
		stmts, diags := parse(entry.source)
		assert.Empty(stmts, entry.source)
		if !assert.Len(diags, 1, entry.source) {
			continue
		}
		d := diags[0]
		assert.Equal(diag.KIND_PARSE, d.Kind, entry.source)
		assert.Equal(diag.Position{Line: 1, Column: entry.column}, d.Pos, entry.source)
		assert.True(errors.As(d, entry.err), entry.source)
	}
}

func TestParser_OneErrorPerLine(t *testing.T) {
	assert := assert.New(t)

	stmts, diags := parse("FOO BAR, BAZ QUX\nLDA #1\nLDA #1 #2 #3\nSTA")
	assert.Len(stmts, 1)
	assert.Len(diags, 3)

	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Pos.Line)
	}
	assert.Equal([]int{1, 3, 4}, lines)
}

func TestParser_Message(t *testing.T) {
	assert := assert.New(t)

	_, diags := parse("LDA dkfljlsdkfjsdf")
	if assert.Len(diags, 1) {
		assert.Equal("line 1:5: parse error: LDA operand must be immediate or memory, found label reference 'dkfljlsdkfjsdf'", diags[0].Error())
	}
}

func TestParser_Unterminated(t *testing.T) {
	assert := assert.New(t)

	tokens := []Token{
		{Kind: TOKEN_MNEMONIC, Lexeme: "LDA", Pos: diag.Position{Line: 1, Column: 1}},
		{Kind: TOKEN_IMMEDIATE, Lexeme: "5", Pos: diag.Position{Line: 1, Column: 5}},
	}

	parser := &Parser{}
	stmts, diags := parser.Parse(slices.Values(tokens))
	assert.Empty(diags)
	if assert.Len(stmts, 1) {
		assert.Equal(int64(5), stmts[0].Operands[0].Value)
	}
}

func TestOperand_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("#C", Operand{Kind: OPERAND_IMMEDIATE, Value: 12}.String())
	assert.Equal("(8)", Operand{Kind: OPERAND_MEMORY, Value: 8}.String())
	assert.Equal("A", Operand{Kind: OPERAND_ADDRESS, Value: 10}.String())
	assert.Equal("#$(x+1)", Operand{Kind: OPERAND_IMMEDIATE, Expr: "x+1"}.String())
	assert.Equal("loop", Operand{Kind: OPERAND_LABEL, Label: "loop"}.String())
	assert.Equal("address '3'", Operand{Kind: OPERAND_ADDRESS, Value: 3}.Describe())
}
