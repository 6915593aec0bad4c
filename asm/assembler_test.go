package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	if assert.NotNil(prog) {
		assert.Equal(0, prog.Len())
	}

	prog, err = asm.Parse(strings.NewReader("; nothing\n\n   \n"))
	assert.NoError(err)
	if assert.NotNil(prog) {
		assert.Equal(0, prog.Len())
	}
}

func TestAssembler_Scenario(t *testing.T) {
	assert := assert.New(t)

	prog, err := Assemble("LDA #1\nADD #3\nSTA (8)\n")
	assert.NoError(err)
	if !assert.NotNil(prog) {
		return
	}

	assert.Equal(3, prog.Len())
	assert.Equal([]cpu.Word{0x11, 0x43, 0x38}, prog.Words)
	assert.Equal([]diag.Position{{Line: 1, Column: 1}, {Line: 2, Column: 1}, {Line: 3, Column: 1}}, prog.Lines)
	assert.Empty(prog.Warnings)
}

func TestAssembler_PhaseStops(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		kind   diag.Kind
		count  int
	}){
		// Lex errors hide the parse error on line 2, and the encode error on line 3.
		{"LDA @\nFOO\nJMP nowhere\nSTA (", diag.KIND_LEX, 2},
		// Parse errors hide the encode error on line 2.
		{"FOO\nJMP nowhere\nLDA x", diag.KIND_PARSE, 2},
		{"JMP nowhere\nLDA #20", diag.KIND_ENCODE, 2},
	}

	for _, entry := range table {
		prog, err := Assemble(entry.source)
		assert.Nil(prog, entry.source)

		var diags diag.List
		if !assert.True(errors.As(err, &diags), entry.source) {
			continue
		}
		assert.Len(diags, entry.count, entry.source)
		for _, d := range diags {
			assert.Equal(entry.kind, d.Kind, entry.source)
			assert.Equal(diag.SEVERITY_ERROR, d.Severity, entry.source)
		}
	}
}

func TestAssembler_NonsenseOperand(t *testing.T) {
	assert := assert.New(t)

	prog, err := Assemble("LDA dkfljlsdkfjsdf")
	assert.Nil(prog)

	var diags diag.List
	if assert.True(errors.As(err, &diags)) && assert.Len(diags, 1) {
		assert.Equal(diag.KIND_PARSE, diags[0].Kind)
		assert.Equal(1, diags[0].Pos.Line)
	}
}

func TestAssembler_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := cpu.DefaultTable()

	var words []cpu.Word
	var lines []string
	for n := range 0x100 {
		word := cpu.Word(n)
		ins, err := table.Disassemble(word)
		if err != nil {
			continue
		}
		words = append(words, word)
		lines = append(lines, ins.String())
	}

	// Programs are at most 16 words long.
	for len(words) > 0 {
		count := min(len(words), cpu.PROGRAM_SIZE)
		source := strings.Join(lines[:count], "\n")

		prog, err := Assemble(source)
		if assert.NoError(err, source) {
			assert.Equal(words[:count], prog.Words, source)

			inss, err := prog.Decode()
			assert.NoError(err)
			for n, ins := range inss {
				assert.Equal(lines[n], ins.String())
			}
		}

		words = words[count:]
		lines = lines[count:]
	}
}

func TestAssembler_Table(t *testing.T) {
	assert := assert.New(t)

	// The parser rejects mnemonics missing from the table.
	asm := &Assembler{
		Table: cpu.NewTable(cpu.Encoding{Opcode: 0x0, Mnemonic: cpu.NOP, Mode: cpu.MODE_NONE}),
	}

	prog, err := asm.Assemble("NOP\nBRZ #1")
	assert.Nil(prog)
	assert.ErrorIs(err, ErrMnemonicUnknown("BRZ"))

	prog, err = asm.Assemble("NOP")
	assert.NoError(err)
	assert.Equal([]cpu.Word{0x00}, prog.Words)
}

func FuzzAssemble(f *testing.F) {
	f.Add("LDA #1\nADD #3\nSTA (8)")
	f.Add("loop: BRZ loop\nJMP $(loop+1)")
	f.Add("LDA dkfljlsdkfjsdf")
	f.Add("x: x: (((#$(")

	f.Fuzz(func(t *testing.T, source string) {
		assert := assert.New(t)

		prog, err := Assemble(source)
		if err != nil {
			assert.Nil(prog, source)
			var diags diag.List
			assert.True(errors.As(err, &diags), source)
			assert.True(diags.HasErrors(), source)
			return
		}

		if assert.NotNil(prog, source) {
			assert.LessOrEqual(prog.Len(), cpu.PROGRAM_SIZE, source)
			_, err = prog.Decode()
			assert.NoError(err, source)
		}
	})
}
