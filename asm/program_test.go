package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hmasm/cpu"
	"github.com/ezrec/hmasm/diag"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog, err := Assemble("LDA #1\n\n  ADD #3\nSTA (8)")
	if !assert.NoError(err) {
		return
	}

	pos, ok := prog.Debug(1)
	assert.True(ok)
	assert.Equal(diag.Position{Line: 3, Column: 3}, pos)

	_, ok = prog.Debug(3)
	assert.False(ok)
	_, ok = prog.Debug(-1)
	assert.False(ok)
}

func TestProgram_Dump(t *testing.T) {
	assert := assert.New(t)

	prog, err := Assemble("LDA #1\nADD #3\nSTA (8)")
	if !assert.NoError(err) {
		return
	}

	expected := []string{
		"Data Memory:",
		"1 3 8 0",
		"0 0 0 0",
		"0 0 0 0",
		"0 0 0 0",
		"Program Memory:",
		"1 4 3 0",
		"0 0 0 0",
		"0 0 0 0",
		"0 0 0 0",
		"",
	}
	assert.Equal(strings.Join(expected, "\n"), prog.Dump())

	bins := prog.Binary()
	assert.Len(bins, cpu.PROGRAM_SIZE)
	assert.Equal([]byte{0x11, 0x43, 0x38, 0x00}, bins[:4])
}

func TestProgram_String(t *testing.T) {
	assert := assert.New(t)

	prog, err := Assemble("start: LDA #1\nJMP start\nBRZ #F")
	if !assert.NoError(err) {
		return
	}

	listing := prog.String()
	assert.Contains(listing, "Program (3 words)")
	assert.Contains(listing, "start")
	assert.Contains(listing, "LDA #1")
	assert.Contains(listing, "JMP 00")
	assert.Contains(listing, "BRZ #F")
	assert.Contains(listing, "3:1")
}

func TestProgram_Decode(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Words: []cpu.Word{0x11, 0xc0}}

	_, err := prog.Decode()
	assert.ErrorIs(err, cpu.ErrInvalidOpcode)

	var fault *cpu.ErrFault
	if assert.True(errors.As(err, &fault)) {
		assert.Equal(1, fault.Pc)
	}
}
