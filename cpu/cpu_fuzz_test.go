package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzExecute(f *testing.F) {
	for rv := range 0x10 {
		f.Add(uint8(rv<<4), uint8(rv), uint8(rv&7), uint8(MEMORY_SIZE))
		f.Add(uint8(rv<<4|0xf), uint8(0xf-rv), uint8(0), uint8(8))
	}

	f.Fuzz(func(t *testing.T, opcode uint8, a uint8, flags uint8, size uint8) {
		assert := assert.New(t)

		cpu := NewCpu(int(size & 0x1f))
		cpu.Program = []Word{0x00, 0x00, Word(opcode)}
		cpu.Pc = 2
		cpu.Register[REG_A] = a & VALUE_MASK
		cpu.Flags = Flags{
			Carry:    (flags & 1) != 0,
			Zero:     (flags & 2) != 0,
			Negative: (flags & 4) != 0,
		}
		for n := range cpu.Memory {
			cpu.Memory[n] = uint8(n) & VALUE_MASK
		}

		err := cpu.Execute(Word(opcode))

		code_str := fmt.Sprintf("0x%02x a:%x flags:%v size:%d\ncpu:%v",
			opcode, a, cpu.Flags, size, cpu.String())

		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidOpcode):
				_, derr := cpu.Table.Decode(Word(opcode))
				assert.Error(derr, code_str)
			case errors.Is(err, ErrOutOfBounds):
				assert.GreaterOrEqual(int(opcode&0xf), len(cpu.Memory), code_str)
			default:
				assert.NoError(err, code_str)
			}
			assert.Equal(2, cpu.Pc, code_str)
			return
		}

		assert.LessOrEqual(cpu.A(), uint8(VALUE_MASK), code_str)
		assert.GreaterOrEqual(cpu.Pc, 0, code_str)
		assert.Less(cpu.Pc, PROGRAM_SIZE, code_str)
		for _, v := range cpu.Memory {
			assert.LessOrEqual(v, uint8(VALUE_MASK), code_str)
		}

		enc, _ := cpu.Table.Decode(Word(opcode))
		switch enc.Mnemonic {
		case LDA, ADD, SUB:
			assert.Equal(cpu.A() == 0, cpu.Flags.Zero, code_str)
			assert.Equal((cpu.A()&0x8) != 0, cpu.Flags.Negative, code_str)
		}
	})
}
