package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachine(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(MEMORY_SIZE)
	assert.Equal(MEMORY_SIZE, len(m.Memory))
	assert.Equal(0, m.Pc)
	assert.Equal(uint8(0), m.A())
	assert.Equal(STATUS_RUNNING, m.Status)
	assert.Equal(Flags{}, m.Flags)
	for _, v := range m.Memory {
		assert.Equal(uint8(0), v)
	}
}

func TestMachine_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(8)

	err := m.Write(7, 0x1c)
	assert.NoError(err)
	assert.Equal(&Access{Address: 7, Value: 0xc, Write: true}, m.Access)

	v, err := m.Read(7)
	assert.NoError(err)
	assert.Equal(uint8(0xc), v)
	assert.Equal(&Access{Address: 7, Value: 0xc}, m.Access)

	_, err = m.Read(8)
	assert.ErrorIs(err, ErrOutOfBounds)
	var ea ErrAddress
	assert.True(errors.As(err, &ea))
	assert.Equal(ErrAddress{Address: 8, Size: 8}, ea)

	err = m.Write(-1, 0)
	assert.ErrorIs(err, ErrOutOfBounds)
}

func TestMachine_CloneReset(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(4)
	m.Register[REG_A] = 5
	m.Pc = 2
	assert.NoError(m.Write(1, 9))

	dup := m.Clone()
	assert.Equal(m, dup)

	dup.Memory[1] = 3
	dup.Access.Value = 3
	assert.Equal(uint8(9), m.Memory[1])
	assert.Equal(uint8(9), m.Access.Value)

	m.Status = STATUS_HALTED
	m.Reset()
	assert.Equal(NewMachine(4), m)
}

func TestFlags_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("---", Flags{}.String())
	assert.Equal("CZN", Flags{Carry: true, Zero: true, Negative: true}.String())
	assert.Equal("-Z-", Flags{Zero: true}.String())
}
