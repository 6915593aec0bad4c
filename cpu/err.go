package cpu

import (
	"errors"

	"github.com/ezrec/hmasm/translate"
)

var f = translate.From

var (
	// Run time faults
	ErrInvalidOpcode = errors.New(f("invalid opcode"))
	ErrOutOfBounds   = errors.New(f("address out of bounds"))
	ErrPcOutOfRange  = errors.New(f("program counter out of range"))

	// Encoding errors
	ErrOperandRange = errors.New(f("operand does not fit the operand field"))
)

// ErrAddress is a data memory access outside of the memory.
type ErrAddress struct {
	Address int
	Size    int
}

func (err ErrAddress) Error() string {
	return f("address 0x%X outside of memory size %d", err.Address, err.Size)
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrOutOfBounds
}

// ErrFault locates a run time fault at the faulting word.
type ErrFault struct {
	Pc   int
	Word Word
	Err  error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%X word 0x%02X: %v", err.Pc, uint8(err.Word), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
