package emulator

import (
	"github.com/ezrec/hmasm/diag"
	"github.com/ezrec/hmasm/translate"
)

var f = translate.From

type ErrMemorySize int

func (err ErrMemorySize) Error() string {
	return f("memory size %d outside of 1..16", int(err))
}

type ErrOverrun string

func (err ErrOverrun) Error() string {
	return f("overrun policy '%v' is not 'halt' or 'fault'", string(err))
}

type ErrCycles int

func (err ErrCycles) Error() string {
	return f("cycle count %d is negative", int(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pos diag.Position // Source position, if known.
	Pc  int
	Err error
}

func (err *ErrRuntime) Error() string {
	if err.Pos.Line == 0 {
		return f("pc %X %v", err.Pc, err.Err)
	}
	return f("line %d %v", err.Pos.Line, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// Diagnostic converts the runtime error for reporting.
func (err *ErrRuntime) Diagnostic() diag.Diagnostic {
	d := diag.New(diag.KIND_RUNTIME, err.Pos, err.Err)
	d.Index = err.Pc
	return d
}
