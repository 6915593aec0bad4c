// Package diag holds the position tagged diagnostics reported by every
// phase of the assembler and the simulator.
//
// A phase never stops at its first problem: it collects a List of
// Diagnostic values and returns the List as its error.
package diag

import (
	"strings"

	"github.com/ezrec/hmasm/translate"
)

var f = translate.From

// Kind is the phase that produced a diagnostic.
type Kind int

const (
	KIND_LEX     = Kind(0) // lex error
	KIND_PARSE   = Kind(1) // parse error
	KIND_ENCODE  = Kind(2) // encode error
	KIND_RUNTIME = Kind(3) // runtime error
)

func (k Kind) String() string {
	switch k {
	case KIND_LEX:
		return f("lex error")
	case KIND_PARSE:
		return f("parse error")
	case KIND_ENCODE:
		return f("encode error")
	case KIND_RUNTIME:
		return f("runtime error")
	}
	return f("kind %d", int(k))
}

// Severity separates fatal diagnostics from advisory ones.
type Severity int

const (
	SEVERITY_ERROR   = Severity(0)
	SEVERITY_WARNING = Severity(1)
)

func (s Severity) String() string {
	if s == SEVERITY_WARNING {
		return f("warning")
	}
	return f("error")
}

// Position is a 1-based source location. A zero Line means unknown.
type Position struct {
	Line   int
	Column int
}

func (pos Position) String() string {
	if pos.Line == 0 {
		return "-"
	}
	return f("%d:%d", pos.Line, pos.Column)
}

// Diagnostic is a single problem report.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Pos      Position
	Index    int // Instruction index, or -1 when not applicable.
	Err      error
}

// New creates an error diagnostic at a source position.
func New(kind Kind, pos Position, err error) Diagnostic {
	return Diagnostic{
		Kind:  kind,
		Pos:   pos,
		Index: -1,
		Err:   err,
	}
}

// Warn creates a warning diagnostic at a source position.
func Warn(kind Kind, pos Position, err error) Diagnostic {
	d := New(kind, pos, err)
	d.Severity = SEVERITY_WARNING
	return d
}

// Message is the bare description, without position or kind.
func (d Diagnostic) Message() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}

func (d Diagnostic) Error() string {
	kind := d.Kind.String()
	if d.Severity == SEVERITY_WARNING {
		kind = f("%v %v", kind, d.Severity)
	}
	if d.Pos.Line == 0 && d.Index >= 0 {
		return f("instruction %d: %v: %v", d.Index, kind, d.Message())
	}
	return f("line %v: %v: %v", d.Pos, kind, d.Message())
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// List is an ordered collection of diagnostics. A non-empty List is an error.
type List []Diagnostic

func (l List) Error() string {
	lines := make([]string, 0, len(l))
	for _, d := range l {
		lines = append(lines, d.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes every diagnostic to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, 0, len(l))
	for _, d := range l {
		errs = append(errs, d)
	}
	return errs
}

// Errors returns only the error severity diagnostics.
func (l List) Errors() (out List) {
	for _, d := range l {
		if d.Severity == SEVERITY_ERROR {
			out = append(out, d)
		}
	}
	return
}

// Warnings returns only the warning severity diagnostics.
func (l List) Warnings() (out List) {
	for _, d := range l {
		if d.Severity == SEVERITY_WARNING {
			out = append(out, d)
		}
	}
	return
}

// HasErrors is true if any diagnostic is an error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SEVERITY_ERROR {
			return true
		}
	}
	return false
}

// Err returns the list as an error if it holds any errors, or nil.
func (l List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}
