// Package diagnostics collects the non-fatal errors the type layer raises
// (§7 of the core spec) into a per-run buffer keyed by source location, so
// a single compilation can report every problem it finds instead of
// stopping at the first one.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/antecc/antec/internal/syntax"
)

// Code identifies the kind of problem a Diagnostic reports. These line up
// with the error kinds the core type layer defines.
type Code string

const (
	CodeIncompleteType  Code = "incomplete-type"
	CodeRecursiveType   Code = "recursive-type"
	CodeUnboundTypeVar  Code = "unbound-type-var"
	CodeTypeMismatch    Code = "type-mismatch"
	CodeAmbiguousMatch  Code = "ambiguous-match"
	CodeUnknownPrimitive Code = "unknown-primitive" // fatal, surfaced only for a crash report
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	ID       string // stable per-run identity, for tooling that needs to dedupe across passes
	Code     Code
	Message  string
	At       syntax.Pos
	Severity Severity
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Caret returns a column offset suitable for underlining the offending
// token in a monospace terminal, accounting for multi-byte grapheme
// clusters in the source line (tabs, combining marks, wide CJK glyphs).
func Caret(sourceLine string, byteOffset int) int {
	if byteOffset <= 0 || byteOffset > len(sourceLine) {
		return uniseg.StringWidth(sourceLine)
	}
	return uniseg.StringWidth(sourceLine[:byteOffset])
}

// Bag accumulates diagnostics for one compilation unit. Zero value is ready
// to use; a Bag is never shared across units (mirrors §5: the arena is
// process-wide, but per-file diagnostics are not).
type Bag struct {
	entries []Diagnostic
}

func (b *Bag) Report(code Code, at syntax.Pos, format string, args ...interface{}) {
	b.entries = append(b.entries, Diagnostic{
		ID:      uuid.NewString(),
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		At:      at,
	})
}

func (b *Bag) Warn(code Code, at syntax.Pos, format string, args ...interface{}) {
	b.entries = append(b.entries, Diagnostic{
		ID:       uuid.NewString(),
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		At:       at,
		Severity: SeverityWarning,
	})
}

// Empty reports whether no error-severity diagnostics were recorded.
func (b *Bag) Empty() bool {
	for _, d := range b.entries {
		if d.Severity == SeverityError {
			return false
		}
	}
	return true
}

// All returns diagnostics sorted by file, then line, then column, so a
// report reads top-to-bottom regardless of the order passes ran in.
func (b *Bag) All() []Diagnostic {
	out := make([]Diagnostic, len(b.entries))
	copy(out, b.entries)
	sort.Slice(out, func(i, j int) bool {
		a, c := out[i].At, out[j].At
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Line != c.Line {
			return a.Line < c.Line
		}
		return a.Column < c.Column
	})
	return out
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.At.String(), d.Code, d.Message)
}

// Fatal is raised for a problem fatal to the enclosing operation (not the
// whole compiler): sizing or lowering a stub, an unbound type variable, or a
// type that contains itself without a pointer, and a self-referential
// type-variable binding during equivalence.
type Fatal struct {
	Code    Code
	Message string
}

func (e *Fatal) Error() string { return string(e.Code) + ": " + e.Message }

func NewFatal(code Code, format string, args ...interface{}) *Fatal {
	return &Fatal{Code: code, Message: fmt.Sprintf(format, args...)}
}
