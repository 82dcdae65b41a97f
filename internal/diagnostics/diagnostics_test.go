package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antecc/antec/internal/syntax"
)

func TestBagEmptyIgnoresWarnings(t *testing.T) {
	var b Bag
	assert.True(t, b.Empty())
	b.Warn(CodeAmbiguousMatch, syntax.Pos{}, "just a warning")
	assert.True(t, b.Empty(), "a warning alone must not make the bag non-empty")
	b.Report(CodeTypeMismatch, syntax.Pos{}, "a real error")
	assert.False(t, b.Empty())
}

func TestBagAllSortsByLocation(t *testing.T) {
	var b Bag
	b.Report(CodeTypeMismatch, syntax.Pos{File: "b.an", Line: 1, Column: 1}, "first file")
	b.Report(CodeTypeMismatch, syntax.Pos{File: "a.an", Line: 5, Column: 1}, "earlier file, later line")
	b.Report(CodeTypeMismatch, syntax.Pos{File: "a.an", Line: 2, Column: 9}, "earlier file, earlier line, later column")
	b.Report(CodeTypeMismatch, syntax.Pos{File: "a.an", Line: 2, Column: 3}, "earliest")

	all := b.All()
	assert.Len(t, all, 4)
	assert.Equal(t, "earliest", all[0].Message)
	assert.Equal(t, "earlier file, earlier line, later column", all[1].Message)
	assert.Equal(t, "earlier file, later line", all[2].Message)
	assert.Equal(t, "first file", all[3].Message)
}

func TestBagReportAssignsStableID(t *testing.T) {
	var b Bag
	b.Report(CodeTypeMismatch, syntax.Pos{}, "x")
	b.Report(CodeTypeMismatch, syntax.Pos{}, "y")
	all := b.All()
	assert.NotEmpty(t, all[0].ID)
	assert.NotEqual(t, all[0].ID, all[1].ID)
}

func TestFatalError(t *testing.T) {
	f := NewFatal(CodeRecursiveType, "type %q is infinite", "Node")
	assert.Equal(t, `recursive-type: type "Node" is infinite`, f.Error())
}

func TestCaretMeasuresPrefixAndClampsPastEnd(t *testing.T) {
	line := "let x = 1"
	assert.Equal(t, 3, Caret(line, 3))

	// Offset past the end of the line clamps to the full rendered width
	// instead of panicking on a bad byte index.
	assert.Equal(t, len(line), Caret(line, len(line)+50))
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Code: CodeTypeMismatch, Message: "nope", At: syntax.Pos{File: "f.an", Line: 3, Column: 4}}
	assert.Equal(t, "f.an:3:4: type-mismatch: nope", d.String())
}
