// Package syntax defines the contract exchanged between the parser
// collaborator and the type layer. Lexing and concrete-syntax parsing are
// out of scope for this module (see top-level spec); this package only
// carries the shape that `types.FromSyntactic` consumes, plus a source
// location so diagnostics can point back at user code.
package syntax

// Kind tags the shape of a TypeNode the parser handed the type layer.
type Kind int

const (
	KindNamed     Kind = iota // a bare identifier, optionally generic-applied: Ident, Ident<Args...>
	KindPointer               // Child "*"
	KindArray                 // Child "[Length]", Length == 0 means unknown/runtime length
	KindTuple                 // Children...
	KindFunction              // Children[:-1] are params, Children[len-1] is the return type
	KindTypeVar               // a lowercase identifier bound by an enclosing generic declaration
)

// Pos is a 1-based line/column pair into the originating source file.
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	if p.File == "" {
		return "?"
	}
	return p.File + ":" + itoa(p.Line) + ":" + itoa(p.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TypeNode is the syntactic type expression the parser hands to
// types.FromSyntactic. It intentionally carries no resolved identity: the
// type layer is the only place a canonical Type gets constructed.
type TypeNode struct {
	Kind      Kind
	Ident     string      // KindNamed, KindTypeVar
	Args      []*TypeNode // generic instantiation arguments, KindNamed only
	Children  []*TypeNode // KindPointer/KindArray/KindTuple/KindFunction members
	Length    int         // KindArray; 0 means unknown/runtime length
	Modifiers []string    // modifier tokens attached at this syntax position
	IsMeta    bool         // KindFunction: declared with the meta-function sigil
	At        Pos
}
