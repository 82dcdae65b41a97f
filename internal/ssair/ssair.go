// Package ssair is the lowering collaborator: a minimal stand-in for the
// external SSA IR the compiler targets (§6 of the core spec). SSA emission
// and linking live outside this module; this package only carries the
// contract the type layer's lowering adapter (§4.8) and numeric-coercion
// callbacks (§4.6) need to hand off finished work.
package ssair

import "fmt"

// IRType is the external IR's own closed type representation. It is
// deliberately much flatter than the core Type: by the time something
// reaches here every generic has been resolved and every modifier has
// already done its job.
type IRType struct {
	Kind    IRKind
	Width   int      // Int/Float
	Signed  bool     // Int
	Elem    *IRType  // Pointer, Array
	Length  int      // Array
	Members []*IRType // Struct
	Name    string   // Struct (for debugging/printing only, not identity)
	Packed  bool     // Struct: true for a lowered tagged union
	Params  []*IRType // FuncPtr
	Return  *IRType   // FuncPtr
}

type IRKind int

const (
	IRVoid IRKind = iota
	IRInt
	IRFloat
	IRBool
	IRPointer
	IRArray
	IRStruct
	IRFuncPtr
	IROpaquePointer // lowering target for the "a type itself" primitive
)

func (t *IRType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case IRVoid:
		return "void"
	case IRBool:
		return "i1"
	case IRInt:
		sign := "i"
		if !t.Signed {
			sign = "u"
		}
		return fmt.Sprintf("%s%d", sign, t.Width)
	case IRFloat:
		return fmt.Sprintf("f%d", t.Width)
	case IRPointer:
		return t.Elem.String() + "*"
	case IRArray:
		return fmt.Sprintf("[%d x %s]", t.Length, t.Elem.String())
	case IRStruct:
		return "%" + t.Name
	case IRFuncPtr:
		return "funcptr"
	case IROpaquePointer:
		return "opaque*"
	default:
		return "?"
	}
}

// Struct constructs a named struct shell with no body yet. The lowering
// adapter installs the empty shell before translating members, so a
// self-referential DataType behind a pointer never recurses forever.
func Struct(name string, packed bool) *IRType {
	return &IRType{Kind: IRStruct, Name: name, Packed: packed}
}

// SetBody fills in a struct shell's members after they've been translated.
func (t *IRType) SetBody(members []*IRType) {
	t.Members = members
}

// CastOp names the numeric conversion instruction the IR builder emits for
// an implicit coercion (§4.6).
type CastOp int

const (
	CastSignExtend CastOp = iota
	CastZeroExtend
	CastFloatExtend
	CastSignedToFloat
	CastUnsignedToFloat
)

func (op CastOp) String() string {
	switch op {
	case CastSignExtend:
		return "sext"
	case CastZeroExtend:
		return "zext"
	case CastFloatExtend:
		return "fext"
	case CastSignedToFloat:
		return "sitofp"
	case CastUnsignedToFloat:
		return "uitofp"
	default:
		return "?cast"
	}
}

// Value is an opaque handle to whatever the real IR builder represents an
// SSA value with. The core never inspects it, only threads it through.
type Value interface{}

// Builder is implemented by the real SSA IR builder. The type layer's
// numeric-coercion callbacks call it to materialize a cast instruction;
// this module supplies no implementation, only the seam.
type Builder interface {
	EmitCast(op CastOp, v Value, to *IRType) Value
}
