package types

import "sort"

// Kind tags the closed variant set every Type belongs to (§3, §9: a single
// closed variant dispatched by pattern match, not a class hierarchy).
type Kind int

const (
	KPrimitive Kind = iota
	KPointer
	KArray
	KAggregate
	KFunction
	KTypeVariable
	KDataType
	KModifier
)

func (k Kind) String() string {
	switch k {
	case KPrimitive:
		return "Primitive"
	case KPointer:
		return "Pointer"
	case KArray:
		return "Array"
	case KAggregate:
		return "Aggregate"
	case KFunction:
		return "Function"
	case KTypeVariable:
		return "TypeVariable"
	case KDataType:
		return "DataType"
	case KModifier:
		return "Modifier"
	default:
		return "?Kind"
	}
}

// Primitive enumerates the fixed set of leaf types (§3).
type Primitive int

const (
	I8 Primitive = iota
	I16
	I32
	I64
	INative
	U8
	U16
	U32
	U64
	UNative
	F16
	F32
	F64
	Char8
	Char32
	Bool
	Void
	TypeItself    // "a type itself" - the type of a first-class type value
	CandidateSet  // "a candidate-set of functions" - an unresolved overload set
)

var primitiveNames = map[Primitive]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", INative: "isz",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", UNative: "usz",
	F16: "f16", F32: "f32", F64: "f64",
	Char8: "c8", Char32: "c32",
	Bool: "bool", Void: "void",
	TypeItself:   "Type",
	CandidateSet: "Candidates",
}

func (p Primitive) String() string {
	if s, ok := primitiveNames[p]; ok {
		return s
	}
	return "?primitive"
}

// IsSignedInt, IsUnsignedInt, IsFloat classify a primitive for the
// coercion rules in §4.6 and for the numeric cluster test.
func (p Primitive) IsSignedInt() bool {
	switch p {
	case I8, I16, I32, I64, INative:
		return true
	}
	return false
}

func (p Primitive) IsUnsignedInt() bool {
	switch p {
	case U8, U16, U32, U64, UNative:
		return true
	}
	return false
}

func (p Primitive) IsInt() bool { return p.IsSignedInt() || p.IsUnsignedInt() }

func (p Primitive) IsFloat() bool {
	switch p {
	case F16, F32, F64:
		return true
	}
	return false
}

func (p Primitive) IsNumeric() bool { return p.IsInt() || p.IsFloat() }

// intWidths/floatWidths give the bit width §4.7 assigns to each primitive.
// INative/UNative report config.NativePointerWidth at call sites instead of
// a fixed table entry, since that width is a build-time fact, not a
// property of the primitive tag itself.
var intWidths = map[Primitive]int{
	I8: 8, I16: 16, I32: 32, I64: 64,
	U8: 8, U16: 16, U32: 32, U64: 64,
	Char8: 8, Char32: 32,
	Bool: 1,
}

var floatWidths = map[Primitive]int{F16: 16, F32: 32, F64: 64}

// AggregateShape distinguishes the four Aggregate member arrangements (§3).
type AggregateShape int

const (
	ShapeTuple AggregateShape = iota
	ShapeFunction
	ShapeMetaFunction
	ShapeFunctionList
)

func (s AggregateShape) String() string {
	switch s {
	case ShapeTuple:
		return "Tuple"
	case ShapeFunction:
		return "Function"
	case ShapeMetaFunction:
		return "MetaFunction"
	case ShapeFunctionList:
		return "FunctionList"
	default:
		return "?Shape"
	}
}

// DataTypeShape distinguishes a DataType's two nominal forms (§3).
type DataTypeShape int

const (
	ShapeRecord DataTypeShape = iota
	ShapeTaggedUnion
)

func (s DataTypeShape) String() string {
	if s == ShapeTaggedUnion {
		return "TaggedUnion"
	}
	return "Record"
}

// ModifierSet is an immutable, canonically-ordered set of modifier tokens
// (§4.2). The zero value is the empty set.
type ModifierSet struct {
	tokens string // pre-joined, sorted, space-separated; "" means empty
}

// NewModifierSet builds a canonical ModifierSet from an arbitrary token list.
func NewModifierSet(tokens ...string) ModifierSet {
	if len(tokens) == 0 {
		return ModifierSet{}
	}
	seen := make(map[string]bool, len(tokens))
	uniq := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	sort.Strings(uniq)
	joined := ""
	for i, t := range uniq {
		if i > 0 {
			joined += " "
		}
		joined += t
	}
	return ModifierSet{tokens: joined}
}

func (s ModifierSet) Empty() bool { return s.tokens == "" }

func (s ModifierSet) Has(tok string) bool {
	for _, t := range s.list() {
		if t == tok {
			return true
		}
	}
	return false
}

func (s ModifierSet) list() []string {
	if s.tokens == "" {
		return nil
	}
	out := []string{}
	start := 0
	for i := 0; i <= len(s.tokens); i++ {
		if i == len(s.tokens) || s.tokens[i] == ' ' {
			out = append(out, s.tokens[start:i])
			start = i + 1
		}
	}
	return out
}

// Added returns the canonical set with tok included, unchanged if already
// present (add_modifier is idempotent, §4.2).
func (s ModifierSet) Added(tok string) ModifierSet {
	if s.Has(tok) {
		return s
	}
	return NewModifierSet(append(s.list(), tok)...)
}

// Key returns the canonical string form used both for printing and as part
// of an interning key.
func (s ModifierSet) Key() string { return s.tokens }

// Prefix renders the ModifierPrefix grammar production: each token
// followed by a space, in canonical order.
func (s ModifierSet) Prefix() string {
	if s.tokens == "" {
		return ""
	}
	out := ""
	for _, t := range s.list() {
		out += t + " "
	}
	return out
}

func (s ModifierSet) Equal(other ModifierSet) bool { return s.tokens == other.tokens }
