package types

import "strings"

// Type is the interned, closed tagged variant every part of the compiler
// shares (§3). Two structurally-identical Types are always the same *Type
// value (I1); never compare Types with reflect.DeepEqual, compare pointers.
type Type struct {
	Kind Kind

	// KPrimitive
	Prim Primitive

	// KPointer, KArray: element type.
	Elem *Type

	// KArray: 0 means unknown/runtime length (see DESIGN.md, Open Question a).
	Length int

	// KAggregate
	Shape   AggregateShape
	Members []*Type

	// KFunction
	Return *Type
	Params []*Type
	IsMeta bool

	// KTypeVariable
	VarName string

	// KDataType
	Data *DataType

	// KModifier
	ModSet     ModifierSet
	Underlying *Type
}

// Binding is one (type-variable name, Type) pair (§4.3).
type Binding struct {
	Param string
	Arg   *Type
}

// DataType is a named record or tagged union declaration, or one concrete
// instantiation ("variant") of a generic one (§3, I4).
type DataType struct {
	Name             string
	Members          []*Type
	Shape            DataTypeShape
	GenericParams    []string // ordered TypeVariable names, declaration only
	BoundArguments   []Binding // non-empty iff this DataType is a variant (I4)
	AliasOf          *Type
	TraitImpls       map[string]bool
	Tags             map[string]int // variant name -> small integer tag
	Parent           *DataType      // the un-instantiated declaration, for a variant
	Stub             bool           // I3: referenced before its definition was seen

	irHandle interface{} // memoized lowering handle (§4.8), set at most once
}

func (d *DataType) IsVariant() bool { return len(d.BoundArguments) > 0 }

func (d *DataType) ImplementsTrait(trait string) bool {
	if d == nil || d.TraitImpls == nil {
		return false
	}
	return d.TraitImpls[trait]
}

// IRHandle/SetIRHandle back the lowering adapter's memoization (§4.8, §5:
// "mutated only during first lookup").
func (d *DataType) IRHandle() (interface{}, bool) {
	return d.irHandle, d.irHandle != nil
}

func (d *DataType) SetIRHandle(h interface{}) {
	if d.irHandle != nil {
		return
	}
	d.irHandle = h
}

// IsGeneric reports whether t transitively contains an unresolved
// TypeVariable (I2). scope names variables considered already bound by the
// surrounding context (e.g. a declaration's own generic parameters); pass
// nil when no such scope applies.
func IsGeneric(t *Type, scope map[string]bool) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KPrimitive:
		return false
	case KPointer, KArray:
		return IsGeneric(t.Elem, scope)
	case KAggregate:
		for _, m := range t.Members {
			if IsGeneric(m, scope) {
				return true
			}
		}
		return false
	case KFunction:
		if IsGeneric(t.Return, scope) {
			return true
		}
		for _, p := range t.Params {
			if IsGeneric(p, scope) {
				return true
			}
		}
		return false
	case KTypeVariable:
		if scope != nil && scope[t.VarName] {
			return false
		}
		return true
	case KDataType:
		if t.Data == nil {
			return false
		}
		for _, b := range t.Data.BoundArguments {
			if IsGeneric(b.Arg, scope) {
				return true
			}
		}
		if !t.Data.IsVariant() {
			for _, m := range t.Data.Members {
				if IsGeneric(m, scope) {
					return true
				}
			}
		}
		return false
	case KModifier:
		return IsGeneric(t.Underlying, scope)
	default:
		return false
	}
}

// String renders the canonical form defined by the grammar in §6. This is
// both the human-facing form and, for Aggregate/Function/DataType/Modifier,
// the raw material for interning keys.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KPrimitive:
		return t.Prim.String()
	case KPointer:
		return t.Elem.String() + "*"
	case KArray:
		return "[" + itoa(t.Length) + " " + t.Elem.String() + "]"
	case KAggregate:
		return t.aggregateString()
	case KFunction:
		return t.functionString()
	case KTypeVariable:
		return "'" + t.VarName
	case KDataType:
		return t.Data.printedName()
	case KModifier:
		return t.ModSet.Prefix() + t.Underlying.String()
	default:
		return "?type"
	}
}

func (t *Type) aggregateString() string {
	switch t.Shape {
	case ShapeTuple:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case ShapeFunction, ShapeMetaFunction:
		if len(t.Members) == 0 {
			return "() -> void"
		}
		ret := t.Members[0]
		params := t.Members[1:]
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + ret.String()
	case ShapeFunctionList:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "{" + strings.Join(parts, " | ") + "}"
	default:
		return "?aggregate"
	}
}

func (t *Type) functionString() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	arrow := "->"
	if t.IsMeta {
		arrow = "=>"
	}
	return "(" + strings.Join(parts, ", ") + ") " + arrow + " " + t.Return.String()
}

// printedName implements DataRef: Ident ("<" Core ("," Core)* ">")?
// I4: a variant's printed form includes its bindings; an un-instantiated
// generic declaration or a concrete (non-generic) data type prints bare.
func (d *DataType) printedName() string {
	if d == nil {
		return "?data"
	}
	if !d.IsVariant() {
		return d.Name
	}
	// Collapse to the bare name if nothing concrete remains to show (§4.3).
	allVars := true
	parts := make([]string, len(d.BoundArguments))
	for i, b := range d.BoundArguments {
		parts[i] = b.Arg.String()
		if b.Arg.Kind != KTypeVariable {
			allVars = false
		}
	}
	if allVars {
		return d.Name
	}
	return d.Name + "<" + strings.Join(parts, ",") + ">"
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
