// Size and validation (§4.7): bit widths for leaf and composite types,
// and the structural checks that must pass before any type reaches
// lowering.
package types

import (
	"github.com/antecc/antec/internal/diagnostics"
	"github.com/antecc/antec/internal/syntax"
)

// BitWidth computes the in-memory size of t, in bits. Composite kinds sum
// or pick the width of their parts the way the target ABI would lay them
// out (a Tuple aggregate as a packed tuple; a function-shaped aggregate or
// function list as one native-width code pointer; a Record's width is the
// sum of its members; a tagged union's width is the larger of its widest
// member and one native-width tag, since the largest variant dominates).
// Returns a non-nil *diagnostics.Fatal when t is, or contains outside a
// pointer or function, an incomplete stub (IncompleteType, I3), an unbound
// type variable (UnboundTypeVar), or a data type that contains itself
// without an intervening pointer (RecursiveType).
func (a *Arena) BitWidth(t *Type) (int, *diagnostics.Fatal) {
	return a.bitWidth(t, map[*DataType]bool{})
}

func (a *Arena) bitWidth(t *Type, visiting map[*DataType]bool) (int, *diagnostics.Fatal) {
	if t == nil {
		return 0, nil
	}
	switch t.Kind {
	case KPrimitive:
		if t.Prim == Void || t.Prim == TypeItself || t.Prim == CandidateSet {
			return 0, nil
		}
		return bitsOf(a, t.Prim), nil
	case KPointer:
		return a.NativeWidth(), nil
	case KArray:
		elemBits, err := a.bitWidth(t.Elem, visiting)
		if err != nil {
			return 0, err
		}
		return elemBits * t.Length, nil
	case KAggregate:
		if t.Shape != ShapeTuple {
			return a.NativeWidth(), nil // function-shaped aggregates and function lists are code pointers
		}
		sum := 0
		for _, m := range t.Members {
			b, err := a.bitWidth(m, visiting)
			if err != nil {
				return 0, err
			}
			sum += b
		}
		return sum, nil
	case KFunction:
		return a.NativeWidth(), nil // a function value lowers to a code pointer
	case KTypeVariable:
		return 0, diagnostics.NewFatal(diagnostics.CodeUnboundTypeVar,
			"cannot size an unbound type variable '%s'", t.VarName)
	case KModifier:
		return a.bitWidth(t.Underlying, visiting)
	case KDataType:
		return a.dataTypeBitWidth(t.Data, visiting)
	default:
		return 0, diagnostics.NewFatal(diagnostics.CodeIncompleteType, "type has no known size")
	}
}

func (a *Arena) dataTypeBitWidth(d *DataType, visiting map[*DataType]bool) (int, *diagnostics.Fatal) {
	if d.Stub {
		return 0, diagnostics.NewFatal(diagnostics.CodeIncompleteType,
			"incomplete type '%s' has no known size", d.Name)
	}
	if d.AliasOf != nil {
		return a.bitWidth(d.AliasOf, visiting)
	}
	if visiting[d] {
		return 0, diagnostics.NewFatal(diagnostics.CodeRecursiveType,
			"type '%s' is infinite: it contains itself without an intervening pointer", d.Name)
	}
	visiting[d] = true
	defer delete(visiting, d)

	if d.Shape == ShapeTaggedUnion {
		widest := 0
		for _, m := range d.Members {
			b, err := a.bitWidth(m, visiting)
			if err != nil {
				return 0, err
			}
			if b > widest {
				widest = b
			}
		}
		tag := a.NativeWidth()
		if widest > tag {
			return widest, nil
		}
		return tag, nil
	}

	sum := 0
	for _, m := range d.Members {
		b, err := a.bitWidth(m, visiting)
		if err != nil {
			return 0, err
		}
		sum += b
	}
	return sum, nil
}

// Validate walks t and reports every recoverable structural problem into
// diags: an unbound type variable reachable from a context where none was
// declared, and (separately from the fatal recursive-size case above) a
// DataType cycle that doesn't pass through a Pointer anywhere in the
// loop. bound names the type variables the surrounding declaration
// considers already bound; pass nil for a fully closed type.
func (a *Arena) Validate(t *Type, bound map[string]bool, diags *diagnostics.Bag, at syntax.Pos) {
	a.validate(t, bound, map[*DataType]bool{}, diags, at)
}

func (a *Arena) validate(t *Type, bound map[string]bool, visiting map[*DataType]bool, diags *diagnostics.Bag, at syntax.Pos) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KTypeVariable:
		if bound != nil && !bound[t.VarName] {
			diags.Report(diagnostics.CodeUnboundTypeVar, at, "unbound type variable '%s'", t.VarName)
		}
	case KPointer:
		a.validate(t.Elem, bound, behindPointer(visiting), diags, at) // a pointer breaks any cycle
	case KArray:
		a.validate(t.Elem, bound, visiting, diags, at)
	case KAggregate:
		for _, m := range t.Members {
			a.validate(m, bound, visiting, diags, at)
		}
	case KFunction:
		behind := behindPointer(visiting)
		a.validate(t.Return, bound, behind, diags, at)
		for _, p := range t.Params {
			a.validate(p, bound, behind, diags, at)
		}
	case KModifier:
		a.validate(t.Underlying, bound, visiting, diags, at)
	case KDataType:
		d := t.Data
		if d.Stub || d.AliasOf != nil {
			if d.AliasOf != nil {
				a.validate(d.AliasOf, bound, visiting, diags, at)
			}
			return
		}
		if direct, onStack := visiting[d]; onStack {
			// Reached again: a recursion error only if no pointer lies
			// between the two visits; either way it is not walked twice.
			if direct {
				diags.Report(diagnostics.CodeRecursiveType, at,
					"type '%s' recurses without an intervening pointer", d.Name)
			}
			return
		}
		visiting[d] = true
		for _, b := range d.BoundArguments {
			a.validate(b.Arg, bound, visiting, diags, at)
		}
		if !d.IsVariant() {
			for _, m := range d.Members {
				a.validate(m, bound, visiting, diags, at)
			}
		}
		delete(visiting, d)
	}
}

// behindPointer copies visiting with every entry marked as reached through a
// pointer, so a cycle closed below this point is not reported as recursion.
func behindPointer(visiting map[*DataType]bool) map[*DataType]bool {
	out := make(map[*DataType]bool, len(visiting))
	for d := range visiting {
		out[d] = false
	}
	return out
}
