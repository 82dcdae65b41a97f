// Generic binding engine (§4.3): representing a declared generic DataType
// and its instantiations, and substituting type arguments through an
// arbitrary type graph.
package types

import (
	"strings"

	"github.com/antecc/antec/internal/diagnostics"
	"github.com/antecc/antec/internal/syntax"
)

// Subst maps a type-variable name to the Type it should be replaced with.
type Subst map[string]*Type

// Substitute walks t, replacing every TypeVariable present in subst with
// its bound Type and re-interning every composite it touches. diags may be
// nil; when non-nil, an unresolved TypeVariable records a recoverable
// "unbound type variable" diagnostic (§4.3) — the result is still returned,
// just as an open type.
func (a *Arena) Substitute(t *Type, subst Subst, diags *diagnostics.Bag, at syntax.Pos) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KPrimitive:
		return t
	case KPointer:
		return a.Pointer(a.Substitute(t.Elem, subst, diags, at))
	case KArray:
		return a.Array(a.Substitute(t.Elem, subst, diags, at), t.Length)
	case KAggregate:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = a.Substitute(m, subst, diags, at)
		}
		return a.Aggregate(t.Shape, members)
	case KFunction:
		ret := a.Substitute(t.Return, subst, diags, at)
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = a.Substitute(p, subst, diags, at)
		}
		return a.Function(ret, params, t.IsMeta)
	case KTypeVariable:
		if repl, ok := subst[t.VarName]; ok {
			return repl
		}
		if diags != nil {
			diags.Report(diagnostics.CodeUnboundTypeVar, at, "unbound type variable '%s'", t.VarName)
		}
		return t
	case KModifier:
		return a.WithModifierSet(a.Substitute(t.Underlying, subst, diags, at), t.ModSet)
	case KDataType:
		return a.substituteDataType(t, subst, diags, at)
	default:
		return t
	}
}

func (a *Arena) substituteDataType(t *Type, subst Subst, diags *diagnostics.Bag, at syntax.Pos) *Type {
	d := t.Data
	if d.Stub {
		return t
	}
	if d.IsVariant() {
		newBound := make([]Binding, len(d.BoundArguments))
		changed := false
		for i, b := range d.BoundArguments {
			arg := a.Substitute(b.Arg, subst, diags, at)
			newBound[i] = Binding{Param: b.Param, Arg: arg}
			if arg != b.Arg {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return a.instantiate(d.Parent, newBound, diags, at)
	}

	if len(d.GenericParams) == 0 {
		return t
	}
	any := false
	bound := make([]Binding, len(d.GenericParams))
	for i, p := range d.GenericParams {
		arg, ok := subst[p]
		if !ok {
			arg = a.TypeVariable(p)
		} else {
			any = true
		}
		bound[i] = Binding{Param: p, Arg: arg}
	}
	if !any {
		return t
	}
	return a.instantiate(d, bound, diags, at)
}

// InstantiateDataType is the bind operation of §4.3: given the Type
// wrapping an un-instantiated declaration and an ordered list of argument
// Types (matching the declaration's generic_parameters order), produces
// the instantiated variant Type. Supplying fewer arguments than the
// declaration has parameters leaves the remaining parameters open (bound
// to a fresh TypeVariable of the same name) rather than failing outright —
// the result is then still generic per IsGeneric.
func (a *Arena) InstantiateDataType(decl *Type, args []*Type, diags *diagnostics.Bag, at syntax.Pos) *Type {
	d := decl.Data
	n := len(d.GenericParams)
	bound := make([]Binding, n)
	for i := 0; i < n; i++ {
		var arg *Type
		if i < len(args) {
			arg = args[i]
		} else {
			arg = a.TypeVariable(d.GenericParams[i])
		}
		bound[i] = Binding{Param: d.GenericParams[i], Arg: arg}
	}
	return a.instantiate(d, bound, diags, at)
}

// instantiate builds (or returns the already-interned) variant DataType
// whose bound_arguments is exactly bound, substituting the parent
// declaration's members through the resulting Subst.
func (a *Arena) instantiate(parent *DataType, bound []Binding, diags *diagnostics.Bag, at syntax.Pos) *Type {
	subst := make(Subst, len(bound))
	for _, b := range bound {
		subst[b.Param] = b.Arg
	}

	variant := &DataType{
		Name:           parent.Name,
		Shape:          parent.Shape,
		GenericParams:  parent.GenericParams,
		BoundArguments: bound,
		TraitImpls:     parent.TraitImpls,
		Tags:           parent.Tags,
		Parent:         parent,
		Stub:           parent.Stub,
	}
	// The interning key always spells out every bound argument; the printed
	// name collapses an all-variable variant to the bare name, which would
	// collide with the declaration itself.
	key := parent.Name
	if len(bound) > 0 {
		parts := make([]string, len(bound))
		for i, b := range bound {
			parts[i] = b.Arg.String()
		}
		key += "<" + strings.Join(parts, ",") + ">"
	}
	if existing, ok := a.dataTypeRefs[key]; ok {
		return existing
	}

	members := make([]*Type, len(parent.Members))
	for i, m := range parent.Members {
		members[i] = a.Substitute(m, subst, diags, at)
	}
	variant.Members = members

	t := &Type{Kind: KDataType, Data: variant}
	a.dataTypeRefs[key] = t
	a.dataTypes.Set(key, variant)
	return t
}

// FreeTypeVariables returns the set of TypeVariable names free in t, in
// first-occurrence order, deduplicated.
func FreeTypeVariables(t *Type) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(*Type)
	walk = func(t *Type) {
		if t == nil {
			return
		}
		switch t.Kind {
		case KTypeVariable:
			if !seen[t.VarName] {
				seen[t.VarName] = true
				out = append(out, t.VarName)
			}
		case KPointer, KArray:
			walk(t.Elem)
		case KAggregate:
			for _, m := range t.Members {
				walk(m)
			}
		case KFunction:
			walk(t.Return)
			for _, p := range t.Params {
				walk(p)
			}
		case KModifier:
			walk(t.Underlying)
		case KDataType:
			for _, b := range t.Data.BoundArguments {
				walk(b.Arg)
			}
		}
	}
	walk(t)
	return out
}
