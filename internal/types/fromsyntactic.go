// FromSyntactic (§6) is the one seam through which syntax becomes a Type:
// it walks the parser collaborator's TypeNode tree and interns the result
// via the Arena, resolving identifiers against whatever declarations and
// in-scope type variables the caller already knows about.
package types

import (
	"github.com/antecc/antec/internal/diagnostics"
	"github.com/antecc/antec/internal/syntax"
)

// Scope resolves a bare identifier encountered in a TypeNode: either to a
// known declaration's Type (possibly a stub) or to nothing, in which case
// FromSyntactic treats the identifier as an as-yet-unseen stub reference
// (I3), whatever its case. Type variables come only from KindTypeVar nodes
// or from a Scope entry.
type Scope interface {
	Lookup(name string) (*Type, bool)
}

// MapScope is the simplest Scope: a fixed set of named Types, typically a
// generic declaration's own parameters bound to fresh TypeVariables.
type MapScope map[string]*Type

func (m MapScope) Lookup(name string) (*Type, bool) { t, ok := m[name]; return t, ok }

// FromSyntactic translates one parser TypeNode into an interned Type.
func (a *Arena) FromSyntactic(n *syntax.TypeNode, scope Scope, diags *diagnostics.Bag) *Type {
	if n == nil {
		return a.MustPrimitive(Void)
	}

	var base *Type
	switch n.Kind {
	case syntax.KindTypeVar:
		base = a.TypeVariable(n.Ident)

	case syntax.KindNamed:
		base = a.resolveNamed(n, scope, diags)

	case syntax.KindPointer:
		if len(n.Children) != 1 {
			base = a.Pointer(a.MustPrimitive(Void))
			break
		}
		base = a.Pointer(a.FromSyntactic(n.Children[0], scope, diags))

	case syntax.KindArray:
		if len(n.Children) != 1 {
			base = a.Array(a.MustPrimitive(Void), n.Length)
			break
		}
		base = a.Array(a.FromSyntactic(n.Children[0], scope, diags), n.Length)

	case syntax.KindTuple:
		members := make([]*Type, len(n.Children))
		for i, c := range n.Children {
			members[i] = a.FromSyntactic(c, scope, diags)
		}
		base = a.Aggregate(ShapeTuple, members)

	case syntax.KindFunction:
		if len(n.Children) == 0 {
			base = a.Function(a.MustPrimitive(Void), nil, n.IsMeta)
			break
		}
		ret := a.FromSyntactic(n.Children[len(n.Children)-1], scope, diags)
		params := make([]*Type, len(n.Children)-1)
		for i, c := range n.Children[:len(n.Children)-1] {
			params[i] = a.FromSyntactic(c, scope, diags)
		}
		base = a.Function(ret, params, n.IsMeta)

	default:
		base = a.MustPrimitive(Void)
	}

	if len(n.Modifiers) > 0 {
		return a.WithModifierSet(base, NewModifierSet(n.Modifiers...))
	}
	return base
}

func (a *Arena) resolveNamed(n *syntax.TypeNode, scope Scope, diags *diagnostics.Bag) *Type {
	if prim, ok := namedPrimitives[n.Ident]; ok {
		return a.MustPrimitive(prim)
	}

	if scope != nil {
		if t, ok := scope.Lookup(n.Ident); ok {
			return a.applyArgs(t, n, scope, diags)
		}
	}

	decl, ok := a.LookupDataType(n.Ident)
	if !ok {
		decl = a.Stub(n.Ident)
	}
	return a.applyArgs(decl, n, scope, diags)
}

func (a *Arena) applyArgs(decl *Type, n *syntax.TypeNode, scope Scope, diags *diagnostics.Bag) *Type {
	if len(n.Args) == 0 {
		return decl
	}
	if decl.Kind != KDataType {
		return decl
	}
	args := make([]*Type, len(n.Args))
	for i, arg := range n.Args {
		args[i] = a.FromSyntactic(arg, scope, diags)
	}
	return a.InstantiateDataType(decl, args, diags, n.At)
}

var namedPrimitives = map[string]Primitive{
	"i8": I8, "i16": I16, "i32": I32, "i64": I64, "isz": INative,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64, "usz": UNative,
	"f16": F16, "f32": F32, "f64": F64,
	"c8": Char8, "c32": Char32,
	"bool": Bool, "void": Void,
	"Type": TypeItself,
}
