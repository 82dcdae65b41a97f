// Lowering adapter (§4.8): translating a core Type into the external SSA
// IR's own type representation. DataType results are memoized on the
// declaration itself (DataType.SetIRHandle) so a shared nominal type
// lowers exactly once no matter how many call sites reach it.
package types

import (
	"github.com/antecc/antec/internal/diagnostics"
	"github.com/antecc/antec/internal/ssair"
)

// Lower translates t into its ssair.IRType. Stubs cannot be lowered
// (§4.7/§7): lowering a Pointer to a stub still succeeds, since a pointer
// lowers to a flat machine address regardless of what it points to; only
// lowering the stub's own (unsized) body is fatal.
func (a *Arena) Lower(t *Type) (*ssair.IRType, *diagnostics.Fatal) {
	if t == nil {
		return &ssair.IRType{Kind: ssair.IRVoid}, nil
	}
	switch t.Kind {
	case KPrimitive:
		return lowerPrimitive(a, t.Prim), nil

	case KPointer:
		// A pointer's own representation never depends on its element's
		// completeness; don't force the element to lower here.
		if t.Elem != nil && t.Elem.Kind == KDataType && t.Elem.Data.Stub {
			return &ssair.IRType{Kind: ssair.IRPointer, Elem: &ssair.IRType{Kind: ssair.IROpaquePointer}}, nil
		}
		elem, err := a.Lower(t.Elem)
		if err != nil {
			return nil, err
		}
		return &ssair.IRType{Kind: ssair.IRPointer, Elem: elem}, nil

	case KArray:
		elem, err := a.Lower(t.Elem)
		if err != nil {
			return nil, err
		}
		return &ssair.IRType{Kind: ssair.IRArray, Elem: elem, Length: t.Length}, nil

	case KAggregate:
		return a.lowerAggregate(t)

	case KFunction:
		ret, err := a.Lower(t.Return)
		if err != nil {
			return nil, err
		}
		params := make([]*ssair.IRType, len(t.Params))
		for i, p := range t.Params {
			pt, err := a.Lower(p)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		return &ssair.IRType{Kind: ssair.IRFuncPtr, Params: params, Return: ret}, nil

	case KTypeVariable:
		return nil, diagnostics.NewFatal(diagnostics.CodeUnboundTypeVar,
			"cannot lower unbound type variable '%s'", t.VarName)

	case KModifier:
		return a.Lower(t.Underlying)

	case KDataType:
		return a.lowerDataType(t.Data)

	default:
		return nil, diagnostics.NewFatal(diagnostics.CodeIncompleteType, "type cannot be lowered")
	}
}

func lowerPrimitive(a *Arena, p Primitive) *ssair.IRType {
	switch {
	case p == Bool:
		return &ssair.IRType{Kind: ssair.IRBool}
	case p == Void:
		return &ssair.IRType{Kind: ssair.IRVoid}
	case p == TypeItself, p == CandidateSet:
		return &ssair.IRType{Kind: ssair.IROpaquePointer}
	case p.IsFloat():
		return &ssair.IRType{Kind: ssair.IRFloat, Width: bitsOf(a, p)}
	case p.IsInt():
		return &ssair.IRType{Kind: ssair.IRInt, Width: bitsOf(a, p), Signed: p.IsSignedInt()}
	default:
		return &ssair.IRType{Kind: ssair.IRVoid}
	}
}

func (a *Arena) lowerAggregate(t *Type) (*ssair.IRType, *diagnostics.Fatal) {
	switch t.Shape {
	case ShapeFunction, ShapeMetaFunction:
		if len(t.Members) == 0 {
			return &ssair.IRType{Kind: ssair.IRFuncPtr, Return: &ssair.IRType{Kind: ssair.IRVoid}}, nil
		}
		ret, err := a.Lower(t.Members[0])
		if err != nil {
			return nil, err
		}
		params := make([]*ssair.IRType, len(t.Members)-1)
		for i, m := range t.Members[1:] {
			pt, err := a.Lower(m)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		return &ssair.IRType{Kind: ssair.IRFuncPtr, Params: params, Return: ret}, nil
	case ShapeFunctionList:
		// An unresolved candidate set lowers to an opaque handle; by the
		// time lowering runs, overload resolution should already have
		// picked one member (see overload.go) and this shape should not
		// reach here in practice.
		return &ssair.IRType{Kind: ssair.IROpaquePointer}, nil
	default: // ShapeTuple
		members := make([]*ssair.IRType, 0, len(t.Members))
		for _, m := range t.Members {
			mt, err := a.Lower(m)
			if err != nil {
				return nil, err
			}
			if mt.Kind == ssair.IRVoid {
				// A void member carries no storage; skip it (§4.8).
				continue
			}
			members = append(members, mt)
		}
		return &ssair.IRType{Kind: ssair.IRStruct, Name: "tuple", Members: members}, nil
	}
}

// lowerDataType implements the empty-struct-shell-before-body technique
// (§4.8): install the named shell and memoize it on the declaration
// before translating members, so a self-referential record (always
// behind a Pointer per the recursive-type validation in size.go) doesn't
// recurse forever translating its own members.
func (a *Arena) lowerDataType(d *DataType) (*ssair.IRType, *diagnostics.Fatal) {
	if d.Stub {
		return nil, diagnostics.NewFatal(diagnostics.CodeIncompleteType,
			"incomplete type '%s' cannot be lowered", d.Name)
	}
	if d.AliasOf != nil {
		return a.Lower(d.AliasOf)
	}
	if h, ok := d.IRHandle(); ok {
		return h.(*ssair.IRType), nil
	}

	name := d.printedName()
	shell := ssair.Struct(name, d.Shape == ShapeTaggedUnion)
	d.SetIRHandle(shell)

	members := make([]*ssair.IRType, 0, len(d.Members)+1)
	if d.Shape == ShapeTaggedUnion && len(d.Members) > 0 {
		members = append(members, &ssair.IRType{Kind: ssair.IRInt, Width: a.NativeWidth(), Signed: false})
	}
	for _, m := range d.Members {
		mt, err := a.Lower(m)
		if err != nil {
			return nil, err
		}
		members = append(members, mt)
	}
	shell.SetBody(members)
	return shell, nil
}
