// Implicit numeric coercion (§4.6): one-way widening between the numeric
// primitives, surfaced both as a pure predicate (for the checker) and as
// an emitter against the lowering collaborator's cast builder.
package types

import "github.com/antecc/antec/internal/ssair"

// CoerceKind distinguishes the three widening families §4.6 allows. There
// is no int<-float or float<-int narrowing direction; coercion is always
// toward the wider/more general representation.
type CoerceKind int

const (
	CoerceNone CoerceKind = iota
	CoerceIntWiden         // int -> wider int, of either signedness
	CoerceIntToFloat       // int -> float
	CoerceFloatWiden       // float -> wider float
)

func bitsOf(a *Arena, p Primitive) int {
	if p == INative || p == UNative {
		return a.NativeWidth()
	}
	if w, ok := intWidths[p]; ok {
		return w
	}
	return floatWidths[p]
}

// Coercion classifies whether from can be implicitly widened to to, and
// how. Equal primitives are never a coercion (that is plain equivalence).
func (a *Arena) Coercion(from, to *Type) CoerceKind {
	if from == nil || to == nil || from.Kind != KPrimitive || to.Kind != KPrimitive {
		return CoerceNone
	}
	fp, tp := from.Prim, to.Prim
	if fp == tp {
		return CoerceNone
	}
	switch {
	case fp.IsInt() && tp.IsInt():
		// Signedness doesn't have to match: widening is purely on bit width,
		// and Emit picks sign- vs zero-extend from the source's signedness.
		if bitsOf(a, fp) < bitsOf(a, tp) {
			return CoerceIntWiden
		}
	case fp.IsInt() && tp.IsFloat():
		return CoerceIntToFloat
	case fp.IsFloat() && tp.IsFloat():
		if bitsOf(a, fp) < bitsOf(a, tp) {
			return CoerceFloatWiden
		}
	}
	return CoerceNone
}

// CanCoerce is the boolean-only form ResolveOverload-style callers use
// when they just need a yes/no on whether an argument may implicitly
// widen to a parameter type.
func (a *Arena) CanCoerce(from, to *Type) bool { return a.Coercion(from, to) != CoerceNone }

// Emit lowers a coercion into the external IR via the Builder seam
// (§4.8), picking the cast opcode that matches both the coercion family
// and the source primitive's signedness.
func (a *Arena) Emit(b ssair.Builder, kind CoerceKind, from *Type, v ssair.Value, to *ssair.IRType) ssair.Value {
	switch kind {
	case CoerceIntWiden:
		if from.Prim.IsSignedInt() {
			return b.EmitCast(ssair.CastSignExtend, v, to)
		}
		return b.EmitCast(ssair.CastZeroExtend, v, to)
	case CoerceIntToFloat:
		if from.Prim.IsSignedInt() {
			return b.EmitCast(ssair.CastSignedToFloat, v, to)
		}
		return b.EmitCast(ssair.CastUnsignedToFloat, v, to)
	case CoerceFloatWiden:
		return b.EmitCast(ssair.CastFloatExtend, v, to)
	default:
		return v
	}
}
