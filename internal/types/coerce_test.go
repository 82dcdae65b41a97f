package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antecc/antec/internal/ssair"
)

type fakeBuilder struct {
	lastOp ssair.CastOp
	lastTo *ssair.IRType
}

func (f *fakeBuilder) EmitCast(op ssair.CastOp, v ssair.Value, to *ssair.IRType) ssair.Value {
	f.lastOp = op
	f.lastTo = to
	return v
}

func TestCoercionIntWiden(t *testing.T) {
	a := NewArena()
	assert.Equal(t, CoerceIntWiden, a.Coercion(a.MustPrimitive(I8), a.MustPrimitive(I32)))
	assert.Equal(t, CoerceIntWiden, a.Coercion(a.MustPrimitive(U8), a.MustPrimitive(U32)))
	assert.Equal(t, CoerceNone, a.Coercion(a.MustPrimitive(I32), a.MustPrimitive(I8)), "narrowing is never implicit")
	assert.Equal(t, CoerceNone, a.Coercion(a.MustPrimitive(I32), a.MustPrimitive(U32)), "equal widths are never a coercion")
}

func TestCoercionIntWidenCrossesSignedness(t *testing.T) {
	a := NewArena()
	assert.Equal(t, CoerceIntWiden, a.Coercion(a.MustPrimitive(I8), a.MustPrimitive(U64)),
		"widening doesn't require matching signedness, only a wider destination")
	assert.Equal(t, CoerceIntWiden, a.Coercion(a.MustPrimitive(U8), a.MustPrimitive(I64)))
	assert.Equal(t, CoerceNone, a.Coercion(a.MustPrimitive(U64), a.MustPrimitive(I8)), "narrowing is never implicit, regardless of signedness")
}

func TestCoercionIntToFloat(t *testing.T) {
	a := NewArena()
	assert.Equal(t, CoerceIntToFloat, a.Coercion(a.MustPrimitive(I32), a.MustPrimitive(F32)))
	assert.Equal(t, CoerceNone, a.Coercion(a.MustPrimitive(F32), a.MustPrimitive(I32)), "float to int is never implicit")
}

func TestCoercionFloatWiden(t *testing.T) {
	a := NewArena()
	assert.Equal(t, CoerceFloatWiden, a.Coercion(a.MustPrimitive(F32), a.MustPrimitive(F64)))
	assert.Equal(t, CoerceNone, a.Coercion(a.MustPrimitive(F64), a.MustPrimitive(F32)))
}

func TestCoercionEqualPrimitivesIsNone(t *testing.T) {
	a := NewArena()
	assert.Equal(t, CoerceNone, a.Coercion(a.MustPrimitive(I32), a.MustPrimitive(I32)))
}

func TestCanCoerce(t *testing.T) {
	a := NewArena()
	assert.True(t, a.CanCoerce(a.MustPrimitive(I8), a.MustPrimitive(I64)))
	assert.False(t, a.CanCoerce(a.MustPrimitive(I64), a.MustPrimitive(I8)))
}

func TestEmitPicksCastBySignedness(t *testing.T) {
	a := NewArena()
	b := &fakeBuilder{}
	to := &ssair.IRType{Kind: ssair.IRInt, Width: 32, Signed: true}

	a.Emit(b, CoerceIntWiden, a.MustPrimitive(I8), nil, to)
	assert.Equal(t, ssair.CastSignExtend, b.lastOp)

	a.Emit(b, CoerceIntWiden, a.MustPrimitive(U8), nil, to)
	assert.Equal(t, ssair.CastZeroExtend, b.lastOp)

	a.Emit(b, CoerceIntToFloat, a.MustPrimitive(I32), nil, to)
	assert.Equal(t, ssair.CastSignedToFloat, b.lastOp)

	a.Emit(b, CoerceIntToFloat, a.MustPrimitive(U32), nil, to)
	assert.Equal(t, ssair.CastUnsignedToFloat, b.lastOp)

	a.Emit(b, CoerceFloatWiden, a.MustPrimitive(F32), nil, to)
	assert.Equal(t, ssair.CastFloatExtend, b.lastOp)
}
