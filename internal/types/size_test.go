package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antecc/antec/internal/diagnostics"
	"github.com/antecc/antec/internal/syntax"
)

func TestBitWidthPrimitives(t *testing.T) {
	a := NewArena()
	bits, fatal := a.BitWidth(a.MustPrimitive(I8))
	assert.Nil(t, fatal)
	assert.Equal(t, 8, bits)

	bits, fatal = a.BitWidth(a.MustPrimitive(Bool))
	assert.Nil(t, fatal)
	assert.Equal(t, 1, bits)

	bits, fatal = a.BitWidth(a.MustPrimitive(Void))
	assert.Nil(t, fatal)
	assert.Equal(t, 0, bits)

	bits, fatal = a.BitWidth(a.MustPrimitive(INative))
	assert.Nil(t, fatal)
	assert.Equal(t, 64, bits)
}

func TestBitWidthPointerAndFunctionAreNativeWidth(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	bits, fatal := a.BitWidth(a.Pointer(i32))
	assert.Nil(t, fatal)
	assert.Equal(t, 64, bits)

	fn := a.Function(i32, []*Type{i32}, false)
	bits, fatal = a.BitWidth(fn)
	assert.Nil(t, fatal)
	assert.Equal(t, 64, bits)
}

func TestBitWidthArrayMultipliesByLength(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	bits, fatal := a.BitWidth(a.Array(i32, 4))
	assert.Nil(t, fatal)
	assert.Equal(t, 128, bits)
}

func TestBitWidthAggregateSums(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	boolT := a.MustPrimitive(Bool)
	tup := a.Aggregate(ShapeTuple, []*Type{i32, boolT})
	bits, fatal := a.BitWidth(tup)
	assert.Nil(t, fatal)
	assert.Equal(t, 33, bits)
}

func TestBitWidthRecordSumsMembers(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	i64 := a.MustPrimitive(I64)
	rec := a.DeclareDataType("Pair", ShapeRecord, []*Type{i32, i64}, nil, nil, nil)
	bits, fatal := a.BitWidth(rec)
	assert.Nil(t, fatal)
	assert.Equal(t, 96, bits)
}

func TestBitWidthTaggedUnionTakesTheLargerOfTagAndWidestMember(t *testing.T) {
	a := NewArena()

	// The widest member (i64, 64 bits) matches the native tag width (64),
	// so either dominates.
	i8 := a.MustPrimitive(I8)
	i64 := a.MustPrimitive(I64)
	either := a.DeclareDataType("Either", ShapeTaggedUnion, []*Type{i8, i64}, nil, nil,
		map[string]int{"Left": 0, "Right": 1})
	bits, fatal := a.BitWidth(either)
	assert.Nil(t, fatal)
	assert.Equal(t, 64, bits, "the largest variant dominates; the tag is never added on top")

	// A union whose widest member is narrower than a native-width tag still
	// reports the tag width, not the member width.
	boolT := a.MustPrimitive(Bool)
	maybe := a.DeclareDataType("Maybe", ShapeTaggedUnion, []*Type{a.MustPrimitive(Void), boolT}, nil, nil,
		map[string]int{"None": 0, "Some": 1})
	bits, fatal = a.BitWidth(maybe)
	assert.Nil(t, fatal)
	assert.Equal(t, 64, bits, "a native-width tag is the floor when every member is narrower")

	// A union whose widest member exceeds native width reports that
	// member's width instead.
	wide := a.Aggregate(ShapeTuple, []*Type{i64, i64})
	huge := a.DeclareDataType("Huge", ShapeTaggedUnion, []*Type{i8, wide}, nil, nil,
		map[string]int{"Small": 0, "Big": 1})
	bits, fatal = a.BitWidth(huge)
	assert.Nil(t, fatal)
	assert.Equal(t, 128, bits, "the widest member dominates when it exceeds native width")
}

func TestBitWidthUnboundTypeVariableIsFatal(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	_, fatal := a.BitWidth(va)
	assert.NotNil(t, fatal)
	assert.Equal(t, diagnostics.CodeUnboundTypeVar, fatal.Code)
}

func TestBitWidthStubIsFatal(t *testing.T) {
	a := NewArena()
	stub := a.Stub("NotYetDeclared")
	_, fatal := a.BitWidth(stub)
	assert.NotNil(t, fatal)
	assert.Equal(t, diagnostics.CodeIncompleteType, fatal.Code)
}

func TestBitWidthRecursiveTypeWithoutPointerIsFatal(t *testing.T) {
	a := NewArena()
	stub := a.Stub("Node")
	ptrToSelf := a.Pointer(stub)
	// A direct (non-pointer) self-reference: declare Node so its own member
	// list includes itself without an intervening pointer.
	recursive := a.DeclareDataType("Node", ShapeRecord, []*Type{stub}, nil, nil, nil)
	_, fatal := a.BitWidth(recursive)
	assert.NotNil(t, fatal)
	assert.Equal(t, diagnostics.CodeRecursiveType, fatal.Code)

	// The pointer-guarded form must size cleanly instead.
	guarded := a.DeclareDataType("SafeNode", ShapeRecord, []*Type{ptrToSelf}, nil, nil, nil)
	bits, fatal2 := a.BitWidth(guarded)
	assert.Nil(t, fatal2)
	assert.Equal(t, 64, bits)
}

func TestBitWidthAliasDelegatesToTarget(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	alias := a.DeclareAlias("MyInt", i32, nil)
	bits, fatal := a.BitWidth(alias)
	assert.Nil(t, fatal)
	assert.Equal(t, 32, bits)
}

func TestValidateReportsUnboundVariableOutsideScope(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	var diags diagnostics.Bag
	a.Validate(va, map[string]bool{}, &diags, syntax.Pos{File: "x", Line: 1, Column: 1})
	assert.False(t, diags.Empty())
	assert.Equal(t, diagnostics.CodeUnboundTypeVar, diags.All()[0].Code)
}

func TestValidateAcceptsVariableInScope(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	var diags diagnostics.Bag
	a.Validate(va, map[string]bool{"a": true}, &diags, syntax.Pos{})
	assert.True(t, diags.Empty())
}

func TestValidateReportsRecursionWithoutPointer(t *testing.T) {
	a := NewArena()
	stub := a.Stub("Node")
	recursive := a.DeclareDataType("Node", ShapeRecord, []*Type{stub}, nil, nil, nil)

	var diags diagnostics.Bag
	a.Validate(recursive, nil, &diags, syntax.Pos{File: "x", Line: 1, Column: 1})
	assert.False(t, diags.Empty())
	assert.Equal(t, diagnostics.CodeRecursiveType, diags.All()[0].Code)
}

func TestValidateAcceptsRecursionBehindPointer(t *testing.T) {
	a := NewArena()
	stub := a.Stub("Node")
	guarded := a.DeclareDataType("Node", ShapeRecord, []*Type{a.Pointer(stub)}, nil, nil, nil)

	var diags diagnostics.Bag
	a.Validate(guarded, nil, &diags, syntax.Pos{})
	assert.True(t, diags.Empty())
}
