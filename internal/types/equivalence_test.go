package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antecc/antec/internal/syntax"
)

func TestCheckIdenticalPrimitivesSucceed(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	res := a.Check(i32, i32)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, 1, res.MatchCount)
}

func TestCheckMismatchedPrimitivesFail(t *testing.T) {
	a := NewArena()
	res := a.Check(a.MustPrimitive(I32), a.MustPrimitive(Bool))
	assert.Equal(t, Failure, res.Status)
}

func TestCheckTypeVariableBindsConcreteType(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	i32 := a.MustPrimitive(I32)

	res := a.Check(va, i32)
	assert.Equal(t, SuccessWithTypeVars, res.Status)
	bound, ok := res.lookup("a")
	assert.True(t, ok)
	assert.True(t, StructuralEqual(bound, i32))
}

func TestCheckSameVariableOnBothSidesNeedsNoCommitment(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	res := a.Check(va, va)
	assert.NotEqual(t, Failure, res.Status)
}

func TestCheckRepeatedVariableMustBindConsistently(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	i32 := a.MustPrimitive(I32)
	boolT := a.MustPrimitive(Bool)

	// (a, a) against (i32, i32) succeeds...
	pairOK := a.Aggregate(ShapeTuple, []*Type{va, va})
	argsOK := a.Aggregate(ShapeTuple, []*Type{i32, i32})
	res := a.Check(pairOK, argsOK)
	assert.NotEqual(t, Failure, res.Status)

	// ...but (a, a) against (i32, bool) must fail: the second occurrence of
	// 'a' is checked against its first binding.
	argsBad := a.Aggregate(ShapeTuple, []*Type{i32, boolT})
	res2 := a.Check(pairOK, argsBad)
	assert.Equal(t, Failure, res2.Status)
}

func TestCheckOccursCheckIsFatal(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	ptrToA := a.Pointer(va)

	res := a.Check(va, ptrToA)
	assert.NotNil(t, res.Fatal, "binding 'a to *'a must raise the self-reference fatal (§7)")
	assert.Equal(t, Failure, res.Status)
}

func TestCheckPointerEqualityShortCircuitsNonGenericTypes(t *testing.T) {
	a := NewArena()
	tup := a.Aggregate(ShapeTuple, []*Type{a.MustPrimitive(I32), a.MustPrimitive(Bool)})
	res := a.Check(tup, tup)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, 2, res.MatchCount, "numAtoms should count both members in one step")
}

func TestCheckAliasUnwraps(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	alias := a.DeclareAlias("MyInt", i32, nil)

	res := a.Check(alias, i32)
	assert.NotEqual(t, Failure, res.Status)
}

func TestCheckRecordTaggedUnionCrossMatchBySharedName(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	record := a.DeclareDataType("Shape", ShapeRecord, []*Type{i32}, nil, nil, nil)
	a.ClearDeclaredTypes()
	union := a.DeclareDataType("Shape", ShapeTaggedUnion, []*Type{i32}, nil, nil, nil)

	res := a.Check(record, union)
	assert.Equal(t, Success, res.Status)
}

func TestCheckPointerAndArrayRecurse(t *testing.T) {
	a := NewArena()
	va := a.TypeVariable("a")
	i32 := a.MustPrimitive(I32)

	res := a.Check(a.Pointer(va), a.Pointer(i32))
	assert.Equal(t, SuccessWithTypeVars, res.Status)

	resArr := a.Check(a.Array(va, 4), a.Array(i32, 4))
	assert.Equal(t, SuccessWithTypeVars, resArr.Status)

	resArrLen := a.Check(a.Array(i32, 4), a.Array(i32, 8))
	assert.Equal(t, Failure, resArrLen.Status, "array length participates in equivalence")
}

func TestCheckFunctionRequiresMatchingArityAndMeta(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	boolT := a.MustPrimitive(Bool)

	f1 := a.Function(boolT, []*Type{i32}, false)
	f2 := a.Function(boolT, []*Type{i32, i32}, false)
	assert.Equal(t, Failure, a.Check(f1, f2).Status)

	f3 := a.Function(boolT, []*Type{i32}, true)
	assert.Equal(t, Failure, a.Check(f1, f3).Status, "IsMeta must match")
}

func TestCheckModifierRequiresEqualSet(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	mutI32 := a.AddModifier(i32, "mut")
	sharedI32 := a.AddModifier(i32, "shared")

	assert.Equal(t, Failure, a.Check(mutI32, sharedI32).Status)
	assert.NotEqual(t, Failure, a.Check(mutI32, a.AddModifier(i32, "mut")).Status)
}

func TestCheckDataTypeSameNameBothUnboundSucceeds(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	d1 := a.DeclareDataType("Plain", ShapeRecord, []*Type{i32}, nil, nil, nil)

	res := a.Check(d1, d1)
	assert.Equal(t, Success, res.Status)
}

func TestCheckDataTypeVariantsRecurseBoundArguments(t *testing.T) {
	a := NewArena()
	box := declareBox(a)
	i32 := a.MustPrimitive(I32)
	boolT := a.MustPrimitive(Bool)

	boxI32 := a.InstantiateDataType(box, []*Type{i32}, nil, syntax.Pos{})
	boxI32Again := a.InstantiateDataType(box, []*Type{i32}, nil, syntax.Pos{})
	assert.Equal(t, Success, a.Check(boxI32, boxI32Again).Status)

	boxBool := a.InstantiateDataType(box, []*Type{boolT}, nil, syntax.Pos{})
	assert.Equal(t, Failure, a.Check(boxI32, boxBool).Status)
}

func TestCheckDataTypeOneBoundOneDeclarationBindsVariables(t *testing.T) {
	a := NewArena()
	box := declareBox(a)
	i32 := a.MustPrimitive(I32)
	boxI32 := a.InstantiateDataType(box, []*Type{i32}, nil, syntax.Pos{})

	res := a.Check(box, boxI32)
	assert.Equal(t, SuccessWithTypeVars, res.Status)
	bound, ok := res.lookup("a")
	assert.True(t, ok)
	assert.True(t, StructuralEqual(bound, i32))
}

func TestCheckTraitFallbackMatchesImplementor(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	a.RegisterTrait("Show")
	impl := a.DeclareDataType("Widget", ShapeRecord, []*Type{i32}, nil, []string{"Show"}, nil)
	trait := a.Stub("Show")

	res := a.Check(trait, impl)
	assert.Equal(t, Success, res.Status)
}

func TestCheckTraitFallbackRejectsNonImplementor(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	a.RegisterTrait("Show")
	a.DeclareDataType("Widget", ShapeRecord, []*Type{i32}, nil, nil, nil)
	trait := a.Stub("Show")
	widget, _ := a.LookupDataType("Widget")

	res := a.Check(trait, widget)
	assert.Equal(t, Failure, res.Status)
}

func TestCheckTraitFallbackRejectsStubImplementor(t *testing.T) {
	a := NewArena()
	a.RegisterTrait("Show")
	trait := a.Stub("Show")
	stub := a.Stub("NotYetDeclared")

	res := a.Check(trait, stub)
	assert.Equal(t, Failure, res.Status, "a stub cannot satisfy a trait fallback")
}

func TestCheckDifferentKindsFail(t *testing.T) {
	a := NewArena()
	i32 := a.MustPrimitive(I32)
	res := a.Check(i32, a.Pointer(i32))
	assert.Equal(t, Failure, res.Status)
}
