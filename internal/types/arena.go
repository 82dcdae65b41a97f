package types

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/antecc/antec/internal/config"
)

// Arena is the process-wide interning authority (§4.1, §5). Every Type that
// ever becomes reachable from user code was produced by one of its methods;
// nothing else constructs a *Type. The zero value is not ready to use —
// call NewArena.
type Arena struct {
	primitives map[Primitive]*Type
	pointers   map[*Type]*Type
	arrays     map[arrayKey]*Type
	aggregates map[string]*Type
	functions  map[string]*Type
	typeVars   map[string]*Type
	other      map[string]*Type // modifier-wrapped forms of every other kind

	// dataTypes holds every declared DataType (and every instantiated
	// variant of it) keyed by name (a variant by its name followed by every
	// bound argument in angle brackets), ordered for deterministic
	// traversal during validation and ClearDeclaredTypes (§5).
	dataTypes    btree.Map[string, *DataType]
	dataTypeRefs map[string]*Type // same key -> the KDataType Type wrapping it

	traits map[string]bool // registered trait names, for equivalence's fallback (§4.4.5)
}

type arrayKey struct {
	length int
	elem   *Type
}

func NewArena() *Arena {
	return &Arena{
		primitives:   make(map[Primitive]*Type),
		pointers:     make(map[*Type]*Type),
		arrays:       make(map[arrayKey]*Type),
		aggregates:   make(map[string]*Type),
		functions:    make(map[string]*Type),
		typeVars:     make(map[string]*Type),
		other:        make(map[string]*Type),
		dataTypeRefs: make(map[string]*Type),
		traits:       make(map[string]bool),
	}
}

// ErrUnknownPrimitive is fatal (§7.1): a caller asked for a Primitive() of
// a tag that was never registered, which can only be a programming error.
type ErrUnknownPrimitive struct{ Tag Primitive }

func (e *ErrUnknownPrimitive) Error() string {
	return fmt.Sprintf("unknown primitive tag: %v", e.Tag)
}

var validPrimitives = map[Primitive]bool{
	I8: true, I16: true, I32: true, I64: true, INative: true,
	U8: true, U16: true, U32: true, U64: true, UNative: true,
	F16: true, F32: true, F64: true,
	Char8: true, Char32: true,
	Bool: true, Void: true,
	TypeItself: true, CandidateSet: true,
}

// Primitive interns (or returns the existing interned) primitive type for
// tag. Panics' substitute here is an explicit error: UnknownPrimitive is
// fatal but the caller (not the arena) decides how to die.
func (a *Arena) Primitive(tag Primitive) (*Type, error) {
	if !validPrimitives[tag] {
		return nil, &ErrUnknownPrimitive{Tag: tag}
	}
	if t, ok := a.primitives[tag]; ok {
		return t, nil
	}
	t := &Type{Kind: KPrimitive, Prim: tag}
	a.primitives[tag] = t
	return t, nil
}

// MustPrimitive is Primitive without the error return, for the fixed set of
// tags the compiler itself constructs (never user-controlled).
func (a *Arena) MustPrimitive(tag Primitive) *Type {
	t, err := a.Primitive(tag)
	if err != nil {
		panic(err)
	}
	return t
}

// Pointer interns Pointer(to: elem).
func (a *Arena) Pointer(elem *Type) *Type {
	if t, ok := a.pointers[elem]; ok {
		return t
	}
	t := &Type{Kind: KPointer, Elem: elem}
	a.pointers[elem] = t
	return t
}

// Array interns Array(element, length). length == 0 denotes an
// unknown/runtime length (§3; see DESIGN.md for the Open Question
// resolution).
func (a *Arena) Array(elem *Type, length int) *Type {
	key := arrayKey{length: length, elem: elem}
	if t, ok := a.arrays[key]; ok {
		return t
	}
	t := &Type{Kind: KArray, Elem: elem, Length: length}
	a.arrays[key] = t
	return t
}

// Aggregate interns Aggregate(shape, members). For ShapeFunction and
// ShapeMetaFunction, members[0] is the return type and members[1:] the
// parameters, per §3.
func (a *Arena) Aggregate(shape AggregateShape, members []*Type) *Type {
	t := &Type{Kind: KAggregate, Shape: shape, Members: members}
	key := fmt.Sprintf("agg:%d:%s", shape, t.String())
	if existing, ok := a.aggregates[key]; ok {
		return existing
	}
	a.aggregates[key] = t
	return t
}

// Function interns Function(ret, params, isMeta), kept apart from
// Aggregate so a modifier applied to a function reference cannot reach
// into its signature (M2).
func (a *Arena) Function(ret *Type, params []*Type, isMeta bool) *Type {
	t := &Type{Kind: KFunction, Return: ret, Params: params, IsMeta: isMeta}
	key := fmt.Sprintf("fn:%v:%s", isMeta, t.String())
	if existing, ok := a.functions[key]; ok {
		return existing
	}
	a.functions[key] = t
	return t
}

// TypeVariable interns TypeVariable(name).
func (a *Arena) TypeVariable(name string) *Type {
	if t, ok := a.typeVars[name]; ok {
		return t
	}
	t := &Type{Kind: KTypeVariable, VarName: name}
	a.typeVars[name] = t
	return t
}

// DeclareDataType registers a fresh named DataType declaration (record or
// tagged union). If name was already referenced as a stub (I3), the stub's
// members are filled in place rather than replacing the Type's identity,
// so pointers taken to the stub before its definition remain valid. tags
// maps a tagged union's variant names to their small integer tag (nil for
// a Record, or a TaggedUnion whose parser collaborator has not assigned
// tags yet).
func (a *Arena) DeclareDataType(name string, shape DataTypeShape, members []*Type, genericParams []string, traitImpls []string, tags map[string]int) *Type {
	if existing, ok := a.dataTypeRefs[name]; ok && existing.Data.Stub {
		existing.Data.Members = members
		existing.Data.Shape = shape
		existing.Data.GenericParams = genericParams
		existing.Data.Tags = tags
		existing.Data.Stub = false
		a.applyTraitImpls(existing.Data, traitImpls)
		return existing
	}
	d := &DataType{Name: name, Members: members, Shape: shape, GenericParams: genericParams, Tags: tags}
	a.applyTraitImpls(d, traitImpls)
	return a.internDataType(d)
}

func (a *Arena) applyTraitImpls(d *DataType, traitImpls []string) {
	if len(traitImpls) == 0 {
		return
	}
	if d.TraitImpls == nil {
		d.TraitImpls = make(map[string]bool, len(traitImpls))
	}
	for _, tr := range traitImpls {
		d.TraitImpls[tr] = true
		a.traits[tr] = true
	}
}

// DeclareAlias registers name as an alias of target (DataType.AliasOf).
func (a *Arena) DeclareAlias(name string, target *Type, genericParams []string) *Type {
	d := &DataType{Name: name, AliasOf: target, GenericParams: genericParams}
	return a.internDataType(d)
}

// Stub returns the named DataType, creating an incomplete stub (I3) if the
// name has never been seen. Stubs may be pointed to; they reject size and
// lowering requests until DeclareDataType fills them in.
func (a *Arena) Stub(name string) *Type {
	if t, ok := a.dataTypeRefs[name]; ok {
		return t
	}
	d := &DataType{Name: name, Stub: true}
	return a.internDataType(d)
}

func (a *Arena) internDataType(d *DataType) *Type {
	t := &Type{Kind: KDataType, Data: d}
	a.dataTypeRefs[d.Name] = t
	a.dataTypes.Set(d.Name, d)
	return t
}

// RegisterTrait makes name known as a trait so equivalence's fallback
// (§4.4.5) can consider it. DataType.TraitImpls entries for a trait not
// registered here still satisfy fallback once the trait appears in a
// declaration's implementor list (see applyTraitImpls); this entry point
// additionally covers traits declared with zero current implementors.
func (a *Arena) RegisterTrait(name string) {
	a.traits[name] = true
}

func (a *Arena) IsTrait(name string) bool { return a.traits[name] }

// WithModifierSet returns the interned Modifier-wrapped form of t carrying
// exactly S (§4.2). An empty S strips any wrapping and returns the plain
// canonical form. M1: for every kind except Function, the wrap recurses
// into immediate members so the result is closed under projection. M2:
// Function's Params/Return are left untouched.
func (a *Arena) WithModifierSet(t *Type, s ModifierSet) *Type {
	if t == nil {
		return nil
	}
	bare := t
	if bare.Kind == KModifier {
		bare = bare.Underlying
	}
	if s.Empty() {
		return bare
	}

	wrapped := bare
	switch bare.Kind {
	case KPointer:
		wrapped = a.Pointer(a.WithModifierSet(bare.Elem, s))
	case KArray:
		wrapped = a.Array(a.WithModifierSet(bare.Elem, s), bare.Length)
	case KAggregate:
		newMembers := make([]*Type, len(bare.Members))
		for i, m := range bare.Members {
			newMembers[i] = a.WithModifierSet(m, s)
		}
		wrapped = a.Aggregate(bare.Shape, newMembers)
	case KFunction:
		// M2: no recursion into Params/Return.
		wrapped = bare
	case KDataType:
		// M1: a DataType's own members are re-wrapped with S too, same as
		// any other composite kind; only Function is exempt (M2).
		wrapped = a.withModifierSetDataType(bare.Data, s)
	case KTypeVariable, KPrimitive:
		// True leaves: nothing to recurse into.
		wrapped = bare
	}

	key := s.Key() + "|" + wrapped.String()
	if existing, ok := a.other[key]; ok {
		return existing
	}
	m := &Type{Kind: KModifier, ModSet: s, Underlying: wrapped}
	a.other[key] = m
	return m
}

// withModifierSetDataType builds the re-wrapped form of a DataType whose
// members (not its name, shape, or generic bookkeeping) carry S, per M1. It
// is not interned on its own — identity is provided by WithModifierSet's
// caller-side cache in a.other — since a DataType's canonical, unmodified
// form must remain reachable under its declared name regardless of what
// modifier-qualified views of it get built.
func (a *Arena) withModifierSetDataType(d *DataType, s ModifierSet) *Type {
	nd := &DataType{
		Name:           d.Name,
		Shape:          d.Shape,
		GenericParams:  d.GenericParams,
		BoundArguments: d.BoundArguments,
		AliasOf:        d.AliasOf,
		TraitImpls:     d.TraitImpls,
		Tags:           d.Tags,
		Parent:         d.Parent,
		Stub:           d.Stub,
	}
	if !d.Stub && d.AliasOf == nil {
		nd.Members = make([]*Type, len(d.Members))
		for i, m := range d.Members {
			nd.Members[i] = a.WithModifierSet(m, s)
		}
	}
	return &Type{Kind: KDataType, Data: nd}
}

// HasModifier is O(1) (§4.2).
func HasModifier(t *Type, mod string) bool {
	return t != nil && t.Kind == KModifier && t.ModSet.Has(mod)
}

// AddModifier is idempotent: if mod is already present, t is returned
// unchanged (§4.2).
func (a *Arena) AddModifier(t *Type, mod string) *Type {
	cur := ModifierSet{}
	if t.Kind == KModifier {
		cur = t.ModSet
	}
	if cur.Has(mod) {
		return t
	}
	return a.WithModifierSet(t, cur.Added(mod))
}

// Unwrap strips a Modifier wrapper, returning the underlying type and its
// modifier set (empty if t wasn't modified).
func Unwrap(t *Type) (*Type, ModifierSet) {
	if t != nil && t.Kind == KModifier {
		return t.Underlying, t.ModSet
	}
	return t, ModifierSet{}
}

// ClearDeclaredTypes drops every user-defined DataType between independent
// input files, without touching primitive or structural interns (§5).
func (a *Arena) ClearDeclaredTypes() {
	a.dataTypes = btree.Map[string, *DataType]{}
	a.dataTypeRefs = make(map[string]*Type)
	a.traits = make(map[string]bool)
}

// LookupDataType returns the declared or variant DataType registered under
// name, for collaborators (e.g. the resolver the equivalence algorithm
// consults for alias unwrapping) that only have a name to go on.
func (a *Arena) LookupDataType(name string) (*Type, bool) {
	t, ok := a.dataTypeRefs[name]
	return t, ok
}

// DeclaredNames returns every currently-declared DataType name in
// canonical (sorted) order, driven by the btree so validation passes see a
// deterministic order run to run.
func (a *Arena) DeclaredNames() []string {
	names := make([]string, 0, a.dataTypes.Len())
	a.dataTypes.Scan(func(name string, _ *DataType) bool {
		names = append(names, name)
		return true
	})
	return names
}

// NativeWidth is the bit width of INative/UNative/a pointer on the target
// this Arena was constructed for.
func (a *Arena) NativeWidth() int { return config.NativePointerWidth }
