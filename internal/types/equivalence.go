// Equivalence / unification (§4.4): the central operation that decides
// whether two types match, emitting the bindings that would make them
// match, with trait-implementation fallback.
package types

import "github.com/antecc/antec/internal/diagnostics"

// Status is the three-way outcome of a Check (§4.4).
type Status int

const (
	Success Status = iota
	SuccessWithTypeVars
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case SuccessWithTypeVars:
		return "SuccessWithTypeVars"
	case Failure:
		return "Failure"
	default:
		return "?Status"
	}
}

// CheckResult carries the outcome of Check: the status, an atomic match
// count for overload ranking (§4.5), and the bindings accumulated along
// the way. Bindings is append-only within one Check call; a repeated name
// keeps its first entry (§4.4 "tie-breaks").
type CheckResult struct {
	Status     Status
	MatchCount int
	Bindings   []Binding

	// Fatal is set only by the one fatal condition that arises during
	// equivalence: a self-referential type-variable binding. The other,
	// size requests on stubs, is a separate entry point (size.go) and
	// never reaches here.
	Fatal *diagnostics.Fatal
}

func (r *CheckResult) lookup(name string) (*Type, bool) {
	for _, b := range r.Bindings {
		if b.Param == name {
			return b.Arg, true
		}
	}
	return nil, false
}

func (r *CheckResult) markSuccessWithVars() {
	if r.Status == Success {
		r.Status = SuccessWithTypeVars
	}
}

// Check decides whether l and r match, starting from no prior bindings.
func (a *Arena) Check(l, r *Type) *CheckResult {
	res := &CheckResult{Status: Success}
	a.check(l, r, res)
	return res
}

// CheckWith continues a Check that already carries bindings from an
// earlier call in the same overload candidate (§4.5: list equivalence
// across several arguments accumulates one CheckResult).
func (a *Arena) CheckWith(res *CheckResult, l, r *Type) {
	a.check(l, r, res)
}

func (a *Arena) check(l, r *Type, res *CheckResult) {
	if res.Status == Failure || res.Fatal != nil {
		return
	}

	// Step 1: pointer equality short-circuit.
	if l == r && !IsGeneric(l, nil) {
		res.MatchCount += numAtoms(l)
		return
	}

	// Step 2: alias unwrap.
	if l.Kind == KDataType && l.Data.AliasOf != nil {
		a.check(l.Data.AliasOf, r, res)
		return
	}
	if r.Kind == KDataType && r.Data.AliasOf != nil {
		a.check(l, r.Data.AliasOf, res)
		return
	}

	// Step 3: Record <-> TaggedUnion cross-match by shared nominal identity.
	if l.Kind == KDataType && r.Kind == KDataType &&
		l.Data.Name == r.Data.Name && l.Data.Shape != r.Data.Shape {
		res.MatchCount++
		return
	}

	// Step 4: type variable cases.
	lVar, rVar := l.Kind == KTypeVariable, r.Kind == KTypeVariable
	if lVar || rVar {
		a.checkTypeVar(l, r, lVar, rVar, res)
		return
	}

	if l.Kind != r.Kind {
		res.Status = Failure
		return
	}

	switch l.Kind {
	case KPrimitive:
		if l.Prim == r.Prim {
			res.MatchCount++
			return
		}
		res.Status = Failure

	case KPointer:
		a.check(l.Elem, r.Elem, res)

	case KArray:
		if l.Length != r.Length {
			res.Status = Failure
			return
		}
		a.check(l.Elem, r.Elem, res)

	case KAggregate:
		if l.Shape != r.Shape || len(l.Members) != len(r.Members) {
			res.Status = Failure
			return
		}
		for i := range l.Members {
			a.check(l.Members[i], r.Members[i], res)
			if res.Status == Failure || res.Fatal != nil {
				return
			}
		}

	case KFunction:
		if l.IsMeta != r.IsMeta || len(l.Params) != len(r.Params) {
			res.Status = Failure
			return
		}
		a.check(l.Return, r.Return, res)
		if res.Status == Failure || res.Fatal != nil {
			return
		}
		for i := range l.Params {
			a.check(l.Params[i], r.Params[i], res)
			if res.Status == Failure || res.Fatal != nil {
				return
			}
		}

	case KModifier:
		if !l.ModSet.Equal(r.ModSet) {
			res.Status = Failure
			return
		}
		a.check(l.Underlying, r.Underlying, res)

	case KDataType:
		if l.Data.Name == r.Data.Name {
			a.checkDataTypeSameName(l, r, res)
			return
		}
		a.checkTraitFallback(l, r, res)

	default:
		res.Status = Failure
	}
}

// checkTypeVar implements §4.4 step 4.
func (a *Arena) checkTypeVar(l, r *Type, lVar, rVar bool, res *CheckResult) {
	if lVar && rVar && l.VarName == r.VarName {
		if bound, ok := res.lookup(l.VarName); ok {
			a.bind(res, l.VarName, bound)
		}
		return
	}

	if lVar != rVar {
		varName, other := l.VarName, r
		if rVar {
			varName, other = r.VarName, l
		}
		if bound, ok := res.lookup(varName); ok {
			sub := &CheckResult{Status: Success}
			a.check(bound, other, sub)
			if sub.Status == Failure || sub.Fatal != nil {
				res.Status = Failure
				res.Fatal = sub.Fatal
				return
			}
			a.mergeBindings(res, sub)
			res.markSuccessWithVars()
			return
		}
		a.bind(res, varName, other)
		return
	}

	// Both are (distinct) type variables.
	lBound, lok := res.lookup(l.VarName)
	rBound, rok := res.lookup(r.VarName)
	switch {
	case lok && rok:
		a.check(lBound, rBound, res)
		res.markSuccessWithVars()
	case lok:
		a.bind(res, r.VarName, lBound)
	case rok:
		a.bind(res, l.VarName, rBound)
	default:
		// Neither bound: 'a = 'b is always true, no commitment recorded.
	}
}

// bind appends (name, t) to res, honoring the append-only tie-break: a
// repeated name keeps its first binding and the new occurrence is checked
// against it in a fresh sub-result so its match count is not double
// counted (§4.4). It also performs the occurs check that makes a
// self-referential binding fatal (§7).
func (a *Arena) bind(res *CheckResult, name string, t *Type) {
	if existing, ok := res.lookup(name); ok {
		sub := &CheckResult{Status: Success}
		a.check(existing, t, sub)
		if sub.Status == Failure || sub.Fatal != nil {
			res.Status = Failure
			res.Fatal = sub.Fatal
			return
		}
		a.mergeBindings(res, sub)
		res.markSuccessWithVars()
		return
	}
	for _, free := range FreeTypeVariables(t) {
		if free == name {
			res.Fatal = diagnostics.NewFatal(diagnostics.CodeUnboundTypeVar,
				"self-referential type variable binding: '%s' occurs in %s", name, t.String())
			res.Status = Failure
			return
		}
	}
	res.Bindings = append(res.Bindings, Binding{Param: name, Arg: t})
	res.markSuccessWithVars()
}

// mergeBindings folds sub's freshly discovered bindings into res, without
// carrying over sub's match count (it was computed against an
// already-accumulated binding and would double count, §4.4).
func (a *Arena) mergeBindings(res *CheckResult, sub *CheckResult) {
	for _, b := range sub.Bindings {
		a.bind(res, b.Param, b.Arg)
	}
}

// checkDataTypeSameName implements §4.4 step 8.
func (a *Arena) checkDataTypeSameName(l, r *Type, res *CheckResult) {
	lb, rb := l.Data.IsVariant(), r.Data.IsVariant()
	switch {
	case !lb && !rb:
		res.MatchCount++
	case lb && rb:
		if len(l.Data.BoundArguments) != len(r.Data.BoundArguments) {
			res.Status = Failure
			return
		}
		for i := range l.Data.BoundArguments {
			a.check(l.Data.BoundArguments[i].Arg, r.Data.BoundArguments[i].Arg, res)
			if res.Status == Failure || res.Fatal != nil {
				return
			}
		}
	default:
		bound := l
		if rb {
			bound = r
		}
		for _, b := range bound.Data.BoundArguments {
			a.bind(res, b.Param, b.Arg)
			if res.Status == Failure || res.Fatal != nil {
				return
			}
		}
		res.markSuccessWithVars()
	}
}

// checkTraitFallback implements §4.4 step 5's exception: two named
// DataTypes of different names still match if exactly one name is a
// registered trait and the other a concrete (non-stub) implementor.
func (a *Arena) checkTraitFallback(l, r *Type, res *CheckResult) {
	lIsTrait, rIsTrait := a.IsTrait(l.Data.Name), a.IsTrait(r.Data.Name)
	var traitSide, concreteSide *Type
	switch {
	case lIsTrait && !rIsTrait:
		traitSide, concreteSide = l, r
	case rIsTrait && !lIsTrait:
		traitSide, concreteSide = r, l
	default:
		res.Status = Failure
		return
	}
	if concreteSide.Data.Stub {
		res.Status = Failure
		return
	}
	if concreteSide.Data.ImplementsTrait(traitSide.Data.Name) {
		res.MatchCount++
		return
	}
	res.Status = Failure
}

// numAtoms counts the atomic equality steps a full structural comparison
// of t against itself would contribute, for the step-1 pointer-equality
// short-circuit's match count (§4.4 "tie-breaks").
func numAtoms(t *Type) int {
	switch t.Kind {
	case KPrimitive:
		return 1
	case KPointer, KArray:
		return numAtoms(t.Elem)
	case KAggregate:
		sum := 0
		for _, m := range t.Members {
			sum += numAtoms(m)
		}
		return sum
	case KFunction:
		sum := numAtoms(t.Return)
		for _, p := range t.Params {
			sum += numAtoms(p)
		}
		return sum
	case KModifier:
		return numAtoms(t.Underlying)
	case KDataType:
		if t.Data.IsVariant() {
			sum := 0
			for _, b := range t.Data.BoundArguments {
				sum += numAtoms(b.Arg)
			}
			if sum == 0 {
				return 1
			}
			return sum
		}
		return 1
	default:
		return 0
	}
}

// StructuralEqual is the I1 fast path: since every Type reachable from
// user code was produced by an Arena, structural identity and pointer
// identity coincide.
func StructuralEqual(l, r *Type) bool { return l == r }
