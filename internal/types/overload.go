// Overload / candidate resolution (§4.5): ranking a set of candidate
// signatures against a call's argument types by accumulated match count.
package types

import (
	"github.com/antecc/antec/internal/diagnostics"
	"github.com/antecc/antec/internal/syntax"
)

// Candidate is one overload member under consideration: an ordered
// parameter list together with whatever identifies it to the caller (a
// function Type, a DataType constructor, etc.) — Ref is opaque to this
// package.
type Candidate struct {
	Ref    interface{}
	Params []*Type
}

// Resolution is one candidate's outcome against a call's arguments.
type Resolution struct {
	Candidate Candidate
	Result    *CheckResult
}

// ResolveOverload checks args against every candidate's parameter list in
// turn, threading one CheckResult per candidate across all of its
// parameters (so a repeated type variable across parameters ties
// consistently, §4.4), and returns the candidates that succeeded
// (Success or SuccessWithTypeVars), ranked by descending match count —
// the spec's tie-break for "closest" overload. Arity mismatches are
// dropped before equivalence is even attempted.
func (a *Arena) ResolveOverload(candidates []Candidate, args []*Type) []Resolution {
	var out []Resolution
	for _, c := range candidates {
		if len(c.Params) != len(args) {
			continue
		}
		res := &CheckResult{Status: Success}
		for i, p := range c.Params {
			a.CheckWith(res, p, args[i])
			if res.Status == Failure || res.Fatal != nil {
				break
			}
		}
		if res.Status != Failure {
			out = append(out, Resolution{Candidate: c, Result: res})
		}
	}
	sortResolutionsByMatchCount(out)
	return out
}

func sortResolutionsByMatchCount(rs []Resolution) {
	for i := 1; i < len(rs); i++ {
		j := i
		for j > 0 && rs[j-1].Result.MatchCount < rs[j].Result.MatchCount {
			rs[j-1], rs[j] = rs[j], rs[j-1]
			j--
		}
	}
}

// BestOverload picks the single best resolution, reporting
// CodeAmbiguousMatch when the top match count is shared by more than one
// candidate (the caller still gets the first of the tied group back, so
// compilation of the enclosing expression can continue with one
// diagnostic instead of aborting).
func (a *Arena) BestOverload(candidates []Candidate, args []*Type, diags *diagnostics.Bag, at syntax.Pos) (*Resolution, bool) {
	ranked := a.ResolveOverload(candidates, args)
	if len(ranked) == 0 {
		return nil, false
	}
	top := ranked[0].Result.MatchCount
	ties := 1
	for _, r := range ranked[1:] {
		if r.Result.MatchCount == top {
			ties++
			continue
		}
		break
	}
	if ties > 1 && diags != nil {
		diags.Report(diagnostics.CodeAmbiguousMatch, at,
			"%d candidates tie with match count %d", ties, top)
	}
	return &ranked[0], true
}
