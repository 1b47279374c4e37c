package term

import "errors"

// ErrNoSolution is the local, recoverable failure unification reports.
// Per the engine's error design, this must never cross into a
// caller-visible result; it is consumed inside the solve loop to decide
// that one strand, clause, or merge attempt is a dead end.
var ErrNoSolution = errors.New("term: no solution")

// Constraint is a residual left over from unification that could not be
// resolved into a binding — the stand-in for chalk's region/lifetime
// constraints referenced by spec.md's ExClause.constraints field. This
// concrete language has no lifetimes, so a Constraint only ever arises
// from a caller-supplied hook; Unify itself never produces one, but the
// type exists so ExClause.Constraints has something concrete to hold
// when a richer TermServices wants to report one.
type Constraint struct {
	Description string
}

// Unify walks a and b under sub and, on success, returns an extended
// substitution plus any residual constraints. Adapted from gokanlogic's
// primitives.go unify: walk both sides, bind free variables, and recurse
// structurally into compounds of matching functor/arity.
func Unify(a, b Term, sub *Substitution) (*Substitution, []Constraint, error) {
	out := sub.Clone()
	if ok := unify(a, b, out); !ok {
		return nil, nil, ErrNoSolution
	}
	return out, nil, nil
}

func unify(a, b Term, sub *Substitution) bool {
	a = sub.Walk(a)
	b = sub.Walk(b)

	if va, ok := a.(*Var); ok {
		if vb, ok := b.(*Var); ok && vb.ID == va.ID {
			return true
		}
		sub.BindInPlace(va, b)
		return true
	}
	if vb, ok := b.(*Var); ok {
		sub.BindInPlace(vb, a)
		return true
	}

	switch ta := a.(type) {
	case *Atom:
		tb, ok := b.(*Atom)
		return ok && ta.Value == tb.Value
	case *Compound:
		tb, ok := b.(*Compound)
		if !ok || ta.Functor != tb.Functor || len(ta.Args) != len(tb.Args) {
			return false
		}
		for i := range ta.Args {
			if !unify(ta.Args[i], tb.Args[i], sub) {
				return false
			}
		}
		return true
	default:
		return a.Equal(b)
	}
}
