// Package term implements the concrete term language that slgforest's
// engine package treats as an opaque external collaborator: variables,
// atoms, and functor/argument compounds, plus the canonicalization and
// unification machinery needed to make the engine runnable end to end.
//
// The shapes here are adapted from gokanlogic's miniKanren core
// (Term/Var/Atom/Pair), stripped of the mutexes that core carries for its
// goroutine-per-strand concurrency model: slgforest's engine is strictly
// single-threaded and cooperative, so a term is touched by exactly one
// strand at a time.
package term

import "fmt"

// Term is any value in the language the engine's default TermServices
// implementation (stdservices) operates over.
type Term interface {
	String() string
	Equal(other Term) bool
	IsVar() bool
}

// Var is a logic variable tagged with the universe it was introduced in.
// Universe 0 is the root universe; forall-bound variables introduce a
// fresh, higher universe so that u-canonicalization can tell a caller's
// existing variables apart from ones bound deeper inside a goal.
type Var struct {
	ID       int64
	Name     string
	Universe int
}

func (v *Var) String() string {
	if v.Name != "" {
		return fmt.Sprintf("_%s_%d", v.Name, v.ID)
	}
	return fmt.Sprintf("_G%d", v.ID)
}

func (v *Var) Equal(other Term) bool {
	ov, ok := other.(*Var)
	return ok && ov.ID == v.ID
}

func (v *Var) IsVar() bool { return true }

// Atom is an atomic, self-representing value: a symbol, number, or string.
type Atom struct {
	Value any
}

func NewAtom(value any) *Atom { return &Atom{Value: value} }

func (a *Atom) String() string { return fmt.Sprintf("%v", a.Value) }

func (a *Atom) Equal(other Term) bool {
	oa, ok := other.(*Atom)
	return ok && oa.Value == a.Value
}

func (a *Atom) IsVar() bool { return false }

// Compound is a functor applied to a fixed arity of argument terms, e.g.
// nat(succ(X)). This is the shape domain goals and clause heads take: a
// predicate name plus its arguments. It is gokanlogic's cons-cell Pair
// generalized from a fixed binary shape to arbitrary arity, which is the
// natural representation for Horn-clause goals rather than miniKanren
// list structures.
type Compound struct {
	Functor string
	Args    []Term
}

func NewCompound(functor string, args ...Term) *Compound {
	return &Compound{Functor: functor, Args: args}
}

func (c *Compound) String() string {
	if len(c.Args) == 0 {
		return c.Functor
	}
	s := c.Functor + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (c *Compound) Equal(other Term) bool {
	oc, ok := other.(*Compound)
	if !ok || oc.Functor != c.Functor || len(oc.Args) != len(c.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(oc.Args[i]) {
			return false
		}
	}
	return true
}

func (c *Compound) IsVar() bool { return false }

// Arity reports the functor/arity pair used to index clauses and
// canonical forms, mirroring the (functor, arity) bucketing gokanlogic's
// CallPattern performs over predicate identifiers.
func (c *Compound) Arity() (string, int) { return c.Functor, len(c.Args) }
