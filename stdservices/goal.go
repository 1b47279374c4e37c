package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// Call builds a domain goal calling a predicate by name with the given
// arguments, the leaf goal kind this implementation's ClauseSource and
// Database both key on.
func Call(functor string, args ...term.Term) *engine.DomainGoal {
	return &engine.DomainGoal{Payload: term.NewCompound(functor, args...)}
}

// And builds a (possibly empty) conjunction.
func And(goals ...engine.Goal) *engine.AndGoal {
	return &engine.AndGoal{Goals: goals}
}

// Not builds a negation.
func Not(body engine.Goal) *engine.NotGoal {
	return &engine.NotGoal{Body: body}
}

// Forall builds a universal quantification.
func Forall(varName string, body engine.Goal) *engine.ForallGoal {
	return &engine.ForallGoal{VarName: varName, Body: body}
}

// Exists builds an existential quantification.
func Exists(varName string, body engine.Goal) *engine.ExistsGoal {
	return &engine.ExistsGoal{VarName: varName, Body: body}
}

// Implies builds a `clauses => body` goal.
func Implies(body engine.Goal, clauses ...engine.Clause) *engine.ImpliesGoal {
	return &engine.ImpliesGoal{Clauses: clauses, Body: body}
}

// Eq builds a term equality goal between two terms.
func Eq(a, b term.Term) *engine.EqGoal {
	return &engine.EqGoal{A: a, B: b}
}

// Fact builds a zero-body clause (a fact) with the given head.
func Fact(head term.Term) engine.Clause {
	return engine.Clause{Head: head}
}

// Rule builds a clause whose body is one or more goals (implicitly
// conjoined), the Horn-clause shape spec.md §3 describes.
func Rule(head term.Term, body ...engine.Goal) engine.Clause {
	return engine.Clause{Head: head, Body: body}
}

// payloadTerm extracts a domain goal's term payload, defecting if
// something other than this implementation's own Call built the goal —
// a programming error in the caller, not a runtime condition.
func payloadTerm(g *engine.DomainGoal) term.Term {
	t, ok := g.Payload.(term.Term)
	if !ok {
		panic("stdservices: domain goal payload is not a term.Term")
	}
	return t
}

// Var builds a per-use template placeholder: a variable identified only
// by name (ID 0, never minted by a VarSource), substituted for a fresh
// variable each time a clause or quantified goal containing it is
// instantiated. Using it anywhere else is a programming error.
func Var(name string) *term.Var {
	return &term.Var{Name: name}
}

// literalTerm extracts the term payload of a subgoal/delayed-goal
// literal, which HH simplification (engine/simplify.go) always leaves as
// a bare domain goal regardless of polarity.
func literalTerm(g engine.Goal) term.Term {
	dg, ok := g.(*engine.DomainGoal)
	if !ok {
		panic("stdservices: subgoal literal must be a domain goal")
	}
	return payloadTerm(dg)
}

// bodyShape distinguishes a clause body literal's polarity before HH
// simplification has run: a clause's Body is raw engine.Goal values
// (either a call or its negation), not yet the Literal shape simplifyHH
// produces.
type bodyShape int

const (
	shapeCall bodyShape = iota
	shapeNot
)

// bodyGoalShape extracts a clause-body goal's term payload and shape, the
// inverse of goalFromShape.
func bodyGoalShape(g engine.Goal) (term.Term, bodyShape) {
	switch v := g.(type) {
	case *engine.DomainGoal:
		return payloadTerm(v), shapeCall
	case *engine.NotGoal:
		inner, ok := v.Body.(*engine.DomainGoal)
		if !ok {
			panic("stdservices: negated clause body literal must wrap a domain goal")
		}
		return payloadTerm(inner), shapeNot
	default:
		panic("stdservices: clause body literal must be a call or its negation")
	}
}

// goalFromShape rebuilds a clause-body goal from its term and shape.
func goalFromShape(shape bodyShape, t term.Term) engine.Goal {
	dg := &engine.DomainGoal{Payload: t}
	if shape == shapeNot {
		return &engine.NotGoal{Body: dg}
	}
	return dg
}
