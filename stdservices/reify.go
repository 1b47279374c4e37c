package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// reifyGoal and unreifyGoal let a u-canonical goal's registry entry
// (a single term.Canonical) represent any goal shape, not only a flat
// domain call: the root query a caller hands the forest may itself be
// `exists X. G` or `¬G` (spec.md's end-to-end scenarios 3 and 6 both
// root a query this way), and engine/forest.go's populateTable expects
// InstantiateUCanonicalGoal to hand back whatever shape the table's own
// goal actually has so it can run HH simplification on it.
//
// The encoding tags each goal kind with a reserved "$"-prefixed functor,
// mirroring term.CanonicalizeTerms' own "$tuple" convention; user
// predicates never start with "$", so there is no collision risk.
func reifyGoal(g engine.Goal) term.Term {
	switch x := g.(type) {
	case *engine.DomainGoal:
		return &term.Compound{Functor: "$call", Args: []term.Term{payloadTerm(x)}}
	case *engine.NotGoal:
		return &term.Compound{Functor: "$not", Args: []term.Term{reifyGoal(x.Body)}}
	case *engine.AndGoal:
		args := make([]term.Term, len(x.Goals))
		for i, sub := range x.Goals {
			args[i] = reifyGoal(sub)
		}
		return &term.Compound{Functor: "$and", Args: args}
	case *engine.ForallGoal:
		return &term.Compound{Functor: "$forall", Args: []term.Term{term.NewAtom(x.VarName), reifyGoal(x.Body)}}
	case *engine.ExistsGoal:
		return &term.Compound{Functor: "$exists", Args: []term.Term{term.NewAtom(x.VarName), reifyGoal(x.Body)}}
	case *engine.ImpliesGoal:
		clauseTerms := make([]term.Term, len(x.Clauses))
		for i, cl := range x.Clauses {
			clauseTerms[i] = reifyClause(cl)
		}
		return &term.Compound{Functor: "$implies", Args: []term.Term{
			&term.Compound{Functor: "$clauses", Args: clauseTerms},
			reifyGoal(x.Body),
		}}
	case *engine.EqGoal:
		return &term.Compound{Functor: "$eq", Args: []term.Term{x.A.(term.Term), x.B.(term.Term)}}
	case *engine.CannotProveGoal:
		return &term.Compound{Functor: "$cannotprove"}
	default:
		panic("stdservices: unrecognized goal kind")
	}
}

func reifyClause(cl engine.Clause) term.Term {
	body := make([]term.Term, len(cl.Body))
	for i, g := range cl.Body {
		t, shape := bodyGoalShape(g)
		tag := "$call"
		if shape == shapeNot {
			tag = "$notcall"
		}
		body[i] = &term.Compound{Functor: tag, Args: []term.Term{t}}
	}
	return &term.Compound{Functor: "$clause", Args: []term.Term{
		cl.Head.(term.Term),
		&term.Compound{Functor: "$body", Args: body},
	}}
}

// unreifyGoal is reifyGoal's inverse.
func unreifyGoal(t term.Term) engine.Goal {
	c, ok := t.(*term.Compound)
	if !ok {
		panic("stdservices: malformed reified goal")
	}
	switch c.Functor {
	case "$call":
		return &engine.DomainGoal{Payload: c.Args[0]}
	case "$not":
		return &engine.NotGoal{Body: unreifyGoal(c.Args[0])}
	case "$and":
		goals := make([]engine.Goal, len(c.Args))
		for i, a := range c.Args {
			goals[i] = unreifyGoal(a)
		}
		return &engine.AndGoal{Goals: goals}
	case "$forall":
		return &engine.ForallGoal{VarName: atomString(c.Args[0]), Body: unreifyGoal(c.Args[1])}
	case "$exists":
		return &engine.ExistsGoal{VarName: atomString(c.Args[0]), Body: unreifyGoal(c.Args[1])}
	case "$implies":
		clausesComp := c.Args[0].(*term.Compound)
		clauses := make([]engine.Clause, len(clausesComp.Args))
		for i, ct := range clausesComp.Args {
			clauses[i] = unreifyClause(ct)
		}
		return &engine.ImpliesGoal{Clauses: clauses, Body: unreifyGoal(c.Args[1])}
	case "$eq":
		return &engine.EqGoal{A: c.Args[0], B: c.Args[1]}
	case "$cannotprove":
		return &engine.CannotProveGoal{}
	default:
		panic("stdservices: unrecognized reified goal tag " + c.Functor)
	}
}

func unreifyClause(t term.Term) engine.Clause {
	c := t.(*term.Compound)
	bodyComp := c.Args[1].(*term.Compound)
	body := make([]engine.Goal, len(bodyComp.Args))
	for i, bt := range bodyComp.Args {
		bc := bt.(*term.Compound)
		if bc.Functor == "$notcall" {
			body[i] = &engine.NotGoal{Body: &engine.DomainGoal{Payload: bc.Args[0]}}
		} else {
			body[i] = &engine.DomainGoal{Payload: bc.Args[0]}
		}
	}
	return engine.Clause{Head: c.Args[0], Body: body}
}

func atomString(t term.Term) string {
	a, ok := t.(*term.Atom)
	if !ok {
		panic("stdservices: malformed reified goal: expected an atom var name")
	}
	s, ok := a.Value.(string)
	if !ok {
		panic("stdservices: malformed reified goal: var name atom is not a string")
	}
	return s
}

// assignPlaceholderIDs gives every distinct-named template placeholder
// (stdservices.Var, ID 0) in t a distinct negative ID, scoped to this one
// call, so term.CanonicalizeTerm's ID-keyed variable bucketing treats
// distinct placeholder names as distinct variables. Real variables
// (nonzero ID) pass through untouched. Placeholder names are not
// lexically scoped (no shadowing support): two quantifiers reusing the
// same bound name inside one goal tree are treated as the same
// variable. No scenario this system targets does that; see DESIGN.md.
func assignPlaceholderIDs(t term.Term) term.Term {
	next := int64(0)
	seen := make(map[string]int64)
	var walk func(term.Term) term.Term
	walk = func(t term.Term) term.Term {
		switch v := t.(type) {
		case *term.Var:
			if v.ID != 0 {
				return v
			}
			id, ok := seen[v.Name]
			if !ok {
				next--
				id = next
				seen[v.Name] = id
			}
			return &term.Var{ID: id, Name: v.Name, Universe: v.Universe}
		case *term.Compound:
			args := make([]term.Term, len(v.Args))
			for i, a := range v.Args {
				args[i] = walk(a)
			}
			return &term.Compound{Functor: v.Functor, Args: args}
		default:
			return t
		}
	}
	return walk(t)
}
