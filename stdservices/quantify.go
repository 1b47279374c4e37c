package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// substituteTerm replaces every occurrence of the named template
// placeholder (stdservices.Var(name)) with v, leaving every other
// variable (already-minted, with a nonzero ID) untouched.
func substituteTerm(t term.Term, name string, v *term.Var) term.Term {
	switch x := t.(type) {
	case *term.Var:
		if x.ID == 0 && x.Name == name {
			return v
		}
		return x
	case *term.Compound:
		args := make([]term.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = substituteTerm(a, name, v)
		}
		return &term.Compound{Functor: x.Functor, Args: args}
	default:
		return t
	}
}

// substituteGoal applies substituteTerm throughout a goal tree,
// respecting quantifier shadowing: a nested forall/exists that rebinds
// the same name stops the substitution from reaching its own body.
func substituteGoal(g engine.Goal, name string, v *term.Var) engine.Goal {
	switch x := g.(type) {
	case *engine.DomainGoal:
		return &engine.DomainGoal{Payload: substituteTerm(payloadTerm(x), name, v)}
	case *engine.NotGoal:
		return &engine.NotGoal{Body: substituteGoal(x.Body, name, v)}
	case *engine.AndGoal:
		goals := make([]engine.Goal, len(x.Goals))
		for i, sub := range x.Goals {
			goals[i] = substituteGoal(sub, name, v)
		}
		return &engine.AndGoal{Goals: goals}
	case *engine.ForallGoal:
		if x.VarName == name {
			return x
		}
		return &engine.ForallGoal{VarName: x.VarName, Body: substituteGoal(x.Body, name, v)}
	case *engine.ExistsGoal:
		if x.VarName == name {
			return x
		}
		return &engine.ExistsGoal{VarName: x.VarName, Body: substituteGoal(x.Body, name, v)}
	case *engine.ImpliesGoal:
		clauses := make([]engine.Clause, len(x.Clauses))
		for i, cl := range x.Clauses {
			clauses[i] = substituteClauseTemplate(cl, name, v)
		}
		return &engine.ImpliesGoal{Clauses: clauses, Body: substituteGoal(x.Body, name, v)}
	case *engine.EqGoal:
		return &engine.EqGoal{A: substituteTerm(x.A.(term.Term), name, v), B: substituteTerm(x.B.(term.Term), name, v)}
	case *engine.CannotProveGoal:
		return x
	default:
		panic("stdservices: unrecognized goal kind")
	}
}

func substituteClauseTemplate(cl engine.Clause, name string, v *term.Var) engine.Clause {
	body := make([]engine.Goal, len(cl.Body))
	for i, g := range cl.Body {
		t, shape := bodyGoalShape(g)
		body[i] = goalFromShape(shape, substituteTerm(t, name, v))
	}
	return engine.Clause{Head: substituteTerm(cl.Head.(term.Term), name, v), Body: body}
}

// freshenTerm replaces every template placeholder (stdservices.Var, ID 0) in t
// with a fresh variable, minting exactly one fresh variable per distinct
// name and reusing it for every further occurrence within the same
// freshening pass (vars records that mapping).
func freshenTerm(t term.Term, in *Infer, vars map[string]*term.Var) term.Term {
	switch x := t.(type) {
	case *term.Var:
		if x.ID != 0 {
			return x
		}
		if fv, ok := vars[x.Name]; ok {
			return fv
		}
		fv := in.Vars.Fresh(x.Name, 0)
		vars[x.Name] = fv
		return fv
	case *term.Compound:
		args := make([]term.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = freshenTerm(a, in, vars)
		}
		return &term.Compound{Functor: x.Functor, Args: args}
	default:
		return t
	}
}

func freshenBody(body []engine.Goal, in *Infer, vars map[string]*term.Var) []engine.Goal {
	out := make([]engine.Goal, len(body))
	for i, g := range body {
		t, shape := bodyGoalShape(g)
		out[i] = goalFromShape(shape, freshenTerm(t, in, vars))
	}
	return out
}

// freshenClause instantiates a stored clause template for one use,
// minting fresh variables for every placeholder name it contains so that
// two simultaneous uses of the same clause never share a variable
// (the universally-quantified-parameters reading of spec.md §3's clause
// shape).
func freshenClause(in *Infer, cl engine.Clause) engine.Clause {
	vars := make(map[string]*term.Var)
	return engine.Clause{
		Head: freshenTerm(cl.Head.(term.Term), in, vars),
		Body: freshenBody(cl.Body, in, vars),
	}
}

// remapUniverses rewrites every variable's universe number through m,
// the translation from a canonical form's own slot numbering back to a
// caller's live numbering (spec.md's Design Notes on universe maps).
func remapUniverses(t term.Term, m []int) term.Term {
	switch v := t.(type) {
	case *term.Var:
		if v.Universe >= 0 && v.Universe < len(m) {
			return &term.Var{ID: v.ID, Name: v.Name, Universe: m[v.Universe]}
		}
		return v
	case *term.Compound:
		args := make([]term.Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = remapUniverses(a, m)
		}
		return &term.Compound{Functor: v.Functor, Args: args}
	default:
		return t
	}
}

// termDepth measures nesting depth, the simple structural bound this
// implementation's truncation check enforces (spec.md §4.3/§4.4.H).
func termDepth(t term.Term) int {
	c, ok := t.(*term.Compound)
	if !ok {
		return 1
	}
	max := 0
	for _, a := range c.Args {
		if d := termDepth(a); d > max {
			max = d
		}
	}
	return max + 1
}
