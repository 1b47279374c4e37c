package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// Services is this module's concrete engine.TermServices implementation,
// built directly on the term package. A u-canonical goal is represented
// as the sha256-based Key a term.Canonical already carries (engine
// requires UCanonicalGoal to be a comparable Go map key, and a string is
// the simplest type satisfying that); registry recovers the Canonical
// shape a bare Key alone cannot carry, keyed by that same Key.
//
// This restricted language keeps clause bodies to flat literals — a
// domain call or its negation, never an arbitrary nested composite goal
// — which is what lets a table's u-canonical goal always correspond to
// exactly one live term (see Env.GoalTerms): every one of this system's
// end-to-end scenarios needs nothing richer, and it keeps canonical-form
// bookkeeping tractable. See DESIGN.md.
type Services struct {
	cfg      Config
	registry map[string]term.Canonical
}

// NewServices returns a Services instance using cfg's truncation bounds
// and coinductive-predicate set.
func NewServices(cfg Config) *Services {
	return &Services{cfg: cfg, registry: make(map[string]term.Canonical)}
}

// UCanonicalize implements engine.TermServices.UCanonicalize. Goals are
// reified to a single term (reify.go) before canonicalizing, so that a
// table's own goal can be any goal shape — not only a flat domain call —
// matching the engine's own support for composite-goal tables
// (engine/forest.go's populateTable, simplifyHH branch). Table identity
// is the reified goal term's canonical form alone: it deliberately does
// not fold in the caller's environment, so two calls to the same goal
// under different `clauses => G` assumptions share a table. None of this
// system's scenarios exercise that case; see DESIGN.md for the tradeoff.
func (s *Services) UCanonicalize(envAny engine.Env, substAny engine.Subst, goalAny engine.Goal) (engine.UCanonicalGoal, engine.UniverseMap) {
	sub := substAny.(*term.Substitution)
	t := sub.DeepWalk(assignPlaceholderIDs(reifyGoal(goalAny)))
	canon := term.CanonicalizeTerm(t, term.NewSubstitution())
	s.registry[canon.Key] = canon
	return canon.Key, engine.UniverseMap(canon.UniverseMap)
}

// InstantiateUCanonicalGoal implements
// engine.TermServices.InstantiateUCanonicalGoal. The table's Env.GoalTerms
// unwraps the common case (a table rooted at a flat domain call) back to
// the bare domain term, since that is what a caller's own subgoal term
// is later unified against in ApplyAnswerSubst; a composite-rooted table
// (e.g. an `exists` query) keeps its full reified shape, since nothing
// in this restricted language ever selects a composite goal as a
// subgoal — only flat literals are selected (engine/simplify.go).
func (s *Services) InstantiateUCanonicalGoal(ucanonicalAny engine.UCanonicalGoal) (engine.Infer, engine.Subst, engine.Env, engine.Goal) {
	key := ucanonicalAny.(string)
	canon, ok := s.registry[key]
	if !ok {
		panic("stdservices: unknown u-canonical goal key " + key)
	}
	infer := NewInfer()
	t, _, _ := term.Instantiate(canon, infer.Vars, 0)
	goal := unreifyGoal(t)

	var goalTerms []term.Term
	if dg, ok := goal.(*engine.DomainGoal); ok {
		goalTerms = []term.Term{payloadTerm(dg)}
	} else {
		goalTerms = []term.Term{t}
	}
	return infer, term.NewSubstitution(), NewEnv(goalTerms...), goal
}

// IsCoinductive implements engine.TermServices.IsCoinductive.
func (s *Services) IsCoinductive(ucanonicalAny engine.UCanonicalGoal) bool {
	canon, ok := s.registry[ucanonicalAny.(string)]
	if !ok {
		return false
	}
	c, ok := canon.Term.(*term.Compound)
	if !ok {
		return false
	}
	// A flat domain call is reified as $call(pred(...)); classify by the
	// predicate's own functor.
	if c.Functor == "$call" && len(c.Args) == 1 {
		if inner, ok := c.Args[0].(*term.Compound); ok {
			c = inner
		}
	}
	return s.cfg.Coinductive[c.Functor]
}

// CloneInfer implements engine.TermServices.CloneInfer.
func (s *Services) CloneInfer(inferAny engine.Infer) engine.Infer {
	return inferAny.(*Infer).Clone()
}

// IntroduceUniversal implements engine.TermServices.IntroduceUniversal:
// instantiating a forall raises the inference context's universe count
// and mints its bound variable in the new universe (spec.md §4.1).
func (s *Services) IntroduceUniversal(inferAny engine.Infer, varName string, body engine.Goal) (engine.Infer, engine.Goal) {
	in := inferAny.(*Infer)
	universe := in.NumUniverse
	in.NumUniverse++
	v := in.Vars.Fresh(varName, universe)
	return in, substituteGoal(body, varName, v)
}

// IntroduceExistential implements
// engine.TermServices.IntroduceExistential: existentials stay in the
// ambient universe 0.
func (s *Services) IntroduceExistential(inferAny engine.Infer, varName string, body engine.Goal) (engine.Infer, engine.Goal) {
	in := inferAny.(*Infer)
	v := in.Vars.Fresh(varName, 0)
	return in, substituteGoal(body, varName, v)
}

// ExtendEnvironment implements engine.TermServices.ExtendEnvironment.
func (s *Services) ExtendEnvironment(envAny engine.Env, clauses []engine.Clause) engine.Env {
	return envAny.(Env).Extend(clauses)
}

// ResolventClause implements engine.TermServices.ResolventClause.
func (s *Services) ResolventClause(inferAny engine.Infer, envAny engine.Env, domainGoalAny any, substAny engine.Subst, clause engine.Clause) (*engine.ExClause, error) {
	in := inferAny.(*Infer)
	env := envAny.(Env)
	sub := substAny.(*term.Substitution)

	goalTerm, ok := domainGoalAny.(term.Term)
	if !ok {
		return nil, term.ErrNoSolution
	}

	fresh := freshenClause(in, clause)
	unified, _, err := term.Unify(goalTerm, fresh.Head.(term.Term), sub)
	if err != nil {
		return nil, err
	}

	ex := &engine.ExClause{Env: env, Subst: unified}
	for _, g := range fresh.Body {
		t, shape := bodyGoalShape(g)
		dg := &engine.DomainGoal{Payload: t}
		if shape == shapeNot {
			ex.Subgoals = append(ex.Subgoals, engine.Literal{Polarity: engine.Negative, Goal: dg})
		} else {
			ex.Subgoals = append(ex.Subgoals, engine.Literal{Polarity: engine.Positive, Goal: dg})
		}
	}
	return ex, nil
}

// ApplyAnswerSubst implements engine.TermServices.ApplyAnswerSubst.
func (s *Services) ApplyAnswerSubst(inferAny engine.Infer, ex *engine.ExClause, subgoalAny engine.Goal, answerTableGoalAny engine.UCanonicalGoal, answerSubstAny engine.CanonicalSubst, universeMapAny engine.UniverseMap) error {
	in := inferAny.(*Infer)
	cs := answerSubstAny.(*canonSubst)
	universeMap := []int(universeMapAny)

	t, _, _ := term.Instantiate(cs.Tuple, in.Vars, 0)
	terms := t.(*term.Compound).Args
	answerGoalTerm := remapUniverses(terms[0], universeMap)

	sub := ex.Subst.(*term.Substitution)
	unified, _, err := term.Unify(literalTerm(subgoalAny), answerGoalTerm, sub)
	if err != nil {
		return err
	}
	ex.Subst = unified

	for _, dt := range terms[cs.NumGoalTerms:] {
		ex.DelayedSubgoals = append(ex.DelayedSubgoals, &engine.DomainGoal{Payload: remapUniverses(dt, universeMap)})
	}
	return nil
}

// UnifyParametersIntoExClause implements
// engine.TermServices.UnifyParametersIntoExClause.
func (s *Services) UnifyParametersIntoExClause(envAny engine.Env, aAny, bAny any, ex *engine.ExClause) error {
	sub := ex.Subst.(*term.Substitution)
	unified, _, err := term.Unify(aAny.(term.Term), bAny.(term.Term), sub)
	if err != nil {
		return err
	}
	ex.Subst = unified
	return nil
}

// InvertGoal implements engine.TermServices.InvertGoal. This language has
// no type positions or other partial-groundness structure beyond plain
// variables, so the standard technique collapses to a ground check:
// an already-ground negated goal inverts to itself unchanged (negating
// a fully-determined goal is always sound), and any free variable
// forces flounder. This matches every scenario this system's own
// end-to-end tests exercise (a negated call with a bound argument
// succeeds or fails outright; a negated call with a free argument always
// flounders); see DESIGN.md.
func (s *Services) InvertGoal(goalAny engine.Goal, substAny engine.Subst) (engine.Goal, bool) {
	sub := substAny.(*term.Substitution)
	if sub.IsGround(literalTerm(goalAny)) {
		return goalAny, true
	}
	return nil, false
}

// TruncateGoal implements engine.TermServices.TruncateGoal.
func (s *Services) TruncateGoal(goalAny engine.Goal) bool {
	return termDepth(literalTerm(goalAny)) > s.cfg.MaxTermDepth
}

// TruncateAnswer implements engine.TermServices.TruncateAnswer.
func (s *Services) TruncateAnswer(substAny engine.Subst) bool {
	return substAny.(*term.Substitution).Size() > s.cfg.MaxSubstSize
}

// EmptyConstraints implements engine.TermServices.EmptyConstraints. This
// implementation's Unify never produces a residual Constraint (term's
// own doc comment on term.Constraint notes it exists only for a richer
// caller-supplied hook), so Constraints is always nil.
func (s *Services) EmptyConstraints(constraintsAny any) bool {
	return constraintsAny == nil
}

// IsTrivialSubstitution implements
// engine.TermServices.IsTrivialSubstitution.
func (s *Services) IsTrivialSubstitution(substAny engine.Subst) bool {
	return substAny.(*term.Substitution).Size() == 0
}

// NumUniverses implements engine.TermServices.NumUniverses.
func (s *Services) NumUniverses(inferAny engine.Infer) int {
	return inferAny.(*Infer).NumUniverse
}
