package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// canonClauseShape records one assumed clause's body polarities so
// InstantiateExClause can rebuild its Goal values from the flat term
// list a canonExClause stores them in.
type canonClauseShape struct {
	bodyShapes []bodyShape
}

// canonExClause is this implementation's concrete engine.CanonicalExClause:
// every term an ex-clause and the environment it carries reference,
// canonicalized together as one $tuple (term.CanonicalizeTerms) so that
// variable and universe numbering stays consistent across the whole
// snapshot, plus the non-term metadata needed to re-partition that flat
// term list back into Env/Subgoals/DelayedSubgoals/FlounderedSubgoals on
// InstantiateExClause.
//
// Term order within the tuple: table goal term(s), then each assumed
// clause's head followed by its body literals, then each subgoal
// literal, then each delayed subgoal, then each floundered subgoal.
type canonExClause struct {
	Tuple        term.Canonical
	NumGoalTerms int

	AssumedShapes []canonClauseShape

	SubgoalPolarities []engine.Polarity
	DelayedCount      int

	FlounderedPolarities []engine.Polarity
	FlounderedAt         []engine.TimeStamp

	Ambiguous  bool
	AnswerTime engine.TimeStamp
}

// canonSubst is this implementation's concrete engine.CanonicalSubst: the
// table's own goal term(s) plus any delayed subgoals, canonicalized
// together (spec.md §4.4.H's canonicalize_answer).
type canonSubst struct {
	Tuple        term.Canonical
	NumGoalTerms int
	DelayedCount int
}

// CanonicalizeStrand implements engine.TermServices.CanonicalizeStrand.
func (s *Services) CanonicalizeStrand(inferAny engine.Infer, ex *engine.ExClause) engine.CanonicalExClause {
	env := ex.Env.(Env)
	sub := ex.Subst.(*term.Substitution)

	var terms []term.Term
	for _, t := range env.GoalTerms() {
		terms = append(terms, sub.DeepWalk(t))
	}

	var assumedShapes []canonClauseShape
	for _, cl := range env.Assumed() {
		terms = append(terms, sub.DeepWalk(cl.Head.(term.Term)))
		var shapes []bodyShape
		for _, g := range cl.Body {
			t, shape := bodyGoalShape(g)
			terms = append(terms, sub.DeepWalk(t))
			shapes = append(shapes, shape)
		}
		assumedShapes = append(assumedShapes, canonClauseShape{bodyShapes: shapes})
	}

	var subgoalPolarities []engine.Polarity
	for _, lit := range ex.Subgoals {
		terms = append(terms, sub.DeepWalk(literalTerm(lit.Goal)))
		subgoalPolarities = append(subgoalPolarities, lit.Polarity)
	}

	for _, g := range ex.DelayedSubgoals {
		terms = append(terms, sub.DeepWalk(literalTerm(g)))
	}

	var flounderedPolarities []engine.Polarity
	var flounderedAt []engine.TimeStamp
	for _, fs := range ex.FlounderedSubgoals {
		terms = append(terms, sub.DeepWalk(literalTerm(fs.Literal.Goal)))
		flounderedPolarities = append(flounderedPolarities, fs.Literal.Polarity)
		flounderedAt = append(flounderedAt, fs.FlounderedAt)
	}

	canon := term.CanonicalizeTerms(terms, term.NewSubstitution())
	return &canonExClause{
		Tuple:                canon,
		NumGoalTerms:         len(env.GoalTerms()),
		AssumedShapes:        assumedShapes,
		SubgoalPolarities:    subgoalPolarities,
		DelayedCount:         len(ex.DelayedSubgoals),
		FlounderedPolarities: flounderedPolarities,
		FlounderedAt:         flounderedAt,
		Ambiguous:            ex.Ambiguous,
		AnswerTime:           ex.AnswerTime,
	}
}

// InstantiateExClause implements engine.TermServices.InstantiateExClause,
// the inverse of CanonicalizeStrand.
func (s *Services) InstantiateExClause(numUniverses int, canonicalAny engine.CanonicalExClause) (engine.Infer, *engine.ExClause) {
	canon := canonicalAny.(*canonExClause)
	infer := &Infer{Vars: term.NewVarSource(0), NumUniverse: numUniverses}

	t, _, _ := term.Instantiate(canon.Tuple, infer.Vars, 0)
	terms := t.(*term.Compound).Args
	i := 0

	goalTerms := append([]term.Term{}, terms[:canon.NumGoalTerms]...)
	i = canon.NumGoalTerms

	var assumed []engine.Clause
	for _, shape := range canon.AssumedShapes {
		head := terms[i]
		i++
		var body []engine.Goal
		for _, bs := range shape.bodyShapes {
			body = append(body, goalFromShape(bs, terms[i]))
			i++
		}
		assumed = append(assumed, engine.Clause{Head: head, Body: body})
	}

	var subgoals []engine.Literal
	for _, pol := range canon.SubgoalPolarities {
		subgoals = append(subgoals, engine.Literal{Polarity: pol, Goal: &engine.DomainGoal{Payload: terms[i]}})
		i++
	}

	var delayed []engine.Goal
	for j := 0; j < canon.DelayedCount; j++ {
		delayed = append(delayed, &engine.DomainGoal{Payload: terms[i]})
		i++
	}

	var floundered []engine.FlounderedSubgoal
	for j, pol := range canon.FlounderedPolarities {
		floundered = append(floundered, engine.FlounderedSubgoal{
			Literal:      engine.Literal{Polarity: pol, Goal: &engine.DomainGoal{Payload: terms[i]}},
			FlounderedAt: canon.FlounderedAt[j],
		})
		i++
	}

	ex := &engine.ExClause{
		Env:                Env{assumed: assumed, goalTerms: goalTerms},
		Subst:              term.NewSubstitution(),
		Ambiguous:          canon.Ambiguous,
		Subgoals:           subgoals,
		DelayedSubgoals:    delayed,
		AnswerTime:         canon.AnswerTime,
		FlounderedSubgoals: floundered,
	}
	return infer, ex
}

// CanonicalizeAnswer implements engine.TermServices.CanonicalizeAnswer.
func (s *Services) CanonicalizeAnswer(inferAny engine.Infer, ex *engine.ExClause) engine.CanonicalSubst {
	env := ex.Env.(Env)
	sub := ex.Subst.(*term.Substitution)

	var terms []term.Term
	for _, t := range env.GoalTerms() {
		terms = append(terms, sub.DeepWalk(t))
	}
	for _, g := range ex.DelayedSubgoals {
		terms = append(terms, sub.DeepWalk(literalTerm(g)))
	}

	canon := term.CanonicalizeTerms(terms, term.NewSubstitution())
	return &canonSubst{
		Tuple:        canon,
		NumGoalTerms: len(env.GoalTerms()),
		DelayedCount: len(ex.DelayedSubgoals),
	}
}

// InstantiateAnswer implements engine.TermServices.InstantiateAnswer.
func (s *Services) InstantiateAnswer(canonicalAny engine.CanonicalSubst) (engine.Infer, engine.Subst, any, []engine.Goal, int) {
	cs := canonicalAny.(*canonSubst)
	infer := NewInfer()

	t, _, _ := term.Instantiate(cs.Tuple, infer.Vars, 0)
	terms := t.(*term.Compound).Args

	var delayed []engine.Goal
	for _, dt := range terms[cs.NumGoalTerms:] {
		delayed = append(delayed, &engine.DomainGoal{Payload: dt})
	}

	return infer, term.NewSubstitution(), nil, delayed, infer.NumUniverse
}

// AnswerGoalTerms instantiates a canonical answer's own table-goal
// term(s) with whatever bindings the proof settled on baked directly
// into the returned term tree (CanonicalizeAnswer walks bindings into
// the term shape itself rather than keeping a separate variable map,
// so there is no substitution to apply here). This is how a caller
// reads what a root answer actually proved, e.g. via term.Term.String()
// or by unifying against an expected pattern.
func (s *Services) AnswerGoalTerms(canonicalAny engine.CanonicalSubst) []term.Term {
	cs := canonicalAny.(*canonSubst)
	infer := NewInfer()
	t, _, _ := term.Instantiate(cs.Tuple, infer.Vars, 0)
	terms := t.(*term.Compound).Args
	return append([]term.Term{}, terms[:cs.NumGoalTerms]...)
}

// AnswerKey implements engine.TermServices.AnswerKey.
func (s *Services) AnswerKey(csAny engine.CanonicalSubst) string {
	return csAny.(*canonSubst).Tuple.Key
}

// HasDelayedSubgoals implements engine.TermServices.HasDelayedSubgoals.
func (s *Services) HasDelayedSubgoals(csAny engine.CanonicalSubst) bool {
	return csAny.(*canonSubst).DelayedCount > 0
}

// GoalEqualsTableGoal implements engine.TermServices.GoalEqualsTableGoal:
// a delayed goal is the table's own goal iff its ground canonical form
// (no live substitution: delayed goals carry their own fully-resolved
// terms already) matches the table's u-canonical key exactly. Reified
// the same way UCanonicalize computes that key, so the comparison is
// apples to apples.
func (s *Services) GoalEqualsTableGoal(gAny engine.Goal, tableGoalAny engine.UCanonicalGoal) bool {
	canon := term.CanonicalizeTerm(assignPlaceholderIDs(reifyGoal(gAny)), term.NewSubstitution())
	return canon.Key == tableGoalAny.(string)
}
