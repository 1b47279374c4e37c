package stdservices

import (
	"testing"

	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUCanonicalizeInstantiateRoundTripDomainGoal(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	x := in.Vars.Fresh("X", 0)

	goal := Call("nat", x)
	ucGoal, universeMap := svc.UCanonicalize(NewEnv(), term.NewSubstitution(), goal)
	assert.NotEmpty(t, ucGoal)
	assert.Len(t, universeMap, 1)

	_, _, env, reconstructed := svc.InstantiateUCanonicalGoal(ucGoal)
	dg, ok := reconstructed.(*engine.DomainGoal)
	require.True(t, ok)
	assert.Equal(t, "nat(_X0_1)", payloadTerm(dg).String())

	e := env.(Env)
	require.Len(t, e.GoalTerms(), 1)
	assert.Equal(t, e.GoalTerms()[0].String(), payloadTerm(dg).String())

	ucGoal2, _ := svc.UCanonicalize(NewEnv(), term.NewSubstitution(), goal)
	assert.Equal(t, ucGoal, ucGoal2)
}

func TestUCanonicalizeInstantiateRoundTripCompositeGoal(t *testing.T) {
	svc := NewServices(DefaultConfig())
	goal := Exists("X", Call("nat", Var("X")))

	ucGoal, _ := svc.UCanonicalize(NewEnv(), term.NewSubstitution(), goal)
	_, _, env, reconstructed := svc.InstantiateUCanonicalGoal(ucGoal)

	existsGoal, ok := reconstructed.(*engine.ExistsGoal)
	require.True(t, ok)
	assert.Equal(t, "X", existsGoal.VarName)
	inner, ok := existsGoal.Body.(*engine.DomainGoal)
	require.True(t, ok)
	assert.Contains(t, payloadTerm(inner).String(), "nat(")

	e := env.(Env)
	require.Len(t, e.GoalTerms(), 1)
}

func TestResolventClauseUnifiesHeadAndBuildsSubgoals(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	env := NewEnv()

	clause := Rule(
		term.NewCompound("edge", Var("A"), Var("B")),
		Call("adjacent", Var("A"), Var("B")),
		Not(Call("blocked", Var("A"), Var("B"))),
	)

	goalTerm := term.NewCompound("edge", term.NewAtom("x"), term.NewAtom("y"))
	ex, err := svc.ResolventClause(in, env, goalTerm, term.NewSubstitution(), clause)
	require.NoError(t, err)
	require.Len(t, ex.Subgoals, 2)
	assert.Equal(t, engine.Positive, ex.Subgoals[0].Polarity)
	assert.Equal(t, engine.Negative, ex.Subgoals[1].Polarity)

	sub := ex.Subst.(*term.Substitution)
	first := sub.DeepWalk(payloadTerm(ex.Subgoals[0].Goal.(*engine.DomainGoal)))
	assert.Equal(t, "adjacent(x, y)", first.String())
}

func TestResolventClauseFailsWhenHeadDoesNotUnify(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	env := NewEnv()

	clause := Fact(term.NewCompound("p", term.NewAtom("a")))
	goalTerm := term.NewCompound("p", term.NewAtom("b"))

	_, err := svc.ResolventClause(in, env, goalTerm, term.NewSubstitution(), clause)
	assert.Error(t, err)
}

func TestApplyAnswerSubstUnifiesAndRemapsUniverses(t *testing.T) {
	svc := NewServices(DefaultConfig())

	// Build a subgoal table's answer: nat(succ(Y)), Y left free in a
	// raised universe (standing in for a forall-bound variable the
	// answer leaves unresolved), so the universe map actually has
	// something to translate.
	tableInfer := NewInfer()
	tableX := tableInfer.Vars.Fresh("X", 0)
	y := tableInfer.Vars.Fresh("Y", 1)
	tableEnv := NewEnv(term.NewCompound("nat", tableX))
	boundSub, _, err := term.Unify(tableX, term.NewCompound("succ", y), term.NewSubstitution())
	require.NoError(t, err)
	answerSubst := svc.CanonicalizeAnswer(tableInfer, &engine.ExClause{Env: tableEnv, Subst: boundSub})

	// Canonical universe slot 0 -> caller's universe 7.
	universeMap := engine.UniverseMap([]int{7})

	callerInfer := NewInfer()
	callerX := callerInfer.Vars.Fresh("X", 0)
	callerEx := &engine.ExClause{Env: NewEnv(), Subst: term.NewSubstitution()}

	err = svc.ApplyAnswerSubst(callerInfer, callerEx, Call("nat", callerX), "unused-table-goal", answerSubst, universeMap)
	require.NoError(t, err)

	sub := callerEx.Subst.(*term.Substitution)
	result := sub.DeepWalk(callerX).(*term.Compound)
	assert.Equal(t, "succ", result.Functor)
	freeVar, ok := result.Args[0].(*term.Var)
	require.True(t, ok)
	assert.Equal(t, 7, freeVar.Universe)
}

func TestInvertGoalGroundSucceeds(t *testing.T) {
	svc := NewServices(DefaultConfig())
	goal := Call("q", term.NewAtom("b"))
	inverted, ok := svc.InvertGoal(goal, term.NewSubstitution())
	assert.True(t, ok)
	assert.Equal(t, goal, inverted)
}

func TestInvertGoalFreeVariableFlounders(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	x := in.Vars.Fresh("X", 0)
	goal := Call("q", x)
	_, ok := svc.InvertGoal(goal, term.NewSubstitution())
	assert.False(t, ok)
}

func TestInvertGoalBoundByCallerSubstitutionSucceeds(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	x := in.Vars.Fresh("X", 0)
	sub, _, err := term.Unify(x, term.NewAtom("b"), term.NewSubstitution())
	require.NoError(t, err)
	goal := Call("q", x)
	_, ok := svc.InvertGoal(goal, sub)
	assert.True(t, ok)
}

func TestIntroduceUniversalRaisesUniverseAndSubstitutes(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	before := svc.NumUniverses(in)

	body := Call("likes", Var("P"), term.NewAtom("pizza"))
	nextInfer, substituted := svc.IntroduceUniversal(in, "P", body)

	assert.Equal(t, before+1, svc.NumUniverses(nextInfer))
	dg, ok := substituted.(*engine.DomainGoal)
	require.True(t, ok)
	c := payloadTerm(dg).(*term.Compound)
	v, ok := c.Args[0].(*term.Var)
	require.True(t, ok)
	assert.NotEqual(t, int64(0), v.ID)
	assert.Equal(t, before, v.Universe)
}

func TestIntroduceExistentialStaysInAmbientUniverse(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	before := svc.NumUniverses(in)

	body := Call("likes", Var("P"), term.NewAtom("pizza"))
	nextInfer, substituted := svc.IntroduceExistential(in, "P", body)

	assert.Equal(t, before, svc.NumUniverses(nextInfer))
	dg := substituted.(*engine.DomainGoal)
	c := payloadTerm(dg).(*term.Compound)
	v := c.Args[0].(*term.Var)
	assert.Equal(t, 0, v.Universe)
}

func TestTruncateGoalAndAnswer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTermDepth = 2
	cfg.MaxSubstSize = 1
	svc := NewServices(cfg)

	shallow := Call("p", term.NewAtom("a"))
	assert.False(t, svc.TruncateGoal(shallow))

	deep := Call("p", term.NewCompound("f", term.NewCompound("g", term.NewAtom("a"))))
	assert.True(t, svc.TruncateGoal(deep))

	sub := term.NewSubstitution()
	in := NewInfer()
	x := in.Vars.Fresh("X", 0)
	y := in.Vars.Fresh("Y", 0)
	sub.BindInPlace(x, term.NewAtom("a"))
	assert.False(t, svc.TruncateAnswer(sub))
	sub.BindInPlace(y, term.NewAtom("b"))
	assert.True(t, svc.TruncateAnswer(sub))
}

func TestIsCoinductive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Coinductive["p"] = true
	svc := NewServices(cfg)

	pGoal, _ := svc.UCanonicalize(NewEnv(), term.NewSubstitution(), Call("p"))
	qGoal, _ := svc.UCanonicalize(NewEnv(), term.NewSubstitution(), Call("q"))

	assert.True(t, svc.IsCoinductive(pGoal))
	assert.False(t, svc.IsCoinductive(qGoal))
}
