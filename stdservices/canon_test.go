package stdservices

import (
	"testing"

	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeStrandRoundTrip(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	x := in.Vars.Fresh("X", 0)

	env := NewEnv(term.NewCompound("parent", x, term.NewAtom("bob")))
	sub := term.NewSubstitution()
	bound, _, err := term.Unify(x, term.NewAtom("alice"), sub)
	require.NoError(t, err)

	ex := &engine.ExClause{
		Env:   env,
		Subst: bound,
		Subgoals: []engine.Literal{
			{Polarity: engine.Positive, Goal: Call("age", term.NewAtom(30))},
			{Polarity: engine.Negative, Goal: Call("dead", x)},
		},
	}

	canon := svc.CanonicalizeStrand(in, ex)
	numUniverses := svc.NumUniverses(in)

	in2, ex2 := svc.InstantiateExClause(numUniverses, canon)
	require.NotNil(t, ex2)
	require.Len(t, ex2.Subgoals, 2)
	assert.Equal(t, engine.Positive, ex2.Subgoals[0].Polarity)
	assert.Equal(t, engine.Negative, ex2.Subgoals[1].Polarity)

	env2 := ex2.Env.(Env)
	require.Len(t, env2.GoalTerms(), 1)
	assert.Equal(t, "parent(alice, bob)", env2.GoalTerms()[0].String())

	canon2 := svc.CanonicalizeStrand(in2, ex2)
	assert.Equal(t, canon.(*canonExClause).Tuple.Key, canon2.(*canonExClause).Tuple.Key)
}

func TestCanonicalizeStrandRoundTripWithAssumedClauses(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()

	env := NewEnv(term.NewCompound("q", term.NewAtom("a")))
	env = env.Extend([]engine.Clause{
		Rule(term.NewCompound("q", Var("Y")), Call("r", Var("Y")), Not(Call("s", Var("Y")))),
	})

	ex := &engine.ExClause{Env: env, Subst: term.NewSubstitution()}
	canon := svc.CanonicalizeStrand(in, ex)
	in2, ex2 := svc.InstantiateExClause(svc.NumUniverses(in), canon)

	env2 := ex2.Env.(Env)
	require.Len(t, env2.Assumed(), 1)
	cl := env2.Assumed()[0]
	require.Len(t, cl.Body, 2)

	canon2 := svc.CanonicalizeStrand(in2, ex2)
	assert.Equal(t, canon.(*canonExClause).Tuple.Key, canon2.(*canonExClause).Tuple.Key)
}

func TestCanonicalizeAnswerRoundTrip(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()
	x := in.Vars.Fresh("X", 0)

	env := NewEnv(term.NewCompound("nat", x))
	sub := term.NewSubstitution()
	bound, _, err := term.Unify(x, term.NewCompound("succ", term.NewAtom("zero")), sub)
	require.NoError(t, err)

	ex := &engine.ExClause{Env: env, Subst: bound}
	canonAnswer := svc.CanonicalizeAnswer(in, ex)

	terms := svc.AnswerGoalTerms(canonAnswer)
	require.Len(t, terms, 1)
	assert.Equal(t, "nat(succ(zero))", terms[0].String())

	assert.False(t, svc.HasDelayedSubgoals(canonAnswer))

	in2, subst2, constraints2, delayed2, _ := svc.InstantiateAnswer(canonAnswer)
	assert.NotNil(t, in2)
	assert.NotNil(t, subst2)
	assert.Nil(t, constraints2)
	assert.Len(t, delayed2, 0)
}

func TestCanonicalizeAnswerWithDelayedSubgoals(t *testing.T) {
	svc := NewServices(DefaultConfig())
	in := NewInfer()

	env := NewEnv(term.NewCompound("p"))
	ex := &engine.ExClause{
		Env:             env,
		Subst:           term.NewSubstitution(),
		DelayedSubgoals: []engine.Goal{Call("p")},
	}
	canonAnswer := svc.CanonicalizeAnswer(in, ex)
	assert.True(t, svc.HasDelayedSubgoals(canonAnswer))

	_, _, _, delayed, _ := svc.InstantiateAnswer(canonAnswer)
	require.Len(t, delayed, 1)
	dg, ok := delayed[0].(*engine.DomainGoal)
	require.True(t, ok)
	assert.Equal(t, "p", payloadTerm(dg).String())
}

func TestAnswerKeyDedupesIdenticalAnswers(t *testing.T) {
	svc := NewServices(DefaultConfig())

	in1 := NewInfer()
	x1 := in1.Vars.Fresh("X", 0)
	env1 := NewEnv(term.NewCompound("nat", x1))
	sub1, _, err := term.Unify(x1, term.NewAtom("zero"), term.NewSubstitution())
	require.NoError(t, err)
	canon1 := svc.CanonicalizeAnswer(in1, &engine.ExClause{Env: env1, Subst: sub1})

	in2 := NewInfer()
	y2 := in2.Vars.Fresh("Y", 0)
	env2 := NewEnv(term.NewCompound("nat", y2))
	sub2, _, err := term.Unify(y2, term.NewAtom("zero"), term.NewSubstitution())
	require.NoError(t, err)
	canon2 := svc.CanonicalizeAnswer(in2, &engine.ExClause{Env: env2, Subst: sub2})

	assert.Equal(t, svc.AnswerKey(canon1), svc.AnswerKey(canon2))
}

func TestGoalEqualsTableGoal(t *testing.T) {
	svc := NewServices(DefaultConfig())
	ucGoal, _ := svc.UCanonicalize(NewEnv(), term.NewSubstitution(), Call("p"))

	assert.True(t, svc.GoalEqualsTableGoal(Call("p"), ucGoal))
	assert.False(t, svc.GoalEqualsTableGoal(Call("q"), ucGoal))
}
