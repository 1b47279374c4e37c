package engine_test

import (
	"errors"
	"testing"

	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/stdservices"
	"github.com/gitrdm/slgforest/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newForest(cfg stdservices.Config) (*engine.Forest, *stdservices.Services, *stdservices.Database) {
	svc := stdservices.NewServices(cfg)
	db := stdservices.NewDatabase()
	f := engine.NewForest(engine.DefaultConfig(), svc, stdservices.NewClauseSource(db))
	return f, svc, db
}

// Scenario 1: a unit fact has exactly one answer.
func TestScenarioUnitFact(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertFact(term.NewCompound("p"))

	id := svc.Ask(f, stdservices.Call("p"))

	ans0, err := f.RootAnswer(id, 0)
	require.NoError(t, err)
	assert.False(t, ans0.Ambiguous)

	_, err = f.RootAnswer(id, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNoMoreSolutions))
}

// Scenario 2: two independently provable disjuncts yield two answers,
// then the table reports NoMoreSolutions. spec.md's own disjunction
// example leaves one disjunct undefined; any deterministic clause set
// with two genuinely provable alternatives suffices. The query carries
// a free variable so each disjunct's answer binds a distinct, nontrivial
// substitution — a nullary ground disjunction would instead trigger
// pursue_answer's green cut after the first success and never try the
// second disjunct, per spec.md §4.4.H.
func TestScenarioDisjunctionTwoAnswers(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertFact(term.NewCompound("color", term.NewAtom("red")))
	db.AssertFact(term.NewCompound("color", term.NewAtom("blue")))

	id := svc.Ask(f, stdservices.Call("color", stdservices.Var("X")))

	ans0, err := f.RootAnswer(id, 0)
	require.NoError(t, err)
	ans1, err := f.RootAnswer(id, 1)
	require.NoError(t, err)
	assert.NotEqual(t, svc.AnswerKey(ans0.Subst), svc.AnswerKey(ans1.Subst))

	_, err = f.RootAnswer(id, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNoMoreSolutions))
}

// Scenario 3: recursion through nat/1 under an existential root goal
// succeeds at least once without floundering or defecting. The root
// goal's own canonical form is a reified composite shape, so its proven
// bindings are implementation plumbing, not something worth pattern
// matching on here — only that the proof itself is sound matters.
func TestScenarioExistentialRecursion(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertFact(term.NewCompound("nat", term.NewAtom("zero")))
	db.AssertRule(
		term.NewCompound("nat", term.NewCompound("succ", stdservices.Var("X"))),
		stdservices.Call("nat", stdservices.Var("X")),
	)

	id := svc.Ask(f, stdservices.Exists("X", stdservices.Call("nat", stdservices.Var("X"))))

	ans0, err := f.RootAnswer(id, 0)
	require.NoError(t, err)
	assert.False(t, ans0.Ambiguous)
	assert.False(t, svc.HasDelayedSubgoals(ans0.Subst))
}

// Scenario 4: a positive cycle with no base case yields QuantumExceeded
// on the first call (a request to retry), then NoMoreSolutions once the
// cycle's strands have been cleared.
func TestScenarioPositiveCycle(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertRule(term.NewCompound("p"), stdservices.Call("p"))

	id := svc.Ask(f, stdservices.Call("p"))

	_, err := f.RootAnswer(id, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrQuantumExceeded))

	_, err = f.RootAnswer(id, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNoMoreSolutions))
}

// Scenario 5: a coinductive cycle produces a self-referential answer
// carrying a delayed subgoal, which the caller cannot accept directly
// (InvalidAnswer), then a second, confirming answer once the delayed
// subgoal (equal to the table's own goal) has been filtered away by the
// refinement strand. A third request finds nothing left.
func TestScenarioCoinductiveCycle(t *testing.T) {
	cfg := stdservices.DefaultConfig()
	cfg.Coinductive["p"] = true
	f, svc, db := newForest(cfg)
	db.AssertRule(term.NewCompound("p"), stdservices.Call("p"))

	id := svc.Ask(f, stdservices.Call("p"))

	ans0, err := f.RootAnswer(id, 0)
	require.NoError(t, err)
	assert.True(t, svc.HasDelayedSubgoals(ans0.Subst))

	_, err = f.RootAnswer(id, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrInvalidAnswer))

	ans1, err := f.RootAnswer(id, 1)
	require.NoError(t, err)
	assert.False(t, svc.HasDelayedSubgoals(ans1.Subst))

	_, err = f.RootAnswer(id, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNoMoreSolutions))
}

// Scenario 6: negating a goal with a free existential variable cannot be
// soundly inverted, so the subgoal — and therefore the whole table —
// flounders.
func TestScenarioNegationWithFreeVariableFlounders(t *testing.T) {
	f, svc, _ := newForest(stdservices.DefaultConfig())

	goal := stdservices.Exists("X", stdservices.Not(stdservices.Call("q", stdservices.Var("X"))))
	id := svc.Ask(f, goal)

	_, err := f.RootAnswer(id, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrFlounderedRoot))
}

// Scenario 7: negation as failure. q(a) is the only fact, so ¬q(b)
// succeeds once (q(b) is unprovable) and then has no more answers.
func TestScenarioNegationAsFailure(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertFact(term.NewCompound("q", term.NewAtom("a")))

	goal := stdservices.Not(stdservices.Call("q", term.NewAtom("b")))
	id := svc.Ask(f, goal)

	ans0, err := f.RootAnswer(id, 0)
	require.NoError(t, err)
	assert.False(t, ans0.Ambiguous)

	_, err = f.RootAnswer(id, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNoMoreSolutions))
}

// Scenario 8: a goal whose own clause negates itself is a negative
// dependency loop back to the same table, reported directly as
// NegativeCycle on the very first call.
func TestScenarioNegativeCycle(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertRule(term.NewCompound("p"), stdservices.Not(stdservices.Call("p")))

	id := svc.Ask(f, stdservices.Call("p"))

	_, err := f.RootAnswer(id, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNegativeCycle))
}

func TestEnsureTableDedupesIdenticalGoals(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertFact(term.NewCompound("p"))

	id1 := svc.Ask(f, stdservices.Call("p"))
	id2 := svc.Ask(f, stdservices.Call("p"))
	assert.Equal(t, id1, id2)
}

func TestForestStatsTracksTablesAndAnswers(t *testing.T) {
	f, svc, db := newForest(stdservices.DefaultConfig())
	db.AssertFact(term.NewCompound("p"))
	db.AssertFact(term.NewCompound("q"))

	pID := svc.Ask(f, stdservices.Call("p"))
	qID := svc.Ask(f, stdservices.Call("q"))
	_, err := f.RootAnswer(pID, 0)
	require.NoError(t, err)
	_, err = f.RootAnswer(qID, 0)
	require.NoError(t, err)

	stats := f.Stats()
	assert.Equal(t, 2, stats.Tables)
	assert.Equal(t, 2, stats.Answers)
	assert.Equal(t, 0, stats.FlounderedTables)
}

func TestForestStatsCountsFlounderedTable(t *testing.T) {
	f, svc, _ := newForest(stdservices.DefaultConfig())
	goal := stdservices.Exists("X", stdservices.Not(stdservices.Call("q", stdservices.Var("X"))))
	id := svc.Ask(f, goal)
	_, err := f.RootAnswer(id, 0)
	require.Error(t, err)

	stats := f.Stats()
	assert.Equal(t, 1, stats.FlounderedTables)
}
