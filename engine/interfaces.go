package engine

import "errors"

// The engine is non-goal-bound about term representation: Env, Infer,
// and Subst are opaque values owned by a TermServices implementation.
// UCanonicalGoal must be a comparable concrete type at runtime (it is
// used as a Go map key to index the forest's tables), and CanonicalExClause
// / CanonicalSubst are opaque blobs a TermServices implementation alone
// knows how to interpret.
type (
	Env              = any
	Infer            = any
	Subst            = any
	UCanonicalGoal   = any
	CanonicalExClause = any
	CanonicalSubst   = any
)

// ErrFloundered is the sentinel a ClauseSource returns from
// ProgramClauses to signal that a domain goal cannot be resolved without
// more information (e.g. an unbound type position).
var ErrFloundered = errors.New("engine: floundered")

// ClauseSource supplies candidate program clauses for a domain goal.
type ClauseSource interface {
	// ProgramClauses returns every clause that might unify with
	// domainGoal in env, or ErrFloundered if the query cannot be
	// resolved without more information (spec.md §6).
	ProgramClauses(env Env, domainGoal any, infer Infer) ([]Clause, error)
}

// TermServices is every term-level capability the solve loop treats as
// an external collaborator (spec.md §6). Names follow the spec's
// illustrative contract; stdservices is this module's own concrete
// implementation, built on the term package.
type TermServices interface {
	// UCanonicalize deterministically assigns goal a canonical form
	// independent of variable names and universe renumberings, and
	// reports the map needed to translate that canonical form's
	// universes back into env's numbering. subst is the caller's
	// current substitution: goal's variables must be walked through it
	// first, since earlier subgoals in the same derivation may already
	// have bound some of them.
	UCanonicalize(env Env, subst Subst, goal Goal) (UCanonicalGoal, UniverseMap)

	// InstantiateUCanonicalGoal produces a fresh inference context and
	// substitution witnessing a u-canonical goal's binders, used when a
	// table is created for it.
	InstantiateUCanonicalGoal(ucanonical UCanonicalGoal) (Infer, Subst, Env, Goal)

	// InstantiateExClause is the inverse of CanonicalizeStrand: it
	// rebuilds a live inference context and ex-clause from a stored
	// canonical strand.
	InstantiateExClause(numUniverses int, canonical CanonicalExClause) (Infer, *ExClause)

	// InstantiateAnswer rebuilds the live pieces of a refinement strand
	// (spec.md §4.4.G) from a root answer's canonical substitution:
	// its substitution, any opaque constraints, and the delayed goals
	// that must be independently re-proved.
	InstantiateAnswer(canonical CanonicalSubst) (infer Infer, subst Subst, constraints any, delayed []Goal, numUniverses int)

	// IsCoinductive classifies a u-canonical goal as coinductive or not
	// (spec.md §4.2 step 1).
	IsCoinductive(ucanonical UCanonicalGoal) bool

	// CloneInfer returns an independent copy of an inference context, used
	// whenever an alternative branch must be preserved: once per clause
	// tried at table-creation time, and once per next-answer strand
	// enqueued at merge time (spec.md's Design Notes).
	CloneInfer(infer Infer) Infer

	// IntroduceUniversal/IntroduceExistential instantiate a forall/exists
	// binder's bound variable as a fresh universal/existential inside
	// body, returning the (possibly extended, for the universal case)
	// inference context and the substituted body (spec.md §4.1).
	IntroduceUniversal(infer Infer, varName string, body Goal) (Infer, Goal)
	IntroduceExistential(infer Infer, varName string, body Goal) (Infer, Goal)

	// ExtendEnvironment returns env extended with clauses, used by
	// HH-simplification's `clauses => G` step.
	ExtendEnvironment(env Env, clauses []Clause) Env

	// ResolventClause instantiates clause, unifies domainGoal against its
	// head, and on success produces the ex-clause that results (spec.md
	// §4.6). ErrNoSolution means the clause does not apply — a local,
	// recoverable condition, never surfaced to a caller.
	ResolventClause(infer Infer, env Env, domainGoal any, subst Subst, clause Clause) (*ExClause, error)

	// ApplyAnswerSubst merges a subgoal table's canonical answer back
	// into a caller's ex-clause in the caller's own namespace, using
	// universeMap to translate the canonical table goal's and answer's
	// universes (spec.md §4.6, §9 Design Notes).
	ApplyAnswerSubst(infer Infer, ex *ExClause, subgoal Goal, answerTableGoal UCanonicalGoal, answerSubst CanonicalSubst, universeMap UniverseMap) error

	// UnifyParametersIntoExClause unifies two opaque terms, pushing any
	// residual subgoals/constraints into ex (spec.md §4.1's `a = b` step).
	UnifyParametersIntoExClause(env Env, a, b any, ex *ExClause) error

	// InvertGoal implements the sound negation-with-free-variables
	// technique (spec.md §4.3): converting free existentials to
	// universals. The second return is false if inversion is impossible,
	// in which case the subgoal must flounder. subst lets the
	// implementation tell a truly free variable from one already bound
	// by an earlier subgoal in the same derivation.
	InvertGoal(goal Goal, subst Subst) (Goal, bool)

	// TruncateGoal/TruncateAnswer report whether goal/subst would exceed
	// the configured size budget.
	TruncateGoal(goal Goal) bool
	TruncateAnswer(subst Subst) bool

	// CanonicalizeStrand snapshots a live ex-clause into an immutable
	// canonical form suitable for table storage. It must not alias any
	// mutable state of ex or infer: callers rely on taking a snapshot
	// and continuing to mutate the live ex-clause afterward (spec.md
	// §4.4.F's "enqueue a clone... before consuming the answer here").
	CanonicalizeStrand(infer Infer, ex *ExClause) CanonicalExClause

	// CanonicalizeAnswer canonicalizes a strand's substitution,
	// constraints, and delayed subgoals together into an Answer's Subst
	// (spec.md §4.4.H).
	CanonicalizeAnswer(infer Infer, ex *ExClause) CanonicalSubst

	// AnswerKey returns a stable identity key for a canonical answer
	// substitution, used for dedup (spec.md's Design Notes: a strict
	// identity test, not weak equality).
	AnswerKey(cs CanonicalSubst) string

	// HasDelayedSubgoals, EmptyConstraints, and IsTrivialSubstitution are
	// the pure predicates spec.md §6 lists as projectors on canonical
	// forms, used by pursue_answer's green-cut check and by
	// root_answer's InvalidAnswer check.
	HasDelayedSubgoals(cs CanonicalSubst) bool
	EmptyConstraints(constraints any) bool
	IsTrivialSubstitution(subst Subst) bool

	// NumUniverses reports how many distinct universes an inference
	// context has introduced so far.
	NumUniverses(infer Infer) int

	// GoalEqualsTableGoal reports whether a delayed goal is trivially
	// the table's own goal — the filter spec.md §4.4.G applies before
	// turning delayed subgoals into a refinement strand's subgoals.
	GoalEqualsTableGoal(g Goal, tableGoal UCanonicalGoal) bool
}
