package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// Env is the concretization of engine.Env: a stack of implication
// clauses assumed into scope by `clauses => G` (spec.md §4.1), searched
// innermost-first alongside the program's own Database, plus a stable
// reference to the table's own goal term(s) (the terms originally
// instantiated from the table's u-canonical goal). The latter lets
// CanonicalizeAnswer walk the same term identity every strand of the
// table descends from, so canonical position numbering stays consistent
// between a table's own u-canonicalization and the answers it produces.
type Env struct {
	assumed   []engine.Clause
	goalTerms []term.Term
}

// NewEnv returns an environment with no local assumptions, rooted at the
// given goal terms (the table's own goal).
func NewEnv(goalTerms ...term.Term) Env {
	return Env{goalTerms: goalTerms}
}

// Extend returns a new Env with clauses assumed on top of env's own,
// carrying goalTerms forward unchanged.
func (env Env) Extend(clauses []engine.Clause) Env {
	next := make([]engine.Clause, 0, len(env.assumed)+len(clauses))
	next = append(next, clauses...)
	next = append(next, env.assumed...)
	return Env{assumed: next, goalTerms: env.goalTerms}
}

// Assumed returns the clauses this environment has layered in, innermost
// (most recently assumed) first.
func (env Env) Assumed() []engine.Clause {
	return env.assumed
}

// GoalTerms returns the table's own goal term(s).
func (env Env) GoalTerms() []term.Term {
	return env.goalTerms
}
