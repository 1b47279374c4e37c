package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// ClauseSource is this implementation's engine.ClauseSource: it consults
// both a program Database and the caller's own assumed (`clauses => G`)
// environment. This restricted language has no cut, so ordering between
// the two sources only affects disjunction order, never soundness —
// assumed clauses are tried first simply because they are the more
// locally-scoped of the two.
type ClauseSource struct {
	DB *Database
}

// NewClauseSource returns a ClauseSource backed by db.
func NewClauseSource(db *Database) *ClauseSource {
	return &ClauseSource{DB: db}
}

// ProgramClauses implements engine.ClauseSource.
func (cs *ClauseSource) ProgramClauses(envAny engine.Env, domainGoalAny any, inferAny engine.Infer) ([]engine.Clause, error) {
	goal, ok := domainGoalAny.(term.Term)
	if !ok {
		return nil, engine.ErrFloundered
	}
	env := envAny.(Env)
	var out []engine.Clause
	out = append(out, matchingAssumed(env.Assumed(), goal)...)
	out = append(out, cs.DB.Clauses(goal)...)
	return out, nil
}

func matchingAssumed(assumed []engine.Clause, goal term.Term) []engine.Clause {
	c, ok := goal.(*term.Compound)
	if !ok {
		return nil
	}
	var out []engine.Clause
	for _, cl := range assumed {
		hc, ok := cl.Head.(*term.Compound)
		if ok && hc.Functor == c.Functor && len(hc.Args) == len(c.Args) {
			out = append(out, cl)
		}
	}
	return out
}
