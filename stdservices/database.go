package stdservices

import (
	"fmt"

	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// Database is a store of Horn clauses indexed by (functor, arity),
// updated in place by AssertFact/AssertRule (there is no removal),
// adapted from pldb.go's Relation/Fact bucketing to
// hold full clause templates — head plus body literals — rather than
// only ground facts, since this engine resolves against program clauses
// with bodies, not a pure fact base.
type Database struct {
	clauses map[string][]engine.Clause
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{clauses: make(map[string][]engine.Clause)}
}

func relKey(functor string, arity int) string {
	return fmt.Sprintf("%s/%d", functor, arity)
}

// AssertFact adds a zero-body clause (a fact).
func (db *Database) AssertFact(head term.Term) {
	db.AssertRule(head)
}

// AssertRule adds a clause. Any stdservices.Var placeholder it contains
// is a per-use template: freshenClause mints new variables for it on
// every retrieval, so the same stored clause can back unboundedly many
// concurrent derivations without aliasing.
func (db *Database) AssertRule(head term.Term, body ...engine.Goal) {
	c, ok := head.(*term.Compound)
	if !ok {
		panic("stdservices: clause head must be a compound term")
	}
	key := relKey(c.Functor, len(c.Args))
	db.clauses[key] = append(db.clauses[key], engine.Clause{Head: head, Body: body})
}

// Clauses returns every stored clause whose head shares goal's
// functor/arity — coarse first-cut filtering; ResolventClause's own
// unification attempt is what actually decides applicability.
func (db *Database) Clauses(goal term.Term) []engine.Clause {
	c, ok := goal.(*term.Compound)
	if !ok {
		return nil
	}
	return db.clauses[relKey(c.Functor, len(c.Args))]
}
