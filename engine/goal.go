package engine

// Goal is the abstract goal algebra the solve loop's HH simplification
// (§4.1) decomposes. The engine interprets the *shape* of a Goal (is it
// a conjunction, a negation, ...) but treats the payload of a DomainGoal,
// and the operands of an EqGoal, as opaque values owned by TermServices.
type Goal interface {
	isGoal()
}

// ForallGoal is `forall x. Body`: instantiating x introduces a fresh
// universe (spec.md §4.1).
type ForallGoal struct {
	VarName string
	Body    Goal
}

func (*ForallGoal) isGoal() {}

// ExistsGoal is `exists x. Body`.
type ExistsGoal struct {
	VarName string
	Body    Goal
}

func (*ExistsGoal) isGoal() {}

// ImpliesGoal is `clauses => Body`: simplifying it extends the ambient
// environment with Clauses before recursing into Body.
type ImpliesGoal struct {
	Clauses []Clause
	Body    Goal
}

func (*ImpliesGoal) isGoal() {}

// AndGoal is a conjunction `G1 ∧ ... ∧ Gn`.
type AndGoal struct {
	Goals []Goal
}

func (*AndGoal) isGoal() {}

// NotGoal is `¬G`; HH simplification appends it as a Negative literal
// without decomposing G further.
type NotGoal struct {
	Body Goal
}

func (*NotGoal) isGoal() {}

// EqGoal is an equality between two opaque terms, resolved by
// TermServices.UnifyParametersIntoExClause.
type EqGoal struct {
	A, B any
}

func (*EqGoal) isGoal() {}

// DomainGoal wraps an opaque, engine-external goal payload — the only
// kind of goal the engine hands to ClauseSource.ProgramClauses.
type DomainGoal struct {
	Payload any
}

func (*DomainGoal) isGoal() {}

// CannotProveGoal is the sentinel that forces an ex-clause ambiguous.
type CannotProveGoal struct{}

func (*CannotProveGoal) isGoal() {}

// Clause is `head :- body1, ..., bodyn` with universally quantified
// parameters implicit in Head/Body's free variables. Head is an opaque
// domain-goal payload (the same shape DomainGoal.Payload carries); Body
// is interpreted only by TermServices.ResolventClause.
type Clause struct {
	Head any
	Body []Goal
}
