package stdservices

import "github.com/gitrdm/slgforest/term"

// Infer is the concretization of engine.Infer: a source of fresh
// variables plus a running count of universes introduced so far
// (spec.md §4.1's `forall` step allocates a new universe each time).
// Universe 0 is the root (existential/"ambient") universe every fresh
// variable starts in unless explicitly raised by IntroduceUniversal.
type Infer struct {
	Vars       *term.VarSource
	NumUniverse int
}

// NewInfer returns an inference context with no variables allocated yet
// and only the root universe.
func NewInfer() *Infer {
	return &Infer{Vars: term.NewVarSource(0), NumUniverse: 1}
}

// Clone returns an independent copy: allocating fresh variables or
// raising the universe count in one copy does not affect the other. Both
// copies continue from the same counter value, so each mints the same
// next variable IDs; the copies are used for separate branches whose
// terms are never combined.
func (in *Infer) Clone() *Infer {
	return &Infer{Vars: in.Vars.Clone(), NumUniverse: in.NumUniverse}
}
