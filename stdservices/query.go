package stdservices

import (
	"github.com/gitrdm/slgforest/engine"
	"github.com/gitrdm/slgforest/term"
)

// Ask u-canonicalizes goal as a fresh root query (empty environment, no
// bindings yet) and ensures a table for it, returning the table's ID for
// use with forest.RootAnswer. This is the entry point callers use
// instead of constructing a u-canonical goal by hand.
func (s *Services) Ask(f *engine.Forest, goal engine.Goal) engine.TableID {
	ucGoal, _ := s.UCanonicalize(NewEnv(), term.NewSubstitution(), goal)
	return f.EnsureTable(ucGoal)
}
