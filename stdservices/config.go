package stdservices

// Config bounds this implementation's truncation checks and names which
// predicates are coinductive — the knobs spec.md leaves to the
// term-services implementation rather than prescribing in the engine
// itself (engine/config.go carries the engine's own, separate tunables).
type Config struct {
	// MaxTermDepth bounds a subgoal's term nesting; exceeding it
	// truncates (flounders) the subgoal rather than abstracting it.
	MaxTermDepth int
	// MaxSubstSize bounds an answer substitution's binding count;
	// exceeding it flounders the whole table (spec.md §4.4.H).
	MaxSubstSize int
	// Coinductive names predicates (by functor) whose goals are
	// classified coinductive_goal at table-creation time.
	Coinductive map[string]bool
}

// DefaultConfig returns conservative truncation bounds and no
// coinductive predicates.
func DefaultConfig() Config {
	return Config{MaxTermDepth: 64, MaxSubstSize: 4096, Coinductive: map[string]bool{}}
}
