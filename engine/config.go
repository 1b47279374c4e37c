package engine

// SelectionPolicy picks the index within subgoals to pursue next.
// spec.md §4.4.A mandates "last subgoal first" as the conservative
// default because HH-simplification pushes conjuncts so that the
// textually-first subgoal ends up last in the list; Design Notes invite
// implementations to parameterize this, which Config does.
type SelectionPolicy func(subgoals []Literal) int

// DefaultSelectionPolicy implements "last subgoal first".
func DefaultSelectionPolicy(subgoals []Literal) int {
	return len(subgoals) - 1
}

// Logger is the narrow logging surface Config accepts, satisfied by
// *obslog.Logger; declared here (rather than importing obslog directly)
// so engine has no dependency on the logging package's construction.
type Logger interface {
	Debugf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}

// Config carries the engine's tunables, in the shape of gokanlogic's
// SLGConfig/DefaultSLGConfig: a small, pointer-free struct of knobs with
// a Default constructor.
type Config struct {
	// SelectSubgoalIndex is the subgoal-selection policy hook.
	SelectSubgoalIndex SelectionPolicy
	// AggregatorMaxAnswers bounds how many answers Aggregate will draw
	// from a table; when every draw within the bound agrees, Aggregate
	// reports on those draws alone (see Aggregate). Without a bound, a
	// table with infinitely many answers (e.g. an unbounded recursive
	// predicate) would never let the aggregator finish. Chalk's own
	// aggregator avoids this by only ever peeking at any_future_answer
	// rather than drawing answers to completion; this module draws
	// answers and compares them, so it needs an explicit cap.
	AggregatorMaxAnswers int
	// Log receives Debug-level tracing of cycle detection and flounder
	// events, mirroring gokanlogic's wfsTracef call sites. Defaults to a
	// no-op logger.
	Log Logger
}

// DefaultConfig returns Config with the spec-mandated default selection
// policy and a conservative aggregator bound.
func DefaultConfig() Config {
	return Config{
		SelectSubgoalIndex:   DefaultSelectionPolicy,
		AggregatorMaxAnswers: 64,
		Log:                  noopLogger{},
	}
}

func (c Config) logger() Logger {
	if c.Log == nil {
		return noopLogger{}
	}
	return c.Log
}
