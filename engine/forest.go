package engine

import "fmt"

// frame is one entry on the stack: the active spine of tables currently
// being solved. No table may appear twice on the stack simultaneously.
type frame struct {
	table          TableID
	clock          TimeStamp
	cyclicMinimums Minimums
	activeStrand   *Strand
}

// Stats reports forest-level instrumentation, the supplemented feature
// grounded on gokanlogic's SLGEngine.Stats()/SLGStats, repurposed from
// cache hit/miss counters to counts meaningful to this engine's
// single-threaded clocked design.
type Stats struct {
	Tables          int
	Answers         int
	StrandsRetried  int
	ClockTicks      int64
	FlounderedTables int
}

// Forest is the set of tables, indexed by u-canonical goal, plus the
// global logical clock.
type Forest struct {
	cfg       Config
	term      TermServices
	clauses   ClauseSource
	tables    []*Table
	index     map[UCanonicalGoal]TableID
	clock     TimeStamp
	stack     []*frame
	retries   int64
}

// NewForest constructs an empty forest over the given collaborators.
func NewForest(cfg Config, termSvc TermServices, clauseSrc ClauseSource) *Forest {
	if cfg.SelectSubgoalIndex == nil {
		cfg.SelectSubgoalIndex = DefaultSelectionPolicy
	}
	if cfg.Log == nil {
		cfg.Log = noopLogger{}
	}
	return &Forest{
		cfg:     cfg,
		term:    termSvc,
		clauses: clauseSrc,
		index:   make(map[UCanonicalGoal]TableID),
	}
}

func (f *Forest) mustTable(id TableID) *Table {
	if int(id) < 0 || int(id) >= len(f.tables) {
		defect(fmt.Sprintf("reference to nonexistent table %d", id))
	}
	return f.tables[id]
}

// EnsureTable returns the table index for a u-canonical goal, creating
// and populating it with initial strands if absent (spec.md §4.2). It
// lets an aggregator (or any caller building a dependency graph) seed a
// table without pulling an answer.
func (f *Forest) EnsureTable(ucGoal UCanonicalGoal) TableID {
	if id, ok := f.index[ucGoal]; ok {
		return id
	}
	id := TableID(len(f.tables))
	table := newTable(id, ucGoal)
	f.tables = append(f.tables, table)
	f.index[ucGoal] = id
	f.populateTable(table)
	return id
}

// populateTable implements spec.md §4.2 steps 1-4.
func (f *Forest) populateTable(table *Table) {
	table.CoinductiveGoal = f.term.IsCoinductive(table.TableGoal)
	infer, subst, env, goal := f.term.InstantiateUCanonicalGoal(table.TableGoal)

	if domain, ok := goal.(*DomainGoal); ok {
		clauses, err := f.clauses.ProgramClauses(env, domain.Payload, infer)
		if err != nil {
			table.Floundered = true
			f.cfg.logger().Debugf("table %d floundered at creation (clause source): %v", table.ID, err)
			return
		}
		for _, clause := range clauses {
			clInfer := f.term.CloneInfer(infer)
			ex, rerr := f.term.ResolventClause(clInfer, env, domain.Payload, subst, clause)
			if rerr != nil {
				continue // clause does not apply: local, recoverable
			}
			canon := f.term.CanonicalizeStrand(clInfer, ex)
			table.StrandQueue = append(table.StrandQueue, &CanonicalStrand{
				NumUniverses: f.term.NumUniverses(clInfer),
				ExClause:     canon,
			})
		}
		return
	}

	finalInfer, ex, ok := f.simplifyHH(infer, env, goal)
	if !ok {
		return // unification failed during simplification: no initial strand
	}
	canon := f.term.CanonicalizeStrand(finalInfer, ex)
	table.StrandQueue = append(table.StrandQueue, &CanonicalStrand{
		NumUniverses: f.term.NumUniverses(finalInfer),
		ExClause:     canon,
	})
}

// Stats reports current forest-level counters.
func (f *Forest) Stats() Stats {
	s := Stats{Tables: len(f.tables), ClockTicks: int64(f.clock), StrandsRetried: int(f.retries)}
	for _, t := range f.tables {
		s.Answers += len(t.Answers)
		if t.Floundered {
			s.FlounderedTables++
		}
	}
	return s
}

// Dump summarizes a table's state — its coinductive and floundered flags
// and the sizes of its strand queue and answer list (not their contents)
// — a debugging aid grounded on gokanlogic's own String() methods across
// table.go/tabling.go.
func (f *Forest) Dump(id TableID) string {
	t := f.mustTable(id)
	return fmt.Sprintf("table %d: coinductive=%v floundered=%v strands=%d answers=%d",
		t.ID, t.CoinductiveGoal, t.Floundered, len(t.StrandQueue), len(t.Answers))
}
