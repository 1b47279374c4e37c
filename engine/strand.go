package engine

// SelectedSubgoal records which subgoal a strand is currently working
// on: its index into ExClause.Subgoals, the table it resolves against,
// which of that table's answers has been consumed so far, and the
// universe remap produced when the subgoal was abstracted to its
// u-canonical form.
type SelectedSubgoal struct {
	SubgoalIndex int
	SubgoalTable TableID
	AnswerIndex  int
	UniverseMap  UniverseMap
}

// Strand is one in-progress proof attempt for one table, in its live
// form: a mutable inference context plus the ex-clause it is building.
type Strand struct {
	Infer           Infer
	ExClause        *ExClause
	Selected        *SelectedSubgoal
	LastPursuedTime TimeStamp
}

// CanonicalStrand is a strand with no live inference context, suitable
// for storage in a table's queue. NumUniverses lets InstantiateExClause
// rebuild a fresh inference context of the right shape.
type CanonicalStrand struct {
	NumUniverses    int
	ExClause        CanonicalExClause
	Selected        *SelectedSubgoal
	LastPursuedTime TimeStamp
}
