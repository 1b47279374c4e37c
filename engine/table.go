package engine

// TableID indexes a Table within a Forest.
type TableID int

// Answer is one recorded solution for a table: a canonical substitution
// (possibly still carrying delayed subgoals from a coinductive cycle)
// and whether it was derived under ambiguity.
type Answer struct {
	Subst     CanonicalSubst
	Ambiguous bool
}

// Table holds all work and results for one u-canonical goal.
type Table struct {
	ID              TableID
	TableGoal       UCanonicalGoal
	CoinductiveGoal bool
	Floundered      bool

	StrandQueue []*CanonicalStrand
	Answers     []Answer

	// answerKeys deduplicates answers on their canonical identity, per
	// spec.md's Design Notes: a strict identity test, not weak
	// substitution equality.
	answerKeys map[string]int
}

func newTable(id TableID, goal UCanonicalGoal) *Table {
	return &Table{ID: id, TableGoal: goal, answerKeys: make(map[string]int)}
}

// dequeue removes and returns the first strand whose LastPursuedTime is
// strictly less than clock, instantiating it into live form. Returns nil
// if no strand in the queue currently qualifies (spec.md §4.4's dequeue
// rule enforces strand fairness this way).
func (t *Table) dequeue(clock TimeStamp, svc TermServices) *Strand {
	for i, cs := range t.StrandQueue {
		if cs.LastPursuedTime >= clock {
			continue
		}
		t.StrandQueue = append(t.StrandQueue[:i:i], t.StrandQueue[i+1:]...)
		infer, ex := svc.InstantiateExClause(cs.NumUniverses, cs.ExClause)
		return &Strand{
			Infer:           infer,
			ExClause:        ex,
			Selected:        cs.Selected,
			LastPursuedTime: cs.LastPursuedTime,
		}
	}
	return nil
}

// enqueueCanonical canonicalizes a live strand and appends it to the
// table's queue (tail), the storage half of the take/put discipline
// spec.md's Design Notes describe for the active-strand slot.
func (t *Table) enqueueCanonical(svc TermServices, s *Strand) {
	canon := svc.CanonicalizeStrand(s.Infer, s.ExClause)
	t.StrandQueue = append(t.StrandQueue, &CanonicalStrand{
		NumUniverses:    svc.NumUniverses(s.Infer),
		ExClause:        canon,
		Selected:        s.Selected,
		LastPursuedTime: s.LastPursuedTime,
	})
}

// recordAnswer appends a new answer if its key is unseen, returning the
// assigned index and whether it was new.
func (t *Table) recordAnswer(key string, ans Answer) (int, bool) {
	if idx, ok := t.answerKeys[key]; ok {
		return idx, false
	}
	idx := len(t.Answers)
	t.Answers = append(t.Answers, ans)
	t.answerKeys[key] = idx
	return idx, true
}
