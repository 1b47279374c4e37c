package engine

// RootAnswer asks the forest for answer k of table id, ensuring the
// solve loop is entered only when needed (spec.md §4.4 Entry). It is
// designed to be called repeatedly: a QuantumExceeded result is a
// request to call again, not a failure, and the forest is left in a
// self-consistent state (stack empty) across such returns.
func (f *Forest) RootAnswer(id TableID, answerIndex int) (Answer, error) {
	table := f.mustTable(id)

	if table.Floundered {
		return Answer{}, rootFail(Floundered, id)
	}
	if answerIndex < len(table.Answers) {
		ans := table.Answers[answerIndex]
		if f.term.HasDelayedSubgoals(ans.Subst) {
			return Answer{}, rootFail(InvalidAnswer, id)
		}
		return ans, nil
	}
	if answerIndex != len(table.Answers) {
		defect("root_answer requested an answer index that skips ahead of the table's next index")
	}

	f.clock++
	f.stack = append(f.stack, &frame{table: id, clock: f.clock, cyclicMinimums: MaxMinimums()})
	return f.drive()
}

// AnyFutureAnswer reports whether any already-cached answer (at index >=
// from) satisfies predicate. Queued strands are not instantiated and
// predicate is not applied to them: a non-floundered table with a
// nonempty strand queue reports true whatever predicate would say, and
// the solve loop is not re-run as a side effect.
func (f *Forest) AnyFutureAnswer(id TableID, from int, predicate func(Answer) bool) bool {
	table := f.mustTable(id)
	for i := from; i < len(table.Answers); i++ {
		if predicate(table.Answers[i]) {
			return true
		}
	}
	if table.Floundered {
		return false
	}
	return len(table.StrandQueue) > 0
}

// drive runs the main loop (spec.md §4.4) until it can return a result
// to the original RootAnswer caller.
func (f *Forest) drive() (Answer, error) {
	for len(f.stack) > 0 {
		fr := f.stack[len(f.stack)-1]
		table := f.mustTable(fr.table)

		if fr.activeStrand == nil {
			s := table.dequeue(fr.clock, f.term)
			if s == nil {
				ans, err, done := f.noStrandsLeft(fr, table)
				if done {
					return ans, err
				}
				continue
			}
			fr.activeStrand = s
		}

		strand := fr.activeStrand
		strand.LastPursuedTime = fr.clock
		f.retries++

		if strand.Selected != nil {
			ans, err, done := f.onSubgoalSelected(fr, table, strand, strand.Selected)
			if done {
				return ans, err
			}
			continue
		}

		kind, sel := f.selectSubgoal(fr, table, strand)
		switch kind {
		case selKindSelected:
			strand.Selected = sel
			ans, err, done := f.onSubgoalSelected(fr, table, strand, sel)
			if done {
				return ans, err
			}
		case selKindNoRemaining:
			ans, err, done := f.onNoRemainingSubgoals(fr, table, strand)
			if done {
				return ans, err
			}
		case selKindFloundered:
			ans, err, done := f.onSelectionFlounder(fr, table)
			if done {
				return ans, err
			}
		}
	}
	defect("solve loop exited with an empty stack without returning a result")
	panic("unreachable")
}

type selKind int

const (
	selKindSelected selKind = iota
	selKindNoRemaining
	selKindFloundered
)

// selectSubgoal implements spec.md §4.4.A.
func (f *Forest) selectSubgoal(fr *frame, table *Table, strand *Strand) (selKind, *SelectedSubgoal) {
	ex := strand.ExClause
	for {
		if len(ex.Subgoals) == 0 && len(ex.FlounderedSubgoals) > 0 {
			ex.reconsider()
		}
		if len(ex.Subgoals) == 0 {
			if len(ex.FlounderedSubgoals) > 0 {
				// Every subgoal we could still pursue floundered, and
				// reconsider just failed to un-stick any of them: this
				// strand cannot be completed, not merely out of work.
				return selKindFloundered, nil
			}
			return selKindNoRemaining, nil
		}

		idx := f.cfg.SelectSubgoalIndex(ex.Subgoals)
		lit := ex.Subgoals[idx]

		ucGoal, universeMap, ok := f.abstractSubgoal(ex.Env, ex.Subst, lit)
		if !ok {
			f.flounderAt(ex, idx)
			continue
		}

		subTableID := f.EnsureTable(ucGoal)
		subTable := f.mustTable(subTableID)
		if subTable.Floundered {
			if lit.Polarity == Positive {
				f.flounderAt(ex, idx)
				continue
			}
			return selKindFloundered, nil
		}

		return selKindSelected, &SelectedSubgoal{
			SubgoalIndex: idx,
			SubgoalTable: subTableID,
			AnswerIndex:  0,
			UniverseMap:  universeMap,
		}
	}
}

func (f *Forest) flounderAt(ex *ExClause, idx int) {
	lit := ex.Subgoals[idx]
	ex.Subgoals = removeLiteralAt(ex.Subgoals, idx)
	ex.FlounderedSubgoals = append(ex.FlounderedSubgoals, FlounderedSubgoal{Literal: lit, FlounderedAt: ex.AnswerTime})
}

// abstractSubgoal implements spec.md §4.3.
func (f *Forest) abstractSubgoal(env Env, subst Subst, lit Literal) (UCanonicalGoal, UniverseMap, bool) {
	goal := lit.Goal
	if lit.Polarity == Negative {
		inverted, ok := f.term.InvertGoal(goal, subst)
		if !ok {
			return nil, nil, false
		}
		goal = inverted
	}
	if f.term.TruncateGoal(goal) {
		return nil, nil, false
	}
	ucGoal, universeMap := f.term.UCanonicalize(env, subst, goal)
	return ucGoal, universeMap, true
}

// onSubgoalSelected implements spec.md §4.4.B.
func (f *Forest) onSubgoalSelected(fr *frame, table *Table, strand *Strand, sel *SelectedSubgoal) (Answer, error, bool) {
	subTable := f.mustTable(sel.SubgoalTable)

	if sel.AnswerIndex < len(subTable.Answers) {
		answer := subTable.Answers[sel.AnswerIndex]
		if f.mergeAnswerIntoStrand(strand, sel, subTable, answer) {
			return Answer{}, nil, false
		}
		// Merge failure: discard the strand and unwind the whole stack
		// with QuantumExceeded rather than retrying locally (spec.md
		// §4.4.B).
		fr.activeStrand = nil
		ans, err := f.unwindAll(rootFail(QuantumExceeded, table.ID))
		return ans, err, true
	}

	if depth, onStack := f.stackPosition(sel.SubgoalTable); onStack {
		lit := strand.ExClause.Subgoals[sel.SubgoalIndex]
		mins := Minimums{Positive: f.stack[depth].clock, Negative: MaxTimeStamp}
		allCoinductive := f.allCoinductiveFrom(depth)

		if allCoinductive && lit.Polarity == Positive {
			strand.ExClause.Subgoals = removeLiteralAt(strand.ExClause.Subgoals, sel.SubgoalIndex)
			strand.ExClause.DelayedSubgoals = append(strand.ExClause.DelayedSubgoals, lit.Goal)
			strand.Selected = nil
			f.cfg.logger().Debugf("coinductive cycle at table %d: delaying subgoal", table.ID)
			return Answer{}, nil, false
		}
		if allCoinductive && lit.Polarity == Negative {
			defect("negative literal participates in a coinductive cycle")
		}

		var folded Minimums
		if lit.Polarity == Positive {
			folded = mins
		} else {
			folded = Minimums{Positive: f.clock, Negative: minTS(mins.Positive, mins.Negative)}
		}
		fr.cyclicMinimums = TakeMinimums(fr.cyclicMinimums, folded)
		table.enqueueCanonical(f.term, strand)
		fr.activeStrand = nil
		f.cfg.logger().Debugf("positive cycle at table %d: re-enqueuing strand", table.ID)
		return Answer{}, nil, false
	}

	// Fresh subgoal table: descend.
	f.clock++
	f.stack = append(f.stack, &frame{table: sel.SubgoalTable, clock: f.clock, cyclicMinimums: MaxMinimums()})
	return Answer{}, nil, false
}

// mergeAnswerIntoStrand implements spec.md §4.4.F.
func (f *Forest) mergeAnswerIntoStrand(strand *Strand, sel *SelectedSubgoal, subTable *Table, answer Answer) bool {
	lit := strand.ExClause.Subgoals[sel.SubgoalIndex]

	if lit.Polarity == Positive {
		// The strand belongs to the table on top of the stack, so its
		// next-answer clone is queued there.
		owner := f.mustTable(f.stack[len(f.stack)-1].table)
		clone := f.cloneStrandForNextAnswer(strand, sel)
		owner.StrandQueue = append(owner.StrandQueue, clone)

		strand.ExClause.Subgoals = removeLiteralAt(strand.ExClause.Subgoals, sel.SubgoalIndex)
		err := f.term.ApplyAnswerSubst(strand.Infer, strand.ExClause, lit.Goal, subTable.TableGoal, answer.Subst, sel.UniverseMap)
		if err != nil {
			return false
		}
		if answer.Ambiguous {
			strand.ExClause.Ambiguous = true
		}
		strand.ExClause.AnswerTime++
		strand.Selected = nil
		return true
	}

	// Negative subgoal: the subgoal table produced a positive answer, so
	// ¬G is not provable unless that answer was ambiguous.
	if f.term.HasDelayedSubgoals(answer.Subst) {
		defect("negative subgoal's answer carries delayed subgoals")
	}
	if !answer.Ambiguous {
		return false
	}
	strand.ExClause.Ambiguous = true
	strand.ExClause.Subgoals = removeLiteralAt(strand.ExClause.Subgoals, sel.SubgoalIndex)
	strand.Selected = nil
	return true
}

// cloneStrandForNextAnswer snapshots the strand's current canonical form
// with the selected subgoal's answer index advanced by one, before the
// current consumption mutates the live ex-clause (spec.md §4.4.F step 1).
func (f *Forest) cloneStrandForNextAnswer(strand *Strand, sel *SelectedSubgoal) *CanonicalStrand {
	clonedInfer := f.term.CloneInfer(strand.Infer)
	canon := f.term.CanonicalizeStrand(clonedInfer, strand.ExClause)
	return &CanonicalStrand{
		NumUniverses: f.term.NumUniverses(clonedInfer),
		ExClause:     canon,
		Selected: &SelectedSubgoal{
			SubgoalIndex: sel.SubgoalIndex,
			SubgoalTable: sel.SubgoalTable,
			AnswerIndex:  sel.AnswerIndex + 1,
			UniverseMap:  sel.UniverseMap,
		},
		LastPursuedTime: strand.LastPursuedTime,
	}
}

// onNoRemainingSubgoals implements spec.md §4.4.C.
func (f *Forest) onNoRemainingSubgoals(fr *frame, table *Table, strand *Strand) (Answer, error, bool) {
	idx, status := f.pursueAnswer(table, strand)
	switch status {
	case pursueFlounderedTruncate:
		return f.onSelectionFlounder(fr, table)
	case pursueDuplicate:
		// This derivation only reconfirms an existing answer: discard it
		// and unwind the whole stack with QuantumExceeded (spec.md
		// §4.4.C) rather than retrying locally.
		fr.activeStrand = nil
		ans, err := f.unwindAll(rootFail(QuantumExceeded, table.ID))
		return ans, err, true
	}

	f.stack = f.stack[:len(f.stack)-1]
	ans := table.Answers[idx]

	if len(f.stack) == 0 {
		if f.term.HasDelayedSubgoals(ans.Subst) {
			f.enqueueRefinementStrand(table, ans)
		}
		return ans, nil, true
	}

	callerFr := f.stack[len(f.stack)-1]
	callerStrand := callerFr.activeStrand
	sel := callerStrand.Selected
	if f.mergeAnswerIntoStrand(callerStrand, sel, table, ans) {
		callerFr.activeStrand = callerStrand
		return Answer{}, nil, false
	}
	// Local failure of one derivation in the caller's strand: drop it
	// and let the caller's frame dequeue its next strand.
	callerFr.activeStrand = nil
	return Answer{}, nil, false
}

// pursueStatus distinguishes the three outcomes spec.md §4.4.H allows
// once a strand has no subgoals left: the answer is genuinely new, it
// merely reconfirms one already recorded, or it exceeded the size
// budget and floundered its whole table.
type pursueStatus int

const (
	pursueNew pursueStatus = iota
	pursueDuplicate
	pursueFlounderedTruncate
)

// pursueAnswer implements spec.md §4.4.H.
func (f *Forest) pursueAnswer(table *Table, strand *Strand) (int, pursueStatus) {
	if f.term.TruncateAnswer(strand.ExClause.Subst) {
		table.Floundered = true
		f.cfg.logger().Debugf("table %d floundered: answer exceeds truncation budget", table.ID)
		return -1, pursueFlounderedTruncate
	}
	canonSubst := f.term.CanonicalizeAnswer(strand.Infer, strand.ExClause)
	key := f.term.AnswerKey(canonSubst)
	idx, isNew := table.recordAnswer(key, Answer{Subst: canonSubst, Ambiguous: strand.ExClause.Ambiguous})
	if !isNew {
		return idx, pursueDuplicate
	}
	// A strand rebuilt from its canonical form starts with an empty live
	// substitution, so the answer is also compared against the table
	// goal's own unbound answer form: only an identity answer cuts.
	idInfer, idSubst, idEnv, _ := f.term.InstantiateUCanonicalGoal(table.TableGoal)
	identityKey := f.term.AnswerKey(f.term.CanonicalizeAnswer(idInfer, &ExClause{Env: idEnv, Subst: idSubst}))
	if !strand.ExClause.Ambiguous && f.term.EmptyConstraints(strand.ExClause.Constraints) && f.term.IsTrivialSubstitution(strand.ExClause.Subst) && key == identityKey {
		table.StrandQueue = nil // green cut
	}
	return idx, pursueNew
}

// enqueueRefinementStrand implements spec.md §4.4.G.
func (f *Forest) enqueueRefinementStrand(table *Table, answer Answer) {
	infer, subst, constraints, delayed, numUniverses := f.term.InstantiateAnswer(answer.Subst)
	// The refinement strand belongs to the same table as the root answer
	// it refines, so it needs that table's own environment (in
	// particular, its goal terms) to canonicalize correctly later —
	// recovered the same way table creation itself obtains it.
	_, _, env, _ := f.term.InstantiateUCanonicalGoal(table.TableGoal)
	var subgoals []Literal
	for _, g := range delayed {
		if f.term.GoalEqualsTableGoal(g, table.TableGoal) {
			continue
		}
		subgoals = append(subgoals, Literal{Polarity: Positive, Goal: g})
	}
	ex := &ExClause{Env: env, Subst: subst, Constraints: constraints, Subgoals: subgoals}
	canon := f.term.CanonicalizeStrand(infer, ex)
	table.StrandQueue = append(table.StrandQueue, &CanonicalStrand{NumUniverses: numUniverses, ExClause: canon})
}

// onSelectionFlounder handles a strand that cannot proceed — its
// selection loop returned Floundered (every remaining subgoal floundered,
// or a negative subgoal depends on a floundered table), or its answer
// exceeded the truncation budget — by discarding the strand and
// propagating (spec.md §4.4.D).
func (f *Forest) onSelectionFlounder(fr *frame, table *Table) (Answer, error, bool) {
	fr.activeStrand = nil
	table.Floundered = true
	f.cfg.logger().Debugf("table %d floundered: strand cannot proceed", table.ID)
	return f.propagateFlounder()
}

// propagateFlounder implements spec.md §4.4.D's upward walk.
func (f *Forest) propagateFlounder() (Answer, error, bool) {
	for {
		poppedID := f.stack[len(f.stack)-1].table
		f.stack = f.stack[:len(f.stack)-1]
		if len(f.stack) == 0 {
			return Answer{}, rootFail(Floundered, poppedID), true
		}

		callerFr := f.stack[len(f.stack)-1]
		callerTable := f.mustTable(callerFr.table)
		callerStrand := callerFr.activeStrand
		sel := callerStrand.Selected
		lit := callerStrand.ExClause.Subgoals[sel.SubgoalIndex]

		if lit.Polarity == Positive {
			// Stop the upward walk here: set the subgoal aside as
			// floundered (it may become eligible again later, spec.md
			// §4.4.A's reconsider step) and resume normal processing
			// at the caller instead of treating this as a forest-wide
			// event.
			f.flounderAt(callerStrand.ExClause, sel.SubgoalIndex)
			callerStrand.Selected = nil
			callerTable.enqueueCanonical(f.term, callerStrand)
			callerFr.activeStrand = nil
			return Answer{}, nil, false
		}

		callerTable.Floundered = true
		callerFr.activeStrand = nil
		// loop: next iteration pops this now-dead frame too
	}
}

// noStrandsLeft implements spec.md §4.4.E.
func (f *Forest) noStrandsLeft(fr *frame, table *Table) (Answer, error, bool) {
	if len(table.StrandQueue) == 0 {
		if len(f.stack) == 1 {
			return Answer{}, rootFail(NoMoreSolutions, table.ID), true
		}
		f.stack = f.stack[:len(f.stack)-1]
		callerFr := f.stack[len(f.stack)-1]
		callerStrand := callerFr.activeStrand
		sel := callerStrand.Selected
		lit := callerStrand.ExClause.Subgoals[sel.SubgoalIndex]

		if lit.Polarity == Positive {
			// The subgoal table closed with no answers at all: this
			// positive dependency can never succeed. Discard the
			// caller's strand and unwind the whole stack with
			// QuantumExceeded rather than retrying locally (spec.md
			// §4.4.E).
			callerFr.activeStrand = nil
			ans, err := f.unwindAll(rootFail(QuantumExceeded, table.ID))
			return ans, err, true
		}
		callerStrand.ExClause.Subgoals = removeLiteralAt(callerStrand.ExClause.Subgoals, sel.SubgoalIndex)
		callerStrand.Selected = nil
		return Answer{}, nil, false
	}

	if fr.cyclicMinimums.Positive >= fr.clock && fr.cyclicMinimums.Negative >= fr.clock {
		if fr.cyclicMinimums.Negative < MaxTimeStamp {
			return f.unwindAll(rootFail(NegativeCycle, table.ID))
		}
		f.clearStrandsAfterCycle(table)
		return f.unwindAll(rootFail(QuantumExceeded, table.ID))
	}

	// Part of a larger cycle: propagate into the caller and retry there.
	f.stack = f.stack[:len(f.stack)-1]
	callerFr := f.stack[len(f.stack)-1]
	callerTable := f.mustTable(callerFr.table)
	callerStrand := callerFr.activeStrand
	sel := callerStrand.Selected
	lit := callerStrand.ExClause.Subgoals[sel.SubgoalIndex]

	var folded Minimums
	if lit.Polarity == Positive {
		folded = fr.cyclicMinimums
	} else {
		folded = Minimums{Positive: f.clock, Negative: minTS(fr.cyclicMinimums.Positive, fr.cyclicMinimums.Negative)}
	}
	callerFr.cyclicMinimums = TakeMinimums(callerFr.cyclicMinimums, folded)
	callerStrand.Selected = nil
	callerTable.enqueueCanonical(f.term, callerStrand)
	callerFr.activeStrand = nil
	return Answer{}, nil, false
}

// clearStrandsAfterCycle recursively removes strands from subgoal tables
// reached through this cycle's selected subgoals, preventing infinite
// work retrying transitively cycle-bound strands.
func (f *Forest) clearStrandsAfterCycle(table *Table) {
	f.clearStrandsRec(table, make(map[TableID]bool))
}

func (f *Forest) clearStrandsRec(table *Table, seen map[TableID]bool) {
	if seen[table.ID] {
		return
	}
	seen[table.ID] = true
	queue := table.StrandQueue
	table.StrandQueue = nil
	for _, cs := range queue {
		if cs.Selected == nil {
			continue
		}
		if sub := f.tables[cs.Selected.SubgoalTable]; sub != nil {
			f.clearStrandsRec(sub, seen)
		}
	}
}

// unwindAll implements the drop guard (spec.md §4.4.I) as the generic
// terminal path for every outcome besides Success: every remaining
// frame's active strand, if any, is canonicalized and returned to its
// table's queue, guaranteeing the forest is self-consistent (stack
// empty) when the caller receives a non-success result.
func (f *Forest) unwindAll(result error) (Answer, error) {
	for len(f.stack) > 0 {
		fr := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		if fr.activeStrand != nil {
			t := f.mustTable(fr.table)
			t.enqueueCanonical(f.term, fr.activeStrand)
		}
	}
	return Answer{}, result
}

func (f *Forest) stackPosition(id TableID) (int, bool) {
	for i, fr := range f.stack {
		if fr.table == id {
			return i, true
		}
	}
	return 0, false
}

func (f *Forest) allCoinductiveFrom(depth int) bool {
	for i := depth; i < len(f.stack); i++ {
		if !f.mustTable(f.stack[i].table).CoinductiveGoal {
			return false
		}
	}
	return true
}
