package engine

// simplifyHH implements spec.md §4.1: reduce a composite goal to a
// single ex-clause whose subgoals are a flat list of literals. The
// worklist is a LIFO stack; conjunction members are pushed in
// left-to-right order so the rightmost is processed (and so appended to
// Subgoals) first. Combined with the default "last subgoal first"
// selection policy, this recovers left-to-right pursuit order, per the
// Design Notes' remark that pushing subgoals during simplification
// preserves textual order under that default.
func (f *Forest) simplifyHH(infer Infer, env Env, goal Goal) (Infer, *ExClause, bool) {
	ex := &ExClause{Env: env}
	type item struct {
		env  Env
		goal Goal
	}
	worklist := []item{{env, goal}}
	cur := infer

	for len(worklist) > 0 {
		it := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		switch g := it.goal.(type) {
		case *ForallGoal:
			nextInfer, body := f.term.IntroduceUniversal(cur, g.VarName, g.Body)
			cur = nextInfer
			worklist = append(worklist, item{it.env, body})
		case *ExistsGoal:
			nextInfer, body := f.term.IntroduceExistential(cur, g.VarName, g.Body)
			cur = nextInfer
			worklist = append(worklist, item{it.env, body})
		case *ImpliesGoal:
			nextEnv := f.term.ExtendEnvironment(it.env, g.Clauses)
			worklist = append(worklist, item{nextEnv, g.Body})
		case *AndGoal:
			for _, sub := range g.Goals {
				worklist = append(worklist, item{it.env, sub})
			}
		case *NotGoal:
			ex.Subgoals = append(ex.Subgoals, Literal{Polarity: Negative, Goal: g.Body})
		case *EqGoal:
			if err := f.term.UnifyParametersIntoExClause(it.env, g.A, g.B, ex); err != nil {
				return cur, nil, false
			}
		case *DomainGoal:
			ex.Subgoals = append(ex.Subgoals, Literal{Polarity: Positive, Goal: g})
		case *CannotProveGoal:
			ex.Ambiguous = true
		default:
			defect("unrecognized goal kind in HH simplification")
		}
	}
	return cur, ex, true
}
