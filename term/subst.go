package term

// Substitution is a single-threaded binding environment from variable ID
// to term. Adapted from gokanlogic's core.Substitution with its
// sync.RWMutex dropped: the engine never shares a Substitution across
// concurrent strands.
type Substitution struct {
	bindings map[int64]Term
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: make(map[int64]Term)}
}

// Clone returns an independent copy so that enqueuing the next-answer
// variant of a positive subgoal (spec's §4.4.F step 1) does not alias the
// substitution of the strand being consumed.
func (s *Substitution) Clone() *Substitution {
	cp := make(map[int64]Term, len(s.bindings))
	for k, v := range s.bindings {
		cp[k] = v
	}
	return &Substitution{bindings: cp}
}

// Bind records v := t, returning a new substitution (the caller decides
// whether to mutate in place via BindInPlace or thread a fresh one
// through, matching gokanlogic's copy-on-write style for its Database).
func (s *Substitution) Bind(v *Var, t Term) *Substitution {
	cp := s.Clone()
	cp.bindings[v.ID] = t
	return cp
}

// BindInPlace mutates the substitution directly; used inside Unify where
// building a fresh substitution per step would be wasteful.
func (s *Substitution) BindInPlace(v *Var, t Term) {
	s.bindings[v.ID] = t
}

// Lookup returns the direct binding for a variable ID, if any.
func (s *Substitution) Lookup(id int64) (Term, bool) {
	t, ok := s.bindings[id]
	return t, ok
}

// Walk follows variable bindings until reaching an unbound variable or a
// non-variable term (one level of dereferencing per step, same algorithm
// as gokanlogic's Substitution.Walk).
func (s *Substitution) Walk(t Term) Term {
	for {
		v, ok := t.(*Var)
		if !ok {
			return t
		}
		bound, ok := s.bindings[v.ID]
		if !ok {
			return t
		}
		t = bound
	}
}

// DeepWalk fully resolves t, recursing into compound arguments, following
// gokanlogic's term_utils.go CopyTerm walk.
func (s *Substitution) DeepWalk(t Term) Term {
	t = s.Walk(t)
	c, ok := t.(*Compound)
	if !ok {
		return t
	}
	args := make([]Term, len(c.Args))
	for i, a := range c.Args {
		args[i] = s.DeepWalk(a)
	}
	return &Compound{Functor: c.Functor, Args: args}
}

// IsGround reports whether t has no unbound variables once fully walked,
// the single-threaded analogue of gokanlogic's term_utils.go Ground.
func (s *Substitution) IsGround(t Term) bool {
	t = s.Walk(t)
	switch v := t.(type) {
	case *Var:
		return false
	case *Compound:
		for _, a := range v.Args {
			if !s.IsGround(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Size reports the number of bindings, used by stdservices to enforce
// its truncation budget.
func (s *Substitution) Size() int { return len(s.bindings) }

// Bindings exposes the raw map for iteration by canonicalization, which
// must visit bindings in a stable order; callers sort the returned keys.
func (s *Substitution) Bindings() map[int64]Term { return s.bindings }
