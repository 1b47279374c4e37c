package term

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Canonical is a canonical, name- and universe-independent rendering of a
// term: free variables are replaced by their first-occurrence position
// (X0, X1, ...) and the universe each position was drawn from is
// renumbered the same way, by first occurrence. This generalizes
// gokanlogic's tabling.go CallPattern.canonicalizeTerm (which only
// renumbers variable positions) to also renumber universes, matching
// spec.md's u-canonicalization and its UniverseMap requirement.
type Canonical struct {
	// Term is the canonicalized shape: each free Var is replaced by a Var
	// whose ID is its canonical position and whose Universe is its
	// canonical universe slot.
	Term Term
	// UniverseMap maps canonical universe slot -> original universe
	// number, in first-occurrence order. Re-applying a canonical value
	// into a caller's context walks this back to front.
	UniverseMap []int
	// NumUniverses is len(UniverseMap).
	NumUniverses int
	// Key is a stable content hash of the canonical form, used both as
	// the forest's table-index key and as the strict-identity dedup key
	// spec.md's Design Notes require for answers (two canonical forms
	// are identical iff their keys match).
	Key string
}

// CanonicalizeTerm produces the canonical form of t under sub.
// Variables are renumbered to positions starting at 0, in the order
// they are first encountered during a left-to-right walk; the universe
// of each first occurrence is recorded in UniverseMap in that same
// order and renumbered the same way.
func CanonicalizeTerm(t Term, sub *Substitution) Canonical {
	varPos := make(map[int64]int64)
	uniPos := make(map[int]int)
	var universeMap []int

	var walk func(Term) Term
	walk = func(t Term) Term {
		t = sub.Walk(t)
		switch v := t.(type) {
		case *Var:
			uPos, ok := uniPos[v.Universe]
			if !ok {
				uPos = len(universeMap)
				uniPos[v.Universe] = uPos
				universeMap = append(universeMap, v.Universe)
			}
			pos, ok := varPos[v.ID]
			if !ok {
				pos = int64(len(varPos))
				varPos[v.ID] = pos
			}
			return &Var{ID: pos, Universe: uPos}
		case *Compound:
			args := make([]Term, len(v.Args))
			for i, a := range v.Args {
				args[i] = walk(a)
			}
			return &Compound{Functor: v.Functor, Args: args}
		default:
			return t
		}
	}

	canonTerm := walk(t)
	return Canonical{
		Term:         canonTerm,
		UniverseMap:  universeMap,
		NumUniverses: len(universeMap),
		Key:          hashCanonicalString(canonTerm.String()),
	}
}

// CanonicalizeTerms canonicalizes a sequence of terms as one joint unit,
// so that shared variables across terms (e.g. a substitution's bindings
// plus its delayed subgoals) receive a single, consistent numbering —
// the same requirement gokanlogic's CallPattern.canonicalizeTerm serves
// for a clause's whole argument list rather than one argument at a time.
func CanonicalizeTerms(ts []Term, sub *Substitution) Canonical {
	varPos := make(map[int64]int64)
	uniPos := make(map[int]int)
	var universeMap []int

	var walk func(Term) Term
	walk = func(t Term) Term {
		t = sub.Walk(t)
		switch v := t.(type) {
		case *Var:
			uPos, ok := uniPos[v.Universe]
			if !ok {
				uPos = len(universeMap)
				uniPos[v.Universe] = uPos
				universeMap = append(universeMap, v.Universe)
			}
			pos, ok := varPos[v.ID]
			if !ok {
				pos = int64(len(varPos))
				varPos[v.ID] = pos
			}
			return &Var{ID: pos, Universe: uPos}
		case *Compound:
			args := make([]Term, len(v.Args))
			for i, a := range v.Args {
				args[i] = walk(a)
			}
			return &Compound{Functor: v.Functor, Args: args}
		default:
			return t
		}
	}

	canonTerms := make([]Term, len(ts))
	for i, t := range ts {
		canonTerms[i] = walk(t)
	}
	key := ""
	for i, c := range canonTerms {
		if i > 0 {
			key += "|"
		}
		key += c.String()
	}
	return Canonical{
		Term:         &Compound{Functor: "$tuple", Args: canonTerms},
		UniverseMap:  universeMap,
		NumUniverses: len(universeMap),
		Key:          hashCanonicalString(key),
	}
}

func hashCanonicalString(s string) string {
	h := sha256.New()
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
	h.Write(lenBuf[:])
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// Instantiate produces a fresh copy of a canonical term in a new
// variable/universe namespace, witnessed by vs and a caller-supplied
// universe floor (so repeated instantiations of the same canonical form
// never collide). It is the inverse of CanonicalizeTerm.
func Instantiate(c Canonical, vs *VarSource, universeFloor int) (Term, []*Var, []int) {
	freshVars := make([]*Var, 0)
	freshUniverses := make([]int, c.NumUniverses)
	for i := range freshUniverses {
		freshUniverses[i] = universeFloor + i
	}
	varByPos := make(map[int64]*Var)

	var walk func(Term) Term
	walk = func(t Term) Term {
		switch v := t.(type) {
		case *Var:
			if fv, ok := varByPos[v.ID]; ok {
				return fv
			}
			fv := vs.Fresh(fmt.Sprintf("X%d", v.ID), freshUniverses[v.Universe])
			varByPos[v.ID] = fv
			freshVars = append(freshVars, fv)
			return fv
		case *Compound:
			args := make([]Term, len(v.Args))
			for i, a := range v.Args {
				args[i] = walk(a)
			}
			return &Compound{Functor: v.Functor, Args: args}
		default:
			return t
		}
	}
	return walk(c.Term), freshVars, freshUniverses
}
