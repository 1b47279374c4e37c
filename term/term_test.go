package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyBindsFreeVariable(t *testing.T) {
	vs := NewVarSource(0)
	x := vs.Fresh("X", 0)
	sub := NewSubstitution()

	out, constraints, err := Unify(x, NewAtom("zero"), sub)
	require.NoError(t, err)
	assert.Empty(t, constraints)

	walked := out.Walk(x)
	assert.Equal(t, "zero", walked.(*Atom).Value)
}

func TestUnifyStructuralMismatchFails(t *testing.T) {
	sub := NewSubstitution()
	a := NewCompound("nat", NewAtom("zero"))
	b := NewCompound("succ", NewAtom("zero"))

	_, _, err := Unify(a, b, sub)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestUnifyRecursesIntoCompoundArgs(t *testing.T) {
	vs := NewVarSource(0)
	x := vs.Fresh("X", 0)
	sub := NewSubstitution()

	a := NewCompound("nat", x)
	b := NewCompound("nat", NewAtom("zero"))

	out, _, err := Unify(a, b, sub)
	require.NoError(t, err)
	assert.Equal(t, "zero", out.Walk(x).(*Atom).Value)
}

func TestCanonicalizeTermIsStableUnderRenaming(t *testing.T) {
	vsA := NewVarSource(0)
	x := vsA.Fresh("X", 0)
	y := vsA.Fresh("Y", 0)
	termA := NewCompound("p", x, y, x)

	vsB := NewVarSource(100)
	m := vsB.Fresh("M", 0)
	n := vsB.Fresh("N", 0)
	termB := NewCompound("p", m, n, m)

	canonA := CanonicalizeTerm(termA, NewSubstitution())
	canonB := CanonicalizeTerm(termB, NewSubstitution())

	assert.Equal(t, canonA.Key, canonB.Key)
	assert.Equal(t, canonA.Term.String(), canonB.Term.String())
}

func TestCanonicalizeTermDistinguishesShape(t *testing.T) {
	vs := NewVarSource(0)
	x := vs.Fresh("X", 0)
	y := vs.Fresh("Y", 0)

	repeated := CanonicalizeTerm(NewCompound("p", x, x), NewSubstitution())
	distinct := CanonicalizeTerm(NewCompound("p", x, y), NewSubstitution())

	assert.NotEqual(t, repeated.Key, distinct.Key)
}

func TestInstantiateRoundTrips(t *testing.T) {
	vs := NewVarSource(0)
	x := vs.Fresh("X", 0)
	original := NewCompound("p", x, NewAtom("a"))

	canon := CanonicalizeTerm(original, NewSubstitution())
	fresh, freshVars, universes := Instantiate(canon, NewVarSource(1000), 0)

	require.Len(t, freshVars, 1)
	require.Len(t, universes, 1)

	reCanon := CanonicalizeTerm(fresh, NewSubstitution())
	assert.Equal(t, canon.Key, reCanon.Key)
}

func TestIsGroundAndWalk(t *testing.T) {
	vs := NewVarSource(0)
	x := vs.Fresh("X", 0)
	sub := NewSubstitution()

	assert.False(t, sub.IsGround(x))

	sub = sub.Bind(x, NewAtom("a"))
	assert.True(t, sub.IsGround(x))
	assert.Equal(t, "a", sub.DeepWalk(NewCompound("f", x)).(*Compound).Args[0].(*Atom).Value)
}
