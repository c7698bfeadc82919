package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type elem struct {
	kind string
	id   int
}

func keyOf(e elem) string { return e.kind }

func TestMatchSatisfiedLeavesRemainder(t *testing.T) {
	pool := []elem{
		{"a", 1},
		{"b", 2},
		{"a", 3},
		{"c", 4},
	}

	matched, remaining, ok := Match([]string{"a", "c"}, pool, keyOf)
	require.True(t, ok)
	require.Equal(t, []elem{{"a", 1}, {"c", 4}}, matched)
	require.Equal(t, []elem{{"b", 2}, {"a", 3}}, remaining)
}

func TestMatchFIFOTieBreak(t *testing.T) {
	pool := []elem{{"a", 1}, {"a", 2}, {"a", 3}}

	matched, remaining, ok := Match([]string{"a", "a"}, pool, keyOf)
	require.True(t, ok)
	require.Equal(t, []elem{{"a", 1}, {"a", 2}}, matched)
	require.Equal(t, []elem{{"a", 3}}, remaining)
}

func TestMatchUnsatisfiedReturnsNil(t *testing.T) {
	pool := []elem{{"a", 1}}

	matched, remaining, ok := Match([]string{"a", "b"}, pool, keyOf)
	require.False(t, ok)
	require.Nil(t, matched)
	require.Nil(t, remaining)
}

func TestMatchEmptyExpectedAlwaysSatisfied(t *testing.T) {
	pool := []elem{{"a", 1}, {"b", 2}}

	matched, remaining, ok := Match(nil, pool, keyOf)
	require.True(t, ok)
	require.Empty(t, matched)
	require.Equal(t, pool, remaining)
}

func TestMatchDoesNotMutateInputPool(t *testing.T) {
	pool := []elem{{"a", 1}, {"b", 2}}
	original := append([]elem(nil), pool...)

	_, _, ok := Match([]string{"a"}, pool, keyOf)
	require.True(t, ok)
	require.Equal(t, original, pool)
}

// Invariant 2 from spec §8: the subset consumed depends only on the
// declared type list, not on the order of unconsumed items in the pool.
func TestMatchPurityUnderReordering(t *testing.T) {
	pool1 := []elem{{"a", 1}, {"b", 2}, {"c", 3}}
	pool2 := []elem{{"c", 3}, {"a", 1}, {"b", 2}}

	matched1, _, ok1 := Match([]string{"a"}, pool1, keyOf)
	matched2, _, ok2 := Match([]string{"a"}, pool2, keyOf)

	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, matched1, matched2)
}
