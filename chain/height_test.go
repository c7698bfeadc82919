package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeightLessComparesRevisionNumberFirst(t *testing.T) {
	require.True(t, Height{RevisionNumber: 0, RevisionHeight: 100}.Less(Height{RevisionNumber: 1, RevisionHeight: 0}))
	require.False(t, Height{RevisionNumber: 1, RevisionHeight: 0}.Less(Height{RevisionNumber: 0, RevisionHeight: 100}))
}

func TestHeightLessComparesRevisionHeightWithinSameRevision(t *testing.T) {
	require.True(t, Height{RevisionHeight: 5}.Less(Height{RevisionHeight: 6}))
	require.False(t, Height{RevisionHeight: 6}.Less(Height{RevisionHeight: 5}))
	require.False(t, Height{RevisionHeight: 5}.Less(Height{RevisionHeight: 5}))
}

func TestHeightLessEq(t *testing.T) {
	h := Height{RevisionHeight: 5}
	require.True(t, h.LessEq(h))
	require.True(t, h.LessEq(Height{RevisionHeight: 6}))
	require.False(t, h.LessEq(Height{RevisionHeight: 4}))
}

func TestHeightIncrementStaysInRevision(t *testing.T) {
	h := Height{RevisionNumber: 2, RevisionHeight: 9}
	require.Equal(t, Height{RevisionNumber: 2, RevisionHeight: 10}, h.Increment())
}

func TestHeightString(t *testing.T) {
	require.Equal(t, "2-9", Height{RevisionNumber: 2, RevisionHeight: 9}.String())
}

func TestHeightIsZero(t *testing.T) {
	require.True(t, ZeroHeight.IsZero())
	require.True(t, Height{}.IsZero())
	require.False(t, Height{RevisionHeight: 1}.IsZero())
}

func TestIDString(t *testing.T) {
	require.Equal(t, "chain-a", ID("chain-a").String())
}
