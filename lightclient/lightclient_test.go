package lightclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ibc-relay/voyager/chain"
)

func TestDecodeTrustedSyncCommitteeCurrentWins(t *testing.T) {
	current := &SyncCommittee{Raw: []byte("current")}
	next := &SyncCommittee{Raw: []byte("next")}

	got, err := DecodeTrustedSyncCommittee(chain.Height{RevisionHeight: 10}, current, next)
	require.NoError(t, err)
	require.Equal(t, SyncCommitteeCurrent, got.Slot)
	require.Equal(t, *current, got.Committee)
}

func TestDecodeTrustedSyncCommitteeFallsBackToNext(t *testing.T) {
	next := &SyncCommittee{Raw: []byte("next")}

	got, err := DecodeTrustedSyncCommittee(chain.Height{RevisionHeight: 10}, nil, next)
	require.NoError(t, err)
	require.Equal(t, SyncCommitteeNext, got.Slot)
	require.Equal(t, *next, got.Committee)
}

func TestDecodeTrustedSyncCommitteeNeitherIsAnError(t *testing.T) {
	_, err := DecodeTrustedSyncCommittee(chain.Height{RevisionHeight: 10}, nil, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingField))

	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	require.Equal(t, "sync_committee", mf.Field)
}

func TestInvalidLengthErrorMessageAndUnwrap(t *testing.T) {
	err := &InvalidLengthError{Expected: 32, Found: 20}
	require.Equal(t, "invalid length: expected 32, found 20", err.Error())
	require.True(t, errors.Is(err, ErrInvalidLength))
}
