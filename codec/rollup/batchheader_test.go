package rollup

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func buildBatchHeader(h BatchHeader) []byte {
	out := make([]byte, BatchHeaderFixedLength)
	out[0] = h.Version
	binary.BigEndian.PutUint64(out[1:9], h.BatchIndex)
	binary.BigEndian.PutUint64(out[9:17], h.L1MessagePopped)
	binary.BigEndian.PutUint64(out[17:25], h.TotalL1MessagePopped)
	copy(out[25:57], h.DataHash[:])
	copy(out[57:89], h.ParentBatchHash[:])
	for _, word := range h.SkippedL1MessageBitmap {
		wordBytes := word.Bytes32()
		out = append(out, wordBytes[:]...)
	}
	return out
}

func TestDecodeBatchHeaderRoundTrip(t *testing.T) {
	want := BatchHeader{
		Version:              1,
		BatchIndex:           10,
		L1MessagePopped:      300, // ceil(300/256) = 2 words
		TotalL1MessagePopped: 1000,
		SkippedL1MessageBitmap: []uint256.Int{
			*uint256.NewInt(1),
			*uint256.NewInt(2),
		},
	}
	want.DataHash[0] = 0xAB
	want.ParentBatchHash[0] = 0xCD

	got, err := DecodeBatchHeader(buildBatchHeader(want))
	require.NoError(t, err)

	eqOpt := cmp.Comparer(func(a, b uint256.Int) bool { return a.Eq(&b) })
	if diff := cmp.Diff(want, got, eqOpt); diff != "" {
		t.Fatalf("decoded header mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBatchHeaderNoBitmap(t *testing.T) {
	want := BatchHeader{Version: 0, BatchIndex: 1, L1MessagePopped: 0, TotalL1MessagePopped: 1}
	got, err := DecodeBatchHeader(buildBatchHeader(want))
	require.NoError(t, err)
	require.Empty(t, got.SkippedL1MessageBitmap)
}

func TestDecodeBatchHeaderTooSmall(t *testing.T) {
	_, err := DecodeBatchHeader(make([]byte, BatchHeaderFixedLength-1))
	require.Error(t, err)
}

func TestDecodeBatchHeaderWrongBitmapLength(t *testing.T) {
	want := BatchHeader{L1MessagePopped: 300, SkippedL1MessageBitmap: []uint256.Int{*uint256.NewInt(1)}}
	bz := buildBatchHeader(want)
	// buildBatchHeader only appended one word but 300 messages need two.
	_, err := DecodeBatchHeader(bz)
	require.Error(t, err)
}

func TestDecodeBatchHeaderBitmapStartsAtFixedOffset(t *testing.T) {
	// Regression test for the fixed offset-89 read (see DESIGN.md): the
	// bitmap must be read starting immediately after the fixed prefix,
	// not from byte 0 of the whole input.
	h := BatchHeader{L1MessagePopped: 1, SkippedL1MessageBitmap: []uint256.Int{*uint256.NewInt(0xdead)}}
	bz := buildBatchHeader(h)

	got, err := DecodeBatchHeader(bz)
	require.NoError(t, err)
	require.Len(t, got.SkippedL1MessageBitmap, 1)
	require.True(t, got.SkippedL1MessageBitmap[0].Eq(uint256.NewInt(0xdead)))
}

func TestBatchIndexOfBeaconSlot(t *testing.T) {
	require.Equal(t, uint64(3), BatchIndexOfBeaconSlot(30, 10))
	require.Equal(t, uint64(0), BatchIndexOfBeaconSlot(30, 0))
}

func TestScrollHeightOfBatchIndex(t *testing.T) {
	require.Equal(t, uint64(40), ScrollHeightOfBatchIndex(4, 10))
}
