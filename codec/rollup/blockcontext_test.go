package rollup

import (
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func encodeBlockContext(b BlockContext) [BlockContextLength]byte {
	var out [BlockContextLength]byte
	binary.BigEndian.PutUint64(out[0:8], b.BlockNumber)
	binary.BigEndian.PutUint64(out[8:16], b.Timestamp)
	fee := b.BaseFee.Bytes32()
	copy(out[16:48], fee[:])
	binary.BigEndian.PutUint64(out[48:56], b.GasLimit)
	binary.BigEndian.PutUint16(out[56:58], b.NumTransactions)
	binary.BigEndian.PutUint16(out[58:60], b.NumL1Messages)
	return out
}

func TestDecodeBlockContextRoundTrip(t *testing.T) {
	want := BlockContext{
		BlockNumber:     42,
		Timestamp:       1_700_000_000,
		BaseFee:         *uint256.NewInt(7),
		GasLimit:        30_000_000,
		NumTransactions: 12,
		NumL1Messages:   3,
	}

	got := DecodeBlockContext(encodeBlockContext(want))
	require.Equal(t, want, got)
}

func TestBlockContextHashPreimageOmitsNumL1Messages(t *testing.T) {
	a := BlockContext{BlockNumber: 1, Timestamp: 2, GasLimit: 3, NumTransactions: 4, NumL1Messages: 5}
	b := a
	b.NumL1Messages = 99

	require.Equal(t, a.HashPreimage(), b.HashPreimage())
	require.Len(t, a.HashPreimage(), 8+8+32+8+2)
}
