package rollup

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildChunkV0(blocks []BlockContext, txs [][]byte) []byte {
	out := []byte{byte(len(blocks))}
	for _, b := range blocks {
		raw := encodeBlockContext(b)
		out = append(out, raw[:]...)
	}
	for _, tx := range txs {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(tx)))
		out = append(out, lenBuf[:]...)
		out = append(out, tx...)
	}
	return out
}

func TestDecodeChunkV0RoundTrip(t *testing.T) {
	blocks := []BlockContext{
		{BlockNumber: 1, NumTransactions: 1},
		{BlockNumber: 2, NumTransactions: 2},
	}
	txs := [][]byte{[]byte("tx-one"), {}, []byte("tx-three")}

	got, err := DecodeChunkV0(buildChunkV0(blocks, txs))
	require.NoError(t, err)
	require.Len(t, got.Blocks, 2)
	require.Equal(t, uint64(1), got.Blocks[0].BlockNumber)
	require.Equal(t, uint64(2), got.Blocks[1].BlockNumber)
	require.Equal(t, txs, got.L2Transactions)
}

func TestDecodeChunkV0Empty(t *testing.T) {
	_, err := DecodeChunkV0(nil)
	require.Error(t, err)
}

func TestDecodeChunkV0TooShort(t *testing.T) {
	blocks := []BlockContext{{BlockNumber: 1}}
	full := buildChunkV0(blocks, nil)
	_, err := DecodeChunkV0(full[:len(full)-10])
	require.Error(t, err)
}

func TestDecodeChunkV0TruncatedTxLength(t *testing.T) {
	blocks := []BlockContext{{BlockNumber: 1}}
	full := buildChunkV0(blocks, [][]byte{[]byte("abcd")})
	// Chop off the last 2 bytes of the tx length prefix's first entry.
	truncated := full[:1+BlockContextLength+2]
	_, err := DecodeChunkV0(truncated)
	require.Error(t, err)
}

func TestDecodeChunkV1RoundTrip(t *testing.T) {
	blocks := []BlockContext{{BlockNumber: 5}, {BlockNumber: 6}}
	bz := []byte{byte(len(blocks))}
	for _, b := range blocks {
		raw := encodeBlockContext(b)
		bz = append(bz, raw[:]...)
	}

	got, err := DecodeChunkV1(bz)
	require.NoError(t, err)
	require.Len(t, got.Blocks, 2)
	require.Equal(t, uint64(5), got.Blocks[0].BlockNumber)
}

func TestDecodeChunkV1RejectsTrailingBytes(t *testing.T) {
	blocks := []BlockContext{{BlockNumber: 5}}
	bz := []byte{byte(len(blocks))}
	raw := encodeBlockContext(blocks[0])
	bz = append(bz, raw[:]...)
	bz = append(bz, 0x00) // one trailing byte, not permitted in v1

	_, err := DecodeChunkV1(bz)
	require.Error(t, err)
}
