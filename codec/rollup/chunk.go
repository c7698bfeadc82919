package rollup

import (
	"encoding/binary"
	"fmt"
)

// ChunkV0 is the v0 chunk encoding: a one-byte block count, that many
// fixed-width BlockContexts, then the L2 transactions as a run of
// (4-byte big-endian length, payload) pairs. Grounded on
// original_source/lib/scroll-codec/src/chunk.rs's ChunkV0::decode.
type ChunkV0 struct {
	Blocks         []BlockContext
	L2Transactions [][]byte
}

// ChunkDecodeError covers the four decode failure modes
// ChunkV0DecodeError/ChunkV1DecodeError distinguish in the original:
// empty input, incorrect chunk length, and (v0 only) a truncated or
// malformed l2 transaction section.
type ChunkDecodeError struct {
	Reason string
}

func (e *ChunkDecodeError) Error() string { return "rollup: chunk decode: " + e.Reason }

func errChunkEmpty() error { return &ChunkDecodeError{Reason: "the provided bytes were empty"} }

func errChunkLength(expected, found int) error {
	return &ChunkDecodeError{Reason: fmt.Sprintf("incorrect chunk length: expected %d, found %d", expected, found)}
}

func errChunkL2TxLengthBytes() error {
	return &ChunkDecodeError{Reason: "not enough bytes to parse the l2 tx length"}
}

func errChunkL2TxLength() error {
	return &ChunkDecodeError{Reason: "incorrect l2 transaction length"}
}

// DecodeChunkV0 decodes bz per the v0 layout: numBlocks(1) ||
// block[0..n](60 each) || l2Transactions(dynamic).
func DecodeChunkV0(bz []byte) (ChunkV0, error) {
	if len(bz) == 0 {
		return ChunkV0{}, errChunkEmpty()
	}

	numBlocks := int(bz[0])
	expectedLen := numBlocks*BlockContextLength + 1
	if len(bz) < expectedLen {
		return ChunkV0{}, errChunkLength(expectedLen, len(bz))
	}

	blocks, err := decodeBlocks(bz, numBlocks)
	if err != nil {
		return ChunkV0{}, err
	}

	var txs [][]byte
	ptr := BlockContextLength*numBlocks + 1
	for ptr < len(bz) {
		if len(bz)-ptr < 4 {
			return ChunkV0{}, errChunkL2TxLengthBytes()
		}
		txLen := int(binary.BigEndian.Uint32(bz[ptr : ptr+4]))
		ptr += 4
		if len(bz)-ptr < txLen {
			return ChunkV0{}, errChunkL2TxLength()
		}
		txs = append(txs, bz[ptr:ptr+txLen])
		ptr += txLen
	}

	return ChunkV0{Blocks: blocks, L2Transactions: txs}, nil
}

// ChunkV1 is the v1 chunk encoding: identical to v0 but with the l2
// transactions section dropped entirely and the overall length required
// to be exact rather than a lower bound. Grounded on the same source file,
// ChunkV1::decode.
type ChunkV1 struct {
	Blocks []BlockContext
}

// DecodeChunkV1 decodes bz per the v1 layout: numBlocks(1) ||
// block[0..n](60 each), with no trailing bytes permitted.
func DecodeChunkV1(bz []byte) (ChunkV1, error) {
	if len(bz) == 0 {
		return ChunkV1{}, errChunkEmpty()
	}

	numBlocks := int(bz[0])
	expectedLen := numBlocks*BlockContextLength + 1
	if len(bz) != expectedLen {
		return ChunkV1{}, errChunkLength(expectedLen, len(bz))
	}

	blocks, err := decodeBlocks(bz, numBlocks)
	if err != nil {
		return ChunkV1{}, err
	}

	return ChunkV1{Blocks: blocks}, nil
}

func decodeBlocks(bz []byte, numBlocks int) ([]BlockContext, error) {
	blocks := make([]BlockContext, 0, numBlocks)
	for i := 0; i < numBlocks; i++ {
		start := BlockContextLength*i + 1
		var raw [BlockContextLength]byte
		copy(raw[:], bz[start:start+BlockContextLength])
		blocks = append(blocks, DecodeBlockContext(raw))
	}
	return blocks, nil
}
