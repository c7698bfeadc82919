package rollup

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// BatchHeaderFixedLength is the width, in bytes, of a v0 BatchHeader's
// fixed prefix; the skipped-L1-message bitmap follows it.
const BatchHeaderFixedLength = 89

// BatchHeader is the v0 batch header encoding.
//
//	Field                    Bytes  Index  Comments
//	version                  1      0
//	batch_index              8      1
//	l1_message_popped        8      9
//	total_l1_message_popped  8      17
//	data_hash                32     25
//	parent_batch_hash        32     57
//	skipped_l1_message_bitmap dynamic 89    ceil(l1_message_popped/256)*32 bytes
//
// Grounded on original_source/lib/unionlabs/src/scroll/batch_header_codec.rs.
type BatchHeader struct {
	Version                uint8
	BatchIndex             uint64
	L1MessagePopped        uint64
	TotalL1MessagePopped   uint64
	DataHash               [32]byte
	ParentBatchHash        [32]byte
	SkippedL1MessageBitmap []uint256.Int
}

// BatchHeaderDecodeError covers the three decode failure modes
// BatchHeaderDecodeError distinguishes in the original.
type BatchHeaderDecodeError struct {
	Reason string
}

func (e *BatchHeaderDecodeError) Error() string { return "rollup: batch header decode: " + e.Reason }

func errBatchHeaderTooSmall(found int) error {
	return &BatchHeaderDecodeError{
		Reason: fmt.Sprintf("input length too small: expected at least %d, found %d", BatchHeaderFixedLength, found),
	}
}

func errBatchHeaderBitmapLength(expected, found int) error {
	return &BatchHeaderDecodeError{
		Reason: fmt.Sprintf("incorrect bitmap length: expected %d, found %d", expected, found),
	}
}

func errBatchHeaderTooManyL1Messages(l1MessagePopped uint64) error {
	return &BatchHeaderDecodeError{
		Reason: fmt.Sprintf("l1 message count (%d) overflows the bitmap word count computation", l1MessagePopped),
	}
}

// DecodeBatchHeader decodes bz per the v0 layout: the 89-byte fixed
// prefix, followed by ceil(l1_message_popped/256)*32 bytes of bitmap.
//
// The original's decode slices the bitmap as bz.chunks(32) over the
// *whole* input rather than the bytes following the fixed prefix, which
// would only be consistent if the fixed prefix length were itself a
// multiple of 32 - it is not (89). This implementation reads the bitmap
// starting at the documented offset (89), matching the field table in
// both the original's doc comment and SPEC_FULL.md §5/§7; see DESIGN.md
// for this resolution.
func DecodeBatchHeader(bz []byte) (BatchHeader, error) {
	if len(bz) < BatchHeaderFixedLength {
		return BatchHeader{}, errBatchHeaderTooSmall(len(bz))
	}

	l1MessagePopped := binary.BigEndian.Uint64(bz[9:17])

	wordCount := (l1MessagePopped + 255) / 256
	bitmapLen := wordCount * 32
	if bitmapLen > uint64(^uint(0)>>1) {
		return BatchHeader{}, errBatchHeaderTooManyL1Messages(l1MessagePopped)
	}
	expectedLen := BatchHeaderFixedLength + int(bitmapLen)

	if len(bz) != expectedLen {
		return BatchHeader{}, errBatchHeaderBitmapLength(expectedLen, len(bz))
	}

	var dataHash, parentHash [32]byte
	copy(dataHash[:], bz[25:57])
	copy(parentHash[:], bz[57:89])

	bitmap := make([]uint256.Int, 0, wordCount)
	for off := BatchHeaderFixedLength; off < len(bz); off += 32 {
		bitmap = append(bitmap, *new(uint256.Int).SetBytes32(bz[off:off+32]))
	}

	return BatchHeader{
		Version:                bz[0],
		BatchIndex:             binary.BigEndian.Uint64(bz[1:9]),
		L1MessagePopped:        l1MessagePopped,
		TotalL1MessagePopped:   binary.BigEndian.Uint64(bz[17:25]),
		DataHash:               dataHash,
		ParentBatchHash:        parentHash,
		SkippedL1MessageBitmap: bitmap,
	}, nil
}

// BatchIndexOfBeaconSlot maps a beacon-chain slot to the batch index that
// would have been committed at that slot, per the fixed per-batch slot
// cadence supplemented into SPEC_FULL.md §5/§7 from
// original_source/lib/block-message/src/chain_impls/scroll.rs's helper of
// the same purpose.
func BatchIndexOfBeaconSlot(slot uint64, slotsPerBatch uint64) uint64 {
	if slotsPerBatch == 0 {
		return 0
	}
	return slot / slotsPerBatch
}

// ScrollHeightOfBatchIndex maps a batch index back to the rollup height
// its first block was committed at, the inverse helper to
// BatchIndexOfBeaconSlot, both grounded on the same scroll.rs source.
func ScrollHeightOfBatchIndex(batchIndex uint64, blocksPerBatch uint64) uint64 {
	return batchIndex * blocksPerBatch
}
