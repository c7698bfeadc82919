// Package rollup decodes the optimistic-rollup wire formats named in
// SPEC_FULL.md §5/§7: the per-block BlockContext, the v0/v1 chunk
// encodings that embed a run of BlockContexts, and the v0 batch header.
// Every layout here is a fixed-width, big-endian byte encoding lifted
// directly from original_source/lib/scroll-codec and
// original_source/lib/unionlabs/src/scroll, which in turn document the
// scroll-tech/scroll Solidity codec contracts byte for byte.
package rollup

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// BlockContextLength is the fixed width, in bytes, of one encoded
// BlockContext.
const BlockContextLength = 60

// BlockContext is one rollup block's header as embedded in a Chunk.
//
//	Field             Bytes  Index  Comments
//	block_number      8      0      block height
//	timestamp         8      8      block timestamp
//	base_fee          32     16     always zero pre EIP-1559
//	gas_limit         8      48
//	num_transactions  2      56     L1 + L2 tx count
//	num_l1_messages   2      58
type BlockContext struct {
	BlockNumber      uint64
	Timestamp        uint64
	BaseFee          uint256.Int
	GasLimit         uint64
	NumTransactions  uint16
	NumL1Messages    uint16
}

// DecodeBlockContext decodes exactly BlockContextLength bytes of bz into a
// BlockContext. The caller is responsible for slicing bz to that length;
// this mirrors the original's array_slice-based decode, which never
// partial-reads.
func DecodeBlockContext(bz [BlockContextLength]byte) BlockContext {
	return BlockContext{
		BlockNumber:     binary.BigEndian.Uint64(bz[0:8]),
		Timestamp:       binary.BigEndian.Uint64(bz[8:16]),
		BaseFee:         *new(uint256.Int).SetBytes32(bz[16:48]),
		GasLimit:        binary.BigEndian.Uint64(bz[48:56]),
		NumTransactions: binary.BigEndian.Uint16(bz[56:58]),
		NumL1Messages:   binary.BigEndian.Uint16(bz[58:60]),
	}
}

// HashPreimage returns the bytes copy_block_context hashes into a chunk's
// context digest: every field except NumL1Messages. This omission is
// carried over from the original exactly - see SPEC_FULL.md §5, flagged
// there as an unresolved open question rather than assumed to be a typo,
// since the contract-level hash this must match is out of this module's
// reach to verify independently.
func (b BlockContext) HashPreimage() []byte {
	out := make([]byte, 0, 8+8+32+8+2)
	out = binary.BigEndian.AppendUint64(out, b.BlockNumber)
	out = binary.BigEndian.AppendUint64(out, b.Timestamp)
	baseFee := b.BaseFee.Bytes32()
	out = append(out, baseFee[:]...)
	out = binary.BigEndian.AppendUint64(out, b.GasLimit)
	out = binary.BigEndian.AppendUint16(out, b.NumTransactions)
	return out
}

func (b BlockContext) String() string {
	return fmt.Sprintf("BlockContext{number=%d txs=%d l1msgs=%d}", b.BlockNumber, b.NumTransactions, b.NumL1Messages)
}
