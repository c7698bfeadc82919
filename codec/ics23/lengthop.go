// Package ics23 implements the length-prefix operations ICS23 membership
// proofs apply to a leaf's value before hashing, grounded on
// original_source/lib/ics23/src/ops/length_op.rs.
package ics23

import (
	"encoding/binary"
	"fmt"
)

// LengthOp names one of the length-prefixing strategies a proof spec may
// require.
type LengthOp int

const (
	// NoPrefix applies no transformation.
	NoPrefix LengthOp = iota
	// VarProto prefixes data with its length as a protobuf varint. This is
	// confirmed wire-compatible with Go's encoding/binary.PutUvarint: both
	// encode an unsigned integer as a little-endian base-128 varint with
	// the continuation bit in each byte's high bit, which is exactly what
	// prost::encoding::encode_varint does on the Rust side.
	VarProto
	// Require32Bytes rejects any input whose length isn't exactly 32.
	Require32Bytes
	// Require64Bytes rejects any input whose length isn't exactly 64.
	Require64Bytes
	// Fixed32Little prefixes data with its length as a 4-byte
	// little-endian integer.
	Fixed32Little
	// VarRlp, Fixed32Big, Fixed64Big, and Fixed64Little are recognized
	// ICS23 length ops with no use in this module's supported chain
	// families; Apply returns UnsupportedOpError for them, matching the
	// original's catch-all arm.
	VarRlp
	Fixed32Big
	Fixed64Big
	Fixed64Little
)

func (op LengthOp) String() string {
	switch op {
	case NoPrefix:
		return "NO_PREFIX"
	case VarProto:
		return "VAR_PROTO"
	case Require32Bytes:
		return "REQUIRE_32_BYTES"
	case Require64Bytes:
		return "REQUIRE_64_BYTES"
	case Fixed32Little:
		return "FIXED32_LITTLE"
	case VarRlp:
		return "VAR_RLP"
	case Fixed32Big:
		return "FIXED32_BIG"
	case Fixed64Big:
		return "FIXED64_BIG"
	case Fixed64Little:
		return "FIXED64_LITTLE"
	default:
		return fmt.Sprintf("LengthOp(%d)", int(op))
	}
}

// RequiredLengthError reports that data did not have the length an
// exact-length op demands.
type RequiredLengthError struct {
	Want int
	Got  int
}

func (e *RequiredLengthError) Error() string {
	return fmt.Sprintf("ics23: required %d bytes, found %d", e.Want, e.Got)
}

// UnsupportedOpError reports a LengthOp Apply does not implement.
type UnsupportedOpError struct {
	Op LengthOp
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("ics23: unsupported length op (%s)", e.Op)
}

// Apply transforms data per op, mirroring length_op.rs's apply function
// exactly: NoPrefix passes data through unchanged, VarProto prepends a
// protobuf varint length, Require32Bytes/Require64Bytes validate an exact
// length and pass data through unchanged, Fixed32Little prepends a 4-byte
// little-endian length, and every other op is unsupported.
func Apply(op LengthOp, data []byte) ([]byte, error) {
	switch op {
	case NoPrefix:
		return data, nil

	case VarProto:
		var buf [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(buf[:], uint64(len(data)))
		out := make([]byte, 0, n+len(data))
		out = append(out, buf[:n]...)
		out = append(out, data...)
		return out, nil

	case Require32Bytes:
		if len(data) != 32 {
			return nil, &RequiredLengthError{Want: 32, Got: len(data)}
		}
		return data, nil

	case Require64Bytes:
		if len(data) != 64 {
			return nil, &RequiredLengthError{Want: 64, Got: len(data)}
		}
		return data, nil

	case Fixed32Little:
		out := make([]byte, 4, 4+len(data))
		binary.LittleEndian.PutUint32(out, uint32(len(data)))
		out = append(out, data...)
		return out, nil

	default:
		return nil, &UnsupportedOpError{Op: op}
	}
}
