// Package lightclient holds the typed description of light-client state that
// the engine must sequence update-client transactions around: consensus
// states, client states, headers, merkle proofs, and sync-committee
// trust anchors (spec §4.2). Each chain family's wire encoding is decoded
// into these plain-data types by a fallible, validated conversion — never a
// silent partial parse.
package lightclient

import (
	"errors"
	"fmt"

	"github.com/ibc-relay/voyager/chain"
)

// ErrMissingField is returned by a validated conversion when a required
// field is absent from the wire encoding (spec §4.2).
var ErrMissingField = errors.New("missing required field")

// MissingFieldError names the absent field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ErrInvalidLength is returned when a fixed-size field's encoding does not
// match its expected length.
var ErrInvalidLength = errors.New("invalid length")

// InvalidLengthError names the expected and found lengths.
type InvalidLengthError struct {
	Expected int
	Found    int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid length: expected %d, found %d", e.Expected, e.Found)
}

func (e *InvalidLengthError) Unwrap() error { return ErrInvalidLength }

// ClientState is the lossless, round-trippable domain form of a chain
// family's on-chain light client state.
type ClientState struct {
	ChainFamily    string
	LatestHeight   chain.Height
	TrustingPeriod uint64 // seconds
	Raw            []byte // the exact wire encoding, for round-trip
}

// ConsensusState is the lossless, round-trippable domain form of a chain
// family's on-chain light client consensus snapshot at a given height.
type ConsensusState struct {
	ChainFamily string
	Timestamp   uint64
	Root        [32]byte
	Raw         []byte
}

// Header is the lossless, round-trippable domain form of a chain family's
// update-client header.
type Header struct {
	ChainFamily string
	Height      chain.Height
	Raw         []byte
}

// MerkleProof is a standard ICS23 ap-inclusion proof, kept opaque: the
// engine sequences proof-bearing effects correctly without interpreting the
// contents of the proof itself (spec §1 scope note).
type MerkleProof struct {
	Raw []byte
}

// MerklePath names the sequence of store keys a MerkleProof proves
// inclusion against, root-most key last.
type MerklePath struct {
	KeyPath []string
}

// SyncCommitteeSlot distinguishes which of a beacon chain's two tracked
// sync committees a TrustedSyncCommittee anchors to.
type SyncCommitteeSlot int

const (
	SyncCommitteeCurrent SyncCommitteeSlot = iota
	SyncCommitteeNext
)

// SyncCommittee is the opaque (to the engine) validator-set commitment for
// one epoch of a beacon-chain-based light client.
type SyncCommittee struct {
	Raw []byte
}

// TrustedSyncCommittee anchors a beacon-chain-based light client update to
// exactly one of its two tracked sync committees (spec §4.2): on decode,
// if both Current and Next are populated, Current wins; if neither is
// populated, decoding must fail.
type TrustedSyncCommittee struct {
	TrustedHeight chain.Height
	Slot          SyncCommitteeSlot
	Committee     SyncCommittee
}

// DecodeTrustedSyncCommittee builds a TrustedSyncCommittee from the
// optional current/next committee fields of a wire message, applying the
// "Current wins, neither is an error" rule.
func DecodeTrustedSyncCommittee(trustedHeight chain.Height, current, next *SyncCommittee) (TrustedSyncCommittee, error) {
	switch {
	case current != nil:
		return TrustedSyncCommittee{TrustedHeight: trustedHeight, Slot: SyncCommitteeCurrent, Committee: *current}, nil
	case next != nil:
		return TrustedSyncCommittee{TrustedHeight: trustedHeight, Slot: SyncCommitteeNext, Committee: *next}, nil
	default:
		return TrustedSyncCommittee{}, &MissingFieldError{Field: "sync_committee"}
	}
}

// AccountUpdate is a light-client-adjacent proof of an account's storage
// root at a height, used by beacon-chain-based light clients to bridge an
// execution-layer state root into a consensus-layer proof chain.
type AccountUpdate struct {
	Height      chain.Height
	StorageRoot [32]byte
	Proof       MerkleProof
}
