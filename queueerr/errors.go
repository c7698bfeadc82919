// Package queueerr classifies the errors a reducer can return, per spec §7.
// The engine driver inspects a reduction error with errors.Is/errors.As to
// decide whether to retry in place, dead-letter the item, or propagate
// fatally to a parent Seq/Aggregate. The three sentinels mirror the
// derive.ErrCritical / ErrReset / ErrTemporary convention used throughout
// op-node's driver package.
package queueerr

import (
	"errors"
	"fmt"
)

// Sentinel classes. Wrap one of these with New*Error to build a concrete
// error that errors.Is still matches against the sentinel.
var (
	// Temporary marks chain-transient failures (RPC timeout, 5xx,
	// disconnect): the item stays at the head of its chain queue and is
	// retried with capped exponential backoff and jitter.
	Temporary = errors.New("transient error")

	// Fatal marks decode errors, missing-field errors, chain-permanent
	// failures (4xx, unknown chain-id, unsupported op), aggregate-
	// unsatisfiable, and timeout-triggered errors. The item is dead-lettered
	// and the error propagates to the parent Seq/Aggregate.
	Fatal = errors.New("fatal error")

	// Reset marks an error that requires the caller to reset derivation-like
	// state before retrying (mirrors op-node's ErrReset, used by the
	// sequencer to request ResettableEngineControl.Reset()).
	Reset = errors.New("reset required")

	// SubmissionConflict marks an on-chain "already processed" rejection of
	// an Effect submission. Per spec §7 this is treated as success, not
	// propagated as an error at all by callers that check for it first.
	SubmissionConflict = errors.New("submission already processed")
)

type classified struct {
	class error
	err   error
}

func (c *classified) Error() string {
	if c.err == nil {
		return c.class.Error()
	}
	return fmt.Sprintf("%s: %v", c.class.Error(), c.err)
}

func (c *classified) Unwrap() error { return c.class }

func (c *classified) Cause() error { return c.err }

// NewTemporaryError wraps err as a chain-transient failure.
func NewTemporaryError(err error) error { return &classified{class: Temporary, err: err} }

// NewFatalError wraps err as a permanent, single-item failure.
func NewFatalError(err error) error { return &classified{class: Fatal, err: err} }

// NewResetError wraps err as requiring a derivation-like reset before retry.
func NewResetError(err error) error { return &classified{class: Reset, err: err} }

// IsTemporary reports whether err is, or wraps, a Temporary error.
func IsTemporary(err error) bool { return errors.Is(err, Temporary) }

// IsFatal reports whether err is, or wraps, a Fatal error.
func IsFatal(err error) bool { return errors.Is(err, Fatal) }

// IsReset reports whether err is, or wraps, a Reset error.
func IsReset(err error) bool { return errors.Is(err, Reset) }

// IsSubmissionConflict reports whether err is, or wraps, a
// SubmissionConflict error.
func IsSubmissionConflict(err error) bool { return errors.Is(err, SubmissionConflict) }

// Cause unwraps a classified error to the underlying cause, mirroring
// github.com/pkg/errors' Cause for errors built by this package.
func Cause(err error) error {
	var c *classified
	if errors.As(err, &c) && c.err != nil {
		return c.err
	}
	return err
}
