// Package errs defines the error taxonomy shared by every component of the
// tick-to-trade pipeline. Nothing here panics: every sentinel is meant to be
// wrapped with fmt.Errorf("%w: ...", errs.X) and returned, never raised, on
// the hot path. Construction-time failures (bad config, malformed ring
// capacity) remain free to panic at their call sites, as the teacher repo
// does for ring.New and quantumqueue.NewQuantumQueue.
package errs

import "errors"

var (
	// ErrConfig marks a parameter rejected by config.Validate: non-positive
	// capital, non-positive position limit, negative commission, negative
	// latency-sweep entries. Quote parameters (γ, k) are not validated and
	// never produce it.
	ErrConfig = errors.New("config: invalid parameter")

	// ErrSequenceGap marks a book that has detected missing sequence
	// numbers. Updates are refused until InitializeFromSnapshot is called.
	ErrSequenceGap = errors.New("book: sequence gap detected")

	// ErrQueueFull is the non-fatal result of a failed ring Push.
	ErrQueueFull = errors.New("ring: queue full")

	// ErrQueueEmpty is the non-fatal result of a failed ring Pop.
	ErrQueueEmpty = errors.New("ring: queue empty")

	// ErrInvalidTick marks a NaN/negative price or size. The tick is
	// dropped; a counter is bumped; the error never propagates further.
	ErrInvalidTick = errors.New("tick: invalid price or size")

	// ErrDecode marks a header validation failure or length mismatch.
	ErrDecode = errors.New("decoder: invalid frame")

	// ErrRiskReject marks a pre-trade check failure, classified by the
	// first failing constraint.
	ErrRiskReject = errors.New("risk: rejected")

	// ErrFillTimeout marks a simulated order past its first eligibility
	// check without filling; it is converted to a cancel and never retried.
	ErrFillTimeout = errors.New("sim: fill timeout")
)
