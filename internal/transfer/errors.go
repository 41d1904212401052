package transfer

import "errors"

// Failure classes surfaced by Controller.Start. Cancellation is not a
// failure: a cancelled transfer resets state and returns nil.
var (
	ErrRequestFailed   = errors.New("transfer request failed")
	ErrStreamRead      = errors.New("transfer stream interrupted")
	ErrMaterialization = errors.New("artifact materialization failed")

	// ErrTransferDiscarded marks a chunk buffer invalidated by cancellation;
	// appends against it are refused.
	ErrTransferDiscarded = errors.New("transfer discarded")

	// ErrIdleTimeout tags a watchdog-triggered cancellation so it surfaces
	// as a stream failure instead of a silent cancel.
	ErrIdleTimeout = errors.New("no stream data within idle timeout")
)
