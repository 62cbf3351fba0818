package dispatch

import "errors"

var (
	// ErrSaturated is reported when a queued dispatch waits longer than the
	// delivery timeout for a worker slot.
	ErrSaturated = errors.New("dispatch pool saturated")
	// ErrClosed is reported for dispatches requested after shutdown began.
	ErrClosed = errors.New("dispatcher closed")
	// ErrStatus is reported when the downstream service answers with a non-2xx status.
	ErrStatus = errors.New("unexpected downstream status")
)
