package verification

import "errors"

var (
	ErrNotFound   = errors.New("attempt not found")
	ErrBadRequest = errors.New("bad request")

	// ErrBadState means the requested action does not fit the attempt's
	// current layer. Layers are strictly ordered and never re-entered once
	// passed.
	ErrBadState = errors.New("action not valid in current state")

	// ErrSubmitInFlight is what the loser of a double-submit race gets. The
	// winning call proceeds alone.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrRetryExhausted: a failed finalize may be retried exactly once.
	ErrRetryExhausted = errors.New("submission retry already used")

	// ErrFinalize wraps persistence failures during the finalize step.
	ErrFinalize = errors.New("failed to finalize verification")

	// ErrNotMember means the caller is not on the quest's squad.
	ErrNotMember = errors.New("not a squad member")
)
