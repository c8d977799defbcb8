package hub

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrBadRequest = errors.New("bad request")

	// ErrMissingCoordinates means the hub document exists but none of the
	// known coordinate field spellings resolve to finite numbers. This is a
	// hub-data problem, deliberately distinct from a failed proximity check.
	ErrMissingCoordinates = errors.New("hub has no valid coordinates")
)

func IsErrNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
