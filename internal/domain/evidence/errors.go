package evidence

import "errors"

var (
	// ErrDecode means the raw bytes were not a decodable image. Recoverable:
	// the user re-captures.
	ErrDecode = errors.New("could not decode image")

	// ErrCaptureInProgress rejects a new capture while a compression is
	// still running for the same attempt.
	ErrCaptureInProgress = errors.New("a capture is already being processed")

	// ErrSkipNotConfirmed means the skip warning was not acknowledged. A
	// single tap must not silently discard evidence.
	ErrSkipNotConfirmed = errors.New("skip requires explicit confirmation")
)
