package rank

import "errors"

var (
	ErrBadRequest = errors.New("bad request")
)
