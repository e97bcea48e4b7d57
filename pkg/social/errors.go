package social

import "errors"

// ErrSelfFollow is returned when an account tries to follow its own handle.
var ErrSelfFollow = errors.New("cannot follow yourself")
