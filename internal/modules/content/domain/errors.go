package domain

import "errors"

// ErrCancelled reports a generation whose task was cancelled before the
// result could be stored. The result is discarded.
var ErrCancelled = errors.New("generation was cancelled")
