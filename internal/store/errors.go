package store

import "errors"

// ErrNotFound is returned by Get when the key is absent. Callers treat it as
// "no data yet", not as a failure.
var ErrNotFound = errors.New("key not found")
