package repository

import "errors"

// ErrDuplicate is returned by Create methods when a unique constraint
// (user email, product name) is violated.
var ErrDuplicate = errors.New("duplicate entity")
