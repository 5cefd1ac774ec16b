package domain

import "errors"

// ErrNotFound reports a lookup that matched nothing, such as a storage key
// with no cart snapshot.
var ErrNotFound = errors.New("not found")
