package store

import "errors"

// ErrReentrant is the panic cause when nested notifications exceed the
// depth configured with WithMaxDepth.
var ErrReentrant = errors.New("store: reentrant notification depth exceeded")
