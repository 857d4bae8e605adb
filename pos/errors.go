// Package pos implements the proof-of-space core: hash primitives, the
// Feistel-based fragment codec, table pairing rules, the quality chain
// search, and proof validation.
package pos

import "github.com/pkg/errors"

// Sentinel errors for the taxonomy every other package in this module
// reports through. Callers should use errors.Is against these, not string
// matching, since every leaf call site wraps with errors.WithStack.
var (
	ErrInvalidParams    = errors.New("pos: invalid params")
	ErrIoError          = errors.New("pos: io error")
	ErrBadFormat        = errors.New("pos: bad format")
	ErrOverflow         = errors.New("pos: overflow")
	ErrRangeError       = errors.New("pos: range error")
	ErrCapacityExceeded = errors.New("pos: capacity exceeded")
)
