package logootsplit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ContractViolation is the panic value raised when a caller breaks a
// precondition documented on the public API (out-of-range positions, an
// empty rename interval list, createBetweenPosition called with
// id1 >= id2, and similar). Per spec.md §4.9/§7.1 these are contract
// bugs, not recoverable runtime errors: callers are expected to respect
// preconditions, and the panic carries a stack trace (via pkg/errors) to
// make the violation diagnosable instead of silently undefined.
type ContractViolation struct {
	err error
}

func (c *ContractViolation) Error() string { return c.err.Error() }
func (c *ContractViolation) Unwrap() error { return c.err }

// panicf raises a ContractViolation with a stack trace attached.
func panicf(format string, args ...any) {
	panic(&ContractViolation{err: errors.WithStack(fmt.Errorf(format, args...))})
}

// ErrMalformedOperation describes an externally supplied operation
// payload whose shape or numeric ranges are invalid. DecodeOperation does
// not return it: it logs the rejection and returns ok=false with an
// absent operation, never mutating replica state.
var ErrMalformedOperation = errors.New("logootsplit: malformed operation payload")
