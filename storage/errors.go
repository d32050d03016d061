// Error kinds shared by all storage operations. Callers use errors.Is to
// decide how a failure is presented; the store itself never prints.
package storage

import "errors"

// ErrNotFound is returned when no row matches the given title and user.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert would violate the
// (user_id, title) uniqueness constraint.
var ErrDuplicate = errors.New("already exists")

// ErrValidation is returned when input fails a precondition, such as an
// empty or whitespace-only user name.
var ErrValidation = errors.New("invalid input")
