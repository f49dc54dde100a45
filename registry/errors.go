package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a lookup, delete or unenroll by an id or name
	// that is not in the store. The store is left unchanged.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports an insert that would duplicate a course name.
	ErrAlreadyExists = errors.New("already exists")

	// ErrAlreadyEnrolled reports an Enroll for a person already on the
	// course roster. Neither side of the relation is mutated.
	ErrAlreadyEnrolled = errors.New("already enrolled")
)

// CorruptRecordError reports a persisted record that failed to parse.
// Records before the bad line are still returned by the loader; the caller
// decides whether a partial store is acceptable.
type CorruptRecordError struct {
	Path string
	Line int
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("%s:%d: corrupt record: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptRecordError) Unwrap() error { return e.Err }
