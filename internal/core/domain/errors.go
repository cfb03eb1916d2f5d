package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Annotation Errors.

	// ErrEmptySelection indicates a selection resolved to a zero-length
	// or text-free range. No annotation is created.
	ErrEmptySelection = errors.New("empty selection")

	// ErrOverlapConflict indicates a new annotation's range intersects an
	// existing annotation. Ranges are never truncated or merged.
	ErrOverlapConflict = errors.New("selection already annotated")

	// ErrNoActiveChapter indicates an operation needs an open chapter.
	ErrNoActiveChapter = errors.New("no active chapter")
)
