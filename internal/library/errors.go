package library

import "errors"

var (
	// ErrNotFound indicates the requested record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a check constraint violation, such as an empty plex id.
	ErrConstraint = errors.New("constraint violation")

	// ErrUnknownKind indicates a collection name other than movies or shows.
	ErrUnknownKind = errors.New("unknown collection")
)
