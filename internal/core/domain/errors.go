package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotRecognized indicates input that is not an ATOMSVC or ATOM
	// document. This is a soft rejection, not a parse failure.
	ErrNotRecognized = errors.New("document not recognized")

	// ErrSyncNotActive indicates a cancel was attempted on a run that
	// is already terminal. Terminal runs cannot be cancelled.
	ErrSyncNotActive = errors.New("sync run not active")

	// ErrRunImmutable indicates a write was attempted on a terminal
	// sync run row.
	ErrRunImmutable = errors.New("sync run is terminal and immutable")

	// ErrNoFeeds indicates no active feed exists for a requested type.
	ErrNoFeeds = errors.New("no active feeds for type")

	// ErrCancelled marks a run terminated by cooperative cancellation.
	ErrCancelled = errors.New("sync cancelled")
)

// ParseError indicates XML that could not be parsed at all. An import
// hitting a ParseError aborts before persisting anything.
type ParseError struct {
	// Doc names the document being parsed, when known.
	Doc string

	// Err is the underlying XML decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Doc != "" {
		return fmt.Sprintf("parse %s: %v", e.Doc, e.Err)
	}
	return fmt.Sprintf("parse feed document: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError wraps an XML decoder failure.
func NewParseError(doc string, err error) *ParseError {
	return &ParseError{Doc: doc, Err: err}
}
