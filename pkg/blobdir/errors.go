package blobdir

import "errors"

var (
	// ErrNotFound indicates a dataset document is missing from storage
	ErrNotFound = errors.New("document not found")

	// ErrLengthMismatch indicates a field's values do not match the dataset record count
	ErrLengthMismatch = errors.New("field length does not match record count")

	// ErrUnknownKey indicates a category key name is not in the field's key table
	ErrUnknownKey = errors.New("unknown category key")

	// ErrIdentifierMissing indicates the dataset has no identifiers field
	ErrIdentifierMissing = errors.New("identifiers field missing from dataset")
)
