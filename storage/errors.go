package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no triple matches a lookup.
	ErrNotFound = errors.New("no matching triples")

	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("store closed")

	// ErrUnknownObjectKind is returned when a stored object cannot be decoded.
	ErrUnknownObjectKind = errors.New("unknown object kind")
)
