package classpath

import "errors"

// Sentinel errors. Lookups wrap these so callers can pick a default with
// errors.Is.
var (
	// ErrNotFound means no classpath entry holds the requested class.
	ErrNotFound = errors.New("class not found")

	// ErrMalformed means a class file or signature could not be decoded.
	ErrMalformed = errors.New("malformed class data")

	// ErrNoSuchMember means the class exists but lacks the requested member.
	ErrNoSuchMember = errors.New("no such member")
)
