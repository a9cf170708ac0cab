package blob

import "errors"

var (
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("blob not found")
	// ErrEmptyKey is returned for an empty object key.
	ErrEmptyKey = errors.New("blob key is empty")
	// ErrInvalidKey is returned for keys that try to escape the container.
	ErrInvalidKey = errors.New("blob key contains invalid path")
)
