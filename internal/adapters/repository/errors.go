package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("session not found")
	ErrEmptySession  = errors.New("session id is empty")
	ErrEmptyProduct  = errors.New("product id is empty")
	ErrUnknownDriver = errors.New("unknown store backend")
)
