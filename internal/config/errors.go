package config

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Load and Validate.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// ErrUnknownBackend is an ErrInvalidConfig naming a store or blob
	// backend drape cannot build.
	ErrUnknownBackend = fmt.Errorf("%w: unknown backend", ErrInvalidConfig)
)
