package catalog

import "errors"

// Sentinel errors for catalog loading.
var (
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrLoadCatalog       = errors.New("load catalog")
	ErrMissingColumn     = errors.New("catalog is missing a required column")
)
