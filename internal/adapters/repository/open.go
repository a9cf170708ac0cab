package repository

import (
	"context"
	"fmt"
	"strings"
)

// Backends accepted by Open.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Open returns the store named by backend.
func Open(ctx context.Context, backend, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, backend)
	}
}
