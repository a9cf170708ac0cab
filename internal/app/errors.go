package service

import (
	"errors"
	"fmt"

	"github.com/okian/drape/internal/domain/recommend"
)

// Sentinel kinds for session operations.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrMissingImage   = errors.New("no image provided")
	ErrInvalidImage   = errors.New("image could not be decoded")
	ErrMissingSession = errors.New("session id required")
	ErrMissingOutfit  = errors.New("outfit id required")
	ErrOutfitNotFound = errors.New("outfit not found")
	ErrNoCatalogPaths = errors.New("no catalog paths configured")

	ErrPhotoNotArchived = errors.New("photo was not archived")
)

// NoOutfitsError reports an empty recommendation together with what was
// tried. It unwraps to recommend.ErrNoOutfits.
type NoOutfitsError struct {
	Gender      string
	ColorsTried []string
	DatasetSize int
}

func (e *NoOutfitsError) Error() string {
	return fmt.Sprintf("no suitable outfits for %s in %d catalog items", e.Gender, e.DatasetSize)
}

func (e *NoOutfitsError) Unwrap() error { return recommend.ErrNoOutfits }
