package recommend

import "errors"

// ErrNoOutfits is returned when every fallback tier produced nothing.
var ErrNoOutfits = errors.New("no suitable outfits found")
