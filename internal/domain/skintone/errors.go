package skintone

import "errors"

// Sentinel errors for skin tone analysis.
var (
	ErrNoSkinDetected = errors.New("no skin detected in image")
	ErrEmptyImage     = errors.New("image has no pixels")
	ErrInvalidKernel  = errors.New("kernel size must be a positive odd number")
)
