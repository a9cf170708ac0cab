package outfit

import (
	"math/rand"
	"time"
)

// RandFactory returns a fresh random source for one Compose call.
type RandFactory func() *rand.Rand

// Option configures a Composer.
type Option func(*Composer)

// WithRand makes every Compose call draw from a source built by f.
func WithRand(f RandFactory) Option {
	return func(c *Composer) {
		if f != nil {
			c.newRand = f
		}
	}
}

// WithSeed makes every Compose call start from the same seed, so equal
// inputs compose equal outfits.
func WithSeed(seed int64) Option {
	return WithRand(func() *rand.Rand {
		return rand.New(rand.NewSource(seed)) //nolint:gosec // not security sensitive
	})
}

// WithMaxItems overrides how many items an outfit may hold after the
// complementary pass.
func WithMaxItems(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.maxItems = n
		}
	}
}

func defaultRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // not security sensitive
}
