package outfit

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/drape/internal/domain/catalog"
)

const (
	defaultMaxItems = 4
	attemptFactor   = 3
)

// slot lists interchangeable categories; the first usable one wins.
type slot []string

//nolint:gochecknoglobals // read-only templates
var (
	womenTemplate = []slot{
		{"Shirt", "Blouse", "Top"},
		{"Trousers", "Suit Trousers"},
		{"Shoes"},
	}
	defaultTemplate = []slot{
		{"Shirt"},
		{"Blazer"},
		{"Trousers", "Suit Trousers", "Formal Trousers"},
		{"Shoes", "Accessories"},
	}
	complementaryCategories = []string{"Shoes", "Accessories"}
)

// Template returns the slot categories used for a gender.
func Template(gender string) [][]string {
	t := defaultTemplate
	if strings.EqualFold(gender, "women") {
		t = womenTemplate
	}
	out := make([][]string, len(t))
	for i, s := range t {
		out[i] = append([]string(nil), s...)
	}
	return out
}

// Composer builds outfits. It holds no mutable state; each Compose call
// gets its own random source, so a Composer is safe for concurrent use.
type Composer struct {
	newRand  RandFactory
	maxItems int
}

// NewComposer creates a Composer.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		newRand:  defaultRand,
		maxItems: defaultMaxItems,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds up to desired outfits for gender from items.
//
// Only items of exactly that gender with an available image are used. Each
// attempt fills the gender's slots in order, one category per slot, then
// tries to add color-compatible shoes and accessories until the outfit has
// four items. At most 3×desired attempts are made and empty outfits are
// dropped, so fewer than desired outfits may come back.
func (c *Composer) Compose(items []catalog.Item, gender string, desired int) []Outfit {
	if desired <= 0 {
		return nil
	}

	buckets := make(map[string][]catalog.Item)
	for _, it := range items {
		if it.Gender != gender || !it.Available() {
			continue
		}
		buckets[it.Category] = append(buckets[it.Category], it)
	}
	if len(buckets) == 0 {
		return nil
	}

	rng := c.newRand()
	template := Template(gender)

	var outfits []Outfit
	for range attemptFactor * desired {
		o, ok := c.compose(rng, buckets, template)
		if !ok {
			continue
		}
		outfits = append(outfits, o)
		if len(outfits) == desired {
			break
		}
	}
	return outfits
}

func (c *Composer) compose(rng *rand.Rand, buckets map[string][]catalog.Item, template [][]string) (Outfit, bool) {
	var picked []catalog.Item
	used := make(map[string]struct{})
	colors := make(map[string]struct{})
	var primary []string

	for _, s := range template {
		for _, category := range s {
			if _, taken := used[category]; taken {
				continue
			}
			candidates := buckets[category]
			if len(candidates) == 0 {
				continue
			}
			it := candidates[rng.Intn(len(candidates))]
			picked = append(picked, it)
			used[category] = struct{}{}
			lc := strings.ToLower(it.Color)
			if _, seen := colors[lc]; !seen && lc != "" {
				colors[lc] = struct{}{}
				primary = append(primary, lc)
			}
			break
		}
	}

	for _, category := range complementaryCategories {
		if len(picked) >= c.maxItems {
			break
		}
		if _, taken := used[category]; taken {
			continue
		}
		var suitable []catalog.Item
		for _, it := range buckets[category] {
			if Compatible(strings.ToLower(it.Color), colors) {
				suitable = append(suitable, it)
			}
		}
		if len(suitable) == 0 {
			continue
		}
		picked = append(picked, suitable[rng.Intn(len(suitable))])
		used[category] = struct{}{}
	}

	if len(picked) == 0 {
		return Outfit{}, false
	}

	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		id = uuid.New()
	}

	return Outfit{
		ID:            id.String(),
		Items:         picked,
		TotalPrice:    TotalPrice(picked),
		PrimaryColors: primary,
	}, true
}
