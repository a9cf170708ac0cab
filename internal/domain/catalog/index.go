package catalog

import (
	"slices"
	"strings"

	"github.com/okian/drape/internal/domain/palette"
)

const (
	// fallbackLimit caps the unfiltered slice returned when no color matched.
	fallbackLimit = 50
	// searchLimit caps Search results.
	searchLimit = 10
)

// Index is an immutable, queryable catalog.
type Index struct {
	items    []Item
	byGender map[string][]Item
}

// NewIndex builds an index over items. Items without a product id get
// their Fingerprint, and only the first item of each product id is kept.
func NewIndex(items []Item) *Index {
	idx := &Index{
		items:    make([]Item, 0, len(items)),
		byGender: make(map[string][]Item),
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			it.ProductID = it.Fingerprint()
		}
		if _, dup := seen[it.ProductID]; dup {
			continue
		}
		seen[it.ProductID] = struct{}{}
		idx.items = append(idx.items, it)
		idx.byGender[it.Gender] = append(idx.byGender[it.Gender], it)
	}
	return idx
}

// Len returns the number of items.
func (x *Index) Len() int { return len(x.items) }

// Items returns a copy of every item in load order.
func (x *Index) Items() []Item { return append([]Item(nil), x.items...) }

// Genders returns the distinct gender values in sorted order.
func (x *Index) Genders() []string {
	out := make([]string, 0, len(x.byGender))
	for g := range x.byGender {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// ByGender returns the items whose gender matches exactly.
func (x *Index) ByGender(gender string) []Item {
	return append([]Item(nil), x.byGender[gender]...)
}

// Filter returns the items of a gender that match the requested colors.
//
// The gender match is exact. For "women" (any case) colors are not applied
// and the whole gender slice is returned: the color vocabulary of that
// slice is too sparse for filtering. Otherwise each requested color is
// expanded through palette.Aliases and matched as a case-insensitive
// substring; results keep discovery order and are unique by product id.
// An empty color list matches the safe colors exactly. When nothing
// matches, the first 50 items of the gender are returned.
func (x *Index) Filter(gender string, colors []string) []Item {
	pool := x.byGender[gender]
	if len(pool) == 0 {
		return nil
	}

	// TODO: drop the women bypass once the women's catalog carries colors on
	// every item; recommendations for that slice depend on it today.
	if strings.EqualFold(gender, "women") {
		return append([]Item(nil), pool...)
	}

	var matched []Item
	if len(colors) == 0 {
		matched = exactColors(pool, palette.SafeColors)
	} else {
		matched = aliasColors(pool, colors)
	}

	if len(matched) == 0 {
		n := min(len(pool), fallbackLimit)
		return append([]Item(nil), pool[:n]...)
	}
	return matched
}

func aliasColors(pool []Item, colors []string) []Item {
	seen := make(map[string]struct{})
	var out []Item
	for _, c := range colors {
		for _, alias := range palette.Aliases(c) {
			needle := strings.ToLower(alias)
			for _, it := range pool {
				if !strings.Contains(strings.ToLower(it.Color), needle) {
					continue
				}
				if _, dup := seen[it.ProductID]; dup {
					continue
				}
				seen[it.ProductID] = struct{}{}
				out = append(out, it)
			}
		}
	}
	return out
}

func exactColors(pool []Item, colors []string) []Item {
	allowed := make(map[string]struct{}, len(colors))
	for _, c := range colors {
		allowed[c] = struct{}{}
	}
	var out []Item
	for _, it := range pool {
		if _, ok := allowed[it.Color]; ok {
			out = append(out, it)
		}
	}
	return out
}

// SearchQuery narrows a Search. Empty fields and a zero MaxPrice are ignored.
type SearchQuery struct {
	Gender   string  `json:"gender"`
	Category string  `json:"category,omitempty"`
	Color    string  `json:"color,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
}

// Search returns up to 10 items of the gender whose category, color and
// brand contain the query values (case-insensitive) and whose price is at
// most MaxPrice. Items with unparsable prices never pass a price cap.
func (x *Index) Search(q SearchQuery) []Item {
	category := strings.ToLower(q.Category)
	color := strings.ToLower(q.Color)
	brand := strings.ToLower(q.Brand)

	var out []Item
	for _, it := range x.byGender[q.Gender] {
		if category != "" && !strings.Contains(strings.ToLower(it.Category), category) {
			continue
		}
		if color != "" && !strings.Contains(strings.ToLower(it.Color), color) {
			continue
		}
		if brand != "" && !strings.Contains(strings.ToLower(it.Brand), brand) {
			continue
		}
		if q.MaxPrice > 0 && it.priceCap() > q.MaxPrice {
			continue
		}
		out = append(out, it)
		if len(out) == searchLimit {
			break
		}
	}
	return out
}
