// Package outfit assembles interview outfits from catalog items.
package outfit

import (
	"math"

	"github.com/okian/drape/internal/domain/catalog"
)

// Outfit is one composed look.
type Outfit struct {
	ID            string         `json:"outfit_id" yaml:"outfit_id"`
	Items         []catalog.Item `json:"items" yaml:"items"`
	TotalPrice    float64        `json:"total_price" yaml:"total_price"`
	PrimaryColors []string       `json:"primary_colors" yaml:"primary_colors"`
}

// Colors returns the item colors in item order, skipping blanks.
func (o Outfit) Colors() []string {
	out := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Color != "" {
			out = append(out, it.Color)
		}
	}
	return out
}

// TotalPrice sums parsed item prices and rounds to cents.
func TotalPrice(items []catalog.Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.PriceValue()
	}
	return math.Round(sum*100) / 100
}
