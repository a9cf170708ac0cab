// Package catalog owns the apparel catalog and answers color and search
// queries over it.
package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Item is one product row. Items are read-only once loaded.
type Item struct {
	ProductID  string `json:"product_id" yaml:"product_id"`
	Name       string `json:"name" yaml:"name"`
	Gender     string `json:"gender" yaml:"gender"`
	Category   string `json:"category" yaml:"category"`
	Color      string `json:"color" yaml:"color"`
	Price      string `json:"price" yaml:"price"`
	Brand      string `json:"brand" yaml:"brand"`
	ImageURL   string `json:"image_url" yaml:"image_url"`
	ProductURL string `json:"product_url" yaml:"product_url"`
	Source     string `json:"source" yaml:"source"`
}

// productNamespace scopes the name-based ids of rows without a product_id.
var productNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://drape.okian.dev/catalog/product"))

// Fingerprint derives a stable product id from the row content, so
// identical rows share an id and ids survive reloads.
func (it Item) Fingerprint() string {
	key := strings.Join([]string{
		it.Name, it.Gender, it.Category, it.Color, it.Price,
		it.Brand, it.ImageURL, it.ProductURL, it.Source,
	}, "\x1f")
	return uuid.NewSHA1(productNamespace, []byte(key)).String()
}

const gifPlaceholderPrefix = "data:image/gif;base64"

// Available reports whether the item has a usable image.
func (it Item) Available() bool {
	return it.ImageURL != "" && it.ImageURL != "nan" && !strings.HasPrefix(it.ImageURL, gifPlaceholderPrefix)
}

var nonPrice = regexp.MustCompile(`[^\d.]`)

// PriceValue parses the price after dropping everything but digits and
// dots. Unparsable prices are 0.
func (it Item) PriceValue() float64 {
	v, ok := parsePrice(it.Price)
	if !ok {
		return 0
	}
	return v
}

// priceCap is the value compared against a search price cap; unparsable
// prices are +Inf so they never pass a cap.
func (it Item) priceCap() float64 {
	v, ok := parsePrice(it.Price)
	if !ok {
		return math.Inf(1)
	}
	return v
}

func parsePrice(raw string) (float64, bool) {
	cleaned := nonPrice.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
