// Package preference turns like/dislike feedback into a profile and
// re-ranks outfits against it.
package preference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/drape/internal/domain/outfit"
)

// Record is one piece of feedback on a catalog item.
type Record struct {
	Liked    bool   `json:"liked"`
	Color    string `json:"color"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
}

// Profile is the aggregate of a session's feedback. Values are lower-case.
type Profile struct {
	LikedColors        []string `json:"liked_colors"`
	DislikedColors     []string `json:"disliked_colors"`
	LikedBrands        []string `json:"liked_brands"`
	DislikedBrands     []string `json:"disliked_brands"`
	LikedCategories    []string `json:"liked_categories"`
	DislikedCategories []string `json:"disliked_categories"`
}

// Empty reports whether the profile carries no signal.
func (p Profile) Empty() bool {
	return len(p.LikedColors) == 0 && len(p.DislikedColors) == 0 &&
		len(p.LikedBrands) == 0 && len(p.DislikedBrands) == 0 &&
		len(p.LikedCategories) == 0 && len(p.DislikedCategories) == 0
}

// Aggregate folds records into a Profile. Values are lower-cased and kept
// unique in first-seen order. Empty values are dropped: an empty needle
// would match every item during ranking.
func Aggregate(records []Record) Profile {
	var p Profile
	seen := make(map[*[]string]map[string]struct{})
	add := func(dst *[]string, v string) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return
		}
		s, ok := seen[dst]
		if !ok {
			s = make(map[string]struct{})
			seen[dst] = s
		}
		if _, dup := s[v]; dup {
			return
		}
		s[v] = struct{}{}
		*dst = append(*dst, v)
	}

	for _, r := range records {
		if r.Liked {
			add(&p.LikedColors, r.Color)
			add(&p.LikedBrands, r.Brand)
			add(&p.LikedCategories, r.Category)
		} else {
			add(&p.DislikedColors, r.Color)
			add(&p.DislikedBrands, r.Brand)
			add(&p.DislikedCategories, r.Category)
		}
	}
	return p
}

// Weights are the score deltas applied per matching item.
type Weights struct {
	LikedColor    int
	DislikedColor int
	LikedBrand    int
	DislikedBrand int
}

// DefaultWeights favour color over brand and punish dislikes harder.
func DefaultWeights() Weights {
	return Weights{LikedColor: 2, DislikedColor: -3, LikedBrand: 1, DislikedBrand: -2}
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithWeights overrides the score deltas.
func WithWeights(w Weights) Option {
	return func(r *Ranker) {
		r.weights = w
	}
}

// Ranker orders outfits by a profile.
type Ranker struct {
	weights Weights
}

// NewRanker creates a Ranker with DefaultWeights unless overridden.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Score sums the per-item deltas of o under p. A delta applies once per
// item when any profile value is a substring of the item's lower-cased
// color or brand.
func (r *Ranker) Score(o outfit.Outfit, p Profile) int {
	score := 0
	for _, it := range o.Items {
		color := strings.ToLower(it.Color)
		brand := strings.ToLower(it.Brand)
		if containsAny(color, p.LikedColors) {
			score += r.weights.LikedColor
		}
		if containsAny(color, p.DislikedColors) {
			score += r.weights.DislikedColor
		}
		if containsAny(brand, p.LikedBrands) {
			score += r.weights.LikedBrand
		}
		if containsAny(brand, p.DislikedBrands) {
			score += r.weights.DislikedBrand
		}
	}
	return score
}

// Rank returns outfits sorted by descending score. The sort is stable and
// the input slice is left untouched.
func (r *Ranker) Rank(outfits []outfit.Outfit, p Profile) []outfit.Outfit {
	type scored struct {
		o     outfit.Outfit
		score int
	}
	tmp := make([]scored, len(outfits))
	for i, o := range outfits {
		tmp[i] = scored{o: o, score: r.Score(o, p)}
	}
	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].score > tmp[j].score })

	out := make([]outfit.Outfit, len(tmp))
	for i, s := range tmp {
		out[i] = s.o
	}
	return out
}

// Rank orders outfits with the default weights.
func Rank(outfits []outfit.Outfit, p Profile) []outfit.Outfit {
	return NewRanker().Rank(outfits, p)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Message acknowledges what the profile has learned so far.
func Message(p Profile) string {
	var parts []string
	if len(p.LikedColors) > 0 {
		parts = append(parts, fmt.Sprintf("I can see you love %s - great choice!", join(p.LikedColors, 3)))
	}
	if len(p.LikedBrands) > 0 {
		parts = append(parts, fmt.Sprintf("I've noted your preference for %s.", join(p.LikedBrands, 2)))
	}
	if len(p.DislikedColors) > 0 {
		parts = append(parts, fmt.Sprintf("I'll avoid %s in future recommendations.", join(p.DislikedColors, 2)))
	}
	if len(parts) == 0 {
		return "I'm learning your style preferences to give you better recommendations!"
	}
	return strings.Join(parts, " ")
}

func join(values []string, limit int) string {
	if len(values) > limit {
		values = values[:limit]
	}
	return strings.Join(values, ", ")
}
