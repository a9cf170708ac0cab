// Package recommend wires skin analysis, palettes, the catalog, the
// composer and the ranker into the recommendation flow.
package recommend

import (
	"context"
	"image"
	"strings"

	"github.com/okian/drape/internal/domain/catalog"
	"github.com/okian/drape/internal/domain/outfit"
	"github.com/okian/drape/internal/domain/palette"
	"github.com/okian/drape/internal/domain/preference"
	"github.com/okian/drape/internal/domain/skintone"
)

// Tier names the fallback step that produced a result.
type Tier string

// Tiers, tried in order.
const (
	TierPrimary   Tier = "primary"
	TierBroadened Tier = "broadened"
)

const defaultCount = 5

// Request asks for outfits for a gender and season.
type Request struct {
	Gender  string
	Season  palette.Season
	History []preference.Record
	Count   int
}

// AlternativesRequest asks for outfits that avoid some colors.
type AlternativesRequest struct {
	Gender  string
	Avoided []string
	Season  palette.Season
	Count   int
}

// Result is a ranked list of outfits with the tier that produced it.
type Result struct {
	Outfits     []outfit.Outfit `json:"outfits" yaml:"outfits"`
	Tier        Tier            `json:"tier" yaml:"tier"`
	ColorsTried []string        `json:"colors_tried" yaml:"colors_tried"`
}

// Analysis is a classified skin sample with its season palette.
type Analysis struct {
	Sample         skintone.ColorSample    `json:"sample" yaml:"sample"`
	Classification skintone.Classification `json:"classification" yaml:"classification"`
	Palette        palette.Palette         `json:"palette" yaml:"palette"`
}

// Composer builds outfits from catalog items.
type Composer interface {
	Compose(items []catalog.Item, gender string, desired int) []outfit.Outfit
}

// Ranker orders outfits by a preference profile.
type Ranker interface {
	Rank(outfits []outfit.Outfit, p preference.Profile) []outfit.Outfit
}

// Option configures a Service.
type Option func(*Service)

// WithComposer replaces the outfit composer.
func WithComposer(c Composer) Option {
	return func(s *Service) {
		if c != nil {
			s.composer = c
		}
	}
}

// WithRanker replaces the preference ranker.
func WithRanker(r Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithExtractor replaces the skin extractor.
func WithExtractor(e *skintone.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// Service answers analysis and recommendation calls against the catalog
// held by a Snapshot. It keeps no per-call state.
type Service struct {
	catalog   *catalog.Snapshot
	composer  Composer
	ranker    Ranker
	extractor *skintone.Extractor
}

// NewService creates a Service over snap.
func NewService(snap *catalog.Snapshot, opts ...Option) (*Service, error) {
	s := &Service{
		catalog:  snap,
		composer: outfit.NewComposer(),
		ranker:   preference.NewRanker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.NewSnapshot(nil)
	}
	if s.extractor == nil {
		e, err := skintone.NewExtractor()
		if err != nil {
			return nil, err
		}
		s.extractor = e
	}
	return s, nil
}

// Catalog returns the snapshot the service reads from.
func (s *Service) Catalog() *catalog.Snapshot { return s.catalog }

// Analyze extracts the skin sample of img and classifies it.
// skintone.ErrNoSkinDetected is returned unchanged.
func (s *Service) Analyze(img image.Image) (Analysis, error) {
	sample, err := s.extractor.Extract(img)
	if err != nil {
		return Analysis{}, err
	}
	c := skintone.Classify(sample)
	return Analysis{
		Sample:         sample,
		Classification: c,
		Palette:        palette.Lookup(c.Season),
	}, nil
}

// Recommend composes outfits in the season's interview-safe colors and
// ranks them by the request history.
//
// When that yields nothing the call is retried once with a broadened color
// set, the winter season and no preferences. ErrNoOutfits means both tiers
// came back empty.
func (s *Service) Recommend(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	count := countOrDefault(req.Count)
	idx := s.catalog.Current()

	colors := palette.InterviewSafe(req.Season)
	if len(colors) == 0 {
		colors = append([]string(nil), palette.SafeColors...)
	}

	var profile preference.Profile
	if len(req.History) > 0 {
		profile = preference.Aggregate(req.History)
	}

	if outfits := s.run(idx, req.Gender, colors, count, profile); len(outfits) > 0 {
		return Result{Outfits: outfits, Tier: TierPrimary, ColorsTried: colors}, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	broadened := append([]string(nil), palette.BroadenedColors...)
	if outfits := s.run(idx, req.Gender, broadened, count, preference.Profile{}); len(outfits) > 0 {
		return Result{Outfits: outfits, Tier: TierBroadened, ColorsTried: broadened}, nil
	}

	return Result{ColorsTried: colors}, ErrNoOutfits
}

// Alternatives composes outfits from the season colors that contain none
// of the avoided colors. Preferences are not applied. An empty result is
// not an error.
func (s *Service) Alternatives(ctx context.Context, req AlternativesRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	colors := withoutAvoided(palette.SeasonColors(req.Season), req.Avoided)
	outfits := s.run(s.catalog.Current(), req.Gender, colors, countOrDefault(req.Count), preference.Profile{})
	return Result{Outfits: outfits, Tier: TierPrimary, ColorsTried: colors}, nil
}

func (s *Service) run(idx *catalog.Index, gender string, colors []string, count int, p preference.Profile) []outfit.Outfit {
	items := idx.Filter(gender, colors)
	outfits := s.composer.Compose(items, gender, count)
	if !p.Empty() {
		outfits = s.ranker.Rank(outfits, p)
	}
	if len(outfits) > count {
		outfits = outfits[:count]
	}
	return outfits
}

// withoutAvoided drops every color that contains an avoided color,
// ignoring case. Blank avoided colors are skipped.
func withoutAvoided(colors, avoided []string) []string {
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		lc := strings.ToLower(c)
		keep := true
		for _, a := range avoided {
			a = strings.ToLower(strings.TrimSpace(a))
			if a != "" && strings.Contains(lc, a) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

func countOrDefault(n int) int {
	if n <= 0 {
		return defaultCount
	}
	return n
}
