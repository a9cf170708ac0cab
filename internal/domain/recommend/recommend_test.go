package recommend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/drape/internal/domain/catalog"
	"github.com/okian/drape/internal/domain/outfit"
	"github.com/okian/drape/internal/domain/palette"
	"github.com/okian/drape/internal/domain/preference"
	"github.com/okian/drape/internal/domain/skintone"
)

func wardrobe(gender string, colors ...string) []catalog.Item {
	var items []catalog.Item
	for _, cat := range []string{"Shirt", "Blazer", "Trousers", "Shoes", "Top"} {
		for i, c := range colors {
			items = append(items, catalog.Item{
				ProductID: fmt.Sprintf("%s-%s-%d", gender, cat, i),
				Gender:    gender,
				Category:  cat,
				Color:     c,
				Price:     "$50",
				Brand:     "Brand" + c,
				ImageURL:  "https://img/" + c,
			})
		}
	}
	return items
}

func newService(items []catalog.Item, opts ...Option) *Service {
	opts = append([]Option{WithComposer(outfit.NewComposer(outfit.WithSeed(11)))}, opts...)
	s, err := NewService(catalog.NewSnapshot(catalog.NewIndex(items)), opts...)
	So(err, ShouldBeNil)
	return s
}

// recordingComposer captures the items it was asked to compose from.
type recordingComposer struct {
	calls [][]catalog.Item
	inner *outfit.Composer
}

func (r *recordingComposer) Compose(items []catalog.Item, gender string, desired int) []outfit.Outfit {
	r.calls = append(r.calls, items)
	return r.inner.Compose(items, gender, desired)
}

func TestRecommend(t *testing.T) {
	Convey("Given a catalog with interview colors", t, func() {
		ctx := context.Background()
		s := newService(wardrobe("Men", "Navy", "Grey", "Black", "Orange"))

		Convey("When recommending for a winter man", func() {
			res, err := s.Recommend(ctx, Request{Gender: "Men", Season: palette.Winter, Count: 3})

			Convey("Then the primary tier answers with interview-safe colors", func() {
				So(err, ShouldBeNil)
				So(res.Tier, ShouldEqual, TierPrimary)
				So(res.ColorsTried, ShouldResemble, palette.InterviewSafe(palette.Winter))
				So(len(res.Outfits), ShouldEqual, 3)
				for _, o := range res.Outfits {
					for _, it := range o.Items {
						So(it.Gender, ShouldEqual, "Men")
						So(it.Color, ShouldNotEqual, "Orange")
					}
				}
			})
		})

		Convey("When the count is not set", func() {
			res, err := s.Recommend(ctx, Request{Gender: "Men", Season: palette.Autumn})
			So(err, ShouldBeNil)
			So(len(res.Outfits), ShouldEqual, 5)
		})

		Convey("When history dislikes navy", func() {
			history := []preference.Record{
				{Liked: false, Color: "Navy", Brand: "BrandNavy", Category: "Shirt"},
				{Liked: true, Color: "Grey", Brand: "BrandGrey", Category: "Shirt"},
			}
			res, err := s.Recommend(ctx, Request{Gender: "Men", Season: palette.Winter, History: history, Count: 4})

			Convey("Then outfits are ordered by preference score", func() {
				So(err, ShouldBeNil)
				p := preference.Aggregate(history)
				r := preference.NewRanker()
				for i := 1; i < len(res.Outfits); i++ {
					So(r.Score(res.Outfits[i-1], p), ShouldBeGreaterThanOrEqualTo, r.Score(res.Outfits[i], p))
				}
			})
		})

		Convey("When the gender is not in the catalog", func() {
			_, err := s.Recommend(ctx, Request{Gender: "Kids", Season: palette.Winter})

			Convey("Then ErrNoOutfits is returned", func() {
				So(err, ShouldEqual, ErrNoOutfits)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Recommend(cctx, Request{Gender: "Men"})
			So(err, ShouldEqual, context.Canceled)
		})
	})

	Convey("Given a catalog only reachable by the broadened tier", t, func() {
		// The first composition comes back empty, forcing the broadened tier.
		rec := &recordingComposer{inner: outfit.NewComposer(outfit.WithSeed(5))}
		calls := 0
		s := newService(nil, WithComposer(composerFunc(func(items []catalog.Item, gender string, desired int) []outfit.Outfit {
			calls++
			if calls == 1 {
				return nil
			}
			return rec.Compose(wardrobe("Men", "Brown"), gender, desired)
		})))

		res, err := s.Recommend(context.Background(), Request{Gender: "Men", Season: palette.Spring, Count: 2})

		Convey("Then the broadened tier is reported", func() {
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 2)
			So(res.Tier, ShouldEqual, TierBroadened)
			So(res.ColorsTried, ShouldResemble, palette.BroadenedColors)
			So(len(res.Outfits), ShouldEqual, 2)
		})
	})

	Convey("Given a women catalog with sparse colors", t, func() {
		rec := &recordingComposer{inner: outfit.NewComposer(outfit.WithSeed(2))}
		s := newService(wardrobe("Women", "", "Red"), WithComposer(rec))

		res, err := s.Recommend(context.Background(), Request{Gender: "Women", Season: palette.Summer, Count: 2})

		Convey("Then the composer sees the whole gender slice", func() {
			So(err, ShouldBeNil)
			So(len(rec.calls[0]), ShouldEqual, 10)
			So(len(res.Outfits), ShouldEqual, 2)
		})
	})
}

type composerFunc func(items []catalog.Item, gender string, desired int) []outfit.Outfit

func (f composerFunc) Compose(items []catalog.Item, gender string, desired int) []outfit.Outfit {
	return f(items, gender, desired)
}

func TestAlternatives(t *testing.T) {
	Convey("Given season colors and avoided colors", t, func() {
		So(withoutAvoided(palette.SeasonColors(palette.Winter), []string{"navy", "Grey"}), ShouldResemble,
			[]string{"Black", "White", "Red", "Purple"})
		So(withoutAvoided(palette.SeasonColors(palette.Summer), []string{"blue"}), ShouldResemble,
			[]string{"Soft Pink", "Lavender", "Grey", "Navy", "White"})
		So(withoutAvoided([]string{"Navy"}, []string{"", " "}), ShouldResemble, []string{"Navy"})
	})

	Convey("Given a catalog", t, func() {
		rec := &recordingComposer{inner: outfit.NewComposer(outfit.WithSeed(9))}
		s := newService(wardrobe("Men", "Navy", "Black", "Red"), WithComposer(rec))

		res, err := s.Alternatives(context.Background(), AlternativesRequest{
			Gender:  "Men",
			Avoided: []string{"Navy", "Black"},
			Season:  palette.Winter,
			Count:   2,
		})

		Convey("Then outfits come from the remaining colors", func() {
			So(err, ShouldBeNil)
			So(res.ColorsTried, ShouldResemble, []string{"White", "Grey", "Red", "Purple"})
			So(len(res.Outfits), ShouldEqual, 2)
			for _, it := range rec.calls[0] {
				So(it.Color, ShouldEqual, "Red")
			}
		})
	})
}

func TestAnalyze(t *testing.T) {
	Convey("Given a service", t, func() {
		s := newService(nil)

		Convey("When the photo is warm skin", func() {
			img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
			for y := range 40 {
				for x := range 40 {
					img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 150, B: 100, A: 255})
				}
			}
			a, err := s.Analyze(img)

			Convey("Then the analysis carries the spring palette", func() {
				So(err, ShouldBeNil)
				So(a.Classification.Season, ShouldEqual, palette.Spring)
				So(a.Palette, ShouldResemble, palette.Lookup(palette.Spring))
				So(a.Sample.Pixels, ShouldEqual, 1600)
			})
		})

		Convey("When the photo has no skin", func() {
			img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
			_, err := s.Analyze(img)

			Convey("Then ErrNoSkinDetected propagates", func() {
				So(err, ShouldEqual, skintone.ErrNoSkinDetected)
			})
		})
	})
}
