package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/drape/internal/domain/catalog"
	"github.com/okian/drape/internal/domain/palette"
	"github.com/okian/drape/internal/domain/recommend"
)

var errUnknownSeason = errors.New("unknown season")

func newRecommendCmd(rc *runtimeConfig) *cobra.Command {
	var (
		gender   string
		season   string
		count    int
		avoid    []string
		catalogs []string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compose outfits from the catalog",
		Long: `Composes interview outfits for a gender and color season from the
configured catalog files. With --avoid the alternatives flow is used instead:
outfits come from the season colors that contain none of the avoided colors.`,
		Example: `  drape recommend --gender Men --season autumn --count 3
  drape recommend --gender Women --season summer --avoid navy --avoid grey -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !palette.Known(season) {
				return fmt.Errorf("%w %q: want one of %v", errUnknownSeason, season, palette.Seasons())
			}
			ctx := cmd.Context()
			paths := catalogs
			if len(paths) == 0 {
				paths = rc.cfg.CatalogPaths
			}
			if len(paths) == 0 {
				return fmt.Errorf("no catalog files configured")
			}
			idx, err := catalog.NewLoader().Load(ctx, paths...)
			if err != nil {
				return err
			}
			rec, err := recommend.NewService(catalog.NewSnapshot(idx))
			if err != nil {
				return err
			}
			if count <= 0 {
				count = rc.cfg.RecommendCount
			}

			s := palette.ParseSeason(season)
			var res recommend.Result
			if len(avoid) > 0 {
				res, err = rec.Alternatives(ctx, recommend.AlternativesRequest{
					Gender:  gender,
					Avoided: avoid,
					Season:  s,
					Count:   count,
				})
			} else {
				res, err = rec.Recommend(ctx, recommend.Request{Gender: gender, Season: s, Count: count})
			}
			if err != nil {
				return fmt.Errorf("%w (colors tried: %v)", err, res.ColorsTried)
			}
			return writeOutput(cmd.OutOrStdout(), output, res)
		},
	}

	cmd.Flags().StringVarP(&gender, "gender", "g", "Men", "catalog gender")
	cmd.Flags().StringVarP(&season, "season", "s", string(palette.DefaultSeason), "color season: spring, summer, autumn or winter")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of outfits, defaults to recommend_count")
	cmd.Flags().StringSliceVar(&avoid, "avoid", nil, "colors to avoid; switches to alternatives")
	cmd.Flags().StringSliceVar(&catalogs, "catalog", nil, "catalog files, override catalog_paths")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}
