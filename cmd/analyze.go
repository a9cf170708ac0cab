package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/drape/internal/app"
	"github.com/okian/drape/internal/domain/catalog"
	"github.com/okian/drape/internal/domain/palette"
	"github.com/okian/drape/internal/domain/recommend"
)

type analyzeOutput struct {
	SkinTone   string          `json:"skin_tone" yaml:"skin_tone"`
	Undertone  string          `json:"undertone" yaml:"undertone"`
	Season     string          `json:"season" yaml:"season"`
	Confidence string          `json:"confidence" yaml:"confidence"`
	RGB        [3]int          `json:"rgb_values" yaml:"rgb_values"`
	HSV        [3]int          `json:"hsv_values" yaml:"hsv_values"`
	Pixels     int             `json:"skin_pixels" yaml:"skin_pixels"`
	Palette    palette.Palette `json:"palette" yaml:"palette"`
}

func newAnalyzeCmd(_ *runtimeConfig) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Classify the skin tone of a photo",
		Long: `Detects skin pixels in the image, classifies the average color and prints
the undertone, skin tone, color season and its palette.`,
		Example: `  drape analyze portrait.jpg
  drape analyze portrait.png --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			img, err := service.DecodeImage(raw)
			if err != nil {
				return err
			}
			rec, err := recommend.NewService(catalog.NewSnapshot(nil))
			if err != nil {
				return err
			}
			a, err := rec.Analyze(img)
			if err != nil {
				return err
			}
			c := a.Classification
			return writeOutput(cmd.OutOrStdout(), output, analyzeOutput{
				SkinTone:   string(c.SkinTone),
				Undertone:  string(c.Undertone),
				Season:     string(c.Season),
				Confidence: string(c.Confidence),
				RGB:        a.Sample.RGB(),
				HSV:        a.Sample.HSV(),
				Pixels:     a.Sample.Pixels,
				Palette:    a.Palette,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}
