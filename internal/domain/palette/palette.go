// Package palette holds the seasonal color theory tables.
//
// Every exported accessor returns a fresh copy so callers can never mutate
// the shared tables. Unknown seasons resolve to winter.
package palette

import "strings"

// Season is a color-theory season label.
type Season string

// Seasons.
const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// DefaultSeason is used whenever a season is missing or not recognised.
const DefaultSeason = Winter

// Palette groups the color lists published for a season.
type Palette struct {
	Recommended   []string `json:"recommended_colors" yaml:"recommended_colors"`
	Avoid         []string `json:"avoid_colors" yaml:"avoid_colors"`
	InterviewSafe []string `json:"interview_safe" yaml:"interview_safe"`
}

// Seasons returns the four seasons in calendar order.
func Seasons() []Season {
	return []Season{Spring, Summer, Autumn, Winter}
}

// ParseSeason maps free text onto a Season, falling back to DefaultSeason.
func ParseSeason(s string) Season {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case Spring:
		return Spring
	case Summer:
		return Summer
	case Autumn:
		return Autumn
	case Winter:
		return Winter
	default:
		return DefaultSeason
	}
}

// Known reports whether s names one of the four seasons.
func Known(s string) bool {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case Spring, Summer, Autumn, Winter:
		return true
	}
	return false
}

func (s Season) String() string { return string(s) }

// Recommended returns the colors that flatter the season.
func Recommended(s Season) []string { return lookup(recommended, s) }

// Avoid returns the colors the season should stay away from.
func Avoid(s Season) []string { return lookup(avoid, s) }

// InterviewSafe returns the conservative subset suited to interview attire.
func InterviewSafe(s Season) []string { return lookup(interviewSafe, s) }

// SeasonColors returns the catalog-oriented palette used when searching for
// alternatives. Its names match catalog color values more closely than
// Recommended does.
func SeasonColors(s Season) []string { return lookup(seasonColors, s) }

// Lookup returns the full palette of a season.
func Lookup(s Season) Palette {
	return Palette{
		Recommended:   Recommended(s),
		Avoid:         Avoid(s),
		InterviewSafe: InterviewSafe(s),
	}
}

func lookup(table map[Season][]string, s Season) []string {
	colors, ok := table[s]
	if !ok {
		colors = table[DefaultSeason]
	}
	return append([]string(nil), colors...)
}
