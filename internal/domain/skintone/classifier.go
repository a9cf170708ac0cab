package skintone

import "github.com/okian/drape/internal/domain/palette"

// Brightness bucket edges on the HSV value percentage.
const (
	deepBelow   = 30
	tanBelow    = 50
	mediumBelow = 70
)

// Pixel counts above which a classification is trusted more.
const (
	highConfidencePixels   = 1000
	mediumConfidencePixels = 500
)

// Classify maps a skin sample to undertone, tone bucket, season and
// confidence. It is a pure function.
func Classify(s ColorSample) Classification {
	u := undertone(s.R, s.G, s.B)
	t := bucket(s.Value, u)
	return Classification{
		Undertone:  u,
		SkinTone:   t,
		Season:     season(t, u),
		Confidence: confidence(s.Pixels),
	}
}

// undertone compares a red-leaning score with a blue-leaning one; ties go cool.
func undertone(r, g, b float64) Undertone {
	warm := r + 0.5*g - b
	cool := b + 0.3*g - r
	if warm > cool {
		return Warm
	}
	return Cool
}

func bucket(value int, u Undertone) SkinTone {
	warm := u == Warm
	switch {
	case value < deepBelow:
		return pick(warm, DeepWarm, DeepCool)
	case value < tanBelow:
		return pick(warm, TanWarm, OliveCool)
	case value < mediumBelow:
		return pick(warm, MediumWarm, MediumCool)
	default:
		return pick(warm, FairWarm, LightCool)
	}
}

func pick(warm bool, w, c SkinTone) SkinTone {
	if warm {
		return w
	}
	return c
}

func season(t SkinTone, u Undertone) palette.Season {
	if u == Warm {
		if t == FairWarm {
			return palette.Spring
		}
		return palette.Autumn
	}
	if t == LightCool || t == MediumCool {
		return palette.Summer
	}
	return palette.Winter
}

func confidence(pixels int) Confidence {
	switch {
	case pixels > highConfidencePixels:
		return High
	case pixels > mediumConfidencePixels:
		return Medium
	default:
		return Low
	}
}
