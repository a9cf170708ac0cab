package skintone

import "github.com/okian/drape/internal/domain/palette"

// Undertone is the warm or cool bias of a skin sample.
type Undertone string

// Undertones.
const (
	Warm Undertone = "warm"
	Cool Undertone = "cool"
)

// SkinTone is the brightness bucket combined with the undertone.
type SkinTone string

// Skin tone buckets, darkest first.
const (
	DeepWarm   SkinTone = "deep_warm"
	DeepCool   SkinTone = "deep_cool"
	TanWarm    SkinTone = "tan_warm"
	OliveCool  SkinTone = "olive_cool"
	MediumWarm SkinTone = "medium_warm"
	MediumCool SkinTone = "medium_cool"
	FairWarm   SkinTone = "fair_warm"
	LightCool  SkinTone = "light_cool"
)

// Confidence grades how much skin backed a classification.
type Confidence string

// Confidence levels.
const (
	Low    Confidence = "low"
	Medium Confidence = "medium"
	High   Confidence = "high"
)

// ColorSample is the mean color of the detected skin region.
//
// R, G and B are channel means in [0,255]. Hue is in [0,360), Saturation
// and Value in [0,100]; all three are truncated toward zero.
type ColorSample struct {
	R          float64 `json:"r"`
	G          float64 `json:"g"`
	B          float64 `json:"b"`
	Hue        int     `json:"hue"`
	Saturation int     `json:"saturation"`
	Value      int     `json:"value"`
	Pixels     int     `json:"pixels"`
}

// RGB returns the channel means truncated to integers.
func (s ColorSample) RGB() [3]int {
	return [3]int{int(s.R), int(s.G), int(s.B)}
}

// HSV returns hue, saturation and value as a triple.
func (s ColorSample) HSV() [3]int {
	return [3]int{s.Hue, s.Saturation, s.Value}
}

// Classification is the result of classifying a ColorSample.
type Classification struct {
	Undertone  Undertone      `json:"undertone"`
	SkinTone   SkinTone       `json:"skin_tone"`
	Season     palette.Season `json:"season"`
	Confidence Confidence     `json:"confidence"`
}
