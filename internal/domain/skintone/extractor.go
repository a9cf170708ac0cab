// Package skintone detects skin in a photo and classifies its tone.
package skintone

import (
	"image"
	"image/color"
)

// Extractor finds skin pixels and averages their color.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	ranges     []HSVRange
	kernelSize int
	kernel     []offset
}

// NewExtractor builds an Extractor with the default skin bands and a 5×5
// elliptical kernel unless overridden.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		ranges:     DefaultRanges(),
		kernelSize: DefaultKernelSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.kernelSize <= 0 || e.kernelSize%2 == 0 {
		return nil, ErrInvalidKernel
	}
	e.kernel = ellipseKernel(e.kernelSize)
	return e, nil
}

// Extract returns the mean color of the skin region of img.
//
// A pixel counts as skin when it falls inside any configured band and
// survives one closing followed by one opening of the mask.
func (e *Extractor) Extract(img image.Image) (ColorSample, error) {
	if img == nil {
		return ColorSample{}, ErrEmptyImage
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return ColorSample{}, ErrEmptyImage
	}

	pixels := make([]color.NRGBA, w*h)
	m := newMask(w, h)
	for y := range h {
		for x := range w {
			c, _ := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			pixels[y*w+x] = c
			m.set(x, y, e.isSkin(c))
		}
	}

	if e.kernelSize > 1 {
		m = opening(closing(m, e.kernel), e.kernel)
	}

	var sumR, sumG, sumB float64
	n := 0
	for i, on := range m.bits {
		if !on {
			continue
		}
		c := pixels[i]
		sumR += float64(c.R)
		sumG += float64(c.G)
		sumB += float64(c.B)
		n++
	}
	if n == 0 {
		return ColorSample{}, ErrNoSkinDetected
	}

	s := ColorSample{
		R:      sumR / float64(n),
		G:      sumG / float64(n),
		B:      sumB / float64(n),
		Pixels: n,
	}
	s.Hue, s.Saturation, s.Value = meanHSV(s.R, s.G, s.B)
	return s, nil
}

func (e *Extractor) isSkin(c color.NRGBA) bool {
	h, s, v := toHSV8(c.R, c.G, c.B)
	for _, r := range e.ranges {
		if r.contains(h, s, v) {
			return true
		}
	}
	return false
}
