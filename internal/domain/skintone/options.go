package skintone

// HSVRange is an inclusive band in 8-bit HSV (hue 0-180, saturation and
// value 0-255).
type HSVRange struct {
	Lower [3]uint8
	Upper [3]uint8
}

func (r HSVRange) contains(h, s, v uint8) bool {
	return h >= r.Lower[0] && h <= r.Upper[0] &&
		s >= r.Lower[1] && s <= r.Upper[1] &&
		v >= r.Lower[2] && v <= r.Upper[2]
}

// DefaultRanges are the light, medium and dark skin bands.
func DefaultRanges() []HSVRange {
	return []HSVRange{
		{Lower: [3]uint8{0, 20, 70}, Upper: [3]uint8{20, 255, 255}},
		{Lower: [3]uint8{0, 48, 80}, Upper: [3]uint8{20, 255, 255}},
		{Lower: [3]uint8{0, 50, 50}, Upper: [3]uint8{25, 255, 200}},
	}
}

// DefaultKernelSize is the side of the elliptical structuring element.
const DefaultKernelSize = 5

// Option configures an Extractor.
type Option func(*Extractor)

// WithRanges replaces the skin bands. An empty list is ignored.
func WithRanges(ranges ...HSVRange) Option {
	return func(e *Extractor) {
		if len(ranges) > 0 {
			e.ranges = append([]HSVRange(nil), ranges...)
		}
	}
}

// WithKernelSize sets the structuring element size. Size 1 disables
// cleaning; even or non-positive sizes are rejected by NewExtractor.
func WithKernelSize(size int) Option {
	return func(e *Extractor) {
		e.kernelSize = size
	}
}
