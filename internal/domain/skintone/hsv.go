package skintone

import "math"

// Fixed-point precision of the 8-bit HSV conversion.
const hsvShift = 12

//nolint:gochecknoglobals // lookup tables built once
var (
	sdivTable [256]int
	hdivTable [256]int
)

func init() { //nolint:gochecknoinits // lookup tables
	for i := 1; i < 256; i++ {
		sdivTable[i] = int(math.RoundToEven(float64(255<<hsvShift) / float64(i)))
		hdivTable[i] = int(math.RoundToEven(float64(180<<hsvShift) / (6 * float64(i))))
	}
}

// toHSV8 converts an 8-bit RGB pixel to 8-bit HSV with hue in [0,180) and
// saturation and value in [0,255], rounding like the common vision
// libraries do so that published skin ranges apply unchanged.
func toHSV8(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)

	vmax := max(ri, gi, bi)
	vmin := min(ri, gi, bi)
	diff := vmax - vmin

	sat := (diff*sdivTable[vmax] + (1 << (hsvShift - 1))) >> hsvShift

	var hue int
	switch vmax {
	case ri:
		hue = gi - bi
	case gi:
		hue = bi - ri + 2*diff
	default:
		hue = ri - gi + 4*diff
	}
	hue = (hue*hdivTable[diff] + (1 << (hsvShift - 1))) >> hsvShift
	if hue < 0 {
		hue += 180
	}

	return uint8(hue), uint8(sat), uint8(vmax) //nolint:gosec // all values bounded by 255
}

// meanHSV converts channel means in [0,255] to hue degrees and percentage
// saturation and value, truncating each to an int.
func meanHSV(r, g, b float64) (h, s, v int) {
	r, g, b = r/255, g/255, b/255

	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	if maxc == minc {
		return 0, 0, int(maxc * 100)
	}

	sat := (maxc - minc) / maxc
	rc := (maxc - r) / (maxc - minc)
	gc := (maxc - g) / (maxc - minc)
	bc := (maxc - b) / (maxc - minc)

	var hue float64
	switch maxc {
	case r:
		hue = bc - gc
	case g:
		hue = 2 + rc - bc
	default:
		hue = 4 + gc - rc
	}
	hue = math.Mod(hue/6, 1)
	if hue < 0 {
		hue++
	}

	return int(hue * 360), int(sat * 100), int(maxc * 100)
}
