package skintone

import "math"

// mask is a binary image stored row-major.
type mask struct {
	w, h int
	bits []bool
}

func newMask(w, h int) *mask {
	return &mask{w: w, h: h, bits: make([]bool, w*h)}
}

func (m *mask) at(x, y int) bool { return m.bits[y*m.w+x] }

func (m *mask) set(x, y int, v bool) { m.bits[y*m.w+x] = v }

func (m *mask) count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// offset is a kernel cell relative to the anchor.
type offset struct{ dx, dy int }

// ellipseKernel returns the active cells of a size×size elliptical
// structuring element anchored at its centre. For size 5 the rows are
// 00100, 11111, 11111, 11111, 00100.
func ellipseKernel(size int) []offset {
	r := size / 2
	c := size / 2
	var invR2 float64
	if r > 0 {
		invR2 = 1 / float64(r*r)
	}

	var cells []offset
	for i := range size {
		dy := i - r
		dx := int(math.RoundToEven(float64(c) * math.Sqrt(float64(r*r-dy*dy)*invR2)))
		j1 := max(c-dx, 0)
		j2 := min(c+dx+1, size)
		for j := j1; j < j2; j++ {
			cells = append(cells, offset{dx: j - c, dy: dy})
		}
	}
	return cells
}

// erode keeps a pixel when every in-bounds kernel neighbour is set.
func erode(src *mask, kernel []offset) *mask {
	dst := newMask(src.w, src.h)
	for y := range src.h {
		for x := range src.w {
			keep := true
			for _, k := range kernel {
				nx, ny := x+k.dx, y+k.dy
				if nx < 0 || ny < 0 || nx >= src.w || ny >= src.h {
					continue
				}
				if !src.at(nx, ny) {
					keep = false
					break
				}
			}
			dst.set(x, y, keep)
		}
	}
	return dst
}

// dilate sets a pixel when any in-bounds kernel neighbour is set.
func dilate(src *mask, kernel []offset) *mask {
	dst := newMask(src.w, src.h)
	for y := range src.h {
		for x := range src.w {
			for _, k := range kernel {
				nx, ny := x+k.dx, y+k.dy
				if nx < 0 || ny < 0 || nx >= src.w || ny >= src.h {
					continue
				}
				if src.at(nx, ny) {
					dst.set(x, y, true)
					break
				}
			}
		}
	}
	return dst
}

// closing fills small holes.
func closing(m *mask, kernel []offset) *mask { return erode(dilate(m, kernel), kernel) }

// opening removes small specks.
func opening(m *mask, kernel []offset) *mask { return dilate(erode(m, kernel), kernel) }
