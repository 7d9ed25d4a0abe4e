package circle

import (
	"image"

	"asis-solvers/pkg/colorutil"
)

// Segment splits img into one mask per exact color. Masks are returned in
// order of first appearance in a row-major scan, and mask coordinates are
// relative to img.Bounds().Min. Pixels packing to zero (transparent black)
// are empty and get no mask.
func Segment(img image.Image) []*Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	byColor := make(map[colorutil.ARGB]*Mask)
	var order []*Mask
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := colorutil.FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if c == 0 {
				continue
			}
			m, ok := byColor[c]
			if !ok {
				m = NewMask(c, w, h)
				byColor[c] = m
				order = append(order, m)
			}
			m.Pix[y*w+x] = true
		}
	}
	return order
}
