package circle

import (
	"asis-solvers/pkg/geometry"
)

// ExtractRegion flood fills the 4-connected component of m containing start
// and clears every pixel it visits, so a later scan of m never finds the same
// pixels again. Starting on an unset pixel yields an empty region.
func ExtractRegion(m *Mask, start geometry.PointInt) Region {
	if !m.In(start) || !m.At(start.X, start.Y) {
		return Region{}
	}

	// Pixels are cleared when pushed, so the stack never holds more entries
	// than the mask has set pixels.
	m.Set(start.X, start.Y, false)
	stack := []geometry.PointInt{start}
	var points []geometry.PointInt

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		points = append(points, p)

		for _, n := range p.Neighbors4() {
			if m.At(n.X, n.Y) {
				m.Set(n.X, n.Y, false)
				stack = append(stack, n)
			}
		}
	}

	return Region{Points: points, Bounds: geometry.BoundingBox(points)}
}

// Regions drains m into its 4-connected components, in row-major order of
// each component's first pixel. The mask is empty afterwards.
func (m *Mask) Regions() []Region {
	var regions []Region
	m.scan(func(r Region) bool {
		regions = append(regions, r)
		return true
	})
	return regions
}

// scan extracts regions in row-major order and hands each to fn until fn
// returns false.
func (m *Mask) scan(fn func(Region) bool) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Pix[y*m.Width+x] {
				continue
			}
			if !fn(ExtractRegion(m, geometry.PointInt{X: x, Y: y})) {
				return
			}
		}
	}
}
