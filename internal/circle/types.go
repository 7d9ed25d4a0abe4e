// Package circle finds the color of a filled circle drawn in an image.
//
// The image is split into one mask per exact color, each mask is cut into
// 4-connected regions by flood fill, and every region is cropped to its
// bounding box and compared against an ideal disk.
package circle

import (
	"asis-solvers/pkg/colorutil"
	"asis-solvers/pkg/geometry"
)

// Mask is an occupancy grid for a single exact color. Pixels of every other
// color are unset.
type Mask struct {
	Color  colorutil.ARGB
	Width  int
	Height int
	Pix    []bool // Row-major, Width*Height cells
}

// NewMask creates an empty mask.
func NewMask(c colorutil.ARGB, width, height int) *Mask {
	return &Mask{
		Color:  c,
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// In reports whether p lies inside the mask.
func (m *Mask) In(p geometry.PointInt) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// At reports whether the pixel at (x, y) is set. Out of range is unset.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set sets or clears the pixel at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.Pix[y*m.Width+x] = v
}

// count returns the number of set pixels.
func (m *Mask) count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Region is one 4-connected component of a mask. It holds coordinates only.
type Region struct {
	Points []geometry.PointInt
	Bounds geometry.RectInt
}

// Len returns the number of pixels in the region.
func (r Region) Len() int {
	return len(r.Points)
}

// Crop rebuilds the region as an occupancy patch the size of its bounding box.
func (r Region) Crop() Patch {
	p := NewPatch(r.Bounds.Width, r.Bounds.Height)
	for _, pt := range r.Points {
		p.Cells[(pt.Y-r.Bounds.Y)*p.Width+pt.X-r.Bounds.X] = true
	}
	return p
}

// Patch is a cropped occupancy grid.
type Patch struct {
	Width  int
	Height int
	Cells  []bool // Row-major
}

// NewPatch creates an empty patch.
func NewPatch(width, height int) Patch {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Patch{Width: width, Height: height, Cells: make([]bool, width*height)}
}

// At reports whether the cell at (x, y) is occupied.
func (p Patch) At(x, y int) bool {
	return p.Cells[y*p.Width+x]
}

// Detection describes the circle found in an image.
type Detection struct {
	Color  colorutil.ARGB   // Exact color of the circle pixels
	Bounds geometry.RectInt // Bounding box in image coordinates
	Patch  Patch            // Cropped occupancy of the circle region
	Shape  Shape            // Statistics of the region, in image coordinates
}

// Radius returns half the smaller side of the bounding box.
func (d Detection) Radius() float64 {
	return float64(min(d.Bounds.Width, d.Bounds.Height)) / 2
}
