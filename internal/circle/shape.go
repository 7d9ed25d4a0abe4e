package circle

import (
	"math"

	"asis-solvers/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// Shape summarizes the geometry of a region.
type Shape struct {
	Area             int              // Pixel count
	Centroid         geometry.Point2D // Mean of the pixel centers
	EquivalentRadius float64          // Radius of a disk with the same area
	Roundness        float64          // 1 - CV of boundary distances to the centroid, in [0, 1]
}

// Describe computes shape statistics for r. Coordinates are those of the
// region's pixels.
func Describe(r Region) Shape {
	n := len(r.Points)
	if n == 0 {
		return Shape{}
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range r.Points {
		c := p.ToFloat()
		xs[i], ys[i] = c.X, c.Y
	}
	centroid := geometry.Point2D{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	// Boundary pixels have at least one 4-neighbor outside the region.
	patch := r.Crop()
	inside := func(p geometry.PointInt) bool {
		if !r.Bounds.Contains(p) {
			return false
		}
		return patch.At(p.X-r.Bounds.X, p.Y-r.Bounds.Y)
	}
	var dists []float64
	for _, p := range r.Points {
		for _, nb := range p.Neighbors4() {
			if !inside(nb) {
				dists = append(dists, p.ToFloat().Distance(centroid))
				break
			}
		}
	}

	shape := Shape{
		Area:             n,
		Centroid:         centroid,
		EquivalentRadius: math.Sqrt(float64(n) / math.Pi),
	}
	if len(dists) < 2 {
		return shape
	}
	mean, std := stat.MeanStdDev(dists, nil)
	if mean > 0 {
		shape.Roundness = math.Max(0, math.Min(1, 1-std/mean))
	}
	return shape
}
