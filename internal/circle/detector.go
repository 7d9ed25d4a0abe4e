package circle

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// ErrNoCircle is returned when no region of any color classifies as a circle.
var ErrNoCircle = errors.New("no circle found")

// FindCircle returns the circle drawn in img. Colors are tried in order of
// first appearance and the first region that classifies as a circle wins.
func FindCircle(img image.Image, params Params) (*Detection, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.Wrap(ErrNoCircle, "empty image")
	}

	masks := Segment(img)
	for _, m := range masks {
		det, ok := findInMask(m, params)
		if !ok {
			continue
		}
		det.Bounds.X += bounds.Min.X
		det.Bounds.Y += bounds.Min.Y
		det.Shape.Centroid.X += float64(bounds.Min.X)
		det.Shape.Centroid.Y += float64(bounds.Min.Y)
		return det, nil
	}
	return nil, errors.Wrapf(ErrNoCircle, "%dx%d image with %d colors", bounds.Dx(), bounds.Dy(), len(masks))
}

// HasCircle reports whether any region of m classifies as a circle. Regions
// are consumed from m up to and including the circle.
func HasCircle(m *Mask, params Params) bool {
	_, ok := findInMask(m, params)
	return ok
}

func findInMask(m *Mask, params Params) (*Detection, bool) {
	var found *Detection
	m.scan(func(r Region) bool {
		patch := r.Crop()
		if !IsCircle(patch, params) {
			if klog.V(3).Enabled() {
				klog.Infof("color %s: rejected %dx%d region of %d pixels",
					m.Color, r.Bounds.Width, r.Bounds.Height, r.Len())
			}
			return true
		}
		found = &Detection{
			Color:  m.Color,
			Bounds: r.Bounds,
			Patch:  patch,
			Shape:  Describe(r),
		}
		klog.V(2).Infof("color %s: circle at %+v (roundness %.3f)", m.Color, r.Bounds, found.Shape.Roundness)
		return false
	})
	return found, found != nil
}

// BatchResult is the outcome of circle detection on one image of a batch.
type BatchResult struct {
	Detection *Detection
	Err       error
}

// FindCircles runs FindCircle on every image with at most workers running at
// once. A failed image does not stop the others; results are in input order.
// Cancelling ctx skips images that have not started yet.
func FindCircles(ctx context.Context, images []image.Image, params Params, workers int) []BatchResult {
	results := make([]BatchResult, len(images))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Detection, results[i].Err = FindCircle(images[i], params)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
