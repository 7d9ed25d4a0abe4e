// Package hough cross-checks flood-fill circle detections with OpenCV's
// Hough circle transform.
package hough

import (
	"image"

	"asis-solvers/internal/circle"
	"asis-solvers/pkg/colorutil"
	"asis-solvers/pkg/geometry"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"k8s.io/klog/v2"
)

// Params holds Hough circle detection tuning.
type Params struct {
	DP          float64 // Inverse ratio of accumulator resolution
	Param1      float64 // Canny edge detector high threshold
	Param2      float64 // Accumulator threshold
	BlurKernel  int     // Gaussian blur kernel size (odd)
	RadiusSlack float64 // Fractional radius range searched around the detection
}

// DefaultParams returns parameters suited to solid, anti-alias free disks.
func DefaultParams() Params {
	return Params{
		DP:          1.2,
		Param1:      100,
		Param2:      20,
		BlurKernel:  9,
		RadiusSlack: 0.25,
	}
}

// Candidate is a circle reported by the Hough transform.
type Candidate struct {
	Center geometry.Point2D
	Radius float64
}

// Confirm reports whether the Hough transform, run on the mask of det.Color,
// finds a circle whose center lies within det's radius of det's center.
func Confirm(img image.Image, det *circle.Detection, params Params) (bool, []Candidate, error) {
	candidates, err := Detect(img, det.Color, det.Radius(), params)
	if err != nil {
		return false, nil, err
	}
	center := det.Bounds.Center()
	for _, c := range candidates {
		if c.Center.Distance(center) < det.Radius() {
			return true, candidates, nil
		}
	}
	return false, candidates, nil
}

// Detect runs the Hough transform on the binary mask of color c, searching
// radii around expectedRadius. Centers are in image coordinates.
func Detect(img image.Image, c colorutil.ARGB, expectedRadius float64, params Params) ([]Candidate, error) {
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	mask := colorMaskMat(img, c)
	defer mask.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := params.BlurKernel
	if k%2 == 0 {
		k++
	}
	gocv.GaussianBlur(mask, &blurred, image.Point{X: k, Y: k}, 2, 2, gocv.BorderDefault)

	minR := int(expectedRadius * (1 - params.RadiusSlack))
	maxR := int(expectedRadius*(1+params.RadiusSlack)) + 1
	if minR < 1 {
		minR = 1
	}
	minDist := float64(max(1, minR))

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		params.DP, minDist, params.Param1, params.Param2, minR, maxR)

	if circles.Empty() || circles.Cols() == 0 {
		klog.V(2).Infof("hough: no circles for %s in radius range %d-%d", c, minR, maxR)
		return nil, nil
	}
	origin := img.Bounds().Min
	candidates := make([]Candidate, circles.Cols())
	for i := range candidates {
		candidates[i] = Candidate{
			Center: geometry.Point2D{
				X: float64(circles.GetFloatAt(0, i*3)) + float64(origin.X),
				Y: float64(circles.GetFloatAt(0, i*3+1)) + float64(origin.Y),
			},
			Radius: float64(circles.GetFloatAt(0, i*3+2)),
		}
	}
	return candidates, nil
}

// colorMaskMat builds an 8-bit single channel Mat that is 255 where img has
// exactly color c. Mat coordinates are relative to img.Bounds().Min.
func colorMaskMat(img image.Image, c colorutil.ARGB) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			if colorutil.FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y)) == c {
				v = 255
			}
			mat.SetUCharAt(y, x, v)
		}
	}
	return mat
}
