// Command circletest runs circle detection on picture files and prints the
// circle found in each, the way the matchpair solver sees them.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"asis-solvers/internal/circle"
	"asis-solvers/internal/circle/hough"
	pictures "asis-solvers/internal/image"
	"asis-solvers/internal/pairing"
	"asis-solvers/internal/version"
	"asis-solvers/pkg/colorutil"

	"k8s.io/klog/v2"
)

var (
	flagMinDiam   = flag.Int("min_diameter", circle.DefaultParams().MinDiameter, "Smallest region side considered a circle.")
	flagMaxError  = flag.Float64("max_error", circle.DefaultParams().MaxErrorRatio, "Largest fraction of cells allowed to differ from the ideal disk.")
	flagTolerance = flag.Int("tolerance", pairing.DefaultTolerance, "Per channel color distance under which two circles pair.")
	flagWorkers   = flag.Int("workers", 16, "Pictures processed at once.")
	flagHough     = flag.Bool("hough", false, "Cross-check every detection with OpenCV's Hough transform.")
	flagVersion   = flag.Bool("version", false, "Print version and exit.")
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: circletest [flags] <picture>...\n\nSupported formats: %s\n\n",
			strings.Join(pictures.SupportedFormats(), ", "))
		flag.PrintDefaults()
	}
	flag.Parse()
	if *flagVersion {
		fmt.Println(version.String())
		return
	}
	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	images := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		if !pictures.IsSupportedFormat(path) {
			klog.Warningf("%s: unknown extension, trying anyway", path)
		}
		img, format, err := pictures.Load(path)
		if err != nil {
			klog.Exitf("%+v", err)
		}
		klog.V(1).Infof("Loaded %s image %s: %dx%d pixels", format, path, img.Bounds().Dx(), img.Bounds().Dy())
		images = append(images, img)
	}

	params := circle.DefaultParams().WithMinDiameter(*flagMinDiam).WithMaxErrorRatio(*flagMaxError)
	fmt.Printf("Detection parameters: min diameter %d, max error ratio %.3f\n\n", params.MinDiameter, params.MaxErrorRatio)
	results := circle.FindCircles(context.Background(), images, params, *flagWorkers)

	fmt.Printf("%-4s %-9s %8s %8s %8s %8s %8s %s\n", "#", "Color", "X", "Y", "Radius", "Area", "Round", "Hough")
	fmt.Println(strings.Repeat("-", 70))
	colors := make([]colorutil.ARGB, len(results))
	var failed int
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("%-4d %v\n", i, res.Err)
			continue
		}
		det := res.Detection
		colors[i] = det.Color
		houghCol := "-"
		if *flagHough {
			houghCol = confirm(images[i], det)
		}
		fmt.Printf("%-4d %-9s %8.1f %8.1f %8.1f %8d %8.3f %s\n", i, det.Color,
			det.Shape.Centroid.X, det.Shape.Centroid.Y, det.Radius(), det.Shape.Area, det.Shape.Roundness, houghCol)
	}

	pairs := pairing.Greedy(colors, *flagTolerance)
	fmt.Printf("\nPairs:")
	for _, p := range pairs {
		fmt.Printf(" %s", p)
	}
	fmt.Printf("\nTotal: %d circles in %d pictures, %d pairs\n", len(results)-failed, len(results), len(pairs))
	if failed > 0 {
		os.Exit(1)
	}
}

func confirm(img image.Image, det *circle.Detection) string {
	ok, candidates, err := hough.Confirm(img, det, hough.DefaultParams())
	if err != nil {
		klog.Errorf("Hough transform: %+v", err)
		return "error"
	}
	if ok {
		return "yes"
	}
	return fmt.Sprintf("no (%d candidates)", len(candidates))
}
