// Command matchpair plays the "Match the Pair" challenge: for every round it
// finds the colored circle in each picture, pairs the pictures by color and
// submits the pairs.
package main

import (
	"flag"
	"fmt"
	"time"

	"asis-solvers/internal/app"
	"asis-solvers/internal/matchpair"
	"asis-solvers/internal/version"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	defaults = matchpair.DefaultConfig()

	flagBase      = flag.String("base", defaults.BaseURL, "Challenge site root URL.")
	flagCookie    = flag.String("cookie", defaults.Cookies, "Cookie header holding the logged in session.")
	flagUserAgent = flag.String("user_agent", defaults.UserAgent, "User-Agent sent with every request.")
	flagRounds    = flag.Int("rounds", defaults.Rounds, "Number of rounds to play.")
	flagWorkers   = flag.Int("workers", defaults.Workers, "Concurrent picture downloads and submissions.")
	flagTolerance = flag.Int("tolerance", defaults.Tolerance, "Per channel color distance under which two circles pair.")
	flagMinDiam   = flag.Int("min_diameter", defaults.Circle.MinDiameter, "Smallest region side considered a circle.")
	flagMaxError  = flag.Float64("max_error", defaults.Circle.MaxErrorRatio, "Largest fraction of cells allowed to differ from the ideal disk.")
	flagVersion   = flag.Bool("version", false, "Print version and exit.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagVersion {
		fmt.Println(version.String())
		return
	}
	app.Banner("matchpair")

	ctx, cancel := app.Context(5 * time.Second)
	defer cancel()

	cfg := defaults.
		WithBaseURL(*flagBase).
		WithCookies(*flagCookie).
		WithRounds(*flagRounds).
		WithWorkers(*flagWorkers).
		WithTolerance(*flagTolerance)
	cfg.UserAgent = *flagUserAgent
	cfg.Circle = cfg.Circle.WithMinDiameter(*flagMinDiam).WithMaxErrorRatio(*flagMaxError)

	solver := must.M1(matchpair.NewSolver(cfg))
	start := time.Now()
	results, err := solver.Run(ctx)
	if err != nil {
		klog.Exitf("After %d round(s) in %s: %+v", len(results), time.Since(start), err)
	}
	klog.Infof("All %d rounds solved in %s", len(results), time.Since(start))
}
