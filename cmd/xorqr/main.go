// Command xorqr solves the XORQR challenge: the server sends QR codes whose
// columns were XORed with a secret row, and wants each one decoded.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"asis-solvers/internal/app"
	"asis-solvers/internal/version"
	"asis-solvers/internal/xorqr"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagAddr    = flag.String("addr", xorqr.DefaultConfig().Addr, "host:port of the challenge server.")
	flagShow    = flag.Bool("show", false, "Draw every unmasked QR code on stdout.")
	flagVersion = flag.Bool("version", false, "Print version and exit.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagVersion {
		fmt.Println(version.String())
		return
	}
	app.Banner("xorqr")

	ctx, cancel := app.Context(3 * time.Second)
	defer cancel()

	client := must.M1(xorqr.Dial(ctx, xorqr.DefaultConfig().WithAddr(*flagAddr)))
	defer client.Close()
	if *flagShow {
		styled := xorqr.IsTerminal(os.Stdout)
		client.OnMatrix = func(qr [][]bool) {
			fmt.Print(xorqr.Render(qr, styled))
		}
	}

	result, err := client.Run(ctx)
	if err != nil {
		klog.Exitf("After %d answer(s): %+v", len(result.Answers), err)
	}
	klog.Infof("Answered %d QR codes", len(result.Answers))
	for _, line := range result.Trailer {
		fmt.Println(line)
	}
}
