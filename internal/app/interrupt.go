// Package app holds process plumbing shared by the command line tools.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asis-solvers/internal/version"

	"k8s.io/klog/v2"
)

// Context returns a context cancelled on SIGINT or SIGTERM. If the program is
// still running gracePeriod after the signal, it exits.
func Context(gracePeriod time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sigChan:
			klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			return
		}
		time.Sleep(gracePeriod)
		klog.Fatalf("Graceful shutdown period of %s expired, exiting.", gracePeriod)
	}()
	return ctx, cancel
}

// Banner logs the tool name and build information.
func Banner(tool string) {
	klog.Infof("%s %s", tool, version.String())
}
