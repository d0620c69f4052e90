package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ayusman/airkeys/internal/cli"
)

func init() {
	// the preview window and the tray menu must run on the main thread
	runtime.LockOSThread()
}

func main() {
	// cancel the running command on SIGINT or SIGTERM so it can close the
	// camera and finish the history session
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
