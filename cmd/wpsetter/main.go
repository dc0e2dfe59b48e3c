package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dixieflatline76/wpsetter/util/log"

	_ "github.com/dixieflatline76/wpsetter/pkg/wallpaper/providers/imgur"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(exitCode(err))
	}
}
