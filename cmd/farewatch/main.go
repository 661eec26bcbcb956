package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NasaVasa/farewatch/internal/app"
	"github.com/NasaVasa/farewatch/internal/config"
)

const (
	exitOK     = 0
	exitConfig = 2
	exitFailed = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		if errors.Is(err, config.ErrInvalidConfig) {
			fmt.Fprintln(os.Stderr, "set FLIGHT_PROVIDER=mock to run without provider credentials")
		}
		return exitConfig
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize farewatch:", err)
		return exitFailed
	}
	defer application.Shutdown()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "farewatch stopped with error:", err)
		return exitFailed
	}
	return exitOK
}
