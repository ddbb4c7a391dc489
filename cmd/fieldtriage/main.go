// Command fieldtriage triages logistics field worker questions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/fieldtriage/internal/adapters/driving/cli"
	"github.com/custodia-labs/fieldtriage/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(buildServices)

	err := cli.Execute(ctx)
	if cerr := cli.Shutdown(); cerr != nil {
		logger.Error("shutdown: %v", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
