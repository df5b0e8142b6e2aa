// apiserver runs the stuntmap HTTP API with configuration taken from a
// file (first argument or STUNTMAP_CONFIG) or the environment.  It is the
// container entry point; the stuntmap CLI wraps the same wiring with
// flags and subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gizitrack/stuntmap/internal/app"
	"github.com/gizitrack/stuntmap/internal/config"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.RunServer(ctx, cfg, log)
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("STUNTMAP_CONFIG")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
