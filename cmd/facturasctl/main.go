// Command facturasctl runs the invoice calculator and the extraction
// reconciler offline, and provisions operator accounts.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"facturas/internal/config"
	"facturas/internal/logger"
)

func main() {
	_ = godotenv.Load()

	opts := logger.Options{Level: "info", Format: "console", Output: os.Stderr}
	if cfg, err := config.Load(); err == nil {
		opts = logger.FromConfig(cfg.Log)
		opts.Output = os.Stderr
	}
	if err := logger.Setup(opts); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
