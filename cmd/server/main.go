// Package main provides the web shell entry point.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"tabulite/internal/config"
	"tabulite/internal/logging"
	"tabulite/ui"
)

func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Component: "server",
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
	})
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	server, err := ui.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}
	if err := server.Start(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
