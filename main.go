package main

import (
	"github.com/joho/godotenv"

	"github.com/avasilenko/scribe/internal/config"
	"github.com/avasilenko/scribe/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// Optional .env file for local development; env vars win either way
	_ = godotenv.Load()

	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
