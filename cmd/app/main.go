package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"FutScan/internal/di"
	"FutScan/pkg/config"
)

func main() {
	// Load .env if present; real env vars take precedence.
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s exchanges=%v timeframes=%v", cfg.Environment, cfg.Exchanges.Priority, cfg.Scan.Timeframes)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
