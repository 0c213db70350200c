package main

import (
	"fmt"
	"log"
	"os"

	"loantrack/internal/api"
	"loantrack/internal/config"
	"loantrack/internal/db"
	"loantrack/internal/events"
	redisdb "loantrack/internal/redis"
	"loantrack/internal/upload"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}

	rdb := redisdb.NewClient(cfg)
	if rdb == nil {
		log.Printf("[Main] No redis configured; session revocation disabled")
	}

	uploads, err := upload.New(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload dir error: %v\n", err)
		os.Exit(1)
	}

	hub := events.NewHub()
	go hub.Run()

	r := api.SetupRouter(cfg, rdb, hub, uploads)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("[Main] Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
