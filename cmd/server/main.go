package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"centralTodoPlanner/internal/auth"
	"centralTodoPlanner/internal/config"
	"centralTodoPlanner/internal/db"
	"centralTodoPlanner/internal/httpapi"
	"centralTodoPlanner/repository"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}()

	users := repository.NewUserRepository(d)
	tasks := repository.NewTaskRepository(d)
	settings := repository.NewSettingsRepository(d)

	// Seed the bootstrap admin on first run (empty users table).
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := users.EnsureBootstrapAdmin(seedCtx, cfg.Bootstrap.AdminUsername, auth.MakeHash(cfg.Bootstrap.AdminPassword)); err != nil {
		seedCancel()
		log.Fatalf("bootstrap admin: %v", err)
	}
	seedCancel()

	// Start HTTP
	shutdown, err := httpapi.StartHTTP(cfg, users, tasks, settings)
	if err != nil {
		log.Fatalf("start http: %v", err)
	}
	log.Printf("HTTP server listening on %s", cfg.HTTP.Address)

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
