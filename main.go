package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"example.com/socialmedia/cmd/server"
	config "example.com/socialmedia/internal/init"
	"example.com/socialmedia/internal/store"
)

func main() {
	// Initialize application configuration
	cfg := config.Init()

	// Setup OS signal handling for graceful shutdown (SIGINT, SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Postgres store connection (runs migrations)
	st, err := store.New(ctx)
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}
	defer st.Close()

	server.Run(ctx, st, cfg)

	log.Println("Shutdown completed")
}
