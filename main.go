package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gobenford/internal/config"
	"gobenford/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ui.Run(ctx, appConfig); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
