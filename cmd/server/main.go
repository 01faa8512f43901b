// Command server runs the admin backend HTTP server.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables.
// When APP_ENV=local, variables are additionally read from .env.local.
//
// The server shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/risinglab/rising-backend/internal/app"
)

func main() {
	if os.Getenv("APP_ENV") == "local" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.Printf("warning: .env.local not loaded: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
