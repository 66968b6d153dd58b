package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/curexhq/curex/internal/server"
	"github.com/curexhq/curex/internal/server/config"
)

func main() {

	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
