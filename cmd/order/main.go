package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/nastyazhadan/restaurant-order/internal/app/order"
	"github.com/nastyazhadan/restaurant-order/internal/config"
)

func main() {
	envPath := flag.String("env", ".env", "path to an optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envPath)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = order.Run(ctx, cfg); err != nil {
		log.Fatalf("order.Run: %v", err)
	}
}
