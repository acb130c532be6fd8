package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/go-cart-engine/internal/app/catalog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := catalog.Run(ctx); err != nil {
		log.Fatalf("catalog api exited: %v", err)
	}
}
