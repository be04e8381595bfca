package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/turtacn/diabrisk/internal/bootstrap"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, bootstrap.Options{ConfigFile: *configFile})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer app.Close(context.Background())

	if err := app.Serve(ctx); err != nil {
		app.Logger.Error(context.Background(), "HTTP server failed", err)
		return
	}
	app.Logger.Info(context.Background(), "Server exited")
}
