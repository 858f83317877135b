package main

import (
	"Drivebox/database"
	"Drivebox/internal/config"
	"Drivebox/internal/server"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configurationPath := flag.String("config", config.DefaultConfigurationPath, "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfiguration(*configurationPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := InitializeServer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	defer database.CloseDatabase(srv.DB)

	if err := srv.JanitorService.StartCleanCycle(); err != nil {
		log.Fatalf("Failed to schedule janitor: %v", err)
	}
	defer srv.JanitorService.StopClean()

	app := server.NewApp(srv, cfg)
	go func() {
		<-ctx.Done()
		srv.LogService.Log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			srv.LogService.Log.WithError(err).Error("shutdown failed")
		}
	}()

	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		srv.LogService.Log.WithError(err).Error("Failed to start server")
	}
}
