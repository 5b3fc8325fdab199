package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/classworks/classbot/internal/bot"
	"github.com/classworks/classbot/internal/config"
	"github.com/classworks/classbot/internal/database"
	"github.com/classworks/classbot/internal/health"
	"github.com/classworks/classbot/internal/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("classbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LoggerSettings()); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := bot.New(cfg, db)

	healthErr := make(chan error, 1)
	go func() {
		healthErr <- health.NewServer(cfg.Health.Listen).Run(ctx)
	}()

	runErr := app.Run(ctx)

	// The health server follows the same ctx; collect its exit.
	cancel()
	if err := <-healthErr; err != nil {
		logger.Error(context.Background(), "health", "serve.fail",
			slog.String("err", err.Error()),
		)
	}

	return runErr
}
