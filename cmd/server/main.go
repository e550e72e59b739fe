package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benbeisheim/mindchess/internal/config"
	"github.com/benbeisheim/mindchess/internal/server"
	"github.com/benbeisheim/mindchess/internal/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "mindchess",
		ReportTimestamp: true,
		Level:           cfg.LogLevel,
	})

	// Initialize services
	gameManager := service.NewGameManager(logger)
	gameService := service.NewGameService(gameManager, cfg.DefaultWhite, cfg.DefaultBlack, logger)

	app := server.New(cfg, gameService, logger)

	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Fatal("server stopped", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
