package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"keyword-research/internal/app"
	"keyword-research/internal/config"
	"keyword-research/internal/handler"
	"keyword-research/pkg/logger"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	application := &Application{}

	flag.StringVar(&application.configPath, "config", "config/dev.yaml", "Configuration file path")
	flag.BoolVar(&application.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := application.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.NewManager().Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Logger.Level = "debug"
	}

	logger.SetLogger(logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))
	log := logger.Component("server")

	research, err := app.NewBuilder().WithConfig(cfg).Build(ctx)
	if err != nil {
		return err
	}
	defer research.Close()

	server := handler.NewApp(handler.ServerConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateLimits:   research.Limiter,
	}, research.Engine, research.Validator, research.Registry)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errChan := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Server started")
		errChan <- server.Listen(addr)
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server stopped: %w", err)
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")

	return nil
}
