package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tguichaoua/promised-sqlite3/pkg/gateway"
	"github.com/tguichaoua/promised-sqlite3/pkg/logging"
)

func setupLogger(colors bool, outputFile string) *logging.ColoredLogger {
	var logger *logging.ColoredLogger
	var err error
	if outputFile != "" {
		logger, err = logging.NewFileLogger(logging.ComponentGateway, outputFile, false)
	} else {
		logger, err = logging.NewColoredLogger(logging.ComponentGateway, colors)
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	cfg := parseGatewayConfig()
	logger := setupLogger(cfg.Logging.Colors, cfg.Logging.OutputFile)

	g, err := gateway.New(logger, cfg)
	if err != nil {
		logger.ComponentError(logging.ComponentGateway, "failed to initialize gateway", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		logger.ComponentInfo(logging.ComponentGateway, "Shutting down gateway HTTP server...")
		cancel()
	}()

	if err := g.Start(ctx); err != nil {
		logger.ComponentError(logging.ComponentGateway, "gateway stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
