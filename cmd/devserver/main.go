// Command devserver runs Shanghai as a standalone websocket server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shanghai/internal/bot"
	"shanghai/internal/config"
	"shanghai/internal/logging"
	"shanghai/internal/ports/ws"
)

func main() {
	configPath := flag.String("config", "", "path to a .toml or .json config file")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	debug := flag.Bool("debug", false, "human readable debug logging")
	flag.Parse()

	logger, err := logging.NewProduction(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.ListenAddr = *addr
	}
	if cfg.Bots.IdentitiesPath != "" {
		if err := bot.LoadIdentities(cfg.Bots.IdentitiesPath); err != nil {
			logger.Warn("Bot identities not loaded: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := ws.NewServer(cfg, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("Server shut down.")
}
