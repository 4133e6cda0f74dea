package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/murmur/config"
	"github.com/adrianliechti/murmur/pkg/otel"
	"github.com/adrianliechti/murmur/server"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", os.Getenv("MURMUR_CONFIG"), "config file")
	addressFlag := flag.String("address", "", "listen address")
	debugFlag := flag.Bool("debug", false, "debug logging")

	flag.Parse()

	godotenv.Load()

	if *debugFlag {
		otel.EnableDebug = true
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "murmur", version)

	if err != nil {
		slog.Warn("telemetry setup failed", "error", err)
	}

	defer shutdown(context.Background())

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	defer cfg.Close()

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	s, err := server.New(cfg)

	if err != nil {
		slog.Error("unable to create server", "error", err)
		os.Exit(1)
	}

	if err := s.ListenAndServe(ctx); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
