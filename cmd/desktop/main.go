package main

import (
	"log/slog"
	"os"

	"github.com/inamate/sketch/internal/config"
	"github.com/inamate/sketch/internal/desktop"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := desktop.Run(cfg.CanvasWidth, cfg.CanvasHeight, cfg.EngineOptions()...); err != nil {
		slog.Error("desktop", "error", err)
		os.Exit(1)
	}
}
