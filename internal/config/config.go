package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/sketch/internal/engine"
	"github.com/inamate/sketch/internal/hittest"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	SessionSecret  string        `envconfig:"SESSION_SECRET" default:"dev-secret-change-in-production"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`

	CanvasWidth  int `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight int `envconfig:"CANVAS_HEIGHT" default:"720"`

	EdgeTolerance      float64 `envconfig:"EDGE_TOLERANCE" default:"10"`
	LineTolerance      float64 `envconfig:"LINE_TOLERANCE" default:"1"`
	TextBaselineOffset float64 `envconfig:"TEXT_BASELINE_OFFSET" default:"16"`

	ClearRedoOnCommit  bool `envconfig:"CLEAR_REDO_ON_COMMIT" default:"false"`
	DiscardEmptyShapes bool `envconfig:"DISCARD_EMPTY_SHAPES" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) HitOptions() hittest.Options {
	return hittest.Options{
		EdgeTolerance:      c.EdgeTolerance,
		LineTolerance:      c.LineTolerance,
		TextBaselineOffset: c.TextBaselineOffset,
	}
}

// EngineOptions returns the engine options the configuration controls.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithHitOptions(c.HitOptions()),
		engine.WithClearRedoOnCommit(c.ClearRedoOnCommit),
		engine.WithDiscardEmptyShapes(c.DiscardEmptyShapes),
	}
}

// SlogLevel parses LogLevel, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
