// Package observability provides logging utilities shared by the dungeon binaries.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/dungeon"
)

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.Sampling = nil

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// DungeonFields returns the standard fields describing a generated dungeon.
//
// Postcondition: Returns the same field keys on every call.
func DungeonFields(m dungeon.Metadata) []zap.Field {
	return []zap.Field{
		zap.Int64("seed", m.Seed),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.Int("rooms", m.RoomCount),
		zap.Int("unrouted", m.UnroutedEdges),
	}
}

// GeneratorFields returns fields describing a generator configuration.
func GeneratorFields(cfg dungeon.Config) []zap.Field {
	fields := []zap.Field{
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("min_rooms", cfg.MinRooms),
		zap.Int("max_rooms", cfg.MaxRooms),
		zap.Float64("complexity_level", cfg.ComplexityLevel),
		zap.Int("corridor_width", cfg.CorridorWidth),
	}
	if cfg.Seed != nil {
		fields = append(fields, zap.Int64("seed", *cfg.Seed))
	}
	return fields
}
