// Package main provides a one-shot CLI that generates a dungeon and prints it
// as ASCII art or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/dungeon"
	"github.com/cory-johannsen/dungeon/internal/observability"
	"github.com/cory-johannsen/dungeon/internal/storage/postgres"
)

// options holds parsed command-line flags.
type options struct {
	configPath string
	presetName string
	presetsDir string
	format     string
	save       bool
	seed       int64
	seedSet    bool
	listOnly   bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("dungeongen", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to configuration file (defaults and DUNGEON_* env when empty)")
	fs.StringVar(&o.presetName, "preset", "", "name of a generator preset to use instead of the config's generator section")
	fs.StringVar(&o.presetsDir, "presets-dir", "presets", "path to preset YAML directory")
	fs.StringVar(&o.format, "format", "ascii", "output format: ascii or json")
	fs.BoolVar(&o.save, "save", false, "archive the dungeon in PostgreSQL (requires database.enabled)")
	fs.Int64Var(&o.seed, "seed", 0, "seed override")
	fs.BoolVar(&o.listOnly, "list-presets", false, "list available presets and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seedSet = true
		}
	})
	if o.format != "ascii" && o.format != "json" {
		return options{}, fmt.Errorf("invalid format %q: must be ascii or json", o.format)
	}
	return o, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadFromViper(config.New())
	}
	return config.Load(path)
}

// generatorConfig resolves the generator configuration from the preset, if
// any, and applies the seed override.
func generatorConfig(o options, cfg config.Config) (dungeon.Config, error) {
	gen := cfg.Generator
	if o.presetName != "" {
		presets, err := dungeon.LoadPresetsFromDir(o.presetsDir)
		if err != nil {
			return dungeon.Config{}, fmt.Errorf("loading presets: %w", err)
		}
		p, ok := dungeon.FindPreset(presets, o.presetName)
		if !ok {
			return dungeon.Config{}, fmt.Errorf("unknown preset %q", o.presetName)
		}
		gen = p.Config
	}
	if o.seedSet {
		gen.Seed = &o.seed
	}
	return gen, nil
}

func write(w io.Writer, format string, data dungeon.Data) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	_, err := io.WriteString(w, dungeon.Render(data))
	return err
}

func listPresets(w io.Writer, dir string) error {
	presets, err := dungeon.LoadPresetsFromDir(dir)
	if err != nil {
		return err
	}
	for _, p := range presets {
		if _, err := fmt.Fprintf(w, "%-16s %dx%d  %s\n", p.Name, p.Config.Width, p.Config.Height, p.Description); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	start := time.Now()

	o, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	if o.listOnly {
		if err := listPresets(os.Stdout, o.presetsDir); err != nil {
			log.Fatalf("listing presets: %v", err)
		}
		return
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	genCfg, err := generatorConfig(o, cfg)
	if err != nil {
		logger.Fatal("resolving generator config", zap.Error(err))
	}

	gen, err := dungeon.NewGenerator(genCfg, logger)
	if err != nil {
		logger.Fatal("creating generator", zap.Error(err))
	}
	data, err := gen.Generate(false)
	if err != nil {
		logger.Fatal("generating dungeon", zap.Error(err))
	}

	if o.save {
		if !cfg.Database.Enabled {
			logger.Fatal("-save requires database.enabled")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		id, err := postgres.NewDungeonRepository(pool.DB()).Save(ctx, gen.Config(), data)
		if err != nil {
			logger.Fatal("archiving dungeon", zap.Error(err))
		}
		logger.Info("dungeon archived", zap.String("id", id.String()))
	}

	if err := write(os.Stdout, o.format, data); err != nil {
		logger.Fatal("writing output", zap.Error(err))
	}

	logger.Info("done",
		append(observability.DungeonFields(data.Metadata),
			zap.Duration("elapsed", time.Since(start)),
		)...,
	)
}
