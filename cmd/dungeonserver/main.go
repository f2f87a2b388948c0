// Package main provides the dungeon server binary that exposes a generator
// over gRPC and optionally archives every dungeon in PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/dungeon"
	"github.com/cory-johannsen/dungeon/internal/dungeonservice"
	"github.com/cory-johannsen/dungeon/internal/observability"
	"github.com/cory-johannsen/dungeon/internal/server"
	"github.com/cory-johannsen/dungeon/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	presetName := flag.String("preset", "", "generator preset to start with; empty = config generator section")
	presetsDir := flag.String("presets-dir", "presets", "path to preset YAML directory")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting dungeon server",
		zap.String("grpc_addr", cfg.GRPC.Addr()),
		zap.Bool("archive", cfg.Database.Enabled),
	)

	genCfg := cfg.Generator
	if *presetName != "" {
		presets, err := dungeon.LoadPresetsFromDir(*presetsDir)
		if err != nil {
			logger.Fatal("loading presets", zap.Error(err))
		}
		p, ok := dungeon.FindPreset(presets, *presetName)
		if !ok {
			logger.Fatal("unknown preset", zap.String("preset", *presetName))
		}
		genCfg = p.Config
		logger.Info("using preset", zap.String("preset", p.Name))
	}

	gen, err := dungeon.NewGenerator(genCfg, logger.Named("generator"))
	if err != nil {
		logger.Fatal("creating generator", zap.Error(err))
	}
	logger.Info("generator ready",
		append(observability.GeneratorFields(genCfg), zap.Int64("effective_seed", gen.Seed()))...,
	)

	lifecycle := server.NewLifecycle(logger)

	var store dungeonservice.Store
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		store = postgres.NewDungeonRepository(pool.DB())

		health := &server.PeriodicService{
			Name:     "postgres-health",
			Interval: cfg.Database.HealthInterval,
			Logger:   logger,
			Fn: func(ctx context.Context) error {
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					return err
				}
				stats := pool.Stats()
				logger.Debug("database healthy",
					zap.Int32("conns", stats.Total),
					zap.Int32("idle", stats.Idle),
					zap.Int32("acquired", stats.Acquired),
				)
				return nil
			},
		}
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: health.Start,
			StopFn: func() {
				health.Stop()
				pool.Close()
			},
		})
	}

	svc := dungeonservice.NewServer(gen, store, cfg.GRPC.ArchiveTimeout, logger.Named("service"))

	grpcServer := grpc.NewServer()
	healthServer := dungeonservice.Register(grpcServer, svc)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr())
	if err != nil {
		logger.Fatal("listening", zap.Error(fmt.Errorf("listening on %s: %w", cfg.GRPC.Addr(), err)))
	}
	logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	grpcSvc := server.NewGRPCService(grpcServer, lis)
	lifecycle.Add("grpc", &server.FuncService{
		StartFn: grpcSvc.Start,
		StopFn: func() {
			healthServer.Shutdown()
			grpcSvc.Stop()
		},
	})

	logger.Info("dungeon server initialized",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
