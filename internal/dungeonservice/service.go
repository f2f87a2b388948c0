package dungeonservice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/dungeon/internal/dungeon"
	"github.com/cory-johannsen/dungeon/internal/observability"
	"github.com/cory-johannsen/dungeon/internal/storage/postgres"
)

// Store archives generated dungeons. *postgres.DungeonRepository satisfies it.
type Store interface {
	Save(ctx context.Context, cfg dungeon.Config, data dungeon.Data) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (postgres.ArchivedDungeon, error)
}

var _ Store = (*postgres.DungeonRepository)(nil)

// Server implements DungeonServiceServer around a single Generator.
// Calls are serialized; the Generator itself is not safe for concurrent use.
type Server struct {
	mu  sync.Mutex
	gen *dungeon.Generator

	store          Store
	archiveTimeout time.Duration
	logger         *zap.Logger
}

// NewServer returns a Server that generates with gen and, when store is
// non-nil, archives every generated dungeon. A non-positive archiveTimeout
// leaves archive writes bounded only by the request context.
//
// Precondition: gen and logger must be non-nil.
func NewServer(gen *dungeon.Generator, store Store, archiveTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		gen:            gen,
		store:          store,
		archiveTimeout: archiveTimeout,
		logger:         logger,
	}
}

// Generate builds a dungeon and archives it when a store is configured.
// Archive failures are logged and leave ArchiveID empty.
func (s *Server) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	s.mu.Lock()
	data, err := s.gen.Generate(req.PreserveBaseRooms)
	cfg := s.gen.Config()
	s.mu.Unlock()
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &GenerateResponse{Dungeon: data}
	if req.Render {
		resp.ASCII = dungeon.Render(data)
	}
	if s.store != nil {
		resp.ArchiveID = s.archive(ctx, cfg, data)
	}

	s.logger.Info("dungeon generated",
		append(observability.DungeonFields(data.Metadata),
			zap.Bool("preserved", req.PreserveBaseRooms),
			zap.String("archive_id", resp.ArchiveID),
		)...,
	)
	return resp, nil
}

func (s *Server) archive(ctx context.Context, cfg dungeon.Config, data dungeon.Data) string {
	if s.archiveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.archiveTimeout)
		defer cancel()
	}
	id, err := s.store.Save(ctx, cfg, data)
	if err != nil {
		s.logger.Warn("archiving dungeon failed",
			zap.Int64("seed", data.Metadata.Seed),
			zap.Error(err),
		)
		return ""
	}
	return id.String()
}

// GetConfig returns the current configuration and effective seed.
func (s *Server) GetConfig(_ context.Context, _ *Empty) (*ConfigResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &ConfigResponse{Config: s.gen.Config(), Seed: s.gen.Seed()}, nil
}

// UpdateConfig merges req.Patch into the configuration.
//
// Postcondition: an invalid patch yields codes.InvalidArgument and leaves the
// configuration unchanged.
func (s *Server) UpdateConfig(_ context.Context, req *UpdateConfigRequest) (*ConfigResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gen.UpdateConfig(req.Patch); err != nil {
		return nil, toStatus(err)
	}
	cfg := s.gen.Config()
	s.logger.Info("generator config updated", observability.GeneratorFields(cfg)...)
	return &ConfigResponse{Config: cfg, Seed: s.gen.Seed()}, nil
}

// ClearBaseRooms drops the cached base layout.
func (s *Server) ClearBaseRooms(_ context.Context, _ *Empty) (*Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen.ClearBaseRooms()
	return &Empty{}, nil
}

// BaseRooms reports whether a base layout is cached, with its rooms.
func (s *Server) BaseRooms(_ context.Context, _ *Empty) (*BaseRoomsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &BaseRoomsResponse{HasBaseRooms: s.gen.HasBaseRooms(), Rooms: s.gen.BaseRooms()}, nil
}

// GetArchived loads an archived dungeon.
func (s *Server) GetArchived(ctx context.Context, req *GetArchivedRequest) (*ArchivedResponse, error) {
	if s.store == nil {
		return nil, status.Error(codes.FailedPrecondition, "archiving is disabled")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid dungeon id %q: %v", req.ID, err)
	}
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ArchivedResponse{
		ID:        a.ID.String(),
		Config:    a.Config,
		Dungeon:   a.Data,
		CreatedAt: a.CreatedAt,
	}, nil
}

// toStatus maps domain errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, dungeon.ErrInvalidConfig):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, postgres.ErrDungeonNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
