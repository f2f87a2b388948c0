package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dungeon/internal/dungeon"
)

// ErrDungeonNotFound is returned when an archive lookup yields no results.
var ErrDungeonNotFound = errors.New("dungeon not found")

// maxListLimit caps ListRecent page sizes.
const maxListLimit = 100

// ArchivedDungeon is a generated dungeon together with the configuration
// that produced it.
type ArchivedDungeon struct {
	ID        uuid.UUID
	Config    dungeon.Config
	Data      dungeon.Data
	CreatedAt time.Time
}

// DungeonSummary is the lightweight listing form of an archived dungeon.
type DungeonSummary struct {
	ID        uuid.UUID
	Seed      int64
	Width     int
	Height    int
	RoomCount int
	CreatedAt time.Time
}

// DungeonRepository persists generated dungeons as JSONB documents.
type DungeonRepository struct {
	db *pgxpool.Pool
}

// NewDungeonRepository creates a DungeonRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewDungeonRepository(db *pgxpool.Pool) *DungeonRepository {
	return &DungeonRepository{db: db}
}

// Save archives data with the configuration that generated it.
//
// Postcondition: Returns the new archive ID, or a non-nil error.
func (r *DungeonRepository) Save(ctx context.Context, cfg dungeon.Config, data dungeon.Data) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx,
		`INSERT INTO dungeons (id, seed, width, height, room_count, config, snapshot)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, data.Metadata.Seed, data.Metadata.Width, data.Metadata.Height,
		data.Metadata.RoomCount, cfg, data,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting dungeon: %w", err)
	}
	return id, nil
}

// Get loads an archived dungeon by ID.
//
// Postcondition: Returns the archived dungeon, or ErrDungeonNotFound.
func (r *DungeonRepository) Get(ctx context.Context, id uuid.UUID) (ArchivedDungeon, error) {
	a := ArchivedDungeon{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT config, snapshot, created_at FROM dungeons WHERE id = $1`,
		id,
	).Scan(&a.Config, &a.Data, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ArchivedDungeon{}, ErrDungeonNotFound
		}
		return ArchivedDungeon{}, fmt.Errorf("querying dungeon %s: %w", id, err)
	}
	return a, nil
}

// ListRecent returns up to limit archived dungeons, newest first.
//
// Precondition: limit must be positive; values above 100 are capped.
// Postcondition: Returns summaries ordered by CreatedAt descending.
func (r *DungeonRepository) ListRecent(ctx context.Context, limit int) ([]DungeonSummary, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	limit = min(limit, maxListLimit)

	rows, err := r.db.Query(ctx,
		`SELECT id, seed, width, height, room_count, created_at
		 FROM dungeons ORDER BY created_at DESC, id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing dungeons: %w", err)
	}
	defer rows.Close()

	var out []DungeonSummary
	for rows.Next() {
		var s DungeonSummary
		if err := rows.Scan(&s.ID, &s.Seed, &s.Width, &s.Height, &s.RoomCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning dungeon row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dungeon rows: %w", err)
	}
	return out, nil
}

// Delete removes an archived dungeon.
//
// Postcondition: Returns ErrDungeonNotFound when no row matched.
func (r *DungeonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dungeons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting dungeon %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDungeonNotFound
	}
	return nil
}
