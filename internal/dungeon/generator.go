package dungeon

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/rng"
)

// minCorridorRoomPath is the path length above which a routed connection is
// also reported as a KindCorridor entity.
const minCorridorRoomPath = 4

// Layout is a cached base layout: the merged, unconnected rooms of a run
// together with the random stream position reached after placing them.
type Layout struct {
	rooms []*Room
	src   rng.LCG
}

// Len returns the number of base rooms.
func (l *Layout) Len() int {
	return len(l.rooms)
}

// Bounds returns snapshots of the base rooms.
func (l *Layout) Bounds() []RoomData {
	out := make([]RoomData, len(l.rooms))
	for i, r := range l.rooms {
		out[i] = roomData(r)
	}
	return out
}

// fits reports whether every base room lies inside a width x height map.
func (l *Layout) fits(width, height int) bool {
	for _, r := range l.rooms {
		if r.X < 0 || r.Y < 0 || r.X+r.Width > width || r.Y+r.Height > height {
			return false
		}
	}
	return true
}

// restore returns deep copies of the base rooms and a resumed random stream.
func (l *Layout) restore() ([]*Room, *rng.LCG) {
	rooms := make([]*Room, len(l.rooms))
	for i, r := range l.rooms {
		rooms[i] = r.Clone()
	}
	src := l.src
	return rooms, &src
}

func newLayout(rooms []*Room, src *rng.LCG) *Layout {
	l := &Layout{rooms: make([]*Room, len(rooms)), src: *src}
	for i, r := range rooms {
		l.rooms[i] = r.Clone()
	}
	return l
}

// scratch is the mutable working state of one generation run.
//
// Invariant: rooms[i].ID == i for every room.
type scratch struct {
	cfg      Config
	rooms    []*Room
	tiles    *Tilemap
	doors    []Door
	edges    []Edge
	paths    [][]Point
	unrouted int
}

// Generate runs one complete generation of cfg with the given seed. When base
// is nil the room layout is rolled from scratch; otherwise base's rooms are
// reused and every stage after layout is rebuilt. A base
// layout that no longer fits the configured map is discarded and re-rolled.
//
// Generate holds no state between calls: identical (cfg, seed, base) inputs
// yield identical snapshots.
//
// Precondition: cfg must be valid.
// Postcondition: Returns an independent snapshot and the base layout it was
// built on (base itself when it was reused), or an error wrapping ErrInvalidConfig.
func Generate(cfg Config, seed int64, base *Layout) (Data, *Layout, error) {
	s, base, err := run(cfg, seed, base)
	if err != nil {
		return Data{}, nil, err
	}
	return s.snapshot(seed), base, nil
}

// run performs the generation stages and returns the working state along
// with the base layout it was built on.
func run(cfg Config, seed int64, base *Layout) (*scratch, *Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if base != nil && !base.fits(cfg.Width, cfg.Height) {
		base = nil
	}

	var rooms []*Room
	var src *rng.LCG
	if base != nil {
		rooms, src = base.restore()
	} else {
		src = rng.NewLCG(seed)
		rooms = layoutRooms(cfg, src)
		base = newLayout(rooms, src)
	}

	s := &scratch{cfg: cfg, rooms: rooms, tiles: NewTilemap(cfg.Width, cfg.Height)}
	s.tiles.CarveRooms(s.rooms)
	s.edges = BuildConnections(s.rooms, cfg.ComplexityLevel, src)
	s.routeCorridors()
	s.doors = placeDoors(s.rooms, s.tiles)

	return s, base, nil
}

// routeCorridors finds and carves a corridor for every connection edge.
// Connections with no route are counted and left uncarved.
func (s *scratch) routeCorridors() {
	for _, e := range s.edges {
		a, b := s.rooms[e.A], s.rooms[e.B]
		start, goal := a.CenterTile(), b.CenterTile()

		path := FindPath(s.tiles, start, goal, s.cfg.CorridorWidth)
		if len(path) == 0 {
			s.unrouted++
			continue
		}
		s.tiles.CarveCorridor(path, s.cfg.CorridorWidth)
		s.paths = append(s.paths, path)

		if len(path) > minCorridorRoomPath {
			x, y := min(start.X, goal.X), min(start.Y, goal.Y)
			c := newRoom(x, y, abs(start.X-goal.X)+1, abs(start.Y-goal.Y)+1, KindCorridor)
			c.ID = len(s.rooms)
			s.rooms = append(s.rooms, c)
			connect(c, a)
			connect(c, b)
		}
	}
}

// snapshot copies the working state into a Data value.
func (s *scratch) snapshot(seed int64) Data {
	d := Data{
		Metadata: Metadata{
			Width:         s.cfg.Width,
			Height:        s.cfg.Height,
			Seed:          seed,
			UnroutedEdges: s.unrouted,
		},
		Rooms:   make([]RoomData, len(s.rooms)),
		Tilemap: s.tiles.Rows(),
		Doors:   make([]Door, len(s.doors)),
	}
	for i, r := range s.rooms {
		d.Rooms[i] = roomData(r)
		if r.Kind == KindRoom {
			d.Metadata.RoomCount++
		}
	}
	copy(d.Doors, s.doors)
	return d
}

func roomData(r *Room) RoomData {
	return RoomData{
		ID:          r.ID,
		X:           r.X,
		Y:           r.Y,
		Width:       r.Width,
		Height:      r.Height,
		Kind:        r.Kind,
		ConnectedTo: r.Connections(),
	}
}

// Generator owns a configuration, its effective seed, and the cached base
// layout between calls.
//
// Every Generate restarts the random stream from the stored seed, so repeated
// calls return the same dungeon even when the seed was chosen from the clock.
// Re-rolling requires UpdateConfig with a new Seed.
//
// Generator is not safe for concurrent use.
type Generator struct {
	cfg    Config
	seed   int64
	base   *Layout
	logger *zap.Logger
}

// NewGenerator validates cfg and returns a Generator. When cfg.Seed is nil a
// seed is derived from the current time and kept for the Generator's lifetime.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a Generator with no cached base layout, or an error
// wrapping ErrInvalidConfig.
func NewGenerator(cfg Config, logger *zap.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg.clone(), logger: logger}
	g.seed = seedOf(cfg)
	return g, nil
}

func seedOf(cfg Config) int64 {
	if cfg.Seed != nil {
		return *cfg.Seed
	}
	return time.Now().UnixNano()
}

// Generate builds a dungeon. With preserveBaseRooms set and a cached base
// layout present, room placement is restored from the cache and the later
// stages are rebuilt on top of it; otherwise placement is
// rolled from scratch and the cache is replaced.
//
// Postcondition: the returned Data shares no memory with the Generator or with
// previously returned snapshots.
func (g *Generator) Generate(preserveBaseRooms bool) (Data, error) {
	start := time.Now()

	var base *Layout
	if preserveBaseRooms {
		base = g.base
	}
	data, layout, err := Generate(g.cfg, g.seed, base)
	if err != nil {
		return Data{}, fmt.Errorf("generating dungeon: %w", err)
	}
	g.base = layout

	if data.Metadata.UnroutedEdges > 0 {
		g.logger.Warn("connections left without corridors",
			zap.Int64("seed", g.seed),
			zap.Int("unrouted", data.Metadata.UnroutedEdges),
		)
	}
	g.logger.Debug("dungeon generated",
		zap.Int64("seed", g.seed),
		zap.Bool("preserved", base != nil),
		zap.Int("rooms", data.Metadata.RoomCount),
		zap.Int("entities", len(data.Rooms)),
		zap.Int("doors", len(data.Doors)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

// Config returns a copy of the current configuration.
func (g *Generator) Config() Config {
	return g.cfg.clone()
}

// Seed returns the seed used by Generate.
func (g *Generator) Seed() int64 {
	return g.seed
}

// UpdateConfig merges p into the configuration. A supplied seed resets the
// random source and clears the cached base layout; otherwise the cache is
// kept.
//
// Postcondition: on error the Generator is unchanged.
func (g *Generator) UpdateConfig(p ConfigPatch) error {
	next := p.Apply(g.cfg)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("updating config: %w", err)
	}
	g.cfg = next
	if p.Seed != nil {
		g.seed = *p.Seed
		g.base = nil
		g.logger.Debug("seed changed, base layout cleared", zap.Int64("seed", g.seed))
	}
	return nil
}

// ClearBaseRooms drops the cached base layout.
func (g *Generator) ClearBaseRooms() {
	g.base = nil
}

// HasBaseRooms reports whether a base layout is cached.
func (g *Generator) HasBaseRooms() bool {
	return g.base != nil
}

// BaseRooms returns snapshots of the cached base rooms, or nil when no layout
// is cached.
func (g *Generator) BaseRooms() []RoomData {
	if g.base == nil {
		return nil
	}
	return g.base.Bounds()
}
