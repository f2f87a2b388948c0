// Package dungeon generates 2D tile dungeons from a seeded configuration and
// hands out independent snapshots for rendering collaborators.
package dungeon

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid dungeon config")

// Config holds the parameters of one dungeon generation.
type Config struct {
	Width           int     `mapstructure:"width" yaml:"width" json:"width"`
	Height          int     `mapstructure:"height" yaml:"height" json:"height"`
	MinRooms        int     `mapstructure:"min_rooms" yaml:"min_rooms" json:"minRooms"`
	MaxRooms        int     `mapstructure:"max_rooms" yaml:"max_rooms" json:"maxRooms"`
	MinRoomSize     int     `mapstructure:"min_room_size" yaml:"min_room_size" json:"minRoomSize"`
	MaxRoomSize     int     `mapstructure:"max_room_size" yaml:"max_room_size" json:"maxRoomSize"`
	ComplexityLevel float64 `mapstructure:"complexity_level" yaml:"complexity_level" json:"complexityLevel"`
	CorridorWidth   int     `mapstructure:"corridor_width" yaml:"corridor_width" json:"corridorWidth"`
	OverlapChance   float64 `mapstructure:"overlap_chance" yaml:"overlap_chance" json:"overlapChance"`
	// Seed is optional; nil means a seed is chosen when the Generator is built.
	Seed *int64 `mapstructure:"seed" yaml:"seed" json:"seed,omitempty"`
}

// DefaultConfig returns a medium-sized dungeon configuration without a seed.
func DefaultConfig() Config {
	return Config{
		Width:           50,
		Height:          50,
		MinRooms:        5,
		MaxRooms:        10,
		MinRoomSize:     4,
		MaxRoomSize:     10,
		ComplexityLevel: 0.5,
		CorridorWidth:   1,
		OverlapChance:   0.2,
	}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if the configuration is valid, or an error
// wrapping ErrInvalidConfig that describes every violation.
func (c Config) Validate() error {
	var errs []string

	if c.MinRoomSize < 1 {
		errs = append(errs, fmt.Sprintf("min_room_size must be >= 1, got %d", c.MinRoomSize))
	}
	if c.MinRoomSize > c.MaxRoomSize {
		errs = append(errs, fmt.Sprintf("min_room_size (%d) must not exceed max_room_size (%d)", c.MinRoomSize, c.MaxRoomSize))
	}
	if c.MinRooms < 1 {
		errs = append(errs, fmt.Sprintf("min_rooms must be >= 1, got %d", c.MinRooms))
	}
	if c.MinRooms > c.MaxRooms {
		errs = append(errs, fmt.Sprintf("min_rooms (%d) must not exceed max_rooms (%d)", c.MinRooms, c.MaxRooms))
	}
	// One minimum-size room plus a one-tile margin on each side.
	minExtent := c.MinRoomSize + 2
	if c.Width < minExtent {
		errs = append(errs, fmt.Sprintf("width must be >= %d to host a room of size %d, got %d", minExtent, c.MinRoomSize, c.Width))
	}
	if c.Height < minExtent {
		errs = append(errs, fmt.Sprintf("height must be >= %d to host a room of size %d, got %d", minExtent, c.MinRoomSize, c.Height))
	}
	if c.ComplexityLevel < 0 || c.ComplexityLevel > 1 {
		errs = append(errs, fmt.Sprintf("complexity_level must be in [0, 1], got %g", c.ComplexityLevel))
	}
	if c.OverlapChance < 0 || c.OverlapChance > 1 {
		errs = append(errs, fmt.Sprintf("overlap_chance must be in [0, 1], got %g", c.OverlapChance))
	}
	if c.CorridorWidth < 1 {
		errs = append(errs, fmt.Sprintf("corridor_width must be >= 1, got %d", c.CorridorWidth))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// clone returns a copy of c that shares no pointers with it.
func (c Config) clone() Config {
	out := c
	if c.Seed != nil {
		seed := *c.Seed
		out.Seed = &seed
	}
	return out
}

// ConfigPatch is a partial Config; nil fields are left unchanged by Apply.
type ConfigPatch struct {
	Width           *int     `json:"width,omitempty"`
	Height          *int     `json:"height,omitempty"`
	MinRooms        *int     `json:"minRooms,omitempty"`
	MaxRooms        *int     `json:"maxRooms,omitempty"`
	MinRoomSize     *int     `json:"minRoomSize,omitempty"`
	MaxRoomSize     *int     `json:"maxRoomSize,omitempty"`
	ComplexityLevel *float64 `json:"complexityLevel,omitempty"`
	CorridorWidth   *int     `json:"corridorWidth,omitempty"`
	OverlapChance   *float64 `json:"overlapChance,omitempty"`
	Seed            *int64   `json:"seed,omitempty"`
}

// Apply returns c with every non-nil field of p merged in.
//
// Postcondition: c itself is not modified.
func (p ConfigPatch) Apply(c Config) Config {
	out := c.clone()
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&out.Width, p.Width)
	setInt(&out.Height, p.Height)
	setInt(&out.MinRooms, p.MinRooms)
	setInt(&out.MaxRooms, p.MaxRooms)
	setInt(&out.MinRoomSize, p.MinRoomSize)
	setInt(&out.MaxRoomSize, p.MaxRoomSize)
	setFloat(&out.ComplexityLevel, p.ComplexityLevel)
	setInt(&out.CorridorWidth, p.CorridorWidth)
	setFloat(&out.OverlapChance, p.OverlapChance)
	if p.Seed != nil {
		seed := *p.Seed
		out.Seed = &seed
	}
	return out
}

// RoomKind tags what a room entity represents.
type RoomKind int

// The closed set of room kinds.
const (
	KindRoom RoomKind = iota
	KindCorridor
	KindIntersection
)

var roomKindNames = map[RoomKind]string{
	KindRoom:         "room",
	KindCorridor:     "corridor",
	KindIntersection: "intersection",
}

// String returns the lowercase kind name.
func (k RoomKind) String() string {
	if name, ok := roomKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RoomKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k RoomKind) MarshalText() ([]byte, error) {
	name, ok := roomKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown room kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RoomKind) UnmarshalText(text []byte) error {
	for kind, name := range roomKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown room kind %q", string(text))
}

// Point is an integer tile coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Room is a working room entity owned by one generation run.
//
// Invariant: ConnectedTo is symmetric across the run's rooms.
type Room struct {
	ID     int
	X      int
	Y      int
	Width  int
	Height int
	Kind   RoomKind
	// ConnectedTo holds the IDs of rooms this room is linked to.
	ConnectedTo mapset.Set[int]
}

// newRoom returns an unconnected room of the given kind.
func newRoom(x, y, w, h int, kind RoomKind) *Room {
	return &Room{X: x, Y: y, Width: w, Height: h, Kind: kind, ConnectedTo: mapset.New[int]()}
}

// Center returns the geometric centre of the room's bounding box.
func (r *Room) Center() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// CenterTile returns the tile containing the room's centre.
//
// Postcondition: the returned point lies inside the room's bounds.
func (r *Room) CenterTile() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns Width * Height.
func (r *Room) Area() int {
	return r.Width * r.Height
}

// Overlaps reports whether r and o intersect on both axes.
func (r *Room) Overlaps(o *Room) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// Connections returns the connected room IDs in ascending order.
func (r *Room) Connections() []int {
	ids := make([]int, 0, r.ConnectedTo.Size())
	r.ConnectedTo.Each(func(id int) {
		ids = append(ids, id)
	})
	slices.Sort(ids)
	return ids
}

// Clone returns a deep copy of r.
func (r *Room) Clone() *Room {
	out := *r
	out.ConnectedTo = mapset.New[int]()
	r.ConnectedTo.Each(func(id int) {
		out.ConnectedTo.Put(id)
	})
	return &out
}

// connect links a and b symmetrically.
func connect(a, b *Room) {
	a.ConnectedTo.Put(b.ID)
	b.ConnectedTo.Put(a.ID)
}

// Door is an opening between two rooms.
type Door struct {
	X             int    `json:"x"`
	Y             int    `json:"y"`
	ConnectsRooms [2]int `json:"connectsRooms"`
}

// Metadata summarises a generated dungeon.
type Metadata struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// RoomCount counts KindRoom entities only.
	RoomCount int   `json:"roomCount"`
	Seed      int64 `json:"seed"`
	// UnroutedEdges counts connections for which no corridor path was found.
	UnroutedEdges int `json:"unroutedEdges,omitempty"`
}

// RoomData is the snapshot form of a Room.
type RoomData struct {
	ID          int      `json:"id"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Kind        RoomKind `json:"kind"`
	ConnectedTo []int    `json:"connectedTo"`
}

// Data is an independent snapshot of one generated dungeon.
//
// Invariant: Data never aliases generator working state.
type Data struct {
	Metadata Metadata   `json:"metadata"`
	Rooms    []RoomData `json:"rooms"`
	// Tilemap is indexed [y][x].
	Tilemap [][]Tile `json:"tilemap"`
	Doors   []Door   `json:"doors"`
}

// Room returns the room with the given ID.
//
// Postcondition: Returns (room, true) if found, or (RoomData{}, false) otherwise.
func (d Data) Room(id int) (RoomData, bool) {
	for _, r := range d.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return RoomData{}, false
}

// TileAt returns the tile at (x, y), or TileWall outside the map.
func (d Data) TileAt(x, y int) Tile {
	if y < 0 || y >= len(d.Tilemap) || x < 0 || x >= len(d.Tilemap[y]) {
		return TileWall
	}
	return d.Tilemap[y][x]
}
