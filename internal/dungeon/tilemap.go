package dungeon

// Tile is one grid cell of the dungeon.
type Tile int

// Tile values as exposed to rendering collaborators.
const (
	TileWall  Tile = 0
	TileFloor Tile = 1
	TileDoor  Tile = 2
)

// Tilemap is a fixed-size grid of tiles, initially all walls.
//
// Invariant: len(tiles) == width * height.
type Tilemap struct {
	width  int
	height int
	tiles  []Tile
}

// NewTilemap returns a width x height grid of walls.
//
// Precondition: width > 0 and height > 0.
func NewTilemap(width, height int) *Tilemap {
	return &Tilemap{width: width, height: height, tiles: make([]Tile, width*height)}
}

// Width returns the number of columns.
func (m *Tilemap) Width() int { return m.width }

// Height returns the number of rows.
func (m *Tilemap) Height() int { return m.height }

// InBounds reports whether (x, y) lies inside the grid.
func (m *Tilemap) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// At returns the tile at (x, y); out-of-bounds coordinates read as walls.
func (m *Tilemap) At(x, y int) Tile {
	if !m.InBounds(x, y) {
		return TileWall
	}
	return m.tiles[y*m.width+x]
}

// Set writes t at (x, y). Out-of-bounds writes are ignored.
func (m *Tilemap) Set(x, y int, t Tile) {
	if !m.InBounds(x, y) {
		return
	}
	m.tiles[y*m.width+x] = t
}

// Count returns how many tiles equal t.
func (m *Tilemap) Count(t Tile) int {
	n := 0
	for _, v := range m.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of m.
func (m *Tilemap) Clone() *Tilemap {
	out := &Tilemap{width: m.width, height: m.height, tiles: make([]Tile, len(m.tiles))}
	copy(out.tiles, m.tiles)
	return out
}

// Rows returns a freshly allocated [y][x] copy of the grid.
//
// Postcondition: len(result) == Height() and every row has length Width().
func (m *Tilemap) Rows() [][]Tile {
	rows := make([][]Tile, m.height)
	for y := range rows {
		row := make([]Tile, m.width)
		copy(row, m.tiles[y*m.width:(y+1)*m.width])
		rows[y] = row
	}
	return rows
}

// CarveRooms marks every in-bounds tile of each room's bounding box as floor.
func (m *Tilemap) CarveRooms(rooms []*Room) {
	for _, r := range rooms {
		m.fill(r.X, r.Y, r.Width, r.Height, TileFloor)
	}
}

// corridorOffset is the number of tiles a corridor block extends before its
// path point on each axis.
func corridorOffset(width int) int {
	return (width - 1) / 2
}

// CarveCorridor carves a width x width floor block for each point of path.
// Each block spans [p-offset, p-offset+width) on both axes with
// offset = floor((width-1)/2), so even widths stay parallel-sided.
//
// Precondition: width >= 1.
func (m *Tilemap) CarveCorridor(path []Point, width int) {
	off := corridorOffset(width)
	for _, p := range path {
		m.fill(p.X-off, p.Y-off, width, width, TileFloor)
	}
}

// fill sets every in-bounds tile of the rectangle to t.
func (m *Tilemap) fill(x, y, w, h int, t Tile) {
	for ty := y; ty < y+h; ty++ {
		for tx := x; tx < x+w; tx++ {
			m.Set(tx, ty, t)
		}
	}
}
