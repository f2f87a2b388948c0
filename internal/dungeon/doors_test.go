package dungeon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerimeter_ExcludesCorners(t *testing.T) {
	r := newRoom(2, 3, 4, 4, KindRoom)
	pts := perimeter(r)
	assert.Equal(t, []Point{
		{X: 3, Y: 3}, {X: 4, Y: 3},
		{X: 3, Y: 6}, {X: 4, Y: 6},
		{X: 2, Y: 4}, {X: 2, Y: 5},
		{X: 5, Y: 4}, {X: 5, Y: 5},
	}, pts)
}

func TestPerimeter_TinyRoomHasNone(t *testing.T) {
	assert.Empty(t, perimeter(newRoom(0, 0, 2, 2, KindRoom)))
}

func TestPlaceDoors_OnePerConnection(t *testing.T) {
	rooms := numbered(
		newRoom(2, 2, 4, 4, KindRoom),
		newRoom(12, 2, 4, 4, KindRoom),
	)
	connect(rooms[0], rooms[1])
	m := NewTilemap(20, 10)
	m.CarveRooms(rooms)

	doors := placeDoors(rooms, m)
	require.Len(t, doors, 1)
	d := doors[0]
	assert.Equal(t, [2]int{0, 1}, d.ConnectsRooms)
	// Nearest perimeter tile of room 0 to room 1's centre (14, 4) is on the right column.
	assert.Equal(t, 5, d.X)
	assert.Equal(t, 4, d.Y)
	assert.Equal(t, TileDoor, m.At(d.X, d.Y))
	assert.True(t, touchesFloor(m, Point{X: d.X, Y: d.Y}))
}

func TestPlaceDoors_SkipsCorridorLinks(t *testing.T) {
	rooms := numbered(
		newRoom(2, 2, 4, 4, KindRoom),
		newRoom(12, 2, 4, 4, KindRoom),
		newRoom(4, 4, 11, 1, KindCorridor),
	)
	connect(rooms[0], rooms[1])
	connect(rooms[2], rooms[0])
	connect(rooms[2], rooms[1])
	m := NewTilemap(20, 10)
	m.CarveRooms(rooms[:2])

	doors := placeDoors(rooms, m)
	assert.Len(t, doors, 1)
}

func TestPlaceDoors_NoCandidateIsSkipped(t *testing.T) {
	rooms := numbered(
		newRoom(2, 2, 2, 2, KindRoom),
		newRoom(12, 2, 2, 2, KindRoom),
	)
	connect(rooms[0], rooms[1])
	m := NewTilemap(20, 10)
	m.CarveRooms(rooms)

	assert.Empty(t, placeDoors(rooms, m))
	assert.Equal(t, 0, m.Count(TileDoor))
}
