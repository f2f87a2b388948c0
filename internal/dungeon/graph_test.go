package dungeon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/rng"
)

func numbered(rooms ...*Room) []*Room {
	for i, r := range rooms {
		r.ID = i
	}
	return rooms
}

// reachable returns the IDs reachable from start through ConnectedTo.
func reachable(rooms []*Room, start int) map[int]bool {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range rooms[id].Connections() {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func TestSpanningTree_NearestAttachment(t *testing.T) {
	rooms := numbered(
		newRoom(0, 0, 2, 2, KindRoom),
		newRoom(30, 0, 2, 2, KindRoom),
		newRoom(10, 0, 2, 2, KindRoom),
	)
	edges := spanningTree(rooms)
	assert.Equal(t, []Edge{{A: 0, B: 2}, {A: 2, B: 1}}, edges)
	assert.Equal(t, []int{2}, rooms[0].Connections())
	assert.Equal(t, []int{0, 1}, rooms[2].Connections())
}

func TestSpanningTree_SingleRoom(t *testing.T) {
	rooms := numbered(newRoom(0, 0, 2, 2, KindRoom))
	assert.Empty(t, spanningTree(rooms))
}

func TestBuildConnections_ZeroComplexityIsTree(t *testing.T) {
	rooms := numbered(
		newRoom(1, 1, 3, 3, KindRoom),
		newRoom(10, 1, 3, 3, KindRoom),
		newRoom(1, 10, 3, 3, KindRoom),
		newRoom(10, 10, 3, 3, KindRoom),
	)
	edges := BuildConnections(rooms, 0, rng.NewLCG(5))
	assert.Len(t, edges, 3)
}

func TestBuildConnections_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 15).Draw(rt, "rooms")
		rooms := make([]*Room, n)
		for i := range rooms {
			rooms[i] = newRoom(
				rapid.IntRange(0, 50).Draw(rt, "x"),
				rapid.IntRange(0, 50).Draw(rt, "y"),
				rapid.IntRange(1, 8).Draw(rt, "w"),
				rapid.IntRange(1, 8).Draw(rt, "h"),
				KindRoom,
			)
			rooms[i].ID = i
		}
		complexity := rapid.Float64Range(0, 1).Draw(rt, "complexity")

		edges := BuildConnections(rooms, complexity, rng.NewLCG(rapid.Int64().Draw(rt, "seed")))

		assert.GreaterOrEqual(rt, len(edges), n-1)
		assert.LessOrEqual(rt, len(edges), n-1+int(float64(n)*complexity))
		require.Len(rt, reachable(rooms, 0), n, "graph must span all rooms")

		seen := make(map[Edge]bool)
		for _, e := range edges {
			assert.NotEqual(rt, e.A, e.B)
			key := Edge{A: min(e.A, e.B), B: max(e.A, e.B)}
			assert.False(rt, seen[key], "duplicate edge %v", e)
			seen[key] = true
		}
		for _, r := range rooms {
			for _, id := range r.Connections() {
				assert.True(rt, rooms[id].ConnectedTo.Has(r.ID), "adjacency must be symmetric")
			}
		}
	})
}
