package dungeon

import (
	"math"

	"github.com/cory-johannsen/dungeon/internal/rng"
)

// Edge is an undirected connection between two room IDs.
type Edge struct {
	A int
	B int
}

// BuildConnections links rooms with a nearest-attachment spanning tree over
// room centres, then attempts floor(len(rooms)*complexity) random extra
// edges, skipping identical or already-connected pairs.
//
// Precondition: every room's ID equals its index in rooms.
// Postcondition: the graph implied by ConnectedTo spans all rooms and is
// symmetric; the returned edges are in creation order, tree edges first.
func BuildConnections(rooms []*Room, complexity float64, src rng.Source) []Edge {
	edges := spanningTree(rooms)
	return append(edges, extraEdges(rooms, complexity, src)...)
}

// spanningTree starts from rooms[0] and repeatedly attaches the unconnected
// room closest to any connected room. Ties keep the first pair found.
func spanningTree(rooms []*Room) []Edge {
	if len(rooms) < 2 {
		return nil
	}
	inTree := make([]bool, len(rooms))
	inTree[0] = true
	edges := make([]Edge, 0, len(rooms)-1)

	for len(edges) < len(rooms)-1 {
		from, to := -1, -1
		best := math.Inf(1)
		for i, a := range rooms {
			if !inTree[i] {
				continue
			}
			for j, b := range rooms {
				if inTree[j] {
					continue
				}
				if d := centerDistance(a, b); d < best {
					best, from, to = d, i, j
				}
			}
		}
		inTree[to] = true
		connect(rooms[from], rooms[to])
		edges = append(edges, Edge{A: rooms[from].ID, B: rooms[to].ID})
	}
	return edges
}

// extraEdges adds cycles by linking random room pairs.
func extraEdges(rooms []*Room, complexity float64, src rng.Source) []Edge {
	if len(rooms) == 0 {
		return nil
	}
	attempts := int(math.Floor(float64(len(rooms)) * complexity))
	var edges []Edge
	for i := 0; i < attempts; i++ {
		a := rooms[src.NextInt(0, len(rooms)-1)]
		b := rooms[src.NextInt(0, len(rooms)-1)]
		if a == b || a.ConnectedTo.Has(b.ID) {
			continue
		}
		connect(a, b)
		edges = append(edges, Edge{A: a.ID, B: b.ID})
	}
	return edges
}

func centerDistance(a, b *Room) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	return math.Hypot(ax-bx, ay-by)
}
