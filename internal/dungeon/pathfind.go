package dungeon

import (
	"container/heap"

	"github.com/zyedidia/generic/mapset"
)

// Step costs: corridors prefer reusing existing floor but may tunnel through walls.
const (
	floorStepCost = 0.5
	wallStepCost  = 1.0
)

// directions are the 4-connected moves in expansion order: up, right, down, left.
var directions = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// pathNode is an A* search node.
type pathNode struct {
	p      Point
	g      float64
	f      float64
	parent *pathNode
	// seq is the insertion order; it breaks f ties so the heap pops the same
	// node a first-minimum linear scan of the open list would.
	seq   int
	index int
}

// openSet is a min-heap of pathNodes ordered by (f, seq).
type openSet []*pathNode

func (o openSet) Len() int { return len(o) }

func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}

func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openSet) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*o)
	*o = append(*o, n)
}

func (o *openSet) Pop() any {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*o = old[:len(old)-1]
	n.index = -1
	return n
}

// FindPath searches a 4-connected route from start to goal over m. Moving
// onto floor costs floorStepCost and anything else wallStepCost; walls never
// block. A neighbour is a candidate only when the corridor footprint of
// corridorWidth centred on it stays inside the map. The goal is reached as
// soon as it is generated as a neighbour.
//
// Precondition: corridorWidth >= 1.
// Postcondition: Returns the path from start to goal inclusive of both
// endpoints, a single-point path when start == goal, or nil if no route exists.
func FindPath(m *Tilemap, start, goal Point, corridorWidth int) []Point {
	if start == goal {
		return []Point{start}
	}

	open := &openSet{}
	nodes := make(map[Point]*pathNode)
	closed := mapset.New[Point]()

	seq := 0
	root := &pathNode{p: start, f: manhattan(start, goal), seq: seq}
	heap.Push(open, root)
	nodes[start] = root

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		closed.Put(current.p)

		for _, d := range directions {
			next := Point{X: current.p.X + d.X, Y: current.p.Y + d.Y}
			if next == goal {
				return reconstructPath(&pathNode{p: next, parent: current})
			}
			if closed.Has(next) || !footprintFits(m, next, corridorWidth) {
				continue
			}

			g := current.g + stepCost(m, next)
			if existing, ok := nodes[next]; ok {
				if g < existing.g {
					existing.g = g
					existing.f = g + manhattan(next, goal)
					existing.parent = current
					heap.Fix(open, existing.index)
				}
				continue
			}

			seq++
			n := &pathNode{p: next, g: g, f: g + manhattan(next, goal), parent: current, seq: seq}
			nodes[next] = n
			heap.Push(open, n)
		}
	}
	return nil
}

// footprintFits reports whether a corridorWidth block carved around p lies
// entirely inside m.
func footprintFits(m *Tilemap, p Point, corridorWidth int) bool {
	off := corridorOffset(corridorWidth)
	x0, y0 := p.X-off, p.Y-off
	x1, y1 := x0+corridorWidth-1, y0+corridorWidth-1
	return m.InBounds(x0, y0) && m.InBounds(x1, y1)
}

func stepCost(m *Tilemap, p Point) float64 {
	if m.At(p.X, p.Y) == TileFloor {
		return floorStepCost
	}
	return wallStepCost
}

func manhattan(a, b Point) float64 {
	return float64(abs(a.X-b.X) + abs(a.Y-b.Y))
}

// reconstructPath follows parent links back to the root and returns the
// points in start-to-goal order.
func reconstructPath(n *pathNode) []Point {
	var path []Point
	for ; n != nil; n = n.parent {
		path = append(path, n.p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
