package dungeon

import (
	"math"

	"github.com/zyedidia/generic/mapset"
)

// placeDoors resolves one door per unordered room-to-room connection. The
// door goes on the first room's interior perimeter, at the qualifying tile
// nearest the other room's centre. Connections to corridor entities and
// connections with no qualifying tile produce no door.
//
// Precondition: every room's ID equals its index in rooms; rooms and
// corridors are already carved into m.
// Postcondition: every returned door is marked TileDoor in m.
func placeDoors(rooms []*Room, m *Tilemap) []Door {
	var doors []Door
	handled := mapset.New[Edge]()

	for _, r := range rooms {
		if r.Kind != KindRoom {
			continue
		}
		for _, id := range r.Connections() {
			other := rooms[id]
			if other.Kind != KindRoom {
				continue
			}
			key := Edge{A: min(r.ID, id), B: max(r.ID, id)}
			if handled.Has(key) {
				continue
			}
			handled.Put(key)

			p, ok := doorPosition(r, other, m)
			if !ok {
				continue
			}
			m.Set(p.X, p.Y, TileDoor)
			doors = append(doors, Door{X: p.X, Y: p.Y, ConnectsRooms: [2]int{r.ID, id}})
		}
	}
	return doors
}

// doorPosition picks the perimeter tile of r, adjacent to floor, nearest to
// target's centre. Ties keep the first tile in perimeter order.
func doorPosition(r, target *Room, m *Tilemap) (Point, bool) {
	tx, ty := target.Center()
	best := math.Inf(1)
	var found Point
	ok := false
	for _, p := range perimeter(r) {
		if !touchesFloor(m, p) {
			continue
		}
		if d := math.Hypot(float64(p.X)-tx, float64(p.Y)-ty); d < best {
			best, found, ok = d, p, true
		}
	}
	return found, ok
}

// perimeter lists r's edge tiles excluding corners: top row, bottom row,
// left column, then right column.
func perimeter(r *Room) []Point {
	right := r.X + r.Width - 1
	bottom := r.Y + r.Height - 1
	var pts []Point
	for x := r.X + 1; x < right; x++ {
		pts = append(pts, Point{X: x, Y: r.Y})
	}
	for x := r.X + 1; x < right; x++ {
		pts = append(pts, Point{X: x, Y: bottom})
	}
	for y := r.Y + 1; y < bottom; y++ {
		pts = append(pts, Point{X: r.X, Y: y})
	}
	for y := r.Y + 1; y < bottom; y++ {
		pts = append(pts, Point{X: right, Y: y})
	}
	return pts
}

func touchesFloor(m *Tilemap, p Point) bool {
	for _, d := range directions {
		if m.At(p.X+d.X, p.Y+d.Y) == TileFloor {
			return true
		}
	}
	return false
}
