package dungeon

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/cory-johannsen/dungeon/internal/rng"
)

// ErrMergeAfterConnect is returned by MergeOverlapping when any input room
// already has connections; merging would orphan edges to the removed room.
var ErrMergeAfterConnect = errors.New("dungeon: rooms must be merged before they are connected")

const (
	candidateMultiplier  = 3
	separationIterations = 50
	separationForce      = 2.0
	// minCenterSpacing is the fraction of min(width, height) that accepted
	// room centres must exceed from one another during selection.
	minCenterSpacing = 0.2
	// maxMergeOverlap bounds each axis overlap, relative to the smaller room,
	// for a merge to be allowed.
	maxMergeOverlap = 0.7
)

// layoutRooms runs candidate generation, separation, selection, and
// controlled overlap merging, then numbers the survivors 0..n-1.
//
// Precondition: cfg is valid.
// Postcondition: every returned room is KindRoom, unconnected, inside the map,
// and its ID equals its index.
func layoutRooms(cfg Config, src rng.Source) []*Room {
	target := src.NextInt(cfg.MinRooms, cfg.MaxRooms)
	candidates := generateCandidates(cfg, src, target*candidateMultiplier)
	separate(candidates, cfg.Width, cfg.Height)
	selected := selectRooms(candidates, target, cfg.Width, cfg.Height)

	// Selected rooms are unconnected, so merging cannot fail here.
	merged, _ := MergeOverlapping(selected, cfg.OverlapChance*cfg.ComplexityLevel, src)
	for i, r := range merged {
		r.ID = i
	}
	return merged
}

// generateCandidates returns n randomly sized rooms placed fully inside the
// map minus a one-tile border.
func generateCandidates(cfg Config, src rng.Source, n int) []*Room {
	maxW := min(cfg.MaxRoomSize, cfg.Width-2)
	maxH := min(cfg.MaxRoomSize, cfg.Height-2)

	rooms := make([]*Room, 0, n)
	for i := 0; i < n; i++ {
		w := src.NextInt(cfg.MinRoomSize, maxW)
		h := src.NextInt(cfg.MinRoomSize, maxH)
		x := src.NextInt(1, cfg.Width-w-1)
		y := src.NextInt(1, cfg.Height-h-1)
		r := newRoom(x, y, w, h, KindRoom)
		r.ID = i
		rooms = append(rooms, r)
	}
	return rooms
}

// separate pushes overlapping rooms apart for a fixed number of iterations.
// Each room accumulates a repulsion of magnitude separationForce from every
// room it overlaps, moves by the rounded sum, and is clamped back inside the
// border. Residual overlap is expected.
func separate(rooms []*Room, width, height int) {
	for iter := 0; iter < separationIterations; iter++ {
		for i, a := range rooms {
			var dx, dy float64
			for j, b := range rooms {
				if i == j || !a.Overlaps(b) {
					continue
				}
				ax, ay := a.Center()
				bx, by := b.Center()
				vx, vy := ax-bx, ay-by
				length := math.Hypot(vx, vy)
				if length == 0 {
					// Coincident centres: split along x by index order.
					vx, vy, length = 1, 0, 1
					if i < j {
						vx = -1
					}
				}
				dx += vx / length * separationForce
				dy += vy / length * separationForce
			}
			a.X = clamp(a.X+int(math.Round(dx)), 1, width-a.Width-1)
			a.Y = clamp(a.Y+int(math.Round(dy)), 1, height-a.Height-1)
		}
	}
}

// selectRooms greedily picks up to target rooms by descending area, keeping
// centres more than minCenterSpacing*min(width, height) apart, then fills
// any shortfall from the remaining candidates in their original order.
//
// Postcondition: len(result) == min(target, len(candidates)).
func selectRooms(candidates []*Room, target, width, height int) []*Room {
	minDist := minCenterSpacing * float64(min(width, height))

	bySize := slices.Clone(candidates)
	slices.SortStableFunc(bySize, func(a, b *Room) int {
		return cmp.Compare(b.Area(), a.Area())
	})

	selected := make([]*Room, 0, target)
	taken := make(map[*Room]bool, target)
	for _, c := range bySize {
		if len(selected) >= target {
			break
		}
		if farFromAll(c, selected, minDist) {
			selected = append(selected, c)
			taken[c] = true
		}
	}
	for _, c := range candidates {
		if len(selected) >= target {
			break
		}
		if !taken[c] {
			selected = append(selected, c)
			taken[c] = true
		}
	}
	return selected
}

func farFromAll(c *Room, accepted []*Room, minDist float64) bool {
	cx, cy := c.Center()
	for _, a := range accepted {
		ax, ay := a.Center()
		if math.Hypot(cx-ax, cy-ay) <= minDist {
			return false
		}
	}
	return true
}

// MergeOverlapping visits every unordered pair of rooms and, with
// probability chance, merges the pair when they overlap on both axes by less
// than 70% of the smaller room's extent on each axis. The first room is
// replaced by the union bounding box and the second is removed.
//
// Precondition: no room has connections; otherwise ErrMergeAfterConnect is
// returned with rooms unchanged.
// Postcondition: the input slice and its rooms are not modified; merged rooms
// are new values that keep the first room's ID.
func MergeOverlapping(rooms []*Room, chance float64, src rng.Source) ([]*Room, error) {
	for _, r := range rooms {
		if r.ConnectedTo.Size() > 0 {
			return rooms, ErrMergeAfterConnect
		}
	}

	out := slices.Clone(rooms)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); {
			if src.NextBool(chance) && mergeable(out[i], out[j]) {
				out[i] = union(out[i], out[j])
				out = slices.Delete(out, j, j+1)
				continue
			}
			j++
		}
	}
	return out, nil
}

// mergeable reports whether a and b overlap on both axes, with each overlap
// strictly smaller than maxMergeOverlap of the smaller room's dimension.
func mergeable(a, b *Room) bool {
	overlapX := min(a.X+a.Width, b.X+b.Width) - max(a.X, b.X)
	overlapY := min(a.Y+a.Height, b.Y+b.Height) - max(a.Y, b.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return false
	}
	return float64(overlapX) < maxMergeOverlap*float64(min(a.Width, b.Width)) &&
		float64(overlapY) < maxMergeOverlap*float64(min(a.Height, b.Height))
}

// union returns a new room covering both a and b, carrying a's ID and kind.
func union(a, b *Room) *Room {
	x := min(a.X, b.X)
	y := min(a.Y, b.Y)
	r := newRoom(x, y, max(a.X+a.Width, b.X+b.Width)-x, max(a.Y+a.Height, b.Y+b.Height)-y, a.Kind)
	r.ID = a.ID
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
