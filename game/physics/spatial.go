package physics

import (
	"math"

	"github.com/mark3labs/battletanks/game/shared"
)

// SpatialHash is a uniform-grid broad-phase index over the XZ plane. Cells
// are keyed by floor-divided coordinates so the grid is unbounded. It is a
// candidate filter only; callers still run exact collision tests on the
// returned ids.
type SpatialHash struct {
	cellSize float64
	cells    map[cellKey][]int
}

type cellKey struct {
	X int32
	Z int32
}

// NewSpatialHash creates a hash with the given cell size. The cell size
// should be around twice the largest entity radius.
func NewSpatialHash(cellSize float64) *SpatialHash {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Reset clears the hash while keeping cell capacity for reuse across ticks.
func (h *SpatialHash) Reset() {
	for k := range h.cells {
		h.cells[k] = h.cells[k][:0]
	}
}

func (h *SpatialHash) keyFor(x, z float64) cellKey {
	return cellKey{
		X: int32(math.Floor(x / h.cellSize)),
		Z: int32(math.Floor(z / h.cellSize)),
	}
}

// Insert records an entity id at the given position.
func (h *SpatialHash) Insert(pos shared.Vector3, id int) {
	key := h.keyFor(pos.X, pos.Z)
	h.cells[key] = append(h.cells[key], id)
}

// Nearby returns the ids of all entities in cells overlapping the radius
// window around pos. Duplicate-free as long as each id was inserted once.
func (h *SpatialHash) Nearby(pos shared.Vector3, radius float64) []int {
	minKey := h.keyFor(pos.X-radius, pos.Z-radius)
	maxKey := h.keyFor(pos.X+radius, pos.Z+radius)

	var out []int
	for cx := minKey.X; cx <= maxKey.X; cx++ {
		for cz := minKey.Z; cz <= maxKey.Z; cz++ {
			out = append(out, h.cells[cellKey{X: cx, Z: cz}]...)
		}
	}
	return out
}
