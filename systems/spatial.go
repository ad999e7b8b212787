package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
)

// Neighbor holds a nearby entity with precomputed spatial data, so
// callers don't recompute deltas and distances in the hot path.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32 // delta from query origin
	DistSq float32 // squared distance (avoid sqrt in hot path)
}

// SpatialGrid provides O(1) neighbor lookups over a bounded world using
// a cell-based grid. Rebuilt once per tick for the pellet set.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]ecs.Entity // flat grid of entity lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	idx := g.cellIndex(x, y)
	if idx >= 0 && idx < len(g.cells) {
		g.cells[idx] = append(g.cells[idx], e)
	}
}

// QueryRadiusInto finds entities within radius of (x, y) and appends
// them to dst. Returns the updated slice; reuse dst across calls to
// avoid allocations. The world is bounded, so cells outside the grid
// are simply skipped rather than wrapped.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol := int(x / g.cellSize)
	centerRow := int(y / g.cellSize)

	minCol := max(centerCol-cellRadius, 0)
	maxCol := min(centerCol+cellRadius, g.cols-1)
	minRow := max(centerRow-cellRadius, 0)
	maxRow := min(centerRow+cellRadius, g.rows-1)

	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col

			for _, e := range g.cells[idx] {
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx := pos.X - x
				dy := pos.Y - y
				distSq := dx*dx + dy*dy

				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// Remove deletes an entity from the cell containing (x, y). Used when a
// pellet is consumed mid-tick so later queries in the same pass don't
// return it again.
func (g *SpatialGrid) Remove(e ecs.Entity, x, y float32) {
	idx := g.cellIndex(x, y)
	if idx < 0 || idx >= len(g.cells) {
		return
	}
	cell := g.cells[idx]
	for i, other := range cell {
		if other == e {
			cell[i] = cell[len(cell)-1]
			g.cells[idx] = cell[:len(cell)-1]
			return
		}
	}
}

// cellIndex returns the flat cell index for a position, or -1 if the
// position is outside the world. Positions exactly on the far edge land
// in the last cell.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	if x < 0 || y < 0 || x > g.width || y > g.height {
		return -1
	}
	col := min(int(x/g.cellSize), g.cols-1)
	row := min(int(y/g.cellSize), g.rows-1)
	return row*g.cols + col
}
