package spatial

import (
	"math"

	"github.com/gorustyt/dynnavmesh/common"
)

type cell struct {
	x, y int32
}

// Grid is a grid-hash index of axis aligned boxes. A value is registered in
// every cell its box touches; queries only prune, callers confirm hits with
// an exact test.
type Grid[T comparable] struct {
	m_cellSize    float64
	m_invCellSize float64
	m_cells       map[cell][]T
	m_count       int
}

func NewGrid[T comparable](cellSize float64) *Grid[T] {
	if cellSize <= 0 {
		panic("spatial: cell size must be positive")
	}
	return &Grid[T]{
		m_cellSize:    cellSize,
		m_invCellSize: 1.0 / cellSize,
		m_cells:       map[cell][]T{},
	}
}

// Len returns the number of registered boxes.
func (g *Grid[T]) Len() int { return g.m_count }

// cellCoord saturates at the int32 range so huge coordinates land in the
// outermost cells instead of wrapping around.
func (g *Grid[T]) cellCoord(v float64) int32 {
	f := math.Floor(v * g.m_invCellSize)
	switch {
	case math.IsNaN(f):
		return 0
	case f <= math.MinInt32:
		return math.MinInt32
	case f >= math.MaxInt32:
		return math.MaxInt32
	}
	return int32(f)
}

func (g *Grid[T]) cellRange(bmin, bmax common.Vec2) (imin, imax cell) {
	imin = cell{g.cellCoord(bmin[0]), g.cellCoord(bmin[1])}
	imax = cell{g.cellCoord(bmax[0]), g.cellCoord(bmax[1])}
	return imin, imax
}

// InsertAABB registers value under every cell overlapped by the box.
func (g *Grid[T]) InsertAABB(bmin, bmax common.Vec2, value T) {
	imin, imax := g.cellRange(bmin, bmax)
	for y := int64(imin.y); y <= int64(imax.y); y++ {
		for x := int64(imin.x); x <= int64(imax.x); x++ {
			c := cell{int32(x), int32(y)}
			g.m_cells[c] = append(g.m_cells[c], value)
		}
	}
	g.m_count++
}

// RemoveAABB unregisters value from the cells of the box. The box must be the
// one used at insertion.
func (g *Grid[T]) RemoveAABB(bmin, bmax common.Vec2, value T) bool {
	imin, imax := g.cellRange(bmin, bmax)
	found := false
	for y := int64(imin.y); y <= int64(imax.y); y++ {
		for x := int64(imin.x); x <= int64(imax.x); x++ {
			c := cell{int32(x), int32(y)}
			items := g.m_cells[c]
			for i, v := range items {
				if v == value {
					items[i] = items[len(items)-1]
					items = items[:len(items)-1]
					found = true
					break
				}
			}
			if len(items) == 0 {
				delete(g.m_cells, c)
			} else {
				g.m_cells[c] = items
			}
		}
	}
	if found {
		g.m_count--
	}
	return found
}

// QueryAABB appends to out every value registered in a cell overlapped by the
// box, each value at most once.
func (g *Grid[T]) QueryAABB(bmin, bmax common.Vec2, out []T) []T {
	imin, imax := g.cellRange(bmin, bmax)
	seen := map[T]struct{}{}
	visit := func(items []T) {
		for _, v := range items {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	span := float64(int64(imax.x)-int64(imin.x)+1) * float64(int64(imax.y)-int64(imin.y)+1)
	if span > float64(len(g.m_cells)) {
		// Large query box, walking the occupied cells is cheaper.
		for c, items := range g.m_cells {
			if c.x >= imin.x && c.x <= imax.x && c.y >= imin.y && c.y <= imax.y {
				visit(items)
			}
		}
		return out
	}
	for y := int64(imin.y); y <= int64(imax.y); y++ {
		for x := int64(imin.x); x <= int64(imax.x); x++ {
			visit(g.m_cells[cell{int32(x), int32(y)}])
		}
	}
	return out
}

// QueryPoint appends the values registered in the cell containing p.
func (g *Grid[T]) QueryPoint(p common.Vec2, out []T) []T {
	imin, _ := g.cellRange(p, p)
	return append(out, g.m_cells[imin]...)
}

// GetItemCountAt returns the number of values registered in the cell at (x, y).
func (g *Grid[T]) GetItemCountAt(x, y int32) int {
	return len(g.m_cells[cell{x, y}])
}
