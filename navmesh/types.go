package navmesh

import (
	"math"

	"github.com/gorustyt/dynnavmesh/common"
)

// NodeIndex addresses a node in the mesh store. Indices stay stable while the
// node is alive and are reused after removal.
type NodeIndex int32

// NullNode marks an empty neighbour slot, the edge is a mesh boundary.
const NullNode NodeIndex = -1

// Triangle is an immutable triangle value.
type Triangle struct {
	A, B, C common.Vec2
}

// Point returns corner i, 0 to 2.
func (t Triangle) Point(i int) common.Vec2 {
	switch i % 3 {
	case 0:
		return t.A
	case 1:
		return t.B
	}
	return t.C
}

// Edge returns edge i as its two corners, edge i runs from corner i to corner i+1.
func (t Triangle) Edge(i int) (common.Vec2, common.Vec2) {
	return t.Point(i), t.Point(i + 1)
}

func (t Triangle) Centroid() common.Vec2 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

func (t Triangle) Bounds() (bmin, bmax common.Vec2) {
	return common.Bounds(t.A, t.B, t.C)
}

// SignedArea is positive for counter-clockwise triangles.
func (t Triangle) SignedArea() float64 {
	return common.TriArea2D(t.A, t.B, t.C) * 0.5
}

// CCW returns the triangle wound counter-clockwise.
func (t Triangle) CCW() Triangle {
	if t.SignedArea() < 0 {
		return Triangle{t.A, t.C, t.B}
	}
	return t
}

// Degenerate returns true when the triangle has no usable area.
func (t Triangle) Degenerate() bool {
	return math.Abs(t.SignedArea()) < common.Epsilon*common.Epsilon
}

// Contains tests the point against the triangle with tolerance.
func (t Triangle) Contains(p common.Vec2) bool {
	return common.PointInTriangle(p, t.A, t.B, t.C)
}

func (t Triangle) valid() bool {
	return common.Visfinite(t.A) && common.Visfinite(t.B) && common.Visfinite(t.C)
}

// pointKey is a point snapped to the tolerance grid.
type pointKey struct {
	x, y int64
}

func makePointKey(p common.Vec2) pointKey {
	return pointKey{common.SnapToGrid(p[0], common.Epsilon), common.SnapToGrid(p[1], common.Epsilon)}
}

func (k pointKey) less(o pointKey) bool {
	if k.x != o.x {
		return k.x < o.x
	}
	return k.y < o.y
}

// EdgeKey identifies an undirected edge. Both endpoints are snapped to the
// tolerance grid and stored in lexicographic order, so the same physical edge
// produces the same key whatever triangle or winding it comes from.
//
// Two points closer than the tolerance but on different sides of a grid line
// still produce different keys.
type EdgeKey struct {
	a, b pointKey
}

func MakeEdgeKey(a, b common.Vec2) EdgeKey {
	ka, kb := makePointKey(a), makePointKey(b)
	if kb.less(ka) {
		ka, kb = kb, ka
	}
	return EdgeKey{ka, kb}
}

// Degenerate returns true when both endpoints snap to the same grid point.
func (k EdgeKey) Degenerate() bool { return k.a == k.b }

// Node is a triangle of the mesh with its adjacency.
type Node[T any] struct {
	Triangle
	// Neighbors[i] is the node across edge i, or NullNode.
	Neighbors [3]NodeIndex
	Center    common.Vec2
	Attr      T

	alive bool
}

func (n *Node[T]) Alive() bool { return n.alive }

// EdgeTo returns the slot of n whose neighbour is other, or -1.
func (n *Node[T]) EdgeTo(other NodeIndex) int {
	for i, nb := range n.Neighbors {
		if nb == other {
			return i
		}
	}
	return -1
}

// RemovedNode is what RemoveNodes hands back so a caller can restore it.
type RemovedNode[T any] struct {
	Index    NodeIndex
	Triangle Triangle
	Attr     T
}
