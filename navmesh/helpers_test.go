package navmesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gorustyt/dynnavmesh/common"
)

func v(x, y float64) common.Vec2 { return common.Vec2{x, y} }

// squareMesh is the 10x10 square split along its (10,0)-(0,10) diagonal, the
// second triangle given clockwise.
func squareMesh(t *testing.T) *Mesh[OwnerSet] {
	m := NewMesh[OwnerSet](4, nil)
	require.NotEqual(t, NullNode, m.AddNode(Triangle{v(0, 0), v(10, 0), v(0, 10)}, nil))
	require.NotEqual(t, NullNode, m.AddNode(Triangle{v(0, 10), v(10, 10), v(10, 0)}, nil))
	return m
}

// gridMesh covers cols x rows square cells, each split into two triangles
// along its rising diagonal.
func gridMesh[T any](cols, rows int, size float64, attr func(col, row int) T) *Mesh[T] {
	m := NewMesh[T](size/2, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x0, y0 := float64(c)*size, float64(r)*size
			x1, y1 := x0+size, y0+size
			a := attr(c, r)
			m.AddNode(Triangle{v(x0, y0), v(x1, y0), v(x1, y1)}, a)
			m.AddNode(Triangle{v(x0, y0), v(x1, y1), v(x0, y1)}, a)
		}
	}
	return m
}

func noOwner(int, int) OwnerSet { return nil }

// hexFan is six triangles around the origin, triangle k spanning corners k
// and k+1.
func hexFan[T any](radius float64, attr func(k int) T) *Mesh[T] {
	m := NewMesh[T](radius/2, nil)
	corner := func(k int) common.Vec2 {
		a := float64(k%6) * math.Pi / 3
		return v(math.Cos(a)*radius, math.Sin(a)*radius)
	}
	for k := 0; k < 6; k++ {
		m.AddNode(Triangle{v(0, 0), corner(k), corner(k + 1)}, attr(k))
	}
	return m
}

type nodeSnapshot struct {
	Tri  Triangle
	Attr OwnerSet
}

func snapshot(m *Mesh[OwnerSet]) []nodeSnapshot {
	var out []nodeSnapshot
	m.ForEach(func(_ NodeIndex, n *Node[OwnerSet]) {
		out = append(out, nodeSnapshot{Tri: n.Triangle, Attr: n.Attr})
	})
	return out
}

func attrAt(t *testing.T, m *Mesh[OwnerSet], p common.Vec2) OwnerSet {
	idx, ok := m.TryGetNodeIndex(p)
	require.True(t, ok, "no node at %v", p)
	return m.Node(idx).Attr
}

func countOwned(m *Mesh[OwnerSet], id int32) int {
	count := 0
	m.ForEach(func(_ NodeIndex, n *Node[OwnerSet]) {
		if n.Attr.Contains(id) {
			count++
		}
	})
	return count
}
