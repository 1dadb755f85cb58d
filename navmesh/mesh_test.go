package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/dynnavmesh/common"
)

func TestTryGetNodeIndexSingleTriangle(t *testing.T) {
	m := NewMesh[OwnerSet](4, nil)
	idx := m.AddNode(Triangle{v(0, 0), v(10, 0), v(5, 10)}, nil)
	require.NotEqual(t, NullNode, idx)

	got, ok := m.TryGetNodeIndex(v(5, 1))
	assert.True(t, ok)
	assert.Equal(t, idx, got)

	_, ok = m.TryGetNodeIndex(v(100, 100))
	assert.False(t, ok)
}

func TestAddNodeWiresNeighbours(t *testing.T) {
	m := squareMesh(t)
	require.Equal(t, 2, m.Count())
	require.NoError(t, m.Validate())

	a, b := m.Node(0), m.Node(1)
	assert.Greater(t, b.SignedArea(), 0.0, "clockwise input is stored counter-clockwise")
	ka, kb := a.EdgeTo(1), b.EdgeTo(0)
	require.GreaterOrEqual(t, ka, 0)
	require.GreaterOrEqual(t, kb, 0)
	a0, a1 := a.Edge(ka)
	b0, b1 := b.Edge(kb)
	assert.Equal(t, MakeEdgeKey(a0, a1), MakeEdgeKey(b0, b1))

	assert.Equal(t, 4, m.DanglingEdgeCount())
	assert.False(t, m.IsDangling(v(10, 0), v(0, 10)))
	assert.True(t, m.IsDangling(v(0, 0), v(10, 0)))
}

func TestAddNodeRejectsDegenerate(t *testing.T) {
	m := NewMesh[OwnerSet](4, nil)
	assert.Equal(t, NullNode, m.AddNode(Triangle{v(0, 0), v(1, 1), v(2, 2)}, nil))
	assert.Equal(t, 0, m.Count())
}

func TestRemoveNodes(t *testing.T) {
	m := gridMesh(2, 1, 10, noOwner)
	require.Equal(t, 4, m.Count())
	require.Equal(t, 6, m.DanglingEdgeCount())

	removed := m.RemoveNodes(v(1, 1), v(2, 2))
	require.Len(t, removed, 2)
	assert.Equal(t, NodeIndex(0), removed[0].Index)
	assert.Equal(t, NodeIndex(1), removed[1].Index)
	assert.Equal(t, 2, m.Count())
	assert.Nil(t, m.Node(0))
	require.NoError(t, m.Validate())

	// The shared edge now belongs to the right cell alone.
	assert.True(t, m.IsDangling(v(10, 0), v(10, 10)))
	assert.False(t, m.IsDangling(v(0, 0), v(10, 0)))
	assert.Equal(t, 4, m.DanglingEdgeCount())
	for _, idx := range []NodeIndex{2, 3} {
		assert.Equal(t, -1, m.Node(idx).EdgeTo(0))
		assert.Equal(t, -1, m.Node(idx).EdgeTo(1))
	}

	// Freed slots are reused and the edge is claimed back.
	idx := m.AddNode(removed[0].Triangle, nil)
	assert.Contains(t, []NodeIndex{0, 1}, idx)
	assert.Equal(t, 4, m.Capacity())
	assert.Equal(t, 3, m.Count())
	assert.False(t, m.IsDangling(v(10, 0), v(10, 10)))
	require.NoError(t, m.Validate())
}

func TestRemoveNodesOutsideBounds(t *testing.T) {
	m := squareMesh(t)
	assert.Empty(t, m.RemoveNodes(v(20, 20), v(30, 30)))
	assert.Equal(t, 2, m.Count())
}

func TestContainmentConsistency(t *testing.T) {
	m := gridMesh(3, 2, 5, noOwner)
	tris := m.Triangles()
	for x := -1.0; x <= 16; x += 0.7 {
		for y := -1.0; y <= 11; y += 0.7 {
			p := v(x, y)
			var inside []int
			strict := 0
			for i, tri := range tris {
				if tri.Contains(p) {
					inside = append(inside, i)
				}
				if common.PointInTriangleStrict(p, tri.A, tri.B, tri.C) {
					strict++
				}
			}
			idx, ok := m.TryGetNodeIndex(p)
			assert.Equal(t, len(inside) > 0, ok, "point %v", p)
			if ok {
				assert.True(t, m.Node(idx).Contains(p))
			}
			assert.LessOrEqual(t, strict, 1, "point %v strictly inside several triangles", p)
		}
	}
}

func TestValidateReportsBrokenAdjacency(t *testing.T) {
	m := squareMesh(t)
	m.nodes[0].Neighbors[0] = 1
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node 0 edge 0")
}

func TestValidateReportsTJunction(t *testing.T) {
	m := NewMesh[OwnerSet](5, nil)
	m.AddNode(Triangle{v(0, 0), v(10, 0), v(10, 10)}, nil)
	// The right side is split at (10,5), the left one is not.
	m.AddNode(Triangle{v(10, 0), v(20, 5), v(10, 5)}, nil)
	m.AddNode(Triangle{v(10, 5), v(20, 5), v(10, 10)}, nil)
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t-junction")
}

func TestRemoveNodeList(t *testing.T) {
	m := gridMesh(2, 1, 10, noOwner)
	removed := m.RemoveNodeList([]NodeIndex{2, 2, 7})
	require.Len(t, removed, 1, "repeated and unknown indices are skipped")
	assert.Equal(t, NodeIndex(2), removed[0].Index)
	assert.Equal(t, 3, m.Count())

	owner, ok := m.DanglingOwner(v(20, 10), v(10, 0))
	require.True(t, ok)
	assert.Equal(t, NodeIndex(3), owner)
	_, ok = m.DanglingOwner(v(10, 0), v(20, 0))
	assert.False(t, ok, "an edge without neighbour leaves the dangling map")
	require.NoError(t, m.Validate())
}

