package cdt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/dynnavmesh/common"
)

func totalArea(pts []common.Vec2, tris [][3]int) float64 {
	var area float64
	for _, t := range tris {
		area += common.TriArea2D(pts[t[0]], pts[t[1]], pts[t[2]]) / 2
	}
	return area
}

func hasEdge(tris [][3]int, a, b int) bool {
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			u, v := t[k], t[(k+1)%3]
			if (u == a && v == b) || (u == b && v == a) {
				return true
			}
		}
	}
	return false
}

func assertCCW(t *testing.T, pts []common.Vec2, tris [][3]int) {
	for _, tri := range tris {
		assert.Greater(t, common.TriArea2D(pts[tri[0]], pts[tri[1]], pts[tri[2]]), 0.0, "triangle %v", tri)
	}
}

func TestTriangulateSquare(t *testing.T) {
	pts := []common.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	res, status := Triangulate(pts, nil)
	require.True(t, status.Succeed(), status.String())
	require.Len(t, res.Triangles, 2)
	assertCCW(t, pts, res.Triangles)
	assert.InDelta(t, 100, totalArea(pts, res.Triangles), 1e-9)
}

func TestTriangulateInteriorPoints(t *testing.T) {
	pts := []common.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}, {2, 7}, {7, 2}}
	res, status := Triangulate(pts, nil)
	require.True(t, status.Succeed())
	// 2n - h - 2 triangles for n points with h on the hull.
	assert.Len(t, res.Triangles, 2*7-4-2)
	assertCCW(t, pts, res.Triangles)
	assert.InDelta(t, 100, totalArea(pts, res.Triangles), 1e-9)
}

func TestTriangulateConstrainedDiagonal(t *testing.T) {
	pts := []common.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	for _, diag := range [][2]int{{0, 2}, {1, 3}} {
		res, status := Triangulate(pts, [][2]int{diag})
		require.True(t, status.Succeed())
		assert.True(t, hasEdge(res.Triangles, diag[0], diag[1]), "diagonal %v", diag)
	}
}

func TestTriangulateConstraintThroughPoints(t *testing.T) {
	// The constraint crosses several Delaunay edges and touches no vertex.
	pts := []common.Vec2{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{0, 5}, {10, 5},
		{3, 4.5}, {5, 5.5}, {7, 4.5},
	}
	res, status := Triangulate(pts, [][2]int{{4, 5}})
	require.True(t, status.Succeed(), status.String())
	assert.True(t, hasEdge(res.Triangles, 4, 5))
	assertCCW(t, pts, res.Triangles)
	assert.InDelta(t, 100, totalArea(pts, res.Triangles), 1e-9)
}

func TestTriangulateConstraintSplitAtVertex(t *testing.T) {
	pts := []common.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}}
	res, status := Triangulate(pts, [][2]int{{0, 2}})
	require.True(t, status.Succeed())
	assert.True(t, hasEdge(res.Triangles, 0, 4))
	assert.True(t, hasEdge(res.Triangles, 4, 2))
}

func TestTriangulateObstacleOutline(t *testing.T) {
	pts := []common.Vec2{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{4, 4}, {6, 4}, {5, 6},
	}
	cons := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 4}}
	res, status := Triangulate(pts, cons)
	require.True(t, status.Succeed())
	for _, c := range cons {
		assert.True(t, hasEdge(res.Triangles, c[0], c[1]), "edge %v", c)
	}
	assert.InDelta(t, 100, totalArea(pts, res.Triangles), 1e-9)
}

func TestTriangulateDuplicatePoints(t *testing.T) {
	pts := []common.Vec2{{0, 0}, {10, 0}, {0, 10}, {10, 0}}
	res, status := Triangulate(pts, [][2]int{{3, 2}})
	require.True(t, status.Succeed())
	assert.True(t, status.Detail(StatusDuplicatePoints))
	require.Len(t, res.Triangles, 1)
	for _, v := range res.Triangles[0] {
		assert.NotEqual(t, 3, v)
	}
}

func TestTriangulateInvalidInput(t *testing.T) {
	_, status := Triangulate([]common.Vec2{{0, 0}, {1, 0}}, nil)
	assert.True(t, status.Failed())
	assert.True(t, status.Detail(StatusInvalidInput))

	_, status = Triangulate([]common.Vec2{{0, 0}, {1, 0}, {0, 1}}, [][2]int{{0, 3}})
	assert.True(t, status.Detail(StatusInvalidInput))

	_, status = Triangulate([]common.Vec2{{0, 0}, {1, 0}, {math.NaN(), 1}}, nil)
	assert.True(t, status.Detail(StatusInvalidInput))
}

func TestTriangulateCollinear(t *testing.T) {
	_, status := Triangulate([]common.Vec2{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, nil)
	assert.True(t, status.Failed())
	assert.True(t, status.Detail(StatusDegenerate))
}

func TestTriangulateCrossingConstraints(t *testing.T) {
	pts := []common.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	_, status := Triangulate(pts, [][2]int{{0, 2}, {1, 3}})
	assert.True(t, status.Failed())
	assert.True(t, status.Detail(StatusConstraintFailed))
}
