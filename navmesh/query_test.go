package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/dynnavmesh/common"
)

func TestFindPathCorridor(t *testing.T) {
	m := gridMesh(5, 1, 1, noOwner)
	q := NewQuery(m, nil)
	start, end := v(0.2, 0.5), v(4.8, 0.5)

	path, status := q.FindPath(DistanceSeeker[OwnerSet]{}, start, end)
	require.True(t, status.Succeed(), status.String())
	assert.False(t, status.Detail(StatusPartialResult))
	require.Len(t, path, 10)
	first, _ := m.TryGetNodeIndex(start)
	last, _ := m.TryGetNodeIndex(end)
	assert.Equal(t, first, path[0])
	assert.Equal(t, last, path[len(path)-1])
	for i := 0; i+1 < len(path); i++ {
		assert.GreaterOrEqual(t, m.Node(path[i]).EdgeTo(path[i+1]), 0)
	}

	portals := q.BuildPortals(path, start)
	require.Len(t, portals, 9)
	for i, p := range portals {
		// Travelling along +x, the left corner is always on the top side.
		assert.Equal(t, 1.0, p.Left[1], "portal %d", i)
		assert.Equal(t, 0.0, p.Right[1], "portal %d", i)
	}

	straight, status := q.FindStraightPath(DistanceSeeker[OwnerSet]{}, start, end)
	require.True(t, status.Succeed())
	assert.Equal(t, []common.Vec2{start, end}, straight)
}

func TestFindPathSameNode(t *testing.T) {
	m := squareMesh(t)
	q := NewQuery(m, nil)
	path, status := q.FindPath(DistanceSeeker[OwnerSet]{}, v(1, 1), v(2, 1))
	require.True(t, status.Succeed())
	assert.Len(t, path, 1)
}

func TestFindPathOutsideMesh(t *testing.T) {
	m := squareMesh(t)
	q := NewQuery(m, nil)
	_, status := q.FindPath(DistanceSeeker[OwnerSet]{}, v(-5, 1), v(2, 1))
	assert.True(t, status.Failed())
	assert.True(t, status.Detail(StatusInvalidParam))
}

func TestFindPathBlocked(t *testing.T) {
	m := gridMesh(5, 1, 1, func(col, _ int) OwnerSet {
		if col == 2 {
			return NewOwnerSet(1)
		}
		return nil
	})
	q := NewQuery(m, nil)
	start, end := v(0.2, 0.5), v(4.8, 0.5)

	path, status := q.FindPath(BlockingSeeker{}, start, end)
	require.True(t, status.Succeed())
	assert.True(t, status.Detail(StatusPartialResult))
	require.Len(t, path, 4)
	lastNode := m.Node(path[len(path)-1])
	assert.Less(t, lastNode.Center[0], 2.0, "the path stops before the blocked cell")

	straight, status := q.FindStraightPath(BlockingSeeker{}, start, end)
	require.True(t, status.Detail(StatusPartialResult))
	assert.Equal(t, start, straight[0])
	assert.Equal(t, lastNode.Center, straight[len(straight)-1])
}

func TestFindPathNoPath(t *testing.T) {
	m := gridMesh(2, 1, 1, noOwner)
	// Node 1 only touches node 0, block it.
	m.nodes[0].Attr = NewOwnerSet(9)
	q := NewQuery(m, nil)
	_, status := q.FindPath(BlockingSeeker{}, v(0.2, 0.8), v(1.8, 0.5))
	assert.True(t, status.Failed())
	assert.True(t, status.Detail(StatusNoPath))
}

func TestFindPathPartialAtStart(t *testing.T) {
	m := gridMesh(3, 1, 1, func(col, _ int) OwnerSet {
		if col == 2 {
			return NewOwnerSet(1)
		}
		return nil
	})
	q := NewQuery(m, nil)
	start := v(1.8, 0.3)
	// Every reachable node lies farther from the target than the start node.
	path, status := q.FindPath(BlockingSeeker{}, start, v(2.8, 0.5))
	require.True(t, status.Succeed(), status.String())
	assert.True(t, status.Detail(StatusPartialResult))
	assert.False(t, status.Detail(StatusNoPath))
	first, _ := m.TryGetNodeIndex(start)
	assert.Equal(t, []NodeIndex{first}, path)
}

func TestFindPathExtraPops(t *testing.T) {
	// Triangles 3, 4 and 5 are cheap roads going the long way round from
	// triangle 0 to triangle 2.
	area := func(k int) Area {
		switch k {
		case 3, 4, 5:
			return Area{Flags: AreaRoad, Cost: 0.01}
		}
		return Area{Flags: AreaWalk, Cost: 1}
	}
	m := hexFan(10, area)
	start := m.Node(0).Center
	end := m.Node(2).Center

	greedy := NewQuery(m, nil, WithExtraPops(0))
	path, status := greedy.FindPath(AreaSeeker{}, start, end)
	require.True(t, status.Succeed())
	assert.Equal(t, []NodeIndex{0, 1, 2}, path, "stopping at the first target pop keeps the direct route")

	q := NewQuery(m, nil)
	path, status = q.FindPath(AreaSeeker{}, start, end)
	require.True(t, status.Succeed())
	assert.Equal(t, []NodeIndex{0, 5, 4, 3, 2}, path, "extra pops find the cheaper road")

	// Excluding roads makes them unreachable.
	path, status = q.FindPath(AreaSeeker{Exclude: AreaRoad}, start, end)
	require.True(t, status.Succeed())
	assert.Equal(t, []NodeIndex{0, 1, 2}, path)
}

func TestBuildPortalsMissingLink(t *testing.T) {
	m := gridMesh(3, 1, 1, noOwner)
	q := NewQuery(m, nil)
	// Nodes 0 and 5 are not adjacent.
	portals := q.BuildPortals([]NodeIndex{0, 5}, v(0.8, 0.2))
	require.Len(t, portals, 1)
	a, b := m.Node(0).Edge(0)
	assert.ElementsMatch(t, []common.Vec2{a, b}, []common.Vec2{portals[0].Left, portals[0].Right})
}

func TestFindStraightPathAroundObstacle(t *testing.T) {
	m := squareMesh(t)
	obstacles := NewObstacleStore[OwnerSet](2, 0, nil)
	corners := []common.Vec2{v(4, 4), v(6, 4), v(6, 6), v(4, 6)}
	require.NotEqual(t, NoObstacle, obstacles.AddObstacle(corners, NewOwnerSet(1)))
	require.True(t, NewRetriangulator(m, obstacles, nil).Update(v(0, 0), v(10, 10)).Status.Succeed())

	q := NewQuery(m, nil)
	start, end := v(1, 5), v(9, 5)
	path, status := q.FindStraightPath(BlockingSeeker{}, start, end)
	require.True(t, status.Succeed(), status.String())
	assert.False(t, status.Detail(StatusPartialResult))
	require.GreaterOrEqual(t, len(path), 3)
	assert.Equal(t, start, path[0])
	assert.Equal(t, end, path[len(path)-1])
	for _, p := range path[1 : len(path)-1] {
		onCorner := false
		for _, c := range corners {
			if common.Vequal(p, c) {
				onCorner = true
			}
		}
		assert.True(t, onCorner, "corner %v is not an obstacle vertex", p)
	}
}

func TestFindNearestValid(t *testing.T) {
	m := squareMesh(t)
	obstacles := NewObstacleStore[OwnerSet](2, 0, nil)
	require.NotEqual(t, NoObstacle, obstacles.AddObstacle([]common.Vec2{v(2, 1), v(4, 1), v(3, 3)}, NewOwnerSet(13)))
	require.True(t, NewRetriangulator(m, obstacles, nil).Update(v(0, 0), v(10, 10)).Status.Succeed())
	q := NewQuery(m, nil)

	p, idx, ok := q.FindNearestValid(FreeValidator{}, v(8, 8), 0)
	require.True(t, ok)
	assert.Equal(t, v(8, 8), p)
	assert.Empty(t, m.Node(idx).Attr)

	p, idx, ok = q.FindNearestValid(FreeValidator{}, v(3, 2), 0)
	require.True(t, ok)
	assert.Empty(t, m.Node(idx).Attr)
	assert.Equal(t, m.Node(idx).Center, p)
	blocked, _ := m.TryGetNodeIndex(v(3, 2))
	assert.GreaterOrEqual(t, m.Node(blocked).EdgeTo(idx), 0, "the nearest free node is adjacent")

	_, _, ok = q.FindNearestValid(FreeValidator{}, v(30, 30), 0)
	assert.False(t, ok)
}
