package navmesh

import (
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gorustyt/dynnavmesh/common"
	"github.com/gorustyt/dynnavmesh/spatial"
)

// Mesh is the triangle graph. Nodes live in a dense array with a free list so
// their indices stay stable, a grid hash maps positions to nodes, and every
// edge exposed by exactly one node is kept in the dangling map until a second
// node claims it.
//
// Mesh has no internal locking. One mutator at a time; readers must not run
// during a mutation.
type Mesh[T any] struct {
	logger   *zap.Logger
	nodes    []Node[T]
	free     []NodeIndex
	count    int
	grid     *spatial.Grid[NodeIndex]
	dangling map[EdgeKey]NodeIndex
}

func NewMesh[T any](cellSize float64, logger *zap.Logger) *Mesh[T] {
	return &Mesh[T]{
		logger:   common.OrNop(logger),
		grid:     spatial.NewGrid[NodeIndex](cellSize),
		dangling: map[EdgeKey]NodeIndex{},
	}
}

// Count returns the number of live nodes.
func (m *Mesh[T]) Count() int { return m.count }

// Capacity returns the size of the node array, live and free slots.
func (m *Mesh[T]) Capacity() int { return len(m.nodes) }

// Node returns the live node at i, or nil.
func (m *Mesh[T]) Node(i NodeIndex) *Node[T] {
	if i < 0 || int(i) >= len(m.nodes) || !m.nodes[i].alive {
		return nil
	}
	return &m.nodes[i]
}

// ForEach calls fn for every live node in index order.
func (m *Mesh[T]) ForEach(fn func(i NodeIndex, n *Node[T])) {
	for i := range m.nodes {
		if m.nodes[i].alive {
			fn(NodeIndex(i), &m.nodes[i])
		}
	}
}

// Triangles returns the triangles of the live nodes in index order.
func (m *Mesh[T]) Triangles() []Triangle {
	out := make([]Triangle, 0, m.count)
	m.ForEach(func(_ NodeIndex, n *Node[T]) {
		out = append(out, n.Triangle)
	})
	return out
}

// Bounds returns the bounds of all live nodes. ok is false for an empty mesh.
func (m *Mesh[T]) Bounds() (bmin, bmax common.Vec2, ok bool) {
	m.ForEach(func(_ NodeIndex, n *Node[T]) {
		tmin, tmax := n.Bounds()
		if !ok {
			bmin, bmax, ok = tmin, tmax, true
			return
		}
		bmin = common.Vmin(bmin, tmin)
		bmax = common.Vmax(bmax, tmax)
	})
	return bmin, bmax, ok
}

func (m *Mesh[T]) DanglingEdgeCount() int { return len(m.dangling) }

// IsDangling returns true when the edge is currently exposed by a single node.
func (m *Mesh[T]) IsDangling(a, b common.Vec2) bool {
	_, ok := m.dangling[MakeEdgeKey(a, b)]
	return ok
}

// DanglingOwner returns the live node still exposing the edge, if any.
func (m *Mesh[T]) DanglingOwner(a, b common.Vec2) (NodeIndex, bool) {
	owner, ok := m.dangling[MakeEdgeKey(a, b)]
	return owner, ok
}

// TryGetNodeIndex returns the node containing p. The grid only prunes, every
// candidate is confirmed with a point in triangle test. When p lies on shared
// edges the lowest index wins.
func (m *Mesh[T]) TryGetNodeIndex(p common.Vec2) (NodeIndex, bool) {
	pad := common.Vec2{common.Epsilon, common.Epsilon}
	candidates := m.grid.QueryAABB(p.Sub(pad), p.Add(pad), nil)
	slices.Sort(candidates)
	found := NullNode
	for _, idx := range candidates {
		n := &m.nodes[idx]
		if !n.alive {
			continue
		}
		if common.PointInTriangleStrict(p, n.A, n.B, n.C) {
			return idx, true
		}
		if found == NullNode && n.Contains(p) {
			found = idx
		}
	}
	return found, found != NullNode
}

func (m *Mesh[T]) allocNode() NodeIndex {
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		return idx
	}
	m.nodes = append(m.nodes, Node[T]{})
	return NodeIndex(len(m.nodes) - 1)
}

// slotFor returns the slot of node idx whose edge has the given key, or -1.
func (m *Mesh[T]) slotFor(idx NodeIndex, key EdgeKey) int {
	n := &m.nodes[idx]
	for i := 0; i < 3; i++ {
		a, b := n.Edge(i)
		if MakeEdgeKey(a, b) == key {
			return i
		}
	}
	return -1
}

// AddNode inserts the triangle and wires it to the nodes already exposing its
// edges. Clockwise triangles are stored counter-clockwise. Returns NullNode
// for degenerate or non finite triangles.
func (m *Mesh[T]) AddNode(tri Triangle, attr T) NodeIndex {
	if !tri.valid() || tri.Degenerate() {
		m.logger.Warn("rejecting degenerate triangle",
			zap.Any("a", tri.A), zap.Any("b", tri.B), zap.Any("c", tri.C))
		return NullNode
	}
	tri = tri.CCW()
	idx := m.allocNode()
	m.nodes[idx] = Node[T]{
		Triangle:  tri,
		Neighbors: [3]NodeIndex{NullNode, NullNode, NullNode},
		Center:    tri.Centroid(),
		Attr:      attr,
		alive:     true,
	}
	for i := 0; i < 3; i++ {
		a, b := tri.Edge(i)
		key := MakeEdgeKey(a, b)
		owner, ok := m.dangling[key]
		if !ok || owner == idx {
			m.dangling[key] = idx
			continue
		}
		k := m.slotFor(owner, key)
		if k < 0 || m.nodes[owner].Neighbors[k] != NullNode {
			m.logger.Warn("dangling edge owner does not expose the edge",
				zap.Int32("owner", int32(owner)), zap.Int32("node", int32(idx)))
			m.dangling[key] = idx
			continue
		}
		m.nodes[idx].Neighbors[i] = owner
		m.nodes[owner].Neighbors[k] = idx
		delete(m.dangling, key)
	}
	bmin, bmax := tri.Bounds()
	m.grid.InsertAABB(bmin, bmax, idx)
	m.count++
	return idx
}

// RemoveNodes removes every node whose bounds intersect [bmin, bmax] and
// returns them in index order. For each node all three edges are detached
// before the next node is processed: an edge without neighbour leaves the
// dangling map, an edge with a neighbour is handed to that neighbour.
func (m *Mesh[T]) RemoveNodes(bmin, bmax common.Vec2) []RemovedNode[T] {
	candidates := m.grid.QueryAABB(bmin, bmax, nil)
	slices.Sort(candidates)
	var removed []RemovedNode[T]
	for _, idx := range candidates {
		n := &m.nodes[idx]
		if !n.alive {
			continue
		}
		tmin, tmax := n.Bounds()
		if !common.OverlapBounds(tmin, tmax, bmin, bmax) {
			continue
		}
		removed = append(removed, m.removeNode(idx))
	}
	return removed
}

// RemoveNodeList removes the listed nodes the way RemoveNodes does. Dead and
// repeated indices are skipped.
func (m *Mesh[T]) RemoveNodeList(indices []NodeIndex) []RemovedNode[T] {
	var removed []RemovedNode[T]
	for _, idx := range indices {
		if m.Node(idx) == nil {
			continue
		}
		removed = append(removed, m.removeNode(idx))
	}
	return removed
}

func (m *Mesh[T]) removeNode(idx NodeIndex) RemovedNode[T] {
	n := &m.nodes[idx]
	for i := 0; i < 3; i++ {
		a, b := n.Edge(i)
		key := MakeEdgeKey(a, b)
		nb := n.Neighbors[i]
		if nb == NullNode {
			if owner, ok := m.dangling[key]; ok && owner == idx {
				delete(m.dangling, key)
			}
			continue
		}
		other := &m.nodes[nb]
		if k := other.EdgeTo(idx); k >= 0 {
			other.Neighbors[k] = NullNode
		}
		m.dangling[key] = nb
	}
	tmin, tmax := n.Bounds()
	m.grid.RemoveAABB(tmin, tmax, idx)
	removed := RemovedNode[T]{Index: idx, Triangle: n.Triangle, Attr: n.Attr}
	*n = Node[T]{}
	m.free = append(m.free, idx)
	m.count--
	return removed
}

// Validate checks the structural invariants of the mesh and returns every
// violation found.
func (m *Mesh[T]) Validate() error {
	var err error
	live := 0
	for i := range m.nodes {
		n := &m.nodes[i]
		if !n.alive {
			continue
		}
		live++
		idx := NodeIndex(i)
		for k, nb := range n.Neighbors {
			a, b := n.Edge(k)
			key := MakeEdgeKey(a, b)
			if nb == NullNode {
				if owner, ok := m.dangling[key]; !ok {
					err = multierr.Append(err, errors.Errorf("node %d edge %d is open but not dangling", idx, k))
				} else if owner != idx && m.Node(owner) == nil {
					err = multierr.Append(err, errors.Errorf("node %d edge %d dangling owner %d is dead", idx, k, owner))
				}
				continue
			}
			other := m.Node(nb)
			if other == nil {
				err = multierr.Append(err, errors.Errorf("node %d edge %d points to dead node %d", idx, k, nb))
				continue
			}
			back := other.EdgeTo(idx)
			if back < 0 {
				err = multierr.Append(err, errors.Errorf("node %d edge %d: node %d does not point back", idx, k, nb))
				continue
			}
			c, d := other.Edge(back)
			if !((common.Vequal(a, d) && common.Vequal(b, c)) || (common.Vequal(a, c) && common.Vequal(b, d))) {
				err = multierr.Append(err, errors.Errorf("node %d edge %d and node %d edge %d do not share corners", idx, k, nb, back))
			}
		}
		for k, nb := range n.Neighbors {
			if nb != NullNode {
				continue
			}
			if other, ok := m.splitBy(idx, k); ok {
				err = multierr.Append(err, errors.Errorf("node %d edge %d ends inside open edge of node %d (t-junction)", idx, k, other))
			}
		}
		found := false
		for _, c := range m.grid.QueryPoint(n.Center, nil) {
			if c == idx {
				found = true
				break
			}
		}
		if !found {
			err = multierr.Append(err, errors.Errorf("node %d missing from the grid", idx))
		}
	}
	if live != m.count {
		err = multierr.Append(err, errors.Errorf("live node count %d, recorded %d", live, m.count))
	}
	if m.grid.Len() != m.count {
		err = multierr.Append(err, errors.Errorf("grid holds %d nodes, mesh %d", m.grid.Len(), m.count))
	}
	for key, owner := range m.dangling {
		n := m.Node(owner)
		if n == nil {
			err = multierr.Append(err, errors.Errorf("dangling edge owned by dead node %d", owner))
			continue
		}
		if k := m.slotFor(owner, key); k < 0 {
			err = multierr.Append(err, errors.Errorf("dangling edge not exposed by its owner %d", owner))
		} else if n.Neighbors[k] != NullNode {
			err = multierr.Append(err, errors.Errorf("dangling edge of node %d is connected to %d", owner, n.Neighbors[k]))
		}
	}
	return err
}

// splitBy looks for another live node whose open edge passes through a corner
// of open edge k of node idx without ending there.
func (m *Mesh[T]) splitBy(idx NodeIndex, k int) (NodeIndex, bool) {
	a, b := m.nodes[idx].Edge(k)
	pad := common.Vec2{common.Epsilon, common.Epsilon}
	bmin, bmax := common.Bounds(a, b)
	for _, c := range m.grid.QueryAABB(bmin.Sub(pad), bmax.Add(pad), nil) {
		other := m.Node(c)
		if c == idx || other == nil {
			continue
		}
		for j, nb := range other.Neighbors {
			if nb != NullNode {
				continue
			}
			ca, cb := other.Edge(j)
			if common.OnSegment(a, ca, cb) || common.OnSegment(b, ca, cb) {
				return c, true
			}
		}
	}
	return NullNode, false
}
