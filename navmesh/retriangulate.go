package navmesh

import (
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gorustyt/dynnavmesh/cdt"
	"github.com/gorustyt/dynnavmesh/common"
)

// UpdateResult reports what an update did to the mesh.
type UpdateResult struct {
	Status  Status
	Removed int // nodes removed, re-inserted on failure
	Added   int // nodes committed
}

// Retriangulator repairs the mesh after obstacle changes: it cuts out the
// nodes touching a bound and fills the hole with a constrained triangulation
// of the hole border and the obstacle edges inside it.
type Retriangulator[T Attribute[T]] struct {
	logger    *zap.Logger
	mesh      *Mesh[T]
	obstacles *ObstacleStore[T]

	// maxGrowRounds bounds how many times an update widens its hole to
	// swallow neighbours whose edges would be split.
	maxGrowRounds int

	orderBorder func([]common.Segment) ([][]common.Vec2, bool)
	triangulate func([]common.Vec2, [][2]int) (cdt.Result, cdt.Status)
}

func NewRetriangulator[T Attribute[T]](mesh *Mesh[T], obstacles *ObstacleStore[T], logger *zap.Logger) *Retriangulator[T] {
	return &Retriangulator[T]{
		logger:        common.OrNop(logger),
		mesh:          mesh,
		obstacles:     obstacles,
		maxGrowRounds: 64,
		orderBorder:   OrderBorder,
		triangulate:   cdt.Triangulate,
	}
}

type newNode[T any] struct {
	tri  Triangle
	attr T
}

// Rebuild updates over the bounds of the whole mesh.
func (r *Retriangulator[T]) Rebuild() UpdateResult {
	bmin, bmax, ok := r.mesh.Bounds()
	if !ok {
		r.logger.Warn("rebuild of an empty mesh")
		return UpdateResult{Status: StatusSuccess | StatusEmptyUpdate}
	}
	return r.Update(bmin, bmax)
}

// Update removes every node whose bounds intersect [bmin, bmax] and
// retriangulates the hole. When an obstacle would put a point inside an edge
// still shared with a live neighbour, that neighbour is removed too and the
// hole is filled again. The update is all or nothing: on failure the removed
// nodes are put back unchanged and the status says why.
func (r *Retriangulator[T]) Update(bmin, bmax common.Vec2) UpdateResult {
	if !common.Visfinite(bmin) || !common.Visfinite(bmax) || bmin[0] > bmax[0] || bmin[1] > bmax[1] {
		r.logger.Warn("invalid update bounds", zap.Any("min", bmin), zap.Any("max", bmax))
		return UpdateResult{Status: StatusFailure | StatusInvalidParam}
	}
	removed := r.mesh.RemoveNodes(bmin, bmax)
	if len(removed) == 0 {
		r.logger.Warn("update touched no node", zap.Any("min", bmin), zap.Any("max", bmax))
		return UpdateResult{Status: StatusSuccess | StatusEmptyUpdate}
	}

	nodes, grow, status := r.fill(removed)
	for round := 0; status.Succeed() && len(grow) > 0; round++ {
		more := r.mesh.RemoveNodeList(grow)
		removed = append(removed, more...)
		if round >= r.maxGrowRounds || len(more) == 0 {
			status = StatusFailure | StatusSplitBorder
			break
		}
		r.logger.Debug("update hole grown", zap.Int("round", round), zap.Int("nodes", len(more)))
		nodes, grow, status = r.fill(removed)
	}
	if status.Failed() {
		r.rollback(removed)
		r.logger.Warn("update rolled back",
			zap.Stringer("status", status),
			zap.Int("removed", len(removed)),
			zap.Any("min", bmin), zap.Any("max", bmax))
		return UpdateResult{Status: status, Removed: len(removed)}
	}

	added := 0
	for _, n := range nodes {
		if r.mesh.AddNode(n.tri, n.attr) != NullNode {
			added++
		}
	}
	r.logger.Debug("update committed", zap.Int("removed", len(removed)), zap.Int("added", added))
	return UpdateResult{Status: StatusSuccess, Removed: len(removed), Added: added}
}

func (r *Retriangulator[T]) rollback(removed []RemovedNode[T]) {
	for _, n := range removed {
		r.mesh.AddNode(n.Triangle, n.Attr)
	}
}

// fill computes the triangles replacing the removed nodes without touching
// the mesh. When points fall inside border edges still owned by live nodes,
// it returns those owners instead of triangles.
func (r *Retriangulator[T]) fill(removed []RemovedNode[T]) ([]newNode[T], []NodeIndex, Status) {
	tris := make([]Triangle, len(removed))
	for i, n := range removed {
		tris[i] = n.Triangle
	}

	loops, ok := r.orderBorder(ExtractBorder(tris))
	if !ok {
		return nil, nil, StatusFailure | StatusOpenBorder
	}

	var border []common.Segment
	var points []common.Vec2
	for _, loop := range loops {
		reduced := common.ReduceLoop(loop, r.keepPoint(loop))
		edges := common.LoopEdges(reduced)
		if len(reduced) < 3 || len(edges) != len(reduced) {
			r.logger.Warn("border loop too small", zap.Int("points", len(reduced)), zap.Int("edges", len(edges)))
			return nil, nil, StatusFailure | StatusInsufficientPoints
		}
		border = append(border, edges...)
		points = append(points, reduced...)
	}
	bmin, bmax := common.Bounds(points...)

	inside := append([]common.Segment(nil), border...)
	for _, id := range r.obstacles.QueryBounds(bmin, bmax) {
		for _, e := range r.obstacles.Edges(id) {
			inside = append(inside, common.ClipSegment(e, border)...)
		}
	}
	inside = ResolveCrossings(inside)

	w := newWelder(common.Epsilon)
	for _, p := range points {
		w.AddUnique(p)
	}
	constraints := make([][2]int, 0, len(inside))
	seen := map[[2]int]struct{}{}
	for _, e := range inside {
		a, b := w.AddUnique(e.A), w.AddUnique(e.B)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if _, dup := seen[[2]int{a, b}]; dup {
			continue
		}
		seen[[2]int{a, b}] = struct{}{}
		constraints = append(constraints, [2]int{a, b})
	}

	positions := w.Points()
	if grow := r.splitOwners(border, positions); len(grow) > 0 {
		return nil, grow, StatusSuccess
	}
	res, st := r.triangulate(positions, constraints)
	if st.Failed() || len(res.Triangles) == 0 {
		r.logger.Warn("triangulation failed",
			zap.Stringer("status", st),
			zap.Int("points", len(positions)),
			zap.Int("constraints", len(constraints)))
		return nil, nil, StatusFailure | StatusTriangulationFailed
	}

	var out []newNode[T]
	for _, t := range res.Triangles {
		tri := Triangle{positions[t[0]], positions[t[1]], positions[t[2]]}
		if tri.Degenerate() {
			continue
		}
		c := tri.Centroid()
		if !common.PointInPolygon(c, border) {
			continue
		}
		attr := emptyAttr[T]()
		for _, id := range r.obstacles.Containing(c) {
			if o, ok := r.obstacles.Get(id); ok {
				attr = attr.Merge(o.Attr)
			}
		}
		out = append(out, newNode[T]{tri: tri, attr: attr})
	}
	if len(out) == 0 {
		r.logger.Warn("triangulation left nothing inside the border", zap.Int("triangles", len(res.Triangles)))
		return nil, nil, StatusFailure | StatusTriangulationFailed
	}
	return out, nil, StatusSuccess
}

// keepPoint protects border points whose edges are still owned by a live
// node outside the removed region. Dropping them would leave that node's
// edge without a matching edge on the new side.
func (r *Retriangulator[T]) keepPoint(loop []common.Vec2) func(int) bool {
	n := len(loop)
	return func(i int) bool {
		prev := loop[common.Prev(i, n)]
		next := loop[common.Next(i, n)]
		return r.mesh.IsDangling(prev, loop[i]) || r.mesh.IsDangling(loop[i], next)
	}
}

// splitOwners returns, in index order, the live owners of border edges that
// have one of the points strictly inside them.
func (r *Retriangulator[T]) splitOwners(border []common.Segment, points []common.Vec2) []NodeIndex {
	var owners []NodeIndex
	for _, e := range border {
		owner, ok := r.mesh.DanglingOwner(e.A, e.B)
		if !ok {
			continue
		}
		if lo.ContainsBy(points, func(p common.Vec2) bool { return common.OnSegment(p, e.A, e.B) }) {
			owners = append(owners, owner)
		}
	}
	slices.Sort(owners)
	return slices.Compact(owners)
}
