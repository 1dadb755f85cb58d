package navmesh

import (
	"math"

	"go.uber.org/zap"

	"github.com/gorustyt/dynnavmesh/common"
)

// DefaultExtraPops is how many pops the search keeps going after it first
// pops the target node.
const DefaultExtraPops = 10

// Portal is the crossable edge between two consecutive path nodes, seen from
// the direction of travel.
type Portal struct {
	Left, Right common.Vec2
}

// Mid returns the centre of the portal.
func (p Portal) Mid() common.Vec2 { return common.Vlerp(p.Left, p.Right, 0.5) }

type QueryOption func(*queryOptions)

type queryOptions struct {
	extraPops int
}

// WithExtraPops sets how many pops the search continues after the target was
// first popped.
func WithExtraPops(n int) QueryOption {
	return func(o *queryOptions) {
		if n >= 0 {
			o.extraPops = n
		}
	}
}

// Query runs path searches over a mesh. It only reads the mesh, several
// queries may run at the same time as long as nothing mutates the mesh.
type Query[T any] struct {
	logger *zap.Logger
	mesh   *Mesh[T]
	opts   queryOptions
}

func NewQuery[T any](mesh *Mesh[T], logger *zap.Logger, opts ...QueryOption) *Query[T] {
	q := &Query[T]{
		logger: common.OrNop(logger),
		mesh:   mesh,
		opts:   queryOptions{extraPops: DefaultExtraPops},
	}
	for _, o := range opts {
		o(&q.opts)
	}
	return q
}

// FindPath finds a node path from the node containing startPos to the node
// containing endPos.
//
// The search does not stop when the target is first popped: it keeps popping
// up to extraPops more entries and may still lower the target cost, since
// cost multipliers make the distance heuristic inadmissible. The target is
// never closed for that reason. A seeker returning +Inf makes a node
// unreachable.
//
// When the target cannot be reached the path leads to the visited node closest
// to it and the status carries StatusPartialResult; that may be the start node
// alone when nothing reached lies closer. If no node but the start is reachable
// the search fails with StatusNoPath.
func (q *Query[T]) FindPath(seeker Seeker[T], startPos, endPos common.Vec2) ([]NodeIndex, Status) {
	startRef, ok := q.mesh.TryGetNodeIndex(startPos)
	if !ok {
		return nil, StatusFailure | StatusInvalidParam
	}
	endRef, ok := q.mesh.TryGetNodeIndex(endPos)
	if !ok {
		return nil, StatusFailure | StatusInvalidParam
	}
	if startRef == endRef {
		return []NodeIndex{startRef}, StatusSuccess
	}

	target := q.mesh.Node(endRef).Center
	startNode := q.mesh.Node(startRef)

	arena := []searchNode{{
		id:     startRef,
		parent: -1,
		total:  common.Vdist(startNode.Center, target),
		flags:  nodeOpen,
	}}
	lookup := map[NodeIndex]int32{startRef: 0}
	open := NewNodeQueue(func(a, b queueEntry) bool { return a.total < b.total })
	open.Offer(queueEntry{node: 0, total: arena[0].total})

	best, bestDist := int32(0), arena[0].total
	targetIdx := int32(-1)
	pops := 0
	for !open.Empty() {
		e := open.Poll()
		cur := &arena[e.node]
		if cur.flags&nodeClosed != 0 || e.total > cur.total {
			continue
		}
		if targetIdx >= 0 {
			pops++
			if pops > q.opts.extraPops {
				break
			}
		}
		if cur.id == endRef {
			targetIdx = e.node
			continue
		}
		cur.flags = nodeClosed

		curNode := q.mesh.Node(cur.id)
		for _, nb := range curNode.Neighbors {
			if nb == NullNode {
				continue
			}
			nbNode := q.mesh.Node(nb)
			if nbNode == nil {
				continue
			}
			ai, seen := lookup[nb]
			if seen && arena[ai].flags&nodeClosed != 0 {
				continue
			}
			step := seeker.CalculateCost(nbNode.Attr, curNode.Center, nbNode.Center)
			if math.IsInf(step, 1) || math.IsNaN(step) {
				continue
			}
			cost := arena[e.node].cost + step
			h := common.Vdist(nbNode.Center, target)
			if !seen {
				ai = int32(len(arena))
				arena = append(arena, searchNode{id: nb, parent: e.node, cost: cost, total: cost + h, flags: nodeOpen})
				lookup[nb] = ai
			} else {
				if cost >= arena[ai].cost {
					continue
				}
				arena[ai].parent = e.node
				arena[ai].cost = cost
				arena[ai].total = cost + h
			}
			open.Offer(queueEntry{node: ai, total: arena[ai].total})
			if h < bestDist {
				best, bestDist = ai, h
			}
		}
	}

	status := StatusSuccess
	last := targetIdx
	if last < 0 {
		if len(arena) == 1 {
			q.logger.Debug("no path", zap.Int32("start", int32(startRef)), zap.Int32("end", int32(endRef)))
			return nil, StatusFailure | StatusNoPath
		}
		last = best
		status |= StatusPartialResult
	}

	var path []NodeIndex
	for i := last; i >= 0; i = arena[i].parent {
		path = append(path, arena[i].id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, status
}

// BuildPortals returns the portals crossed by the node path. The shared edge
// is the slot of the earlier node pointing at the later one; a missing link is
// logged and edge 0 is used instead. Left and right are picked from the side
// of the portal the previous portal centre (start for the first) lies on, so
// consecutive portals keep the same winding.
func (q *Query[T]) BuildPortals(path []NodeIndex, start common.Vec2) []Portal {
	if len(path) < 2 {
		return nil
	}
	portals := make([]Portal, 0, len(path)-1)
	prev := start
	for i := 0; i+1 < len(path); i++ {
		from := q.mesh.Node(path[i])
		if from == nil {
			q.logger.Warn("path node is not alive", zap.Int32("node", int32(path[i])))
			break
		}
		k := from.EdgeTo(path[i+1])
		if k < 0 {
			q.logger.Warn("path nodes should be connected but are not",
				zap.Int32("from", int32(path[i])), zap.Int32("to", int32(path[i+1])))
			k = 0
		}
		p1, p2 := from.Edge(k)
		side := common.TriArea2D(prev, p1, p2)
		if math.Abs(side) < common.Epsilon*common.Epsilon {
			// prev lies on the portal line, decide from the node centre.
			side = common.TriArea2D(from.Center, p1, p2)
		}
		var portal Portal
		if side > 0 {
			portal = Portal{Left: p2, Right: p1}
		} else {
			portal = Portal{Left: p1, Right: p2}
		}
		portals = append(portals, portal)
		prev = portal.Mid()
	}
	return portals
}

// FindStraightPath runs FindPath, builds the portals and pulls the string.
// A partial path ends at the centre of the last node reached.
func (q *Query[T]) FindStraightPath(seeker Seeker[T], start, end common.Vec2) ([]common.Vec2, Status) {
	path, status := q.FindPath(seeker, start, end)
	if status.Failed() {
		return nil, status
	}
	if status.Detail(StatusPartialResult) {
		end = q.mesh.Node(path[len(path)-1]).Center
	}
	return StringPull(q.BuildPortals(path, start), start, end), status
}
