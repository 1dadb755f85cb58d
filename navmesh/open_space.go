package navmesh

import (
	"gopkg.in/eapache/queue.v1"

	"github.com/gorustyt/dynnavmesh/common"
)

type openSpaceItem struct {
	node  NodeIndex
	depth int
}

// FindNearestValid looks for open space around p. It walks the adjacency
// breadth first from the node containing p and stops at the first ring
// holding a node the validator accepts, returning the one whose centre is
// closest to p. When the node containing p is itself valid, p is returned.
// maxVisited bounds the walk, 0 means no bound.
func (q *Query[T]) FindNearestValid(validator Validator[T], p common.Vec2, maxVisited int) (common.Vec2, NodeIndex, bool) {
	startRef, ok := q.mesh.TryGetNodeIndex(p)
	if !ok {
		return common.Vec2{}, NullNode, false
	}
	if validator.IsValid(q.mesh.Node(startRef).Attr) {
		return p, startRef, true
	}

	visited := map[NodeIndex]struct{}{startRef: {}}
	open := queue.New()
	open.Add(openSpaceItem{node: startRef})
	found, foundDepth := NullNode, -1
	var foundDist float64
	for open.Length() > 0 {
		item := open.Remove().(openSpaceItem)
		if foundDepth >= 0 && item.depth >= foundDepth {
			break
		}
		for _, nb := range q.mesh.Node(item.node).Neighbors {
			if nb == NullNode {
				continue
			}
			if _, ok := visited[nb]; ok {
				continue
			}
			if maxVisited > 0 && len(visited) >= maxVisited {
				break
			}
			visited[nb] = struct{}{}
			n := q.mesh.Node(nb)
			if n == nil {
				continue
			}
			if validator.IsValid(n.Attr) {
				if d := common.VdistSqr(p, n.Center); found == NullNode || d < foundDist {
					found, foundDist, foundDepth = nb, d, item.depth+1
				}
				continue
			}
			open.Add(openSpaceItem{node: nb, depth: item.depth + 1})
		}
	}
	if found == NullNode {
		return common.Vec2{}, NullNode, false
	}
	return q.mesh.Node(found).Center, found, true
}
