package navmesh

import (
	"github.com/gorustyt/dynnavmesh/common"
)

// funnel is the state of the string pulling scan. Indices are positions in
// the wrapped portal list, where portal 0 is the start point and the last one
// the end point.
type funnel struct {
	apex, left, right          common.Vec2
	apexIdx, leftIdx, rightIdx int
}

func (f *funnel) reset(p common.Vec2, idx int) {
	f.apex, f.left, f.right = p, p, p
	f.apexIdx, f.leftIdx, f.rightIdx = idx, idx, idx
}

func wrapPortals(portals []Portal, start, end common.Vec2) []Portal {
	ps := make([]Portal, 0, len(portals)+2)
	ps = append(ps, Portal{Left: start, Right: start})
	ps = append(ps, portals...)
	return append(ps, Portal{Left: end, Right: end})
}

// pull runs the funnel over the wrapped portals and calls commit with every
// corner and the wrapped index of the portal it came from. When a side would
// cross the other one, the other side becomes a corner and the scan restarts
// right after the portal of the new apex.
func pull(ps []Portal, commit func(p common.Vec2, idx int)) {
	var f funnel
	f.reset(ps[0].Left, 0)
	for i := 1; i < len(ps); i++ {
		left, right := ps[i].Left, ps[i].Right

		// Update right vertex.
		if common.TriArea2D(f.apex, f.right, right) >= 0 {
			if common.Vequal(f.apex, f.right) || common.TriArea2D(f.apex, f.left, right) < 0 {
				// Tighten the funnel.
				f.right, f.rightIdx = right, i
			} else {
				// Right over left, insert left to path and restart scan from portal left point.
				commit(f.left, f.leftIdx)
				f.reset(f.left, f.leftIdx)
				i = f.apexIdx
				continue
			}
		}

		// Update left vertex.
		if common.TriArea2D(f.apex, f.left, left) <= 0 {
			if common.Vequal(f.apex, f.left) || common.TriArea2D(f.apex, f.right, left) > 0 {
				// Tighten the funnel.
				f.left, f.leftIdx = left, i
			} else {
				// Left over right, insert right to path and restart scan from portal right point.
				commit(f.right, f.rightIdx)
				f.reset(f.right, f.rightIdx)
				i = f.apexIdx
				continue
			}
		}
	}
}

// StringPull converts the portals crossed by a path into the shortest
// polyline from start to end through them. The result always begins at start
// and finishes at end.
func StringPull(portals []Portal, start, end common.Vec2) []common.Vec2 {
	path := []common.Vec2{start}
	pull(wrapPortals(portals, start, end), func(p common.Vec2, _ int) {
		if !common.Vequal(path[len(path)-1], p) {
			path = append(path, p)
		}
	})
	if len(path) > 1 && common.Vequal(path[len(path)-1], end) {
		path[len(path)-1] = end
	} else {
		path = append(path, end)
	}
	return path
}

// StringPullAligned is StringPull with one output point per portal: the
// result has len(portals)+2 points, index 0 is start, index i+1 lies on
// portal i and the last one is end. Portals between two corners get the
// point where the straight segment joining those corners crosses them.
func StringPullAligned(portals []Portal, start, end common.Vec2) []common.Vec2 {
	ps := wrapPortals(portals, start, end)
	out := make([]common.Vec2, len(ps))
	fixed := make([]bool, len(ps))
	out[0], fixed[0] = start, true
	pull(ps, func(p common.Vec2, idx int) {
		if idx > 0 && idx < len(ps)-1 {
			out[idx], fixed[idx] = p, true
		}
	})
	last := len(ps) - 1
	out[last], fixed[last] = end, true

	prev := 0
	for i := 1; i <= last; i++ {
		if !fixed[i] {
			continue
		}
		a, b := out[prev], out[i]
		for k := prev + 1; k < i; k++ {
			out[k] = crossPortal(ps[k], a, b)
		}
		prev = i
	}
	return out
}

// crossPortal returns the point of the portal hit by the line through a and
// b, clamped to the portal. Parallel lines give the portal centre.
func crossPortal(p Portal, a, b common.Vec2) common.Vec2 {
	if common.Vequal(p.Left, p.Right) {
		return p.Left
	}
	s, ok := common.IntersectLines(p.Left, p.Right, a, b)
	if !ok {
		return p.Mid()
	}
	return common.Vlerp(p.Left, p.Right, common.Clamp(s, 0, 1))
}
