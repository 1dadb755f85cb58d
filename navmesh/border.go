package navmesh

import (
	"github.com/gorustyt/dynnavmesh/common"
)

// ExtractBorder returns the edges occurring exactly once across tris, in the
// order they first appear. Interior edges are shared by two triangles and
// drop out. Edges keep the direction of their triangle.
func ExtractBorder(tris []Triangle) []common.Segment {
	counts := make(map[EdgeKey]int, len(tris)*3)
	var order []EdgeKey
	first := make(map[EdgeKey]common.Segment, len(tris)*3)
	for _, t := range tris {
		for i := 0; i < 3; i++ {
			a, b := t.Edge(i)
			key := MakeEdgeKey(a, b)
			if key.Degenerate() {
				continue
			}
			if counts[key] == 0 {
				order = append(order, key)
				first[key] = common.Segment{A: a, B: b}
			}
			counts[key]++
		}
	}
	out := make([]common.Segment, 0, len(order))
	for _, key := range order {
		if counts[key] == 1 {
			out = append(out, first[key])
		}
	}
	return out
}

// OrderBorder chains the unordered border edges into closed loops. Each walk
// starts at the first unused edge and follows, at every point, an unused edge
// sharing it until it returns to the start. Every loop is returned
// counter-clockwise by its signed area. ok is false when a walk dead-ends
// before closing.
func OrderBorder(edges []common.Segment) (loops [][]common.Vec2, ok bool) {
	if len(edges) == 0 {
		return nil, false
	}
	byPoint := make(map[pointKey][]int, len(edges)*2)
	for i, e := range edges {
		ka, kb := makePointKey(e.A), makePointKey(e.B)
		byPoint[ka] = append(byPoint[ka], i)
		byPoint[kb] = append(byPoint[kb], i)
	}
	used := make([]bool, len(edges))

	// next picks an unused edge touching cur, preferring one that starts there
	// so consistently oriented borders are walked along their direction.
	next := func(cur common.Vec2) (int, common.Vec2, bool) {
		key := makePointKey(cur)
		fallback := -1
		for _, i := range byPoint[key] {
			if used[i] {
				continue
			}
			if makePointKey(edges[i].A) == key {
				return i, edges[i].B, true
			}
			if fallback < 0 {
				fallback = i
			}
		}
		if fallback < 0 {
			return -1, common.Vec2{}, false
		}
		return fallback, edges[fallback].A, true
	}

	for s := range edges {
		if used[s] {
			continue
		}
		used[s] = true
		start := makePointKey(edges[s].A)
		loop := []common.Vec2{edges[s].A}
		cur := edges[s].B
		for makePointKey(cur) != start {
			i, other, found := next(cur)
			if !found {
				return nil, false
			}
			used[i] = true
			loop = append(loop, cur)
			cur = other
		}
		if common.PolygonArea(loop) < 0 {
			common.ReverseLoop(loop)
		}
		loops = append(loops, loop)
	}
	return loops, true
}
