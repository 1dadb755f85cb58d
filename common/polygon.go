package common

import (
	"math"
	"sort"
)

// Segment is a directed 2D segment.
type Segment struct {
	A, B Vec2
}

func (s Segment) Len() float64 { return Vdist(s.A, s.B) }

func (s Segment) Mid() Vec2 { return Vlerp(s.A, s.B, 0.5) }

// Degenerate returns true when both endpoints are colocated.
func (s Segment) Degenerate() bool { return Vequal(s.A, s.B) }

// LoopEdges returns the closed chain of edges through pts, wrap-around included.
func LoopEdges(pts []Vec2) []Segment {
	n := len(pts)
	if n < 2 {
		return nil
	}
	edges := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Segment{pts[i], pts[Next(i, n)]})
	}
	return edges
}

// PolygonArea returns the signed area of the closed loop, positive for CCW.
func PolygonArea(pts []Vec2) float64 {
	var area float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[Next(i, n)]
		area += a[0]*b[1] - b[0]*a[1]
	}
	return area * 0.5
}

// ReverseLoop reverses the points in place.
func ReverseLoop(pts []Vec2) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// / Tests the point against the polygon formed by the edges using the even-odd
// / rule. The edges do not need to be ordered, several loops form holes.
// / Points within Epsilon of an edge count as inside.
func PointInPolygon(p Vec2, edges []Segment) bool {
	inside := false
	for _, e := range edges {
		if d, _ := DistancePtSegSqr2D(p, e.A, e.B); d < Epsilon*Epsilon {
			return true
		}
		a, b := e.A, e.B
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := a[0] + (p[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
			if p[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// / Removes the points of a closed loop that are collinear with their
// / neighbours. keep, when not nil, protects a point (by its index in pts)
// / from removal.
func ReduceLoop(pts []Vec2, keep func(i int) bool) []Vec2 {
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	for changed := true; changed && len(idx) > 3; {
		changed = false
		for i := 0; i < len(idx) && len(idx) > 3; {
			n := len(idx)
			prev := pts[idx[Prev(i, n)]]
			cur := pts[idx[i]]
			next := pts[idx[Next(i, n)]]
			if Collinear(prev, next, cur) && (keep == nil || !keep(idx[i])) {
				idx = append(idx[:i], idx[i+1:]...)
				changed = true
				continue
			}
			i++
		}
	}
	out := make([]Vec2, len(idx))
	for i, j := range idx {
		out[i] = pts[j]
	}
	return out
}

// / Offsets a closed loop outward by dist using mitred corners. Corners whose
// / mitre would exceed four times dist are bevelled.
func ExpandPolygon(pts []Vec2, dist float64) []Vec2 {
	n := len(pts)
	if n < 3 || dist <= 0 {
		return append([]Vec2(nil), pts...)
	}
	sign := 1.0
	if PolygonArea(pts) < 0 {
		sign = -1
	}
	normal := func(a, b Vec2) Vec2 {
		d := b.Sub(a)
		l := d.Len()
		if l < Epsilon {
			return Vec2{}
		}
		// Right-hand normal points outward for CCW loops.
		return Vec2{d[1], -d[0]}.Mul(sign / l)
	}
	out := make([]Vec2, 0, n)
	limit := 4 * dist
	for i := 0; i < n; i++ {
		prev := pts[Prev(i, n)]
		cur := pts[i]
		next := pts[Next(i, n)]
		n0 := normal(prev, cur)
		n1 := normal(cur, next)
		bis := n0.Add(n1)
		bl := bis.Len()
		if bl < Epsilon {
			out = append(out, cur.Add(n1.Mul(dist)))
			continue
		}
		bis = bis.Mul(1 / bl)
		cosHalf := bis.Dot(n1)
		if cosHalf < Epsilon || dist/cosHalf > limit {
			out = append(out, cur.Add(n0.Mul(dist)), cur.Add(n1.Mul(dist)))
			continue
		}
		out = append(out, cur.Add(bis.Mul(dist/cosHalf)))
	}
	return out
}

// / Clips the segment against the polygon described by border and returns the
// / pieces that lie inside it. Pieces running along the border are kept.
func ClipSegment(seg Segment, border []Segment) []Segment {
	if seg.Degenerate() {
		return nil
	}
	params := []float64{0, 1}
	for _, e := range border {
		hit, _, s, t := IntersectSegSeg2D(seg.A, seg.B, e.A, e.B)
		switch hit {
		case SegmentPoint:
			params = append(params, s)
		case SegmentOverlap:
			params = append(params, s, t)
		}
	}
	sort.Float64s(params)

	var out []Segment
	open := false
	for i := 0; i+1 < len(params); i++ {
		t0, t1 := params[i], params[i+1]
		if (t1-t0)*seg.Len() < Epsilon {
			continue
		}
		mid := Vlerp(seg.A, seg.B, (t0+t1)*0.5)
		if !PointInPolygon(mid, border) {
			open = false
			continue
		}
		a := Vlerp(seg.A, seg.B, t0)
		b := Vlerp(seg.A, seg.B, t1)
		if open && Vequal(out[len(out)-1].B, a) {
			out[len(out)-1].B = b
			continue
		}
		out = append(out, Segment{a, b})
		open = true
	}
	return out
}

// SnapToGrid rounds the coordinate to the tolerance grid.
func SnapToGrid(v float64, cell float64) int64 {
	return int64(math.Round(v / cell))
}
