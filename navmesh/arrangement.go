package navmesh

import (
	"math"
	"slices"

	"github.com/gorustyt/dynnavmesh/common"
)

// ResolveCrossings turns the segments into a planar arrangement. Every pair is
// intersected once: a proper crossing splits both segments, a T-junction
// splits the touched one, and a collinear overlap splits both at the overlap
// ends. The pieces are then deduplicated, so no two output segments cross or
// partly overlap.
func ResolveCrossings(segs []common.Segment) []common.Segment {
	params := make([][]float64, len(segs))
	for i := range params {
		params[i] = []float64{0, 1}
	}
	for i := 0; i < len(segs); i++ {
		a := segs[i]
		if a.Degenerate() {
			continue
		}
		for j := i + 1; j < len(segs); j++ {
			b := segs[j]
			if b.Degenerate() {
				continue
			}
			hit, _, s, t := common.IntersectSegSeg2D(a.A, a.B, b.A, b.B)
			switch hit {
			case common.SegmentPoint:
				params[i] = append(params[i], s)
				params[j] = append(params[j], t)
			case common.SegmentOverlap:
				p0 := common.Vlerp(a.A, a.B, s)
				p1 := common.Vlerp(a.A, a.B, t)
				params[i] = append(params[i], s, t)
				params[j] = append(params[j], projectParam(b, p0), projectParam(b, p1))
			}
		}
	}

	seen := map[EdgeKey]struct{}{}
	var out []common.Segment
	for i, seg := range segs {
		if seg.Degenerate() {
			continue
		}
		ps := params[i]
		slices.Sort(ps)
		l := seg.Len()
		prev := ps[0]
		for _, p := range ps[1:] {
			if (p-prev)*l < common.Epsilon {
				continue
			}
			piece := common.Segment{A: common.Vlerp(seg.A, seg.B, prev), B: common.Vlerp(seg.A, seg.B, p)}
			if prev == 0 {
				piece.A = seg.A
			}
			if p == 1 {
				piece.B = seg.B
			}
			prev = p
			key := MakeEdgeKey(piece.A, piece.B)
			if _, ok := seen[key]; ok || key.Degenerate() {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, piece)
		}
	}
	return out
}

func projectParam(seg common.Segment, p common.Vec2) float64 {
	d := seg.B.Sub(seg.A)
	return common.Clamp(p.Sub(seg.A).Dot(d)/d.LenSqr(), 0, 1)
}

type weldCell struct {
	x, y int64
}

// welder merges points closer than its tolerance. Points are hashed in a grid
// whose cells are as large as the tolerance, a lookup checks the 3x3 block
// around the point.
type welder struct {
	tol    float64
	points []common.Vec2
	cells  map[weldCell][]int
}

func newWelder(tol float64) *welder {
	return &welder{tol: tol, cells: map[weldCell][]int{}}
}

func (w *welder) cellOf(p common.Vec2) weldCell {
	return weldCell{int64(math.Floor(p[0] / w.tol)), int64(math.Floor(p[1] / w.tol))}
}

// Push adds p without looking for an existing point.
func (w *welder) Push(p common.Vec2) int {
	idx := len(w.points)
	w.points = append(w.points, p)
	c := w.cellOf(p)
	w.cells[c] = append(w.cells[c], idx)
	return idx
}

// AddUnique returns the index of a point within tolerance of p, adding p when
// there is none.
func (w *welder) AddUnique(p common.Vec2) int {
	c := w.cellOf(p)
	best, bestDist := -1, w.tol*w.tol
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			for _, i := range w.cells[weldCell{c.x + dx, c.y + dy}] {
				if d := common.VdistSqr(w.points[i], p); d < bestDist {
					best, bestDist = i, d
				}
			}
		}
	}
	if best >= 0 {
		return best
	}
	return w.Push(p)
}

func (w *welder) Points() []common.Vec2 { return w.points }
