/*
Package cdt implements a 2-dimensional Constrained Delaunay Triangulation.

Points are inserted one by one into a super triangle (Lawson flips restore the
Delaunay property), then every constraint edge is recovered by flipping the
edges that cross it. The point sets handled here are the size of a navmesh
update region, so point location is a linear scan.
*/
package cdt

import (
	"math"

	"github.com/gorustyt/dynnavmesh/common"
)

// Result holds the output triangles as counter-clockwise index triples into
// the input positions. Points merged as duplicates are referenced by the index
// of their first occurrence.
type Result struct {
	Triangles [][3]int
}

type triangle struct {
	v     [3]int
	n     [3]int // neighbour across edge i, the edge from v[i] to v[i+1]
	fixed [3]bool
	dead  bool
}

type triangulation struct {
	pts   []common.Vec2
	tris  []triangle
	super int // index of the first super vertex
	alias []int
}

const maxFlipFactor = 64

func next3(i int) int { return (i + 1) % 3 }
func prev3(i int) int { return (i + 2) % 3 }

// Triangulate builds the constrained Delaunay triangulation of positions with
// every pair in constraints present as a triangle edge.
func Triangulate(positions []common.Vec2, constraints [][2]int) (Result, Status) {
	if len(positions) < 3 {
		return Result{}, StatusFailure | StatusInvalidInput
	}
	for _, p := range positions {
		if !common.Visfinite(p) {
			return Result{}, StatusFailure | StatusInvalidInput
		}
	}
	for _, c := range constraints {
		if c[0] < 0 || c[1] < 0 || c[0] >= len(positions) || c[1] >= len(positions) {
			return Result{}, StatusFailure | StatusInvalidInput
		}
	}

	tr := newTriangulation(positions)
	status := StatusSuccess
	for i := range positions {
		if !tr.insertPoint(i) {
			status |= StatusDuplicatePoints
		}
	}
	for _, c := range constraints {
		a, b := tr.alias[c[0]], tr.alias[c[1]]
		if a == b {
			continue
		}
		if !tr.insertConstraint(a, b) {
			return Result{}, StatusFailure | StatusConstraintFailed
		}
	}

	var res Result
	for i := range tr.tris {
		t := &tr.tris[i]
		if t.dead || t.v[0] >= tr.super || t.v[1] >= tr.super || t.v[2] >= tr.super {
			continue
		}
		res.Triangles = append(res.Triangles, t.v)
	}
	if len(res.Triangles) == 0 {
		return res, StatusFailure | StatusDegenerate
	}
	return res, status
}

func newTriangulation(positions []common.Vec2) *triangulation {
	bmin, bmax := common.Bounds(positions...)
	size := max(bmax[0]-bmin[0], bmax[1]-bmin[1], 1)
	center := bmin.Add(bmax).Mul(0.5)
	r := size * 50

	n := len(positions)
	tr := &triangulation{
		pts:   make([]common.Vec2, 0, n+3),
		super: n,
		alias: make([]int, n),
	}
	tr.pts = append(tr.pts, positions...)
	tr.pts = append(tr.pts,
		common.Vec2{center[0] - r, center[1] - r},
		common.Vec2{center[0] + r, center[1] - r},
		common.Vec2{center[0], center[1] + r},
	)
	tr.tris = append(tr.tris, triangle{v: [3]int{n, n + 1, n + 2}, n: [3]int{-1, -1, -1}})
	for i := range tr.alias {
		tr.alias[i] = i
	}
	return tr
}

// orient returns the signed distance of p to the directed line a->b,
// positive on the left.
func (tr *triangulation) orient(a, b int, p common.Vec2) float64 {
	pa, pb := tr.pts[a], tr.pts[b]
	l := common.Vdist(pa, pb)
	if l == 0 {
		return 0
	}
	return common.TriArea2D(pa, pb, p) / l
}

func (tr *triangulation) isSuper(v int) bool { return v >= tr.super }

// inCircle returns true when d lies strictly inside the circumcircle of the
// counter-clockwise triangle a, b, c.
func (tr *triangulation) inCircle(a, b, c, d int) bool {
	pa, pb, pc, pd := tr.pts[a], tr.pts[b], tr.pts[c], tr.pts[d]
	adx, ady := pa[0]-pd[0], pa[1]-pd[1]
	bdx, bdy := pb[0]-pd[0], pb[1]-pd[1]
	cdx, cdy := pc[0]-pd[0], pc[1]-pd[1]
	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy
	det := ad*(bdx*cdy-cdx*bdy) - bd*(adx*cdy-cdx*ady) + cd*(adx*bdy-bdx*ady)
	scale := (ad + bd + cd) * (ad + bd + cd)
	return det > 1e-12*scale
}

func (tr *triangulation) replaceNeighbour(t, old, repl int) {
	if t < 0 {
		return
	}
	nt := &tr.tris[t]
	for i := 0; i < 3; i++ {
		if nt.n[i] == old {
			nt.n[i] = repl
			return
		}
	}
}

func (tr *triangulation) edgeIndex(t, nb int) int {
	for i := 0; i < 3; i++ {
		if tr.tris[t].n[i] == nb {
			return i
		}
	}
	return -1
}

func (tr *triangulation) locate(p common.Vec2) (t, edge int, dup int) {
	for i := range tr.tris {
		tri := &tr.tris[i]
		if tri.dead {
			continue
		}
		inside := true
		edge = -1
		best := common.Epsilon
		for k := 0; k < 3; k++ {
			o := tr.orient(tri.v[k], tri.v[next3(k)], p)
			if o < -common.Epsilon {
				inside = false
				break
			}
			if o < best {
				best = o
				edge = k
			}
		}
		if !inside {
			continue
		}
		for k := 0; k < 3; k++ {
			if v := tri.v[k]; !tr.isSuper(v) && common.Vequal(tr.pts[v], p) {
				return i, -1, v
			}
		}
		return i, edge, -1
	}
	return -1, -1, -1
}

// insertPoint adds input point i. It returns false when the point merged with
// an existing vertex.
func (tr *triangulation) insertPoint(i int) bool {
	p := tr.pts[i]
	t, edge, dup := tr.locate(p)
	if dup >= 0 {
		tr.alias[i] = dup
		return false
	}
	if t < 0 {
		// Outside the super triangle, cannot happen for finite input.
		tr.alias[i] = i
		return false
	}
	var stack [][2]int
	if edge >= 0 {
		stack = tr.splitEdge(t, edge, i)
	} else {
		stack = tr.splitTriangle(t, i)
	}
	tr.legalize(stack)
	return true
}

func (tr *triangulation) splitTriangle(t, p int) [][2]int {
	old := tr.tris[t]
	a, b, c := old.v[0], old.v[1], old.v[2]
	t0 := t
	t1 := len(tr.tris)
	t2 := t1 + 1
	tr.tris[t0] = triangle{v: [3]int{a, b, p}, n: [3]int{old.n[0], t1, t2}, fixed: [3]bool{old.fixed[0]}}
	tr.tris = append(tr.tris,
		triangle{v: [3]int{b, c, p}, n: [3]int{old.n[1], t2, t0}, fixed: [3]bool{old.fixed[1]}},
		triangle{v: [3]int{c, a, p}, n: [3]int{old.n[2], t0, t1}, fixed: [3]bool{old.fixed[2]}},
	)
	tr.replaceNeighbour(old.n[1], t, t1)
	tr.replaceNeighbour(old.n[2], t, t2)
	return [][2]int{{t0, 0}, {t1, 0}, {t2, 0}}
}

func (tr *triangulation) splitEdge(t, k, p int) [][2]int {
	old := tr.tris[t]
	a, b, c := old.v[k], old.v[next3(k)], old.v[prev3(k)]
	nab, nbc, nca := old.n[k], old.n[next3(k)], old.n[prev3(k)]
	fab, fbc, fca := old.fixed[k], old.fixed[next3(k)], old.fixed[prev3(k)]

	t1 := t
	t2 := len(tr.tris)
	if nab < 0 {
		tr.tris[t1] = triangle{v: [3]int{p, c, a}, n: [3]int{t2, nca, -1}, fixed: [3]bool{false, fca, fab}}
		tr.tris = append(tr.tris, triangle{v: [3]int{p, b, c}, n: [3]int{-1, nbc, t1}, fixed: [3]bool{fab, fbc, false}})
		tr.replaceNeighbour(nbc, t, t2)
		return [][2]int{{t1, 1}, {t2, 1}}
	}

	u := nab
	uold := tr.tris[u]
	m := tr.edgeIndex(u, t)
	d := uold.v[prev3(m)]
	nad, ndb := uold.n[next3(m)], uold.n[prev3(m)]
	fad, fdb := uold.fixed[next3(m)], uold.fixed[prev3(m)]
	u1 := u
	u2 := t2 + 1

	tr.tris[t1] = triangle{v: [3]int{p, c, a}, n: [3]int{t2, nca, u1}, fixed: [3]bool{false, fca, fab}}
	tr.tris[u1] = triangle{v: [3]int{p, a, d}, n: [3]int{t1, nad, u2}, fixed: [3]bool{fab, fad, false}}
	tr.tris = append(tr.tris,
		triangle{v: [3]int{p, b, c}, n: [3]int{u2, nbc, t1}, fixed: [3]bool{fab, fbc, false}},
		triangle{v: [3]int{p, d, b}, n: [3]int{u1, ndb, t2}, fixed: [3]bool{false, fdb, fab}},
	)
	tr.replaceNeighbour(nbc, t, t2)
	tr.replaceNeighbour(ndb, u, u2)
	return [][2]int{{t1, 1}, {t2, 1}, {u1, 1}, {u2, 1}}
}

// flip swaps the diagonal shared by t (edge k) and its neighbour. It returns
// the two triangles, t now holding the vertex opposite the old edge in t at
// slot 0.
func (tr *triangulation) flip(t, k int) (int, int, bool) {
	u := tr.tris[t].n[k]
	if u < 0 {
		return -1, -1, false
	}
	m := tr.edgeIndex(u, t)
	if m < 0 {
		return -1, -1, false
	}
	told, uold := tr.tris[t], tr.tris[u]
	a, b, p := told.v[k], told.v[next3(k)], told.v[prev3(k)]
	d := uold.v[prev3(m)]
	if common.TriArea2D(tr.pts[p], tr.pts[a], tr.pts[d]) <= 0 ||
		common.TriArea2D(tr.pts[p], tr.pts[d], tr.pts[b]) <= 0 {
		return -1, -1, false
	}
	tb, ta := told.n[next3(k)], told.n[prev3(k)]
	ua, ub := uold.n[next3(m)], uold.n[prev3(m)]

	tr.tris[t] = triangle{
		v:     [3]int{p, a, d},
		n:     [3]int{ta, ua, u},
		fixed: [3]bool{told.fixed[prev3(k)], uold.fixed[next3(m)], false},
	}
	tr.tris[u] = triangle{
		v:     [3]int{p, d, b},
		n:     [3]int{t, ub, tb},
		fixed: [3]bool{false, uold.fixed[prev3(m)], told.fixed[next3(k)]},
	}
	tr.replaceNeighbour(ua, u, t)
	tr.replaceNeighbour(tb, t, u)
	return t, u, true
}

func (tr *triangulation) legalize(stack [][2]int) {
	limit := maxFlipFactor * (len(tr.pts) + 8)
	for n := 0; len(stack) > 0 && n < limit; n++ {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t, k := e[0], e[1]
		tri := &tr.tris[t]
		if tri.fixed[k] {
			continue
		}
		u := tri.n[k]
		if u < 0 {
			continue
		}
		m := tr.edgeIndex(u, t)
		if m < 0 {
			continue
		}
		d := tr.tris[u].v[prev3(m)]
		if !tr.inCircle(tri.v[0], tri.v[1], tri.v[2], d) {
			continue
		}
		t0, t1, ok := tr.flip(t, k)
		if !ok {
			continue
		}
		stack = append(stack, [2]int{t0, 1}, [2]int{t1, 1})
	}
}

func (tr *triangulation) findEdge(a, b int) (t, k int) {
	for i := range tr.tris {
		tri := &tr.tris[i]
		if tri.dead {
			continue
		}
		for j := 0; j < 3; j++ {
			if tri.v[j] == a && tri.v[next3(j)] == b {
				return i, j
			}
		}
	}
	return -1, -1
}

func (tr *triangulation) markFixed(a, b int) {
	if t, k := tr.findEdge(a, b); t >= 0 {
		tr.tris[t].fixed[k] = true
	}
	if t, k := tr.findEdge(b, a); t >= 0 {
		tr.tris[t].fixed[k] = true
	}
}

// vertexOnSegment returns the input vertex closest to a lying strictly inside
// segment a-b, or -1.
func (tr *triangulation) vertexOnSegment(a, b int) int {
	pa, pb := tr.pts[a], tr.pts[b]
	best, bestDist := -1, math.MaxFloat64
	for v := 0; v < tr.super; v++ {
		if v == a || v == b || tr.alias[v] != v {
			continue
		}
		if common.OnSegment(tr.pts[v], pa, pb) {
			if d := common.VdistSqr(pa, tr.pts[v]); d < bestDist {
				best, bestDist = v, d
			}
		}
	}
	return best
}

// crosses returns true when edge u-v properly crosses segment a-b.
func (tr *triangulation) crosses(a, b, u, v int) bool {
	if u == a || u == b || v == a || v == b {
		return false
	}
	pu, pv := tr.pts[u], tr.pts[v]
	ou := tr.orient(a, b, pu)
	ov := tr.orient(a, b, pv)
	if !((ou > common.Epsilon && ov < -common.Epsilon) || (ou < -common.Epsilon && ov > common.Epsilon)) {
		return false
	}
	oa := tr.orient(u, v, tr.pts[a])
	ob := tr.orient(u, v, tr.pts[b])
	return (oa > 0 && ob < 0) || (oa < 0 && ob > 0)
}

func (tr *triangulation) insertConstraint(a, b int) bool {
	work := [][2]int{{a, b}}
	for guard := 0; len(work) > 0; guard++ {
		if guard > 4*len(tr.pts)+16 {
			return false
		}
		e := work[len(work)-1]
		work = work[:len(work)-1]
		a, b := e[0], e[1]
		if a == b {
			continue
		}
		if t, _ := tr.findEdge(a, b); t >= 0 {
			tr.markFixed(a, b)
			continue
		}
		if t, _ := tr.findEdge(b, a); t >= 0 {
			tr.markFixed(a, b)
			continue
		}
		if v := tr.vertexOnSegment(a, b); v >= 0 {
			work = append(work, [2]int{v, b}, [2]int{a, v})
			continue
		}
		if !tr.forceEdge(a, b) {
			return false
		}
		tr.markFixed(a, b)
	}
	return true
}

func (tr *triangulation) crossingEdges(a, b int) (edges [][2]int, blocked bool) {
	for i := range tr.tris {
		tri := &tr.tris[i]
		if tri.dead {
			continue
		}
		for k := 0; k < 3; k++ {
			u, v := tri.v[k], tri.v[next3(k)]
			// Each interior edge shows up twice, keep one direction.
			if u > v && tri.n[k] >= 0 {
				continue
			}
			if tr.crosses(a, b, u, v) {
				if tri.fixed[k] {
					blocked = true
				}
				edges = append(edges, [2]int{u, v})
			}
		}
	}
	return edges, blocked
}

// forceEdge flips away every edge crossing a-b, then restores the Delaunay
// property of the new edges that do not lie on a-b.
func (tr *triangulation) forceEdge(a, b int) bool {
	crossing, blocked := tr.crossingEdges(a, b)
	if blocked || len(crossing) == 0 {
		return false
	}
	var created [][2]int
	limit := maxFlipFactor * (len(crossing) + 1) * (len(crossing) + 1)
	for iter := 0; len(crossing) > 0; iter++ {
		if iter > limit {
			return false
		}
		e := crossing[0]
		crossing = crossing[1:]
		t, k := tr.findEdge(e[0], e[1])
		if t < 0 {
			t, k = tr.findEdge(e[1], e[0])
		}
		if t < 0 {
			return false
		}
		t0, _, ok := tr.flip(t, k)
		if !ok {
			// Non convex quad, retry once its neighbours have moved.
			crossing = append(crossing, e)
			continue
		}
		// The new diagonal runs from slot 0 to slot 2 of t0.
		p, d := tr.tris[t0].v[0], tr.tris[t0].v[2]
		if tr.crosses(a, b, p, d) {
			crossing = append(crossing, [2]int{p, d})
		} else {
			created = append(created, [2]int{p, d})
		}
	}

	tr.markFixed(a, b)
	for pass := 0; pass < len(created)+1; pass++ {
		swapped := false
		for i, e := range created {
			if (e[0] == a && e[1] == b) || (e[0] == b && e[1] == a) {
				continue
			}
			t, k := tr.findEdge(e[0], e[1])
			if t < 0 || tr.tris[t].fixed[k] {
				continue
			}
			u := tr.tris[t].n[k]
			if u < 0 {
				continue
			}
			m := tr.edgeIndex(u, t)
			if m < 0 {
				continue
			}
			d := tr.tris[u].v[prev3(m)]
			tri := tr.tris[t]
			if !tr.inCircle(tri.v[0], tri.v[1], tri.v[2], d) {
				continue
			}
			if t0, _, ok := tr.flip(t, k); ok {
				created[i] = [2]int{tr.tris[t0].v[0], tr.tris[t0].v[2]}
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return true
}
