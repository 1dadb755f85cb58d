package common

import (
	"cmp"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used by every point comparison in the module.
const Epsilon = 1e-5

// / Clamps the value to the specified range.
// / @param[in]		value			The value to clamp.
// / @param[in]		minInclusive	The minimum permitted return value.
// / @param[in]		maxInclusive	The maximum permitted return value.
// / @return The value, clamped to the specified range.
func Clamp[T cmp.Ordered](value, minInclusive, maxInclusive T) T {
	if value < minInclusive {
		return minInclusive
	}
	if value > maxInclusive {
		return maxInclusive
	}
	return value
}

// / Derives the signed area of the triangle ABC times two, or the relationship of line AB to point C.
// /  @param[in]		a		Vertex A.
// /  @param[in]		b		Vertex B.
// /  @param[in]		c		Vertex C.
// / @return Positive when ABC winds counter-clockwise (C is left of AB).
func TriArea2D(a, b, c Vec2) float64 {
	abx := b[0] - a[0]
	aby := b[1] - a[1]
	acx := c[0] - a[0]
	acy := c[1] - a[1]
	return abx*acy - aby*acx
}

// / Derives the 2D perp product of the two vectors. (ux*vy - uy*vx)
func Vperp2D(u, v Vec2) float64 {
	return u[0]*v[1] - u[1]*v[0]
}

// / Returns the square of the distance between two points.
func VdistSqr(a, b Vec2) float64 {
	return b.Sub(a).LenSqr()
}

// / Returns the distance between two points.
func Vdist(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// / Performs a linear interpolation between two points. (@p a toward @p b)
func Vlerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// / Performs a 'sloppy' colocation check of the specified points.
// / Returns true if the points are within Epsilon of each other.
func Vequal(a, b Vec2) bool {
	return VdistSqr(a, b) < Epsilon*Epsilon
}

func Visfinite(v Vec2) bool {
	return !math.IsInf(v[0], 0) && !math.IsNaN(v[0]) && !math.IsInf(v[1], 0) && !math.IsNaN(v[1])
}

// Vmin returns the component-wise minimum.
func Vmin(a, b Vec2) Vec2 {
	return Vec2{min(a[0], b[0]), min(a[1], b[1])}
}

// Vmax returns the component-wise maximum.
func Vmax(a, b Vec2) Vec2 {
	return Vec2{max(a[0], b[0]), max(a[1], b[1])}
}

// / Returns the squared distance from point @p pt to segment [p, q], and the
// / parametric position of the closest point on the segment.
func DistancePtSegSqr2D(pt, p, q Vec2) (distSqr, t float64) {
	pq := q.Sub(p)
	d := pq.LenSqr()
	if d > 0 {
		t = pq.Dot(pt.Sub(p)) / d
	}
	t = Clamp(t, 0, 1)
	closest := p.Add(pq.Mul(t))
	return VdistSqr(pt, closest), t
}

// / Returns true when the point lies inside or on the border of triangle ABC.
// / Works for both windings.
func PointInTriangle(p, a, b, c Vec2) bool {
	area := TriArea2D(a, b, c)
	if math.Abs(area) < Epsilon*Epsilon {
		return false
	}
	if area < 0 {
		b, c = c, b
	}
	// Tolerance is scaled by the edge length so it is a distance, not an area.
	if TriArea2D(a, b, p) < -Epsilon*b.Sub(a).Len() {
		return false
	}
	if TriArea2D(b, c, p) < -Epsilon*c.Sub(b).Len() {
		return false
	}
	if TriArea2D(c, a, p) < -Epsilon*a.Sub(c).Len() {
		return false
	}
	return true
}

// / Returns true when the point lies strictly inside triangle ABC.
func PointInTriangleStrict(p, a, b, c Vec2) bool {
	area := TriArea2D(a, b, c)
	if area < 0 {
		b, c = c, b
	}
	return TriArea2D(a, b, p) > Epsilon*b.Sub(a).Len() &&
		TriArea2D(b, c, p) > Epsilon*c.Sub(b).Len() &&
		TriArea2D(c, a, p) > Epsilon*a.Sub(c).Len()
}

// Collinear returns true when c lies within Epsilon of the line through a and b.
func Collinear(a, b, c Vec2) bool {
	l := b.Sub(a).Len()
	if l < Epsilon {
		return Vequal(a, c)
	}
	return math.Abs(TriArea2D(a, b, c))/l < Epsilon
}

// OnSegment returns true when p lies on segment [a, b] strictly between its
// endpoints (further than Epsilon from both).
func OnSegment(p, a, b Vec2) bool {
	if Vequal(p, a) || Vequal(p, b) {
		return false
	}
	d, t := DistancePtSegSqr2D(p, a, b)
	return d < Epsilon*Epsilon && t > 0 && t < 1
}

// SegmentHit describes how two segments meet.
type SegmentHit int

const (
	SegmentNone      SegmentHit = iota // No common point.
	SegmentPoint                       // A single common point.
	SegmentOverlap                     // Collinear with a common sub-segment.
)

// / Intersects segment [a0, a1] with [b0, b1].
// / For SegmentPoint the hit is returned together with its parameters on both
// / segments. For SegmentOverlap, s and t are the parameters on segment a of
// / the overlap start and end.
func IntersectSegSeg2D(a0, a1, b0, b1 Vec2) (hit SegmentHit, p Vec2, s, t float64) {
	u := a1.Sub(a0)
	v := b1.Sub(b0)
	w := a0.Sub(b0)
	d := Vperp2D(u, v)
	ulen := u.Len()
	vlen := v.Len()
	if ulen < Epsilon || vlen < Epsilon {
		return SegmentNone, p, 0, 0
	}
	if math.Abs(d) < Epsilon*ulen*vlen {
		// Parallel; check collinearity.
		if !Collinear(a0, a1, b0) || !Collinear(a0, a1, b1) {
			return SegmentNone, p, 0, 0
		}
		uu := u.Dot(u)
		t0 := b0.Sub(a0).Dot(u) / uu
		t1 := b1.Sub(a0).Dot(u) / uu
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tol := Epsilon / ulen
		if t0 > 1+tol || t1 < -tol {
			return SegmentNone, p, 0, 0
		}
		t0 = max(t0, 0)
		t1 = min(t1, 1)
		if (t1-t0)*ulen < Epsilon {
			p = a0.Add(u.Mul(t0))
			return SegmentPoint, p, t0, Clamp(p.Sub(b0).Dot(v)/v.Dot(v), 0, 1)
		}
		return SegmentOverlap, p, t0, t1
	}
	s = Vperp2D(v, w) / d
	t = Vperp2D(u, w) / d
	stol := Epsilon / ulen
	ttol := Epsilon / vlen
	if s < -stol || s > 1+stol || t < -ttol || t > 1+ttol {
		return SegmentNone, p, s, t
	}
	s = Clamp(s, 0, 1)
	t = Clamp(t, 0, 1)
	return SegmentPoint, a0.Add(u.Mul(s)), s, t
}

// IntersectLines returns the parameter along [a0, a1] where it crosses the
// infinite line through b0 and b1.
func IntersectLines(a0, a1, b0, b1 Vec2) (s float64, ok bool) {
	u := a1.Sub(a0)
	v := b1.Sub(b0)
	d := Vperp2D(u, v)
	if math.Abs(d) < Epsilon*Epsilon {
		return 0, false
	}
	return Vperp2D(v, a0.Sub(b0)) / d, true
}

// Bounds returns the axis aligned bounds of the points.
func Bounds(pts ...Vec2) (bmin, bmax Vec2) {
	if len(pts) == 0 {
		return
	}
	bmin, bmax = pts[0], pts[0]
	for _, p := range pts[1:] {
		bmin = Vmin(bmin, p)
		bmax = Vmax(bmax, p)
	}
	return bmin, bmax
}

// OverlapBounds returns true when the two boxes overlap, touching included.
func OverlapBounds(amin, amax, bmin, bmax Vec2) bool {
	return amin[0] <= bmax[0] && amax[0] >= bmin[0] &&
		amin[1] <= bmax[1] && amax[1] >= bmin[1]
}

// Vec2 is the point and vector type of the module.
type Vec2 = mgl64.Vec2
