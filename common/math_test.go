package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersectSegSeg2D(t *testing.T) {
	tests := []struct {
		name   string
		a0, a1 Vec2
		b0, b1 Vec2
		hit    SegmentHit
		s, t   float64
	}{
		{"cross", Vec2{0, 0}, Vec2{2, 2}, Vec2{0, 2}, Vec2{2, 0}, SegmentPoint, 0.5, 0.5},
		{"touch at endpoint", Vec2{0, 0}, Vec2{1, 0}, Vec2{1, 0}, Vec2{1, 1}, SegmentPoint, 1, 0},
		{"parallel", Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1}, Vec2{1, 1}, SegmentNone, 0, 0},
		{"apart", Vec2{0, 0}, Vec2{1, 0}, Vec2{2, -1}, Vec2{2, 1}, SegmentNone, 0, 0},
		{"overlap", Vec2{0, 0}, Vec2{2, 0}, Vec2{1, 0}, Vec2{3, 0}, SegmentOverlap, 0.5, 1},
		{"degenerate", Vec2{0, 0}, Vec2{0, 0}, Vec2{1, 0}, Vec2{3, 0}, SegmentNone, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, _, s, u := IntersectSegSeg2D(tt.a0, tt.a1, tt.b0, tt.b1)
			assert.Equal(t, tt.hit, hit)
			if hit != SegmentNone {
				assert.InDelta(t, tt.s, s, 1e-9)
				assert.InDelta(t, tt.t, u, 1e-9)
			}
		})
	}

	_, p, _, _ := IntersectSegSeg2D(Vec2{0, 0}, Vec2{2, 2}, Vec2{0, 2}, Vec2{2, 0})
	assert.True(t, Vequal(Vec2{1, 1}, p))
}

func TestPointInTriangle(t *testing.T) {
	a, b, c := Vec2{0, 0}, Vec2{4, 0}, Vec2{0, 4}
	assert.True(t, PointInTriangle(Vec2{1, 1}, a, b, c))
	assert.True(t, PointInTriangle(Vec2{1, 1}, a, c, b), "winding does not matter")
	assert.True(t, PointInTriangle(Vec2{2, 0}, a, b, c), "edges are inside")
	assert.False(t, PointInTriangle(Vec2{3, 3}, a, b, c))
	assert.False(t, PointInTriangleStrict(Vec2{2, 0}, a, b, c))
	assert.True(t, PointInTriangleStrict(Vec2{1, 1}, a, b, c))
}

func TestOnSegment(t *testing.T) {
	assert.True(t, OnSegment(Vec2{1, 0}, Vec2{0, 0}, Vec2{2, 0}))
	assert.False(t, OnSegment(Vec2{0, 0}, Vec2{0, 0}, Vec2{2, 0}))
	assert.False(t, OnSegment(Vec2{3, 0}, Vec2{0, 0}, Vec2{2, 0}))
	assert.False(t, OnSegment(Vec2{1, 0.1}, Vec2{0, 0}, Vec2{2, 0}))
}

func TestIntersectLines(t *testing.T) {
	s, ok := IntersectLines(Vec2{0, 0}, Vec2{4, 0}, Vec2{1, -1}, Vec2{1, 1})
	assert.True(t, ok)
	assert.InDelta(t, 0.25, s, 1e-12)

	_, ok = IntersectLines(Vec2{0, 0}, Vec2{4, 0}, Vec2{0, 1}, Vec2{4, 1})
	assert.False(t, ok)
}
