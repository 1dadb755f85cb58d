package spatial

import (
	"github.com/dhconnelly/rtreego"

	"github.com/gorustyt/dynnavmesh/common"
)

// Entry is a box and its payload for StaticIndex.
type Entry[T any] struct {
	Min, Max common.Vec2
	Value    T
}

type staticItem[T any] struct {
	rect  rtreego.Rect
	entry Entry[T]
}

func (s *staticItem[T]) Bounds() rtreego.Rect { return s.rect }

// StaticIndex is an R-tree that is rebuilt in bulk and then queried many
// times. It suits data that changes rarely compared to how often it is read.
type StaticIndex[T any] struct {
	tree  *rtreego.Rtree
	count int
}

const (
	staticMinChildren = 4
	staticMaxChildren = 16
)

func NewStaticIndex[T any]() *StaticIndex[T] {
	return &StaticIndex[T]{}
}

func toRect(bmin, bmax common.Vec2) rtreego.Rect {
	lengths := []float64{
		max(bmax[0]-bmin[0], common.Epsilon),
		max(bmax[1]-bmin[1], common.Epsilon),
	}
	r, err := rtreego.NewRect(rtreego.Point{bmin[0], bmin[1]}, lengths)
	if err != nil {
		// Lengths are clamped positive above, NewRect cannot fail.
		panic(err)
	}
	return r
}

// Rebuild replaces the content of the index with entries using bulk loading.
func (s *StaticIndex[T]) Rebuild(entries []Entry[T]) {
	objs := make([]rtreego.Spatial, 0, len(entries))
	for _, e := range entries {
		objs = append(objs, &staticItem[T]{rect: toRect(e.Min, e.Max), entry: e})
	}
	s.tree = rtreego.NewTree(2, staticMinChildren, staticMaxChildren, objs...)
	s.count = len(entries)
}

func (s *StaticIndex[T]) Len() int { return s.count }

// Query appends the values whose boxes intersect [bmin, bmax].
func (s *StaticIndex[T]) Query(bmin, bmax common.Vec2, out []T) []T {
	if s.tree == nil || s.count == 0 {
		return out
	}
	pad := common.Vec2{common.Epsilon, common.Epsilon}
	// rtreego excludes boxes that only touch, pad so touching boxes are found.
	for _, obj := range s.tree.SearchIntersect(toRect(bmin.Sub(pad), bmax.Add(pad))) {
		item := obj.(*staticItem[T])
		// The rect is padded for degenerate boxes, confirm with the real bounds.
		if common.OverlapBounds(item.entry.Min, item.entry.Max, bmin, bmax) {
			out = append(out, item.entry.Value)
		}
	}
	return out
}
