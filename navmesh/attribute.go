package navmesh

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/gorustyt/dynnavmesh/common"
)

// Attribute is the monoid attached to every node. Empty is called on the zero
// value of T and must return the identity of Merge. Merge must be associative.
type Attribute[T any] interface {
	Empty() T
	Merge(other T) T
}

// Seeker prices the move from one node centre to the next. +Inf makes the
// node unreachable.
type Seeker[T any] interface {
	CalculateCost(attr T, from, to common.Vec2) float64
}

// Validator tells open space apart from blocked space.
type Validator[T any] interface {
	IsValid(attr T) bool
}

func emptyAttr[T Attribute[T]]() T {
	var zero T
	return zero.Empty()
}

// OwnerSet is the sorted set of obstacle owner ids covering a node.
type OwnerSet []int32

func NewOwnerSet(ids ...int32) OwnerSet {
	if len(ids) == 0 {
		return nil
	}
	out := lo.Uniq(ids)
	slices.Sort(out)
	return out
}

func (OwnerSet) Empty() OwnerSet { return nil }

// Merge returns the union of both sets.
func (s OwnerSet) Merge(other OwnerSet) OwnerSet {
	if len(other) == 0 {
		return s
	}
	if len(s) == 0 {
		return other
	}
	out := make(OwnerSet, 0, len(s)+len(other))
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] < other[j]:
			out = append(out, s[i])
			i++
		case s[i] > other[j]:
			out = append(out, other[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	return append(out, other[j:]...)
}

func (s OwnerSet) Contains(id int32) bool {
	_, ok := slices.BinarySearch(s, id)
	return ok
}

// Area flags
const (
	AreaWalk  uint16 = 1 << 0
	AreaWater uint16 = 1 << 1
	AreaRoad  uint16 = 1 << 2
	AreaDoor  uint16 = 1 << 3
	AreaJump  uint16 = 1 << 4
)

// Area carries area flags and a cost multiplier. Overlapping areas combine
// their flags and keep the highest cost.
type Area struct {
	Flags uint16
	Cost  float64
}

func (Area) Empty() Area { return Area{Cost: 1} }

func (a Area) Merge(other Area) Area {
	return Area{Flags: a.Flags | other.Flags, Cost: max(a.Cost, other.Cost)}
}

// DistanceSeeker ignores attributes and prices moves by length.
type DistanceSeeker[T any] struct{}

func (DistanceSeeker[T]) CalculateCost(_ T, from, to common.Vec2) float64 {
	return common.Vdist(from, to)
}

// BlockingSeeker makes every node owned by an obstacle unreachable.
type BlockingSeeker struct{}

func (BlockingSeeker) CalculateCost(attr OwnerSet, from, to common.Vec2) float64 {
	if len(attr) > 0 {
		return math.Inf(1)
	}
	return common.Vdist(from, to)
}

// AreaSeeker scales move length by the area cost and refuses excluded flags.
type AreaSeeker struct {
	Exclude uint16
}

func (s AreaSeeker) CalculateCost(attr Area, from, to common.Vec2) float64 {
	if attr.Flags&s.Exclude != 0 {
		return math.Inf(1)
	}
	cost := attr.Cost
	if cost <= 0 {
		cost = 1
	}
	return common.Vdist(from, to) * cost
}

// FreeValidator accepts nodes not covered by any obstacle.
type FreeValidator struct{}

func (FreeValidator) IsValid(attr OwnerSet) bool { return len(attr) == 0 }

// AreaValidator accepts nodes carrying none of the excluded flags.
type AreaValidator struct {
	Exclude uint16
}

func (v AreaValidator) IsValid(attr Area) bool { return attr.Flags&v.Exclude == 0 }
