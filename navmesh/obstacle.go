package navmesh

import (
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gorustyt/dynnavmesh/cdt"
	"github.com/gorustyt/dynnavmesh/common"
	"github.com/gorustyt/dynnavmesh/spatial"
)

// NoObstacle is returned by AddObstacle when the obstacle was rejected.
const NoObstacle int32 = -1

// Obstacle is a polygonal obstacle registered in the store.
type Obstacle[T any] struct {
	ID       int32
	Min, Max common.Vec2
	Attr     T
	// Loop is the boundary after margin expansion.
	Loop []common.Vec2
}

type interiorRef struct {
	id  int32
	tri int32
}

// ObstacleStore keeps obstacle bounds, their raw boundary edges and a grid of
// their triangulated interiors used for containment tests.
type ObstacleStore[T any] struct {
	logger    *zap.Logger
	margin    float64
	nextID    int32
	obstacles map[int32]*Obstacle[T]
	edges     map[int32][]common.Segment
	interiors map[int32][]Triangle
	interior  *spatial.Grid[interiorRef]
	bounds    *spatial.StaticIndex[int32]
	dirty     bool
}

// NewObstacleStore creates a store. Loops are expanded outward by margin
// before use, margin 0 keeps them as given.
func NewObstacleStore[T any](cellSize, margin float64, logger *zap.Logger) *ObstacleStore[T] {
	return &ObstacleStore[T]{
		logger:    common.OrNop(logger),
		margin:    margin,
		obstacles: map[int32]*Obstacle[T]{},
		edges:     map[int32][]common.Segment{},
		interiors: map[int32][]Triangle{},
		interior:  spatial.NewGrid[interiorRef](cellSize),
		bounds:    spatial.NewStaticIndex[int32](),
	}
}

func (s *ObstacleStore[T]) Count() int { return len(s.obstacles) }

func (s *ObstacleStore[T]) Get(id int32) (*Obstacle[T], bool) {
	o, ok := s.obstacles[id]
	return o, ok
}

// Edges returns the boundary loop edges of the obstacle, wrap-around included.
func (s *ObstacleStore[T]) Edges(id int32) []common.Segment {
	return s.edges[id]
}

// IDs returns the registered ids in ascending order.
func (s *ObstacleStore[T]) IDs() []int32 {
	ids := lo.Keys(s.obstacles)
	slices.Sort(ids)
	return ids
}

// AddObstacle registers the closed loop and returns its id, or NoObstacle
// when the loop has fewer than two edges or its interior cannot be
// triangulated.
func (s *ObstacleStore[T]) AddObstacle(loop []common.Vec2, attr T) int32 {
	if len(loop) < 2 {
		s.logger.Warn("obstacle rejected, fewer than 2 edges", zap.Int("points", len(loop)))
		return NoObstacle
	}
	for _, p := range loop {
		if !common.Visfinite(p) {
			s.logger.Warn("obstacle rejected, non finite point")
			return NoObstacle
		}
	}
	if s.margin > 0 && len(loop) >= 3 {
		loop = common.ExpandPolygon(loop, s.margin)
	} else {
		loop = slices.Clone(loop)
	}

	n := len(loop)
	constraints := make([][2]int, 0, n)
	for i := 0; i < n; i++ {
		constraints = append(constraints, [2]int{i, common.Next(i, n)})
	}
	res, status := cdt.Triangulate(loop, constraints)
	if status.Failed() {
		s.logger.Warn("obstacle rejected, interior triangulation failed",
			zap.Stringer("status", status), zap.Int("points", n))
		return NoObstacle
	}
	edges := common.LoopEdges(loop)
	var interior []Triangle
	for _, t := range res.Triangles {
		tri := Triangle{loop[t[0]], loop[t[1]], loop[t[2]]}
		if tri.Degenerate() || !common.PointInPolygon(tri.Centroid(), edges) {
			continue
		}
		interior = append(interior, tri)
	}
	if len(interior) == 0 {
		s.logger.Warn("obstacle rejected, empty interior", zap.Int("points", n))
		return NoObstacle
	}

	id := s.nextID
	s.nextID++
	bmin, bmax := common.Bounds(loop...)
	s.obstacles[id] = &Obstacle[T]{ID: id, Min: bmin, Max: bmax, Attr: attr, Loop: loop}
	s.edges[id] = edges
	s.interiors[id] = interior
	for i, tri := range interior {
		tmin, tmax := tri.Bounds()
		s.interior.InsertAABB(tmin, tmax, interiorRef{id: id, tri: int32(i)})
	}
	s.dirty = true
	return id
}

// RemoveObstacle drops the obstacle bounds, edges and interior entries.
func (s *ObstacleStore[T]) RemoveObstacle(id int32) bool {
	if _, ok := s.obstacles[id]; !ok {
		return false
	}
	for i, tri := range s.interiors[id] {
		tmin, tmax := tri.Bounds()
		s.interior.RemoveAABB(tmin, tmax, interiorRef{id: id, tri: int32(i)})
	}
	delete(s.interiors, id)
	delete(s.edges, id)
	delete(s.obstacles, id)
	s.dirty = true
	return true
}

func (s *ObstacleStore[T]) rebuildBounds() {
	ids := s.IDs()
	entries := make([]spatial.Entry[int32], 0, len(ids))
	for _, id := range ids {
		o := s.obstacles[id]
		entries = append(entries, spatial.Entry[int32]{Min: o.Min, Max: o.Max, Value: id})
	}
	s.bounds.Rebuild(entries)
	s.dirty = false
}

// QueryBounds returns the ids of obstacles whose bounds intersect [bmin, bmax]
// in ascending order. The bounds index is rebuilt first when obstacles
// changed since the last query.
func (s *ObstacleStore[T]) QueryBounds(bmin, bmax common.Vec2) []int32 {
	if s.dirty {
		s.rebuildBounds()
	}
	ids := s.bounds.Query(bmin, bmax, nil)
	slices.Sort(ids)
	return ids
}

// Containing returns the ids of obstacles whose interior contains p, in
// ascending order.
func (s *ObstacleStore[T]) Containing(p common.Vec2) []int32 {
	pad := common.Vec2{common.Epsilon, common.Epsilon}
	refs := s.interior.QueryAABB(p.Sub(pad), p.Add(pad), nil)
	ids := lo.FilterMap(refs, func(r interiorRef, _ int) (int32, bool) {
		tris := s.interiors[r.id]
		if int(r.tri) >= len(tris) {
			return 0, false
		}
		return r.id, tris[r.tri].Contains(p)
	})
	ids = lo.Uniq(ids)
	slices.Sort(ids)
	return ids
}
