package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gorustyt/dynnavmesh/common"
	"github.com/gorustyt/dynnavmesh/config"
	"github.com/gorustyt/dynnavmesh/navmesh"
)

type Point [2]float64

func (p Point) Vec() common.Vec2 { return common.Vec2{p[0], p[1]} }

// GridSpec seeds the mesh with cols x rows square cells, two triangles each.
type GridSpec struct {
	Cols int     `yaml:"cols"`
	Rows int     `yaml:"rows"`
	Size float64 `yaml:"size"`
}

type ObstacleSpec struct {
	Owners []int32 `yaml:"owners"`
	Loop   []Point `yaml:"loop"`
	Remove bool    `yaml:"remove"` // removed again before the update runs
}

type BoundsSpec struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

type PathSpec struct {
	From Point `yaml:"from"`
	To   Point `yaml:"to"`
}

type Scenario struct {
	Grid      *GridSpec      `yaml:"grid"`
	Triangles [][3]Point     `yaml:"triangles"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
	Update    *BoundsSpec    `yaml:"update"` // nil rebuilds the whole mesh
	Paths     []PathSpec     `yaml:"paths"`
	Nearest   []Point        `yaml:"nearest"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}
	if sc.Grid == nil && len(sc.Triangles) == 0 {
		return nil, errors.Errorf("scenario %s has no triangles", path)
	}
	return sc, nil
}

func (sc *Scenario) seedTriangles() []navmesh.Triangle {
	tris := lo.Map(sc.Triangles, func(t [3]Point, _ int) navmesh.Triangle {
		return navmesh.Triangle{A: t[0].Vec(), B: t[1].Vec(), C: t[2].Vec()}
	})
	if g := sc.Grid; g != nil {
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Cols; col++ {
				x0, y0 := float64(col)*g.Size, float64(row)*g.Size
				x1, y1 := x0+g.Size, y0+g.Size
				tris = append(tris,
					navmesh.Triangle{A: common.Vec2{x0, y0}, B: common.Vec2{x1, y0}, C: common.Vec2{x1, y1}},
					navmesh.Triangle{A: common.Vec2{x0, y0}, B: common.Vec2{x1, y1}, C: common.Vec2{x0, y1}},
				)
			}
		}
	}
	return tris
}

type PathResult struct {
	From, To common.Vec2
	Points   []common.Vec2
	Status   navmesh.Status
}

type NearestResult struct {
	From, Point common.Vec2
	Node        navmesh.NodeIndex
	Found       bool
}

type Report struct {
	Seeded    int
	Obstacles []int32
	Update    navmesh.UpdateResult
	Nodes     int
	Paths     []PathResult
	Nearest   []NearestResult
}

// Run seeds a mesh, carves the scenario obstacles into it and answers the
// path and open space queries.
func Run(sc *Scenario, cfg *config.Config, logger *zap.Logger) (*Report, error) {
	logger = common.OrNop(logger)
	mesh := navmesh.NewMesh[navmesh.OwnerSet](cfg.Mesh.CellSize, logger)
	report := &Report{}
	for i, tri := range sc.seedTriangles() {
		if mesh.AddNode(tri, nil) == navmesh.NullNode {
			return nil, errors.Errorf("seed triangle %d is degenerate", i)
		}
		report.Seeded++
	}
	if err := mesh.Validate(); err != nil {
		return nil, errors.Wrap(err, "seed mesh")
	}

	obstacles := navmesh.NewObstacleStore[navmesh.OwnerSet](cfg.Obstacles.CellSize, cfg.Obstacles.Margin, logger)
	for i, o := range sc.Obstacles {
		loop := lo.Map(o.Loop, func(p Point, _ int) common.Vec2 { return p.Vec() })
		id := obstacles.AddObstacle(loop, navmesh.NewOwnerSet(o.Owners...))
		if id == navmesh.NoObstacle {
			return nil, errors.Errorf("obstacle %d was rejected", i)
		}
		if o.Remove {
			obstacles.RemoveObstacle(id)
			continue
		}
		report.Obstacles = append(report.Obstacles, id)
	}

	r := navmesh.NewRetriangulator(mesh, obstacles, logger)
	if sc.Update != nil {
		report.Update = r.Update(sc.Update.Min.Vec(), sc.Update.Max.Vec())
	} else {
		report.Update = r.Rebuild()
	}
	report.Nodes = mesh.Count()

	q := navmesh.NewQuery(mesh, logger, navmesh.WithExtraPops(cfg.Search.ExtraPops))
	for _, p := range sc.Paths {
		from, to := p.From.Vec(), p.To.Vec()
		points, status := q.FindStraightPath(navmesh.BlockingSeeker{}, from, to)
		report.Paths = append(report.Paths, PathResult{From: from, To: to, Points: points, Status: status})
	}
	for _, p := range sc.Nearest {
		from := p.Vec()
		pt, node, ok := q.FindNearestValid(navmesh.FreeValidator{}, from, cfg.Search.MaxVisited)
		report.Nearest = append(report.Nearest, NearestResult{From: from, Point: pt, Node: node, Found: ok})
	}
	return report, nil
}
