package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samber/lo"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/gorustyt/dynnavmesh/common"
	"github.com/gorustyt/dynnavmesh/config"
	"github.com/gorustyt/dynnavmesh/navmesh"
)

var (
	app          = kingpin.New("navdemo", "Carves obstacles into a navigation mesh and runs path queries over it.")
	configPath   = app.Flag("config", "Configuration file.").Short('c').ExistingFile()
	noColor      = app.Flag("no-color", "Disable coloured output.").Bool()
	scenarioPath = app.Arg("scenario", "Scenario file.").Required().ExistingFile()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg := config.NewConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		app.FatalIfError(err, "config")
	}
	logger, err := common.NewLogger(cfg.Log)
	app.FatalIfError(err, "logger")
	defer logger.Sync()

	sc, err := LoadScenario(*scenarioPath)
	app.FatalIfError(err, "scenario")
	report, err := Run(sc, cfg, logger)
	app.FatalIfError(err, "run")

	printReport(aurora.NewAurora(!*noColor), report)
}

func statusText(au aurora.Aurora, s navmesh.Status) aurora.Value {
	switch {
	case s.Failed():
		return au.Red(s.String())
	case s.Detail(navmesh.StatusPartialResult), s.Detail(navmesh.StatusEmptyUpdate):
		return au.Yellow(s.String())
	default:
		return au.Green(s.String())
	}
}

func formatPoints(pts []common.Vec2) string {
	return strings.Join(lo.Map(pts, func(p common.Vec2, _ int) string {
		return fmt.Sprintf("(%.3f, %.3f)", p[0], p[1])
	}), " -> ")
}

func printReport(au aurora.Aurora, r *Report) {
	fmt.Printf("%s %d seed triangles, %d obstacles\n", au.Bold("mesh"), r.Seeded, len(r.Obstacles))
	fmt.Printf("%s %s removed=%d added=%d nodes=%d\n", au.Bold("update"),
		statusText(au, r.Update.Status), r.Update.Removed, r.Update.Added, r.Nodes)
	for i, p := range r.Paths {
		fmt.Printf("%s #%d %s\n", au.Cyan("path"), i, statusText(au, p.Status))
		if len(p.Points) > 0 {
			fmt.Printf("    %s\n", formatPoints(p.Points))
		}
	}
	for i, n := range r.Nearest {
		if !n.Found {
			fmt.Printf("%s #%d %s\n", au.Cyan("nearest"), i, au.Red("no open space"))
			continue
		}
		fmt.Printf("%s #%d %s -> %s (node %d)\n", au.Cyan("nearest"), i,
			formatPoints([]common.Vec2{n.From}), formatPoints([]common.Vec2{n.Point}), n.Node)
	}
}
