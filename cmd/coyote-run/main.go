// Command coyote-run drives the demo scenario through the iteration driver,
// printing a coverage report and optionally persisting a snapshot and
// serving Prometheus metrics.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/NicoJuicy/coyote/config"
	"github.com/NicoJuicy/coyote/coverage"
	"github.com/NicoJuicy/coyote/demo"
	"github.com/NicoJuicy/coyote/driver"
	"github.com/NicoJuicy/coyote/graph"
	"github.com/NicoJuicy/coyote/logger"
	"github.com/NicoJuicy/coyote/metrics"
	"github.com/NicoJuicy/coyote/reducer"
	"github.com/NicoJuicy/coyote/strategy"
)

const (
	snapshotFlagName = "snapshot-out"
	compressFlagName = "snapshot-compress"
	metricsFlagName  = "metrics-addr"
)

// RunCommand is the coyote-run application's single command.
var RunCommand = cli.Command{
	Action: runAction,
	Name:   "run",
	Usage:  "explore interleavings of the demo racy-counter scenario",
	Flags: append(config.Flags(),
		&cli.StringFlag{Name: snapshotFlagName, Usage: "path to write a coverage.Snapshot to, if set"},
		&cli.BoolFlag{Name: compressFlagName, Usage: "zstd-compress the snapshot written by --" + snapshotFlagName},
		&cli.StringFlag{Name: metricsFlagName, Usage: "address to serve Prometheus metrics on, if set (e.g. :9090)"},
	),
}

func runAction(ctx *cli.Context) error {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	log := logger.NewLogger("INFO", "coyote-run")

	g := graph.NewGraph()
	red := reducer.NewSharedStateReducer()

	var strat strategy.SchedulingStrategy
	switch cfg.StrategyKind {
	case config.StrategyRoundRobin:
		strat = strategy.NewRoundRobinStrategy()
	default:
		strat = strategy.NewRandomStrategy(cfg.Seed)
	}

	d := driver.NewDriver(cfg, g, red, strat, log)

	var m *metrics.Metrics
	if addr := ctx.String(metricsFlagName); addr != "" {
		m = metrics.New()
		go func() {
			log.Infof("serving metrics on %s", addr)
			if err := http.ListenAndServe(addr, m.Handler()); err != nil {
				log.Errorf("metrics server stopped: %v", err)
			}
		}()
	}

	results, runErr := d.Run(demo.RacyCounterScenario)
	if m != nil {
		for _, r := range results {
			m.ObserveIteration(r)
		}
	}

	snap := coverage.Take(g)
	if m != nil {
		m.ObserveCoverage(snap)
	}

	report := coverage.Report{Snapshot: snap, Results: results}
	report.WriteTable(os.Stdout)

	if path := ctx.String(snapshotFlagName); path != "" && cfg.IsCoverageEnabled {
		if err := coverage.Write(path, snap, coverage.WriteOptions{Compress: ctx.Bool(compressFlagName)}); err != nil {
			return fmt.Errorf("coyote-run: write snapshot: %w", err)
		}
		log.Infof("wrote coverage snapshot to %s", path)
	}

	return runErr
}

func main() {
	app := &cli.App{
		Name:  "coyote-run",
		Usage: "run the systematic concurrency tester over the demo scenario",
		Commands: []*cli.Command{
			&RunCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
