// Command coyote-graph renders a persisted coverage.Snapshot's embedded
// final-iteration execution graph as a Graphviz DOT file or PNG image.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/NicoJuicy/coyote/coverage"
	"github.com/NicoJuicy/coyote/visualizer"
)

// VisualizeCommand renders a coverage.Snapshot file's graph to DOT or PNG.
var VisualizeCommand = cli.Command{
	Action:    visualizeAction,
	Name:      "visualize",
	Usage:     "render a coverage snapshot's execution graph",
	ArgsUsage: "<snapshot-path> <output-path>",
}

func visualizeAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("coyote-graph: usage: visualize <snapshot-path> <output-path>")
	}
	snapPath := ctx.Args().Get(0)
	outPath := ctx.Args().Get(1)

	snap, err := coverage.Read(snapPath)
	if err != nil {
		return fmt.Errorf("coyote-graph: read snapshot: %w", err)
	}

	if strings.HasSuffix(outPath, ".dot") {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("coyote-graph: create %s: %w", outPath, err)
		}
		defer f.Close()
		return visualizer.WriteDOT(f, snap.Nodes, snap.Edges)
	}

	if err := visualizer.RenderPNG(outPath, snap.Nodes, snap.Edges); err != nil {
		return fmt.Errorf("coyote-graph: render PNG: %w", err)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "coyote-graph",
		Usage: "render a coyote coverage snapshot's execution graph",
		Commands: []*cli.Command{
			&VisualizeCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
