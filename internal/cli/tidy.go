package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
	"github.com/flowgrid/flowgrid/pkg/layout"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// tidyOpts holds the command-line flags for the tidy command.
type tidyOpts struct {
	output         string // output file path
	clearBends     bool   // drop all connection bend points
	clearSelfLoops bool   // drop self-loop bends too
	grid           bool   // pack container nodes into a grid
	columns        int    // grid column count, 0 = square-ish
	sortByName     bool   // order containers lexicographically by name
}

// tidyCommand creates the tidy command for cleaning up a snapshot.
func (c *CLI) tidyCommand() *cobra.Command {
	var opts tidyOpts

	cmd := &cobra.Command{
		Use:   "tidy [snapshot.json]",
		Short: "Clear bends and pack containers into a grid",
		Long: `Clear bends and pack containers into a grid.

--bends drops every connection bend point so edges render as straight
lines again. Self-loop bends survive unless --clear-self-loops is also
given, since a straight self-loop is not drawable.

--grid packs the snapshot's container nodes into a row-major grid from
the canvas origin, optionally ordered by name. Leaf nodes keep their
positions.

At least one of --bends or --grid is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.clearBends && !opts.grid {
				return fmt.Errorf("nothing to tidy: pass --bends and/or --grid")
			}
			return c.runTidy(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.tidy.json)")
	cmd.Flags().BoolVar(&opts.clearBends, "bends", false, "drop all connection bend points")
	cmd.Flags().BoolVar(&opts.clearSelfLoops, "clear-self-loops", false, "drop self-loop bends as well")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "pack container nodes into a grid")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "grid column count (0 = near-square)")
	cmd.Flags().BoolVar(&opts.sortByName, "sort-by-name", false, "order containers lexicographically by name")

	return cmd
}

// runTidy loads the snapshot, applies the requested cleanups, and writes the result.
func (c *CLI) runTidy(ctx context.Context, input string, opts tidyOpts) error {
	snap, err := snapshot.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	sg, err := snapshot.ToSubgraph(snap)
	if err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	plan := layout.NewPlan()

	cleared := 0
	if opts.clearBends {
		bends := layout.ClearBends(sg, !opts.clearSelfLoops)
		for id, pts := range bends {
			plan.SetBends(id, pts)
		}
		cleared = len(bends)
	}

	packed := 0
	if opts.grid {
		var containers []flow.Node
		for _, n := range sg.Nodes() {
			if n.Kind == canvas.KindContainer {
				containers = append(containers, *n)
			}
		}
		gridPlan := layout.AlignGrid(containers, layout.GridOptions{
			Columns:    opts.columns,
			SortByName: opts.sortByName,
		})
		plan.Merge(gridPlan)
		packed = gridPlan.Len()
	}

	outputPath := opts.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".tidy.json"
	}

	updated := snapshot.Apply(snap, snapshot.FromPlan(plan))
	if err := snapshot.WriteSnapshotFile(updated, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	loggerFromContext(ctx).Debug("tidied snapshot", "cleared", cleared, "packed", packed)

	if opts.clearBends {
		printSuccess("Cleared bends on %d connections", cleared)
	}
	if opts.grid {
		printSuccess("Packed %d containers into a grid", packed)
	}
	printFile(outputPath)

	return nil
}
