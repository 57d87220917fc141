package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/layout"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// moveCommand creates the move command for translating a snapshot.
func (c *CLI) moveCommand() *cobra.Command {
	var (
		output string
		dx, dy float64
	)

	cmd := &cobra.Command{
		Use:   "move [snapshot.json]",
		Short: "Translate a snapshot by a fixed offset",
		Long: `Translate a snapshot by a fixed offset.

Every node position and every bend point is shifted by (--dx, --dy) and
snapped back to the grid, keeping the relative arrangement intact.
Self-loop bends are recomputed against their node's new position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dx == 0 && dy == 0 {
				return fmt.Errorf("nothing to move: pass --dx and/or --dy")
			}
			return c.runMove(cmd.Context(), args[0], canvas.Offset{DX: dx, DY: dy}, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.moved.json)")
	cmd.Flags().Float64Var(&dx, "dx", 0, "horizontal offset")
	cmd.Flags().Float64Var(&dy, "dy", 0, "vertical offset")

	return cmd
}

// runMove loads the snapshot, translates it, and writes the result.
func (c *CLI) runMove(ctx context.Context, input string, offset canvas.Offset, output string) error {
	snap, err := snapshot.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	sg, err := snapshot.ToSubgraph(snap)
	if err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	plan := layout.Transpose(sg, offset)

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".moved.json"
	}

	updated := snapshot.Apply(snap, snapshot.FromPlan(plan))
	if err := snapshot.WriteSnapshotFile(updated, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	loggerFromContext(ctx).Debug("moved snapshot", "dx", offset.DX, "dy", offset.DY, "nodes", plan.Len())

	printSuccess("Moved %d nodes by (%g, %g)", plan.Len(), offset.DX, offset.DY)
	printFile(outputPath)

	return nil
}
