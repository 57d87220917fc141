package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/pipeline"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// layoutCommand creates the layout command for computing placement plans.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{
		OriginX: defaultOriginX,
		OriginY: defaultOriginY,
	}

	cmd := &cobra.Command{
		Use:   "layout [snapshot.json]",
		Short: "Compute a layout plan for a flow snapshot",
		Long: `Compute a layout plan for a flow snapshot.

The layout command takes a snapshot.json file (an export of the nodes and
connections of a process group) and computes new positions: the dominant
path is stacked vertically from the origin and side branches fork out
diagonally. The output is a plan.json file mapping node IDs to positions,
ready to be pushed back to the flow engine.

Plans are cached locally keyed by snapshot content; --refresh forces a
recompute. With --save-as the run is archived to the configured plan store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyConfig(cmd, &opts, c.Config)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.plan.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached plan exists")

	// Layout flags
	cmd.Flags().Float64Var(&opts.OriginX, "origin-x", opts.OriginX, "x coordinate of the spine head")
	cmd.Flags().Float64Var(&opts.OriginY, "origin-y", opts.OriginY, "y coordinate of the spine head")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "branch recursion depth cap (0 = default)")
	cmd.Flags().BoolVar(&opts.RouteFanIn, "route", opts.RouteFanIn, "also spread fan-in labels with bend points")
	cmd.Flags().StringVar(&opts.SaveAs, "save-as", "", "archive the plan under this name")

	return cmd
}

// runLayout loads the snapshot, computes the plan, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	snap, err := snapshot.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache, opts.SaveAs != "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	opts.Logger = c.Logger
	opts.Formats = []string{pipeline.FormatJSON}

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	res, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".plan.json"
	}

	if err := os.WriteFile(outputPath, res.Artifacts[pipeline.FormatJSON], 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.PlanHit)
	if len(res.Unplaced) > 0 {
		printWarning("%d nodes left unplaced", len(res.Unplaced))
		printDetail("%s", strings.Join(res.Unplaced, ", "))
	}
	if res.DepthCapped {
		printWarning("branch discovery hit the depth cap; rerun with a higher --max-depth")
	}
	if res.RecordID != "" {
		printDetail("Archived as %q (%s)", opts.SaveAs, res.RecordID)
	}
	printNewline()
	printNextStep("Preview", "flowgrid render "+input+" --plan "+outputPath)

	return nil
}
