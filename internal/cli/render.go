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

// renderCommand creates the render command for visual previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		planPath   string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Generate DOT or SVG previews of a snapshot",
		Long: `Generate DOT or SVG previews of a snapshot.

The render command draws the snapshot with its stored positions pinned,
using graphviz neato under the hood. Pass --plan to apply a plan.json file
(produced by 'layout') before drawing, which is the quickest way to check
a computed layout without pushing it to the flow engine.

--detailed adds the node kind and coordinates to each label.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			for _, f := range opts.Formats {
				if f == pipeline.FormatJSON {
					return fmt.Errorf("json output is produced by 'flowgrid layout', not render")
				}
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, planPath, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot (comma-separated)")
	cmd.Flags().StringVar(&planPath, "plan", "", "plan.json file to apply before drawing")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include kind and coordinates in labels")

	return cmd
}

// runRender loads the snapshot (optionally applying a plan) and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, planPath, output string) error {
	snap, err := snapshot.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	plan := snapshot.Plan{}
	if planPath != "" {
		plan, err = snapshot.ReadPlanFile(planPath)
		if err != nil {
			return fmt.Errorf("load plan %s: %w", planPath, err)
		}
		snap = snapshot.Apply(snap, plan)
	}

	sg, err := snapshot.ToSubgraph(snap)
	if err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	defer runner.Close(ctx)

	opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	artifacts, err := runner.Render(ctx, sg, plan, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifacts, opts.Formats, input, output)
}

// writeArtifacts writes rendered outputs to disk, one file per format.
// With a single format the --output flag names the file directly; with
// several it acts as a base path and the format extension is appended.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")
	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}

	return nil
}
