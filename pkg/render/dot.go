// Package render produces visual output from flows and layout plans.
//
// # Overview
//
// The package converts a positioned flow subgraph into Graphviz DOT source
// with every node pinned to its canvas coordinates, then renders it to SVG
// in-process. Because positions are pinned, the output reproduces the
// canvas arrangement exactly; Graphviz only draws, it does not lay out.
//
// # Usage
//
// Convert a subgraph to DOT format, then render to SVG:
//
//	dot := render.ToDOT(sg, render.Options{})
//	svg, err := render.SVG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces DOT for the neato engine with pos="x,y!"
// pins. The source can be:
//
//   - Rendered directly via [SVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

// pointsPerUnit converts canvas coordinates to Graphviz points.
// One canvas grid unit maps to one point, which keeps label sizes readable.
const pointsPerUnit = canvas.GridUnit

// Options configures diagram rendering.
type Options struct {
	// Detailed includes kind and coordinates in node labels.
	// When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a positioned subgraph to Graphviz DOT format.
// Every node is pinned to its canvas position, so rendering with the neato
// engine reproduces the canvas arrangement. Nodes are emitted in ID order
// for deterministic output.
func ToDOT(sg *flow.Subgraph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph flow {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, n := range sg.Nodes() {
		attrs := nodeAttrs(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range sg.Edges() {
		if label := strings.Join(e.Relationships, ", "); label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Destination, label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Destination)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *flow.Node, detailed bool) []string {
	size, _ := n.Size()
	center := n.Position.Add(canvas.Offset{DX: size.Width / 2, DY: size.Height / 2})

	label := n.ID
	if n.Name != "" {
		label = n.Name
	}
	if detailed {
		label = fmt.Sprintf("%s\n%s (%.0f, %.0f)", label, n.Kind, n.Position.X, n.Position.Y)
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		// Graphviz has y growing upward, the canvas grows downward.
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", center.X/pointsPerUnit, -center.Y/pointsPerUnit),
		fmt.Sprintf("width=%.3f", size.Width/pointsPerUnit/72),
		fmt.Sprintf("height=%.3f", size.Height/pointsPerUnit/72),
	}

	switch n.Kind {
	case canvas.KindPort:
		attrs = append(attrs, "shape=cds")
	case canvas.KindFunnel:
		attrs = append(attrs, "shape=circle", "fillcolor=lightgrey")
	case canvas.KindContainer:
		attrs = append(attrs, "shape=folder")
	default:
		attrs = append(attrs, "shape=box")
	}
	return attrs
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
