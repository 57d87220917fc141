package pipeline

import (
	"fmt"

	"github.com/flowgrid/flowgrid/pkg/flow"
	"github.com/flowgrid/flowgrid/pkg/render"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// renderFormat produces one output artifact. The subgraph must already be
// positioned per the plan.
func renderFormat(sg *flow.Subgraph, plan snapshot.Plan, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return snapshot.MarshalPlan(plan)
	case FormatDOT:
		return []byte(render.ToDOT(sg, render.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		dot := render.ToDOT(sg, render.Options{Detailed: opts.Detailed})
		return render.SVG(dot)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}
