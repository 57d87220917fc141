package layout

import (
	"math"
	"slices"
	"strings"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

// GridOptions configures [AlignGrid].
type GridOptions struct {
	// Columns fixes the grid width. Zero picks ceil(sqrt(n)) for a roughly
	// square arrangement.
	Columns int
	// SortByName orders containers lexicographically by display name before
	// placement, falling back to ID for unnamed containers.
	SortByName bool
}

// AlignGrid arranges top-level container nodes into a row-major grid.
// Cells are sized for the Container bounding box plus a gap on each axis,
// so neighboring containers never touch.
func AlignGrid(containers []flow.Node, opts GridOptions) Plan {
	plan := NewPlan()
	if len(containers) == 0 {
		return plan
	}

	ordered := slices.Clone(containers)
	if opts.SortByName {
		slices.SortFunc(ordered, func(a, b flow.Node) int {
			if c := strings.Compare(sortKey(a), sortKey(b)); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	}

	columns := opts.Columns
	if columns <= 0 {
		columns = int(math.Ceil(math.Sqrt(float64(len(ordered)))))
	}

	size, err := canvas.SizeOf(canvas.KindContainer)
	if err != nil {
		return plan
	}
	cellWidth := size.Width + canvas.HorizontalGap
	cellHeight := size.Height + canvas.VerticalGap

	for i, c := range ordered {
		plan.SetPosition(c.ID, canvas.GridCell(i/columns, i%columns, cellWidth, cellHeight))
	}

	return plan
}

func sortKey(n flow.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
