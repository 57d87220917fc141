package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/pipeline"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// showCommand creates the show command for interactive plan inspection.
func (c *CLI) showCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{
		OriginX: defaultOriginX,
		OriginY: defaultOriginY,
	}

	cmd := &cobra.Command{
		Use:   "show [snapshot.json]",
		Short: "Inspect a computed layout plan interactively",
		Long: `Inspect a computed layout plan interactively.

The show command computes a layout for the snapshot (using the same cache
as 'layout') and opens a scrollable table of the resulting placements,
marking which nodes sit on the spine and which could not be placed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyConfig(cmd, &opts, c.Config)
			return c.runShow(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.OriginX, "origin-x", opts.OriginX, "x coordinate of the spine head")
	cmd.Flags().Float64Var(&opts.OriginY, "origin-y", opts.OriginY, "y coordinate of the spine head")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "branch recursion depth cap (0 = default)")
	cmd.Flags().BoolVar(&opts.RouteFanIn, "route", opts.RouteFanIn, "also spread fan-in labels with bend points")

	return cmd
}

// runShow computes the plan and opens the interactive placement table.
func (c *CLI) runShow(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	snap, err := snapshot.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(ctx)

	opts.Logger = c.Logger
	opts.Formats = []string{pipeline.FormatJSON}

	res, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	model := newPlanModel(res)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run inspector: %w", err)
	}
	return nil
}

// =============================================================================
// PlanModel - Interactive placement table
// =============================================================================

// placementRow is one line of the placement table.
type placementRow struct {
	ID      string
	Name    string
	Kind    string
	X, Y    float64
	OnSpine bool
}

// PlanModel is the bubbletea model for browsing a computed plan.
type PlanModel struct {
	Rows        []placementRow
	Cursor      int
	Height      int
	Offset      int
	SpineLen    int
	Unplaced    []string
	DepthCapped bool
	Cached      bool
}

// newPlanModel builds the placement table from a pipeline result, ordered
// top to bottom and left to right so the list reads like the canvas.
func newPlanModel(res *pipeline.Result) PlanModel {
	onSpine := make(map[string]bool, len(res.Spine))
	for _, id := range res.Spine {
		onSpine[id] = true
	}

	rows := make([]placementRow, 0, len(res.Plan.Positions))
	for id, pos := range res.Plan.Positions {
		row := placementRow{ID: id, X: pos.X, Y: pos.Y, OnSpine: onSpine[id]}
		if n, ok := res.Subgraph.Node(id); ok {
			row.Name = n.Name
			row.Kind = n.Kind.String()
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Y != rows[j].Y {
			return rows[i].Y < rows[j].Y
		}
		if rows[i].X != rows[j].X {
			return rows[i].X < rows[j].X
		}
		return rows[i].ID < rows[j].ID
	})

	return PlanModel{
		Rows:        rows,
		Height:      15,
		SpineLen:    len(res.Spine),
		Unplaced:    res.Unplaced,
		DepthCapped: res.DepthCapped,
		Cached:      res.CacheInfo.PlanHit,
	}
}

func (m PlanModel) Init() tea.Cmd {
	return nil
}

func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor = 0
			m.Offset = 0
		case "G", "end":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PlanModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Plan"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		spine := ""
		if r.OnSpine {
			spine = "●"
		}

		name := r.Name
		if name == "" {
			name = r.ID
		}

		rows = append(rows, []string{
			cursor, name, r.Kind,
			fmt.Sprintf("%g", r.X), fmt.Sprintf("%g", r.Y), spine,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "X", "Y", "Spine").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[actualIdx]

			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				base = base.Bold(true)
				if r.OnSpine {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorWhite)
			}
			if r.OnSpine {
				return base.Foreground(colorGreen)
			}
			if col == 2 {
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	summary := fmt.Sprintf("  [%d/%d]  spine %d", m.Cursor+1, len(m.Rows), m.SpineLen)
	if len(m.Unplaced) > 0 {
		summary += fmt.Sprintf("  unplaced %d", len(m.Unplaced))
	}
	if m.DepthCapped {
		summary += "  depth capped"
	}
	if m.Cached {
		summary += "  " + iconCached
	}
	b.WriteString(StyleDim.Render(summary))

	return b.String()
}

var _ tea.Model = PlanModel{}
