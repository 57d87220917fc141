package canvas

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownKind is returned when a component kind is not one of the
	// catalogued values. This indicates a caller bug, not a runtime condition.
	ErrUnknownKind = errors.New("unknown component kind")

	// ErrUnknownAlignment is returned by [Below] when the alignment is not
	// one of the defined Alignment values.
	ErrUnknownAlignment = errors.New("unknown alignment")

	// ErrUnknownDirection is returned by [Fork] when the direction is not
	// [DirectionLeft] or [DirectionRight].
	ErrUnknownDirection = errors.New("unknown fork direction")
)

// GridUnit is the canvas snap grid size. Every coordinate produced by this
// package is a multiple of GridUnit.
const GridUnit = 8

// Layout spacing constants, in canvas units.
const (
	// VerticalGap separates two vertically stacked components. The value is
	// tuned so two stacked Task components plus a connection label between
	// them do not collide.
	VerticalGap = 72

	// HorizontalGap separates two horizontally adjacent components.
	HorizontalGap = 72

	// ForkDX and ForkDY are the diagonal step used to place side branches,
	// chosen so a forked component clears both the main vertical flow and
	// the label of the edge that feeds it. ForkDY equals the Task height
	// plus VerticalGap, keeping forked rows aligned with spine rows.
	ForkDX = 640
	ForkDY = 200
)

// Connection label box geometry. The label box is rendered centered on an
// edge's last bend point, or on the midpoint when the edge has no bends.
const (
	LabelWidth   = 224
	LabelHeight  = 56
	LabelPadding = 16
)

// Kind identifies a positionable component type. The kind determines the
// component's bounding box via [SizeOf].
type Kind int

const (
	// KindTask is a processing step, the largest leaf component.
	KindTask Kind = iota
	// KindPort is an input or output port on a container boundary.
	KindPort
	// KindFunnel merges several connections into one.
	KindFunnel
	// KindContainer is a group box holding a nested subgraph.
	KindContainer
)

// String returns the lowercase name of the kind, or "unknown" for values
// outside the catalogue.
func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindPort:
		return "port"
	case KindFunnel:
		return "funnel"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name (as serialized by [Kind.String]) back to a
// Kind. Returns ErrUnknownKind for unrecognized names.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "task":
		return KindTask, nil
	case "port":
		return KindPort, nil
	case "funnel":
		return KindFunnel, nil
	case "container":
		return KindContainer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Point is a 2D canvas coordinate. Positions refer to a component's top-left
// corner; bend points refer to the vertex itself.
type Point struct {
	X float64
	Y float64
}

// Add returns the point translated by the given offset.
func (p Point) Add(o Offset) Point {
	return Point{X: p.X + o.DX, Y: p.Y + o.DY}
}

// Offset is a rigid 2D translation.
type Offset struct {
	DX float64
	DY float64
}

// Size is a component bounding box.
type Size struct {
	Width  float64
	Height float64
}

// SizeOf returns the bounding box for a component kind.
// Returns ErrUnknownKind for values outside the catalogue.
func SizeOf(kind Kind) (Size, error) {
	switch kind {
	case KindTask:
		return Size{Width: 352, Height: 128}, nil
	case KindPort:
		return Size{Width: 240, Height: 48}, nil
	case KindFunnel:
		return Size{Width: 48, Height: 48}, nil
	case KindContainer:
		return Size{Width: 384, Height: 176}, nil
	default:
		return Size{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// CenterOffset returns the horizontal offset that visually centers a
// component of the given kind under a Task. Only kinds narrower than a Task
// have a meaningful center offset; Task and Container return 0.
func CenterOffset(kind Kind) (float64, error) {
	switch kind {
	case KindTask, KindContainer:
		return 0, nil
	case KindPort:
		return 56, nil
	case KindFunnel:
		return 152, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// Snap rounds v to the nearest multiple of [GridUnit].
func Snap(v float64) float64 {
	return math.Round(v/GridUnit) * GridUnit
}

// SnapPoint snaps both coordinates of p to the grid.
func SnapPoint(p Point) Point {
	return Point{X: Snap(p.X), Y: Snap(p.Y)}
}

// SnapOffset snaps both components of o to the grid.
func SnapOffset(o Offset) Offset {
	return Offset{DX: Snap(o.DX), DY: Snap(o.DY)}
}

// OnGrid reports whether both coordinates of p are multiples of [GridUnit].
func OnGrid(p Point) bool {
	return math.Mod(p.X, GridUnit) == 0 && math.Mod(p.Y, GridUnit) == 0
}
