package canvas

import "fmt"

// Alignment controls the horizontal placement of a component relative to its
// reference when stacking vertically.
type Alignment int

const (
	// AlignLeft places the new component at the reference's left edge.
	AlignLeft Alignment = iota
	// AlignCenter centers the new component under the reference using the
	// width difference. Used for Funnels under Tasks.
	AlignCenter
	// AlignCenterPort centers a Port under a Task using the catalogued
	// port offset rather than the width difference.
	AlignCenterPort
)

// String returns the lowercase name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignCenterPort:
		return "center_port"
	default:
		return "unknown"
	}
}

// Direction selects which side a forked branch is placed on.
type Direction int

const (
	// DirectionLeft forks to the left of the main flow.
	DirectionLeft Direction = iota
	// DirectionRight forks to the right of the main flow.
	DirectionRight
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == DirectionLeft {
		return DirectionRight
	}
	return DirectionLeft
}

// Below computes the position for a component of the given kind placed
// directly beneath a reference component at ref with kind refKind.
// The vertical distance is the reference height plus [VerticalGap]; the
// horizontal position is controlled by align. The result is grid-snapped.
func Below(ref Point, refKind, kind Kind, align Alignment) (Point, error) {
	refSize, err := SizeOf(refKind)
	if err != nil {
		return Point{}, err
	}
	x, err := alignX(ref.X, refSize.Width, kind, align)
	if err != nil {
		return Point{}, err
	}
	return SnapPoint(Point{X: x, Y: ref.Y + refSize.Height + VerticalGap}), nil
}

// Above mirrors [Below] on the opposite side of the reference: the new
// component's bottom edge sits [VerticalGap] above the reference's top edge.
// The new component is left-aligned with the reference.
func Above(ref Point, refKind, kind Kind) (Point, error) {
	if _, err := SizeOf(refKind); err != nil {
		return Point{}, err
	}
	size, err := SizeOf(kind)
	if err != nil {
		return Point{}, err
	}
	return SnapPoint(Point{X: ref.X, Y: ref.Y - size.Height - VerticalGap}), nil
}

// LeftOf places the new component to the left of the reference, top-aligned,
// separated by [HorizontalGap].
func LeftOf(ref Point, refKind, kind Kind) (Point, error) {
	if _, err := SizeOf(refKind); err != nil {
		return Point{}, err
	}
	size, err := SizeOf(kind)
	if err != nil {
		return Point{}, err
	}
	return SnapPoint(Point{X: ref.X - size.Width - HorizontalGap, Y: ref.Y}), nil
}

// RightOf places the new component to the right of the reference,
// top-aligned, separated by [HorizontalGap].
func RightOf(ref Point, refKind, kind Kind) (Point, error) {
	refSize, err := SizeOf(refKind)
	if err != nil {
		return Point{}, err
	}
	if _, err := SizeOf(kind); err != nil {
		return Point{}, err
	}
	return SnapPoint(Point{X: ref.X + refSize.Width + HorizontalGap, Y: ref.Y}), nil
}

// Fork places the new component diagonally off the reference in the given
// direction, offsetting by [ForkDX] horizontally and [ForkDY] vertically.
// Side branches placed this way are visually distinguishable from the main
// vertical flow.
func Fork(ref Point, refKind, kind Kind, dir Direction) (Point, error) {
	if _, err := SizeOf(refKind); err != nil {
		return Point{}, err
	}
	if _, err := SizeOf(kind); err != nil {
		return Point{}, err
	}
	switch dir {
	case DirectionLeft:
		return SnapPoint(Point{X: ref.X - ForkDX, Y: ref.Y + ForkDY}), nil
	case DirectionRight:
		return SnapPoint(Point{X: ref.X + ForkDX, Y: ref.Y + ForkDY}), nil
	default:
		return Point{}, fmt.Errorf("%w: %d", ErrUnknownDirection, dir)
	}
}

// GridCell computes the absolute position of the cell at (row, col) in a
// grid with the given cell dimensions. Used by the container grid packer.
func GridCell(row, col int, cellWidth, cellHeight float64) Point {
	return SnapPoint(Point{X: float64(col) * cellWidth, Y: float64(row) * cellHeight})
}

// alignX resolves the horizontal coordinate for a component stacked under a
// reference of the given width.
func alignX(refX, refWidth float64, kind Kind, align Alignment) (float64, error) {
	size, err := SizeOf(kind)
	if err != nil {
		return 0, err
	}
	switch align {
	case AlignLeft:
		return refX, nil
	case AlignCenter:
		return refX + (refWidth-size.Width)/2, nil
	case AlignCenterPort:
		off, err := CenterOffset(kind)
		if err != nil {
			return 0, err
		}
		return refX + off, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownAlignment, align)
	}
}
