// Package canvas defines the geometry catalogue and positioning primitives
// shared by all layout computations.
//
// # Geometry Catalogue
//
// Every positionable component kind has a fixed bounding box:
//
//	Task       352×128
//	Port       240×48
//	Funnel     48×48
//	Container  384×176
//
// [SizeOf] looks up the box and [CenterOffset] the horizontal offset that
// centers a smaller component under a Task. All coordinates live on a snap
// grid of [GridUnit] canvas units; [Snap] and [SnapPoint] round onto it.
//
// # Positioning Primitives
//
// The primitives compute candidate positions relative to a reference
// component, never mutating anything:
//
//   - [Below], [Above], [LeftOf], [RightOf] stack components along an axis
//     separated by [VerticalGap] or [HorizontalGap]
//   - [Fork] steps diagonally by [ForkDX]×[ForkDY] for side branches
//   - [GridCell] computes absolute row/column grid positions
//
// Invalid kind, alignment, or direction values return [ErrUnknownKind],
// [ErrUnknownAlignment], or [ErrUnknownDirection]. These indicate a caller
// bug; there are no runtime-recoverable failure modes in this package.
package canvas
