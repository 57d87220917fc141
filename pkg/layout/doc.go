// Package layout computes readable canvas positions for flow subgraphs.
//
// # Overview
//
// Flow canvases accumulate components wherever they were dropped. This
// package restores readability with a deliberately simple "spine and forks"
// heuristic: the longest forward path through the subgraph becomes a
// vertical spine, and side paths fork off it diagonally.
//
// The entry points are independent of each other:
//
//   - [Suggest] plans positions for a whole subgraph (spine plus branches)
//   - [RouteFanIn] staggers bend points for edges sharing a destination
//   - [ClearBends] resets bends while preserving self-loops
//   - [Transpose] relocates a laid-out subgraph rigidly
//   - [AlignGrid] packs top-level containers into a grid
//
// Every operation is a pure function from a [flow.Subgraph] snapshot to a
// [Plan]; inputs are never mutated, so concurrent calls over separate
// snapshots need no locking.
//
// # Spine Discovery
//
// [FindSpine] treats the subgraph as a DAG: back-edges are classified with
// a depth-first coloring and excluded, then the longest path is found by
// memoized search with deterministic tie-breaking.
//
// # Branch Discovery
//
// [FindBranches] hangs side paths off spine nodes and, recursively, off
// branch nodes, following single-child chains until a fan-out, fan-in, or
// terminal. Recursion is bounded by an explicit depth cap; hitting it
// produces a tagged partial result, never a silent truncation.
//
// # Known Limitations
//
// Placement is local. Terminal nodes of separate branches converging at the
// same depth, and branches nested more than one level, can still overlap;
// those cases are left to the caller to nudge afterwards. [Transpose] helps
// separate whole subgraphs once an overlap is found.
package layout
