// Package flow provides the read-only graph snapshot consumed by the layout
// engine.
//
// # Snapshot Boundary
//
// The authoritative flow graph lives in an external flow engine. Callers
// take a snapshot of the region they want laid out, build a [Subgraph] from
// it, and apply the resulting plan back themselves. The engine side of this
// boundary is strictly read-only: a Subgraph copies its input on
// construction and nothing in this module ever writes through it.
//
// # Referential Integrity
//
// [NewSubgraph] rejects edges whose endpoints are not part of the snapshot
// with [ErrDanglingEdge]. Every downstream analysis assumes integrity, so
// the failure is surfaced at construction rather than mid-traversal.
//
// # Query Surface
//
// The query layer exposes adjacency in both directions ([Subgraph.OutEdges],
// [Subgraph.InEdges]), component lookup ([Subgraph.Node], [Subgraph.Edge]),
// and the derived entry/terminal sets used by spine discovery. Enumeration
// order is deterministic: nodes sort by ID, edges keep insertion order.
package flow
