package flow

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/flowgrid/flowgrid/pkg/canvas"
)

var (
	// ErrInvalidNodeID is returned by [NewSubgraph] when a node has an
	// empty identifier. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [NewSubgraph] when two nodes share
	// an identifier. Node IDs must be unique within a subgraph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [NewSubgraph] when two edges share
	// an identifier.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrDanglingEdge is returned by [NewSubgraph] when an edge references
	// a node ID that is not part of the subgraph. Referential integrity is
	// a precondition for every analysis in this module, so the violation is
	// surfaced immediately rather than silently skipped.
	ErrDanglingEdge = errors.New("edge references node outside subgraph")
)

// Node is a positionable diagram element. The layout engine only ever reads
// nodes; it never creates, deletes, or mutates them. New positions are
// reported through a layout plan instead.
type Node struct {
	ID       string       // Unique identifier within the subgraph
	Name     string       // Display name, used for lexicographic grid packing
	Kind     canvas.Kind  // Determines the bounding box via the geometry catalogue
	Position canvas.Point // Current top-left coordinate, grid-aligned
}

// Size returns the node's bounding box from the geometry catalogue.
func (n *Node) Size() (canvas.Size, error) {
	return canvas.SizeOf(n.Kind)
}

// Edge is a directed connection between two nodes of a subgraph.
type Edge struct {
	ID            string         // Unique identifier within the subgraph
	Source        string         // Source node ID
	Destination   string         // Destination node ID
	Relationships []string       // Ordered outcome labels carried by this edge
	Bends         []canvas.Point // Intermediate polyline vertices, possibly empty
}

// IsSelfLoop reports whether the edge starts and ends on the same node.
// A self-loop with zero bends degenerates to an invisible connection, so
// bulk bend operations must leave self-loop bends alone.
func (e *Edge) IsSelfLoop() bool { return e.Source == e.Destination }

// LabelPosition returns the canvas point the edge's label box is centered
// on: the last bend if any exist, otherwise the midpoint between the source
// and destination component centers.
func (e *Edge) LabelPosition(sg *Subgraph) (canvas.Point, error) {
	if len(e.Bends) > 0 {
		return e.Bends[len(e.Bends)-1], nil
	}
	src, ok := sg.Node(e.Source)
	if !ok {
		return canvas.Point{}, fmt.Errorf("%w: %s", ErrDanglingEdge, e.Source)
	}
	dst, ok := sg.Node(e.Destination)
	if !ok {
		return canvas.Point{}, fmt.Errorf("%w: %s", ErrDanglingEdge, e.Destination)
	}
	srcSize, err := src.Size()
	if err != nil {
		return canvas.Point{}, err
	}
	dstSize, err := dst.Size()
	if err != nil {
		return canvas.Point{}, err
	}
	return canvas.Point{
		X: (src.Position.X + srcSize.Width/2 + dst.Position.X + dstSize.Width/2) / 2,
		Y: (src.Position.Y + srcSize.Height/2 + dst.Position.Y + dstSize.Height/2) / 2,
	}, nil
}

// Subgraph is a read-only snapshot of a connected region of the flow canvas:
// a set of nodes plus the edges whose endpoints both lie inside the set.
// It is constructed fresh per call from the caller's authoritative graph and
// never written back; analyses return plans instead of mutating the input.
//
// A Subgraph is safe for concurrent readers. The zero value is not usable -
// use [NewSubgraph].
type Subgraph struct {
	nodes    map[string]*Node
	edges    map[string]*Edge
	order    []string // edge IDs in insertion order
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
}

// NewSubgraph builds a subgraph from copies of the supplied nodes and edges.
// Returns ErrInvalidNodeID, ErrDuplicateNodeID, ErrDuplicateEdgeID, or
// ErrDanglingEdge when the snapshot violates its preconditions.
func NewSubgraph(nodes []Node, edges []Edge) (*Subgraph, error) {
	sg := &Subgraph{
		nodes:    make(map[string]*Node, len(nodes)),
		edges:    make(map[string]*Edge, len(edges)),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, ErrInvalidNodeID
		}
		if _, exists := sg.nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		node := n
		sg.nodes[node.ID] = &node
	}

	for _, e := range edges {
		if _, exists := sg.edges[e.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdgeID, e.ID)
		}
		if _, ok := sg.nodes[e.Source]; !ok {
			return nil, fmt.Errorf("%w: edge %s source %s", ErrDanglingEdge, e.ID, e.Source)
		}
		if _, ok := sg.nodes[e.Destination]; !ok {
			return nil, fmt.Errorf("%w: edge %s destination %s", ErrDanglingEdge, e.ID, e.Destination)
		}
		edge := e
		edge.Relationships = slices.Clone(e.Relationships)
		edge.Bends = slices.Clone(e.Bends)
		sg.edges[edge.ID] = &edge
		sg.order = append(sg.order, edge.ID)
		sg.outgoing[edge.Source] = append(sg.outgoing[edge.Source], &edge)
		sg.incoming[edge.Destination] = append(sg.incoming[edge.Destination], &edge)
	}

	return sg, nil
}

// Node returns the node with the given ID and true, or nil and false.
func (sg *Subgraph) Node(id string) (*Node, bool) {
	n, ok := sg.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID and true, or nil and false.
func (sg *Subgraph) Edge(id string) (*Edge, bool) {
	e, ok := sg.edges[id]
	return e, ok
}

// Nodes returns all nodes sorted by ID. Sorting keeps every downstream
// analysis deterministic regardless of input order.
func (sg *Subgraph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(sg.nodes))
	for _, n := range sg.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		return strings.Compare(a.ID, b.ID)
	})
	return nodes
}

// Edges returns all edges in insertion order.
func (sg *Subgraph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(sg.order))
	for _, id := range sg.order {
		edges = append(edges, sg.edges[id])
	}
	return edges
}

// OutEdges returns the edges leaving the node, in insertion order.
// Returns nil if the node has no outgoing edges or does not exist.
func (sg *Subgraph) OutEdges(id string) []*Edge { return sg.outgoing[id] }

// InEdges returns the edges arriving at the node, in insertion order.
// Returns nil if the node has no incoming edges or does not exist.
func (sg *Subgraph) InEdges(id string) []*Edge { return sg.incoming[id] }

// OutDegree returns the number of edges leaving the node.
func (sg *Subgraph) OutDegree(id string) int { return len(sg.outgoing[id]) }

// InDegree returns the number of edges arriving at the node.
func (sg *Subgraph) InDegree(id string) int { return len(sg.incoming[id]) }

// NodeCount returns the number of nodes in the subgraph.
func (sg *Subgraph) NodeCount() int { return len(sg.nodes) }

// EdgeCount returns the number of edges in the subgraph.
func (sg *Subgraph) EdgeCount() int { return len(sg.edges) }

// EntryNodes returns nodes with no incoming edge inside the subgraph,
// sorted by ID. Self-loops do not count as incoming for entry detection:
// a node whose only inbound edge is its own retry loop is still an entry.
func (sg *Subgraph) EntryNodes() []*Node {
	var entries []*Node
	for _, n := range sg.Nodes() {
		if countProper(sg.incoming[n.ID]) == 0 {
			entries = append(entries, n)
		}
	}
	return entries
}

// TerminalNodes returns nodes with no outgoing edge inside the subgraph,
// sorted by ID. Self-loops do not count as outgoing for terminal detection.
func (sg *Subgraph) TerminalNodes() []*Node {
	var terminals []*Node
	for _, n := range sg.Nodes() {
		if countProper(sg.outgoing[n.ID]) == 0 {
			terminals = append(terminals, n)
		}
	}
	return terminals
}

// Bounds returns the axis-aligned bounding box covering every node's
// component box. Returns false when the subgraph is empty.
func (sg *Subgraph) Bounds() (min, max canvas.Point, ok bool) {
	first := true
	for _, n := range sg.nodes {
		size, err := n.Size()
		if err != nil {
			continue
		}
		lo := n.Position
		hi := canvas.Point{X: n.Position.X + size.Width, Y: n.Position.Y + size.Height}
		if first {
			min, max = lo, hi
			first = false
			continue
		}
		if lo.X < min.X {
			min.X = lo.X
		}
		if lo.Y < min.Y {
			min.Y = lo.Y
		}
		if hi.X > max.X {
			max.X = hi.X
		}
		if hi.Y > max.Y {
			max.Y = hi.Y
		}
	}
	return min, max, !first
}

// countProper counts edges that are not self-loops.
func countProper(edges []*Edge) int {
	count := 0
	for _, e := range edges {
		if !e.IsSelfLoop() {
			count++
		}
	}
	return count
}
