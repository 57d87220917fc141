package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

// =============================================================================
// Snapshot - Flow Serialization Format
// =============================================================================

// Snapshot is the canonical serialization format for flow subgraphs.
// Used for API requests, storage, caching, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// import → layout → export → re-import produces identical structure.
type Snapshot struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges,omitempty" bson:"edges,omitempty"`
}

// =============================================================================
// Node - Positioned Component
// =============================================================================

// Node is the wire representation of a flow component.
type Node struct {
	ID   string  `json:"id" bson:"id"`
	Name string  `json:"name,omitempty" bson:"name,omitempty"` // Display name (defaults to ID)
	Kind string  `json:"kind,omitempty" bson:"kind,omitempty"` // "task", "port", "funnel", "container"; empty means "task"
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
}

// DisplayName returns the name if set, otherwise the ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// =============================================================================
// Edge - Directed Connection
// =============================================================================

// Edge represents a directed connection between two components.
type Edge struct {
	ID            string   `json:"id" bson:"id"`
	Source        string   `json:"source" bson:"source"`
	Destination   string   `json:"destination" bson:"destination"`
	Relationships []string `json:"relationships,omitempty" bson:"relationships,omitempty"`
	Bends         []Point  `json:"bends,omitempty" bson:"bends,omitempty"`
}

// Point is the wire representation of a canvas coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// =============================================================================
// Subgraph ↔ Snapshot Conversion
// =============================================================================

// FromSubgraph converts a subgraph to its serialization format.
// Nodes are sorted by ID for deterministic output; edges keep insertion order.
func FromSubgraph(sg *flow.Subgraph) Snapshot {
	nodes := sg.Nodes()

	out := Snapshot{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, sg.EdgeCount()),
	}

	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:   n.ID,
			Name: n.Name,
			Kind: n.Kind.String(),
			X:    n.Position.X,
			Y:    n.Position.Y,
		}
	}

	for _, e := range sg.Edges() {
		out.Edges = append(out.Edges, Edge{
			ID:            e.ID,
			Source:        e.Source,
			Destination:   e.Destination,
			Relationships: slices.Clone(e.Relationships),
			Bends:         pointsToWire(e.Bends),
		})
	}

	return out
}

// ToSubgraph converts a Snapshot to a flow subgraph.
// Returns an error if a node carries an unknown kind or the structure
// violates subgraph constraints (duplicate IDs, dangling edges).
// An empty kind defaults to "task".
func ToSubgraph(s Snapshot) (*flow.Subgraph, error) {
	nodes := make([]flow.Node, len(s.Nodes))
	for i, nw := range s.Nodes {
		kind := nw.Kind
		if kind == "" {
			kind = canvas.KindTask.String()
		}
		k, err := canvas.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nw.ID, err)
		}
		nodes[i] = flow.Node{
			ID:       nw.ID,
			Name:     nw.Name,
			Kind:     k,
			Position: canvas.Point{X: nw.X, Y: nw.Y},
		}
	}

	edges := make([]flow.Edge, len(s.Edges))
	for i, ew := range s.Edges {
		edges[i] = flow.Edge{
			ID:            ew.ID,
			Source:        ew.Source,
			Destination:   ew.Destination,
			Relationships: slices.Clone(ew.Relationships),
			Bends:         pointsFromWire(ew.Bends),
		}
	}

	return flow.NewSubgraph(nodes, edges)
}

func pointsToWire(pts []canvas.Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func pointsFromWire(pts []Point) []canvas.Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]canvas.Point, len(pts))
	for i, p := range pts {
		out[i] = canvas.Point{X: p.X, Y: p.Y}
	}
	return out
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalSnapshot serializes a Snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot deserializes JSON bytes to a Snapshot.
// Validates that every node carries an ID.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	for i, n := range s.Nodes {
		if n.ID == "" {
			return Snapshot{}, fmt.Errorf("snapshot node %d has no id", i)
		}
	}

	return s, nil
}

// WriteSnapshotFile writes a Snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSnapshotFile reads a Snapshot from a JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalSnapshot(data)
}
