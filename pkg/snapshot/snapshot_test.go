package snapshot

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
)

func TestToSubgraph(t *testing.T) {
	tests := []struct {
		name    string
		in      Snapshot
		wantErr bool
		check   func(t *testing.T, sg *flow.Subgraph)
	}{
		{
			name: "Empty",
			in:   Snapshot{},
			check: func(t *testing.T, sg *flow.Subgraph) {
				if sg.NodeCount() != 0 || sg.EdgeCount() != 0 {
					t.Errorf("counts = (%d, %d), want (0, 0)", sg.NodeCount(), sg.EdgeCount())
				}
			},
		},
		{
			name: "Simple",
			in: Snapshot{
				Nodes: []Node{
					{ID: "a", Kind: "task", X: 400, Y: 400},
					{ID: "b", Kind: "funnel", X: 400, Y: 600},
				},
				Edges: []Edge{{ID: "e1", Source: "a", Destination: "b", Relationships: []string{"success"}}},
			},
			check: func(t *testing.T, sg *flow.Subgraph) {
				n, ok := sg.Node("b")
				if !ok {
					t.Fatal("node b not found")
				}
				if n.Kind != canvas.KindFunnel {
					t.Errorf("kind = %v, want funnel", n.Kind)
				}
				if sg.EdgeCount() != 1 {
					t.Errorf("EdgeCount() = %d, want 1", sg.EdgeCount())
				}
			},
		},
		{
			name: "EmptyKindDefaultsToTask",
			in:   Snapshot{Nodes: []Node{{ID: "a"}}},
			check: func(t *testing.T, sg *flow.Subgraph) {
				n, _ := sg.Node("a")
				if n.Kind != canvas.KindTask {
					t.Errorf("kind = %v, want task", n.Kind)
				}
			},
		},
		{
			name:    "UnknownKind",
			in:      Snapshot{Nodes: []Node{{ID: "a", Kind: "widget"}}},
			wantErr: true,
		},
		{
			name: "DanglingEdge",
			in: Snapshot{
				Nodes: []Node{{ID: "a"}},
				Edges: []Edge{{ID: "e1", Source: "a", Destination: "ghost"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg, err := ToSubgraph(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToSubgraph() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, sg)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := Snapshot{
		Nodes: []Node{
			{ID: "a", Name: "Fetch", Kind: "task", X: 400, Y: 400},
			{ID: "b", Kind: "port", X: 456, Y: 600},
			{ID: "c", Kind: "funnel", X: 552, Y: 800},
		},
		Edges: []Edge{
			{ID: "e1", Source: "a", Destination: "b", Relationships: []string{"success"}},
			{ID: "e2", Source: "b", Destination: "c", Bends: []Point{{X: 480, Y: 700}}},
		},
	}

	sg, err := ToSubgraph(in)
	if err != nil {
		t.Fatalf("ToSubgraph() error = %v", err)
	}
	out := FromSubgraph(sg)

	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in = %+v\nout = %+v", in, out)
	}
}

func TestFromSubgraphSortsNodes(t *testing.T) {
	sg, err := flow.NewSubgraph([]flow.Node{
		{ID: "z", Kind: canvas.KindTask},
		{ID: "a", Kind: canvas.KindTask},
		{ID: "m", Kind: canvas.KindTask},
	}, nil)
	if err != nil {
		t.Fatalf("NewSubgraph() error = %v", err)
	}

	s := FromSubgraph(sg)
	got := []string{s.Nodes[0].ID, s.Nodes[1].ID, s.Nodes[2].ID}
	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("node order = %v, want %v", got, want)
	}
}

func TestUnmarshalSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "Valid",
			data: `{"nodes":[{"id":"a","x":400,"y":400}],"edges":[{"id":"e1","source":"a","destination":"a"}]}`,
		},
		{
			name:    "InvalidJSON",
			data:    `{nodes`,
			wantErr: "unmarshal snapshot",
		},
		{
			name:    "MissingNodeID",
			data:    `{"nodes":[{"x":1,"y":2}]}`,
			wantErr: "has no id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSnapshot([]byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("UnmarshalSnapshot() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")

	in := Snapshot{
		Nodes: []Node{{ID: "a", Kind: "task", X: 400, Y: 400}},
		Edges: []Edge{{ID: "e1", Source: "a", Destination: "a"}},
	}

	if err := WriteSnapshotFile(in, path); err != nil {
		t.Fatalf("WriteSnapshotFile() error = %v", err)
	}

	out, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: %+v vs %+v", in, out)
	}

	// Output should be indented for human inspection.
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Error("snapshot file should be pretty-printed")
	}
}

func TestReadSnapshotFileMissing(t *testing.T) {
	_, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDisplayName(t *testing.T) {
	n := Node{ID: "proc-1"}
	if n.DisplayName() != "proc-1" {
		t.Errorf("DisplayName() = %q, want ID fallback", n.DisplayName())
	}
	n.Name = "Fetch Feed"
	if n.DisplayName() != "Fetch Feed" {
		t.Errorf("DisplayName() = %q, want name", n.DisplayName())
	}
}
