package planstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

func testSnapshot(n int) snapshot.Snapshot {
	s := snapshot.Snapshot{}
	for i := 0; i < n; i++ {
		s.Nodes = append(s.Nodes, snapshot.Node{ID: string(rune('a' + i))})
	}
	return s
}

func TestMemoryStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	r := NewRecord("pipeline", testSnapshot(2), snapshot.Plan{
		Positions: map[string]snapshot.Point{"a": {X: 400, Y: 400}},
	})
	r.Spine = []string{"a", "b"}

	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if r.ID == "" {
		t.Fatal("Save should keep the assigned ID")
	}

	got, err := s.Load(ctx, r.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Name != "pipeline" {
		t.Errorf("Name = %q, want pipeline", got.Name)
	}
	if len(got.Spine) != 2 {
		t.Errorf("Spine = %v, want 2 entries", got.Spine)
	}

	// Mutating the loaded copy must not affect the stored record.
	got.Name = "changed"
	again, _ := s.Load(ctx, r.ID)
	if again.Name != "pipeline" {
		t.Error("Load should return a copy")
	}
}

func TestMemoryStoreSaveAssignsID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := &Record{Snapshot: testSnapshot(1)}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if r.ID == "" {
		t.Error("Save should assign an ID")
	}
	if r.CreatedAt.IsZero() {
		t.Error("Save should assign a timestamp")
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := NewRecord("first", testSnapshot(1), snapshot.Plan{})
	s.Save(ctx, r)

	r.Name = "second"
	s.Save(ctx, r)

	got, err := s.Load(ctx, r.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Name != "second" {
		t.Errorf("Name = %q, want second", got.Name)
	}

	list, _ := s.List(ctx)
	if len(list) != 1 {
		t.Errorf("List() = %d records, want 1", len(list))
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "mid", "new"} {
		r := NewRecord(name, testSnapshot(i+1), snapshot.Plan{})
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() = %d records, want 3", len(list))
	}
	if list[0].Name != "new" || list[2].Name != "old" {
		t.Errorf("List order = [%s %s %s], want newest first", list[0].Name, list[1].Name, list[2].Name)
	}
	if list[0].Nodes != 3 {
		t.Errorf("Nodes = %d, want 3", list[0].Nodes)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := NewRecord("gone", testSnapshot(1), snapshot.Plan{})
	s.Save(ctx, r)

	if err := s.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Load(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := s.Delete(ctx, r.ID); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}
