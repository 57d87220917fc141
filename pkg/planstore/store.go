// Package planstore persists layout runs so they can be inspected, listed,
// and re-applied later.
//
// A stored [Record] pairs the input snapshot with the computed plan and the
// run's reporting (spine, unplaced nodes). Two backends are provided:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for server deployments
package planstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Record is one persisted layout run.
type Record struct {
	ID           string            `json:"id" bson:"_id"`
	Name         string            `json:"name,omitempty" bson:"name,omitempty"`
	SnapshotHash string            `json:"snapshot_hash" bson:"snapshot_hash"`
	Snapshot     snapshot.Snapshot `json:"snapshot" bson:"snapshot"`
	Plan         snapshot.Plan     `json:"plan" bson:"plan"`
	Spine        []string          `json:"spine,omitempty" bson:"spine,omitempty"`
	Unplaced     []string          `json:"unplaced,omitempty" bson:"unplaced,omitempty"`
	DepthCapped  bool              `json:"depth_capped,omitempty" bson:"depth_capped,omitempty"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
}

// Summary is the listing view of a record, without the snapshot and plan
// payloads.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord creates a record with a fresh ID and timestamp.
func NewRecord(name string, s snapshot.Snapshot, p snapshot.Plan) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Name:      name,
		Snapshot:  s,
		Plan:      p,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for plan storage backends.
type Store interface {
	// Save persists a record. Saving an existing ID replaces the record.
	// A record with no ID is assigned one.
	Save(ctx context.Context, r *Record) error

	// Load retrieves a record by ID.
	// Returns ErrNotFound if no record exists.
	Load(ctx context.Context, id string) (*Record, error)

	// List returns summaries of all records, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a record. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
