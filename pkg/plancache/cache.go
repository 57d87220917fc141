// Package plancache caches computed layout plans keyed by snapshot content.
//
// Layout runs are deterministic: the same snapshot and options always produce
// the same plan. That makes plans ideal cache material, and the key scheme
// hashes exactly the inputs that influence the result (snapshot bytes plus
// layout options).
//
// Three backends are provided:
//
//   - [FileCache]: directory-backed, for CLI usage
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
package plancache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when an item is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// TTLPlan is how long cached plans stay valid. Plans are cheap to recompute,
// so entries mainly serve repeated runs over the same working set.
const TTLPlan = 24 * time.Hour

// Cache is the storage interface for computed plans.
//
// Get returns (data, found, error). A miss is (nil, false, nil), not an
// error. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PlanKeyOpts captures the layout options that influence a plan.
// Two runs with the same snapshot hash and the same opts hit the same key.
type PlanKeyOpts struct {
	OriginX    float64 `json:"origin_x"`
	OriginY    float64 `json:"origin_y"`
	MaxDepth   int     `json:"max_depth"`
	RouteFanIn bool    `json:"route_fan_in"`
}

// Keyer generates cache keys for plan lookups.
type Keyer interface {
	PlanKey(snapshotHash string, opts PlanKeyOpts) string
}

// DefaultKeyer is the standard key scheme: prefix plus a SHA-256 over the
// key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for a plan computed from the given snapshot hash.
func (k *DefaultKeyer) PlanKey(snapshotHash string, opts PlanKeyOpts) string {
	return hashKey("plan", snapshotHash, opts)
}
