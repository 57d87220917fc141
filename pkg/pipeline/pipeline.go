// Package pipeline provides the core layout pipeline for Flowgrid.
//
// This package implements the complete validate → layout → render pipeline
// that can be used by CLI, API, and worker components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: Convert the snapshot into a flow subgraph, rejecting
//     malformed input (unknown kinds, duplicate IDs, dangling edges)
//  2. Layout: Compute a position plan for the subgraph, with optional
//     fan-in bend routing
//  3. Render: Generate output in various formats (JSON, DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.Options{
//	    RouteFanIn: true,
//	    Formats:    []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, snap, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowgrid/flowgrid/pkg/flow"
	"github.com/flowgrid/flowgrid/pkg/plancache"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	OriginX    float64 `json:"origin_x,omitempty"`
	OriginY    float64 `json:"origin_y,omitempty"`
	MaxDepth   int     `json:"max_depth,omitempty"`
	RouteFanIn bool    `json:"route_fan_in,omitempty"` // Compute fan-in bends after placement
	Refresh    bool    `json:"refresh,omitempty"`      // Bypass the plan cache

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Include kind and coordinates in DOT labels

	// Persistence options
	SaveAs string `json:"save_as,omitempty"` // Non-empty persists the run under this name

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Subgraph is the validated flow, positioned per the plan.
	Subgraph *flow.Subgraph

	// SnapshotHash is the content hash of the input snapshot.
	SnapshotHash string

	// Plan holds the computed positions and bends.
	Plan snapshot.Plan

	// Spine lists the node IDs placed on the main vertical axis.
	Spine []string

	// Unplaced lists node IDs the planner could not position.
	Unplaced []string

	// DepthCapped reports that branch discovery hit the depth cap.
	DepthCapped bool

	// RecordID is set when the run was persisted to the plan store.
	RecordID string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit bool // Whether the plan came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// PlanKeyOpts returns cache key options for the layout stage.
func (o *Options) PlanKeyOpts() plancache.PlanKeyOpts {
	return plancache.PlanKeyOpts{
		OriginX:    o.OriginX,
		OriginY:    o.OriginY,
		MaxDepth:   o.MaxDepth,
		RouteFanIn: o.RouteFanIn,
	}
}
