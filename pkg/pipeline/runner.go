package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	"github.com/flowgrid/flowgrid/pkg/flow"
	"github.com/flowgrid/flowgrid/pkg/layout"
	"github.com/flowgrid/flowgrid/pkg/observability"
	"github.com/flowgrid/flowgrid/pkg/plancache"
	"github.com/flowgrid/flowgrid/pkg/planstore"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching and persistence.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  plancache.Cache
	Keyer  plancache.Keyer
	Store  planstore.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer, and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Store may be nil; runs are then never persisted.
func NewRunner(c plancache.Cache, keyer plancache.Keyer, store planstore.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = plancache.NewDefaultKeyer()
	}
	if c == nil {
		c = plancache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  store,
		Logger: logger,
	}
}

// cachedPlan is the cache payload for the layout stage. It carries the
// run's reporting alongside the plan so cache hits reproduce the full
// result.
type cachedPlan struct {
	Plan        snapshot.Plan `json:"plan"`
	Spine       []string      `json:"spine,omitempty"`
	Unplaced    []string      `json:"unplaced,omitempty"`
	DepthCapped bool          `json:"depth_capped,omitempty"`
}

// Execute runs the complete validate → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, snap snapshot.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	// Stage 1: Validate
	sg, err := snapshot.ToSubgraph(snap)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.NodeCount = sg.NodeCount()
	result.Stats.EdgeCount = sg.EdgeCount()

	snapData, err := snapshot.MarshalSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot: %w", err)
	}
	result.SnapshotHash = plancache.Hash(snapData)

	// Stage 2: Layout
	layoutStart := time.Now()
	cached, planHit, err := r.suggestWithCacheInfo(ctx, sg, result.SnapshotHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Plan = cached.Plan
	result.Spine = cached.Spine
	result.Unplaced = cached.Unplaced
	result.DepthCapped = cached.DepthCapped
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.PlanHit = planHit

	r.Logger.Info("computed layout",
		"placed", len(cached.Plan.Positions),
		"unplaced", len(cached.Unplaced),
		"cached", planHit,
		"duration", result.Stats.LayoutTime)

	// Rebuild the subgraph with the plan applied so rendering and storage
	// see the suggested arrangement.
	positioned, err := snapshot.ToSubgraph(snapshot.Apply(snap, cached.Plan))
	if err != nil {
		return nil, fmt.Errorf("apply plan: %w", err)
	}
	result.Subgraph = positioned

	// Persist if requested.
	if r.Store != nil && opts.SaveAs != "" {
		record := planstore.NewRecord(opts.SaveAs, snap, cached.Plan)
		record.SnapshotHash = result.SnapshotHash
		record.Spine = cached.Spine
		record.Unplaced = cached.Unplaced
		record.DepthCapped = cached.DepthCapped

		saveStart := time.Now()
		err := r.Store.Save(ctx, record)
		observability.Store().OnSave(ctx, "pipeline", record.ID, time.Since(saveStart), err)
		if err != nil {
			return nil, fmt.Errorf("save plan: %w", err)
		}
		result.RecordID = record.ID
		r.Logger.Info("saved plan", "id", record.ID, "name", opts.SaveAs)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, positioned, cached.Plan, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Suggest computes a plan for the subgraph with caching. The snapshotHash
// must be the content hash of the snapshot the subgraph was built from.
func (r *Runner) Suggest(ctx context.Context, sg *flow.Subgraph, snapshotHash string, opts Options) (snapshot.Plan, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return snapshot.Plan{}, err
	}
	cached, _, err := r.suggestWithCacheInfo(ctx, sg, snapshotHash, opts)
	if err != nil {
		return snapshot.Plan{}, err
	}
	return cached.Plan, nil
}

func (r *Runner) suggestWithCacheInfo(ctx context.Context, sg *flow.Subgraph, snapshotHash string, opts Options) (cachedPlan, bool, error) {
	cacheKey := r.Keyer.PlanKey(snapshotHash, opts.PlanKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedPlan
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return cached, true, nil
			}
			// Corrupt entry, fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	observability.Layout().OnLayoutStart(ctx, sg.NodeCount(), sg.EdgeCount())
	start := time.Now()

	res, err := layout.Suggest(sg, layout.Options{
		Origin:   canvas.Point{X: opts.OriginX, Y: opts.OriginY},
		MaxDepth: opts.MaxDepth,
	})
	observability.Layout().OnLayoutComplete(ctx, res.Plan.Len(), len(res.Unplaced), time.Since(start), err)
	if err != nil {
		return cachedPlan{}, false, err
	}

	if opts.RouteFanIn {
		if err := r.routeFanIn(ctx, sg, &res); err != nil {
			return cachedPlan{}, false, err
		}
	}

	cached := cachedPlan{
		Plan:        snapshot.FromPlan(res.Plan),
		Spine:       res.Spine,
		Unplaced:    res.Unplaced,
		DepthCapped: res.DepthCapped,
	}

	// Cache the result
	if data, err := json.Marshal(cached); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, plancache.TTLPlan); err == nil {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}

	return cached, false, nil
}

// routeFanIn computes staggered bends for every node with two or more
// proper incoming edges, using the planned positions.
func (r *Runner) routeFanIn(ctx context.Context, sg *flow.Subgraph, res *layout.Result) error {
	// Routing reads source positions, so it must run against a subgraph
	// that already reflects the plan.
	positioned, err := repositioned(sg, res.Plan)
	if err != nil {
		return err
	}

	for _, n := range positioned.Nodes() {
		fanIn := 0
		for _, e := range positioned.InEdges(n.ID) {
			if !e.IsSelfLoop() {
				fanIn++
			}
		}
		if fanIn < 2 {
			continue
		}

		observability.Layout().OnRouteStart(ctx, n.ID, fanIn)
		start := time.Now()
		bends, err := layout.RouteFanIn(positioned, n.ID)
		observability.Layout().OnRouteComplete(ctx, n.ID, time.Since(start), err)
		if err != nil {
			return err
		}
		for edgeID, pts := range bends {
			res.Plan.SetBends(edgeID, pts)
		}
	}
	return nil
}

// repositioned rebuilds a subgraph with the plan's positions applied.
func repositioned(sg *flow.Subgraph, plan layout.Plan) (*flow.Subgraph, error) {
	nodes := make([]flow.Node, 0, sg.NodeCount())
	for _, n := range sg.Nodes() {
		node := *n
		if pos, ok := plan.Positions[n.ID]; ok {
			node.Position = pos
		}
		nodes = append(nodes, node)
	}
	edges := make([]flow.Edge, 0, sg.EdgeCount())
	for _, e := range sg.Edges() {
		edges = append(edges, *e)
	}
	return flow.NewSubgraph(nodes, edges)
}

// Render generates artifacts for the positioned subgraph in every
// requested format.
func (r *Runner) Render(ctx context.Context, sg *flow.Subgraph, plan snapshot.Plan, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		observability.Layout().OnRenderStart(ctx, format)
		start := time.Now()
		data, err := renderFormat(sg, plan, format, opts)
		observability.Layout().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return err
		}
	}
	if r.Store != nil {
		return r.Store.Close(ctx)
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
