// Package server exposes the layout pipeline over HTTP.
//
// The API is JSON in, JSON out: clients post a snapshot plus options and
// receive a plan, never a mutated snapshot. Rendered artifacts (DOT, SVG)
// are available through the render endpoint with their native content types.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flowgrid/flowgrid/pkg/canvas"
	flowerrors "github.com/flowgrid/flowgrid/pkg/errors"
	"github.com/flowgrid/flowgrid/pkg/flow"
	"github.com/flowgrid/flowgrid/pkg/layout"
	"github.com/flowgrid/flowgrid/pkg/pipeline"
	"github.com/flowgrid/flowgrid/pkg/planstore"
	"github.com/flowgrid/flowgrid/pkg/snapshot"
)

// Server wires the pipeline runner and plan store into HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  planstore.Store
	logger *log.Logger
}

// NewHandler creates the HTTP handler for the layout API.
// The store may be nil; plan endpoints then return 404.
func NewHandler(runner *pipeline.Runner, store planstore.Store, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/route", s.route)
		r.Post("/bends/clear", s.clearBends)
		r.Post("/transpose", s.transpose)
		r.Post("/grid", s.grid)
		r.Post("/render", s.render)

		r.Get("/plans", s.listPlans)
		r.Get("/plans/{id}", s.getPlan)
		r.Delete("/plans/{id}", s.deletePlan)
	})

	return r
}

// =============================================================================
// Request / Response Types
// =============================================================================

// LayoutRequest asks for a full layout run over a snapshot.
type LayoutRequest struct {
	Snapshot snapshot.Snapshot `json:"snapshot"`
	Options  pipeline.Options  `json:"options"`
}

// LayoutResponse carries the computed plan and run reporting.
type LayoutResponse struct {
	SnapshotHash string        `json:"snapshot_hash"`
	Plan         snapshot.Plan `json:"plan"`
	Spine        []string      `json:"spine,omitempty"`
	Unplaced     []string      `json:"unplaced,omitempty"`
	DepthCapped  bool          `json:"depth_capped,omitempty"`
	RecordID     string        `json:"record_id,omitempty"`
	Cached       bool          `json:"cached"`
}

// RouteRequest asks for fan-in bend routing toward one destination.
type RouteRequest struct {
	Snapshot    snapshot.Snapshot `json:"snapshot"`
	Destination string            `json:"destination"`
}

// BendsResponse maps edge IDs to their new bend lists.
type BendsResponse struct {
	Bends map[string][]snapshot.Point `json:"bends"`
}

// ClearBendsRequest asks for bend removal across a snapshot.
// PreserveSelfLoops defaults to true when omitted; a self-loop with no
// bends is invisible, so dropping them must be asked for explicitly.
type ClearBendsRequest struct {
	Snapshot          snapshot.Snapshot `json:"snapshot"`
	PreserveSelfLoops *bool             `json:"preserve_self_loops,omitempty"`
}

// TransposeRequest asks for a rigid shift of the whole snapshot.
type TransposeRequest struct {
	Snapshot snapshot.Snapshot `json:"snapshot"`
	DX       float64           `json:"dx"`
	DY       float64           `json:"dy"`
}

// GridRequest asks for grid packing of top-level containers.
type GridRequest struct {
	Containers []snapshot.Node `json:"containers"`
	Columns    int             `json:"columns,omitempty"`
	SortByName bool            `json:"sort_by_name,omitempty"`
}

// PlanResponse carries a plan with no extra reporting.
type PlanResponse struct {
	Plan snapshot.Plan `json:"plan"`
}

// RenderRequest asks for one rendered artifact of a positioned snapshot.
type RenderRequest struct {
	Snapshot snapshot.Snapshot `json:"snapshot"`
	Format   string            `json:"format"`
	Detailed bool              `json:"detailed,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	// Artifacts are served by the render endpoint; the layout endpoint
	// always answers with the plan alone.
	req.Options.Formats = []string{pipeline.FormatJSON}
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Snapshot, req.Options)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		SnapshotHash: result.SnapshotHash,
		Plan:         result.Plan,
		Spine:        result.Spine,
		Unplaced:     result.Unplaced,
		DepthCapped:  result.DepthCapped,
		RecordID:     result.RecordID,
		Cached:       result.CacheInfo.PlanHit,
	})
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Destination == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("destination is required"))
		return
	}

	sg, err := snapshot.ToSubgraph(req.Snapshot)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	bends, err := layout.RouteFanIn(sg, req.Destination)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	plan := layout.NewPlan()
	for id, pts := range bends {
		plan.SetBends(id, pts)
	}
	writeJSON(w, http.StatusOK, BendsResponse{Bends: snapshot.FromPlan(plan).Bends})
}

func (s *Server) clearBends(w http.ResponseWriter, r *http.Request) {
	var req ClearBendsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sg, err := snapshot.ToSubgraph(req.Snapshot)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	preserve := req.PreserveSelfLoops == nil || *req.PreserveSelfLoops

	plan := layout.NewPlan()
	for id, pts := range layout.ClearBends(sg, preserve) {
		plan.SetBends(id, pts)
	}
	writeJSON(w, http.StatusOK, BendsResponse{Bends: snapshot.FromPlan(plan).Bends})
}

func (s *Server) transpose(w http.ResponseWriter, r *http.Request) {
	var req TransposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sg, err := snapshot.ToSubgraph(req.Snapshot)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	plan := layout.Transpose(sg, canvas.Offset{DX: req.DX, DY: req.DY})
	writeJSON(w, http.StatusOK, PlanResponse{Plan: snapshot.FromPlan(plan)})
}

func (s *Server) grid(w http.ResponseWriter, r *http.Request) {
	var req GridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sg, err := snapshot.ToSubgraph(snapshot.Snapshot{Nodes: req.Containers})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	containers := make([]flow.Node, 0, sg.NodeCount())
	for _, n := range sg.Nodes() {
		containers = append(containers, *n)
	}

	plan := layout.AlignGrid(containers, layout.GridOptions{
		Columns:    req.Columns,
		SortByName: req.SortByName,
	})
	writeJSON(w, http.StatusOK, PlanResponse{Plan: snapshot.FromPlan(plan)})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := pipeline.ValidateFormat(req.Format); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sg, err := snapshot.ToSubgraph(req.Snapshot)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), sg, snapshot.Plan{Positions: map[string]snapshot.Point{}}, pipeline.Options{
		Formats:  []string{req.Format},
		Detailed: req.Detailed,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(req.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[req.Format])
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("plan store not configured"))
		return
	}
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("plan store not configured"))
		return
	}
	record, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("plan store not configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: string(codeFor(status, err)), Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planstore.ErrNotFound), errors.Is(err, layout.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, flow.ErrInvalidNodeID),
		errors.Is(err, flow.ErrDuplicateNodeID),
		errors.Is(err, flow.ErrDuplicateEdgeID),
		errors.Is(err, flow.ErrDanglingEdge),
		errors.Is(err, canvas.ErrUnknownKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// codeFor picks the machine-readable code for an error response. Structured
// errors carry their own code; sentinel errors from the layout core map to
// the matching code, and anything else falls back on the status class.
func codeFor(status int, err error) flowerrors.Code {
	if code := flowerrors.GetCode(err); code != "" {
		return code
	}
	switch {
	case errors.Is(err, planstore.ErrNotFound):
		return flowerrors.ErrCodePlanNotFound
	case errors.Is(err, layout.ErrUnknownNode):
		return flowerrors.ErrCodeNodeNotFound
	case errors.Is(err, flow.ErrDanglingEdge):
		return flowerrors.ErrCodeDanglingEdge
	case errors.Is(err, canvas.ErrUnknownKind):
		return flowerrors.ErrCodeInvalidKind
	case errors.Is(err, flow.ErrInvalidNodeID),
		errors.Is(err, flow.ErrDuplicateNodeID),
		errors.Is(err, flow.ErrDuplicateEdgeID):
		return flowerrors.ErrCodeInvalidSnapshot
	}
	switch status {
	case http.StatusBadRequest:
		return flowerrors.ErrCodeInvalidInput
	case http.StatusNotFound:
		return flowerrors.ErrCodeNotFound
	default:
		return flowerrors.ErrCodeInternal
	}
}

func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}
