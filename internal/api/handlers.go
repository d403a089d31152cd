package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vennkit/vennkit/pkg/pipeline"
	"github.com/vennkit/vennkit/pkg/render"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// layoutRequest is the body for POST /v1/layout and POST /v1/pack.
type layoutRequest struct {
	AOnly        int      `json:"a_only"`
	BOnly        int      `json:"b_only"`
	Intersection int      `json:"intersection"`
	Elements     []string `json:"elements,omitempty"`
}

// layoutResponse wraps a layout with cache metadata.
type layoutResponse struct {
	Layout any  `json:"layout"`
	Cached bool `json:"cached"`
}

// diagramResponse wraps a packed diagram.
type diagramResponse struct {
	Diagram any  `json:"diagram"`
	Cached  bool `json:"cached"`
}

// createResponse is returned by POST /v1/diagrams.
type createResponse struct {
	ID      string `json:"id"`
	Diagram any    `json:"diagram"`
}

// listResponse is returned by GET /v1/diagrams.
type listResponse struct {
	IDs []string `json:"ids"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeLayoutRequest(w, r)
	if !ok {
		return
	}

	opts := s.pipelineOptions(req)
	opts.SkipPack = true

	layout, hit, err := s.runner.ComputeLayout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: layout, Cached: hit})
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeLayoutRequest(w, r)
	if !ok {
		return
	}

	opts := s.pipelineOptions(req)
	opts.Formats = nil

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diagramResponse{
		Diagram: result.Diagram,
		Cached:  result.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeLayoutRequest(w, r)
	if !ok {
		return
	}

	opts := s.pipelineOptions(req)
	opts.Formats = nil

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.store.Put(r.Context(), result.Diagram)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("diagram stored", "id", id, "elements", len(result.Diagram.Elements))
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Diagram: result.Diagram})
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{IDs: ids})
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}

	opts := pipeline.Options{
		AOnly:        d.Counts.AOnly,
		BOnly:        d.Counts.BOnly,
		Intersection: d.Counts.Intersection,
		Formats:      []string{format},
		Config:       s.config,
		Logger:       s.logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, _, err := s.runner.Render(r.Context(), opts, d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) decodeLayoutRequest(w http.ResponseWriter, r *http.Request) (layoutRequest, bool) {
	var req layoutRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: errorDetail{Code: "INVALID_INPUT", Message: "malformed request body: " + err.Error()},
		})
		return layoutRequest{}, false
	}
	return req, true
}

func (s *Server) pipelineOptions(req layoutRequest) pipeline.Options {
	return pipeline.Options{
		AOnly:        req.AOnly,
		BOnly:        req.BOnly,
		Intersection: req.Intersection,
		Elements:     req.Elements,
		Config:       s.config,
		Logger:       s.logger,
	}
}

func contentType(format string) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	default:
		return "application/json"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
