package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stitchgrid/pkg/buildinfo"
	"github.com/matzehuels/stitchgrid/pkg/errors"
	"github.com/matzehuels/stitchgrid/pkg/gallery"
	"github.com/matzehuels/stitchgrid/pkg/observability"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(writeTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/render/{format}", s.handleRender)
	r.Post("/render/{format}", s.handleRenderLayout)

	r.Route("/patterns", func(r chi.Router) {
		r.Post("/", s.handleCreatePattern)
		r.Get("/", s.handleListPatterns)
		r.Get("/{id}", s.handleGetPattern)
		r.Get("/{id}/{format}", s.handleRenderPattern)
		r.Delete("/{id}", s.handleDeletePattern)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts := s.defaults.Clone()
	opts.Formats = []string{format}
	if err := layoutOptions(r.URL.Query(), &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := styleOptions(r.URL.Query(), &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	seed := opts.Seed
	if seed == 0 {
		seed = pipeline.DefaultSeed
	}
	w.Header().Set("X-Stitchgrid-Seed", strconv.FormatUint(seed, 10))
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	s.writeArtifact(w, format, result.Artifacts[format])
}

// handleRenderLayout renders a layout document posted in the body, as written
// by the json format. Only style parameters apply.
func (s *Server) handleRenderLayout(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	format := chi.URLParam(r, "format")
	opts := s.defaults.Clone()
	opts.Seed = 0
	opts.Formats = []string{format}
	opts.Logger = s.logger
	if err := styleOptions(r.URL.Query(), &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, err := pipeline.RenderFromLayoutData(data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, format, artifacts[format])
}

// createRequest is the body of POST /patterns.
type createRequest struct {
	Name    string           `json:"name"`
	Options pipeline.Options `json:"options"`
}

func (s *Server) handleCreatePattern(w http.ResponseWriter, r *http.Request) {
	req := createRequest{Options: s.defaults.Clone()}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts := req.Options
	if opts.Seed == 0 {
		opts.Seed = pipeline.RandomSeed()
	}
	l, err := s.runner.GenerateLayout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts.SetLayoutDefaults()
	entry := gallery.NewEntry(req.Name, l, opts)
	if err := s.gallery.Save(r.Context(), entry); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("saved pattern", "id", entry.ID, "seed", opts.Seed, "segments", len(l.Segments))
	w.Header().Set("Location", "/patterns/"+entry.ID)
	s.writeJSON(w, http.StatusCreated, entry.Summary())
}

func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidParameters, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	entries, err := s.gallery.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summaries := make([]gallery.Summary, len(entries))
	for i, e := range entries {
		summaries[i] = e.Summary()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"patterns": summaries})
}

func (s *Server) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	entry, err := s.gallery.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRenderPattern(w http.ResponseWriter, r *http.Request) {
	entry, err := s.gallery.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := chi.URLParam(r, "format")
	opts := entry.Options
	opts.Formats = []string{format}
	opts.Logger = s.logger
	if err := styleOptions(r.URL.Query(), &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), entry.Layout, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Stitchgrid-Seed", strconv.FormatUint(entry.Options.Seed, 10))
	w.Header().Set("X-Cache", cacheStatus(hit))
	s.writeArtifact(w, format, artifacts[format])
}

func (s *Server) handleDeletePattern(w http.ResponseWriter, r *http.Request) {
	if err := s.gallery.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Response helpers
// =============================================================================

func (s *Server) writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("write artifact", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write json", "error", err)
	}
}

// errorResponse is the body of every error response.
type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
