package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	apperrors "github.com/verdantcart/hybridsearch/internal/errors"
	"github.com/verdantcart/hybridsearch/internal/search"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type rebuildResponse struct {
	Products    int    `json:"products"`
	BuildTimeMs int64  `json:"build_time_ms"`
	BuiltAt     string `json:"built_at"`
}

// handleSearch serves GET /v1/search. Query parameters:
//
//	q        required query text
//	mode     hybrid | semantic_only | keyword_only
//	offset   pagination offset
//	limit    page size
//	category repeatable category filter
//	price_min, price_max  inclusive price bounds
//	in_stock, featured    boolean filters
//	graph_boost, expand, facets  pipeline flags
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeQueryEmpty, "query parameter 'q' is required")
		return
	}

	opts, err := parseSearchOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidQuery, err.Error())
		return
	}

	resp, err := s.engine.Search(r.Context(), q, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.GetCategory(err) == apperrors.CategoryValidation {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, apperrors.GetCode(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleRebuild serves POST /v1/index/rebuild.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.IndexCatalog(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.GetCode(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, rebuildResponse{
		Products:    stats.ProductCount,
		BuildTimeMs: stats.BuildTime.Milliseconds(),
		BuiltAt:     stats.BuiltAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// handleHealth serves GET /healthz. Degraded backends are reported but do
// not fail the check: search degrades without the graph store or the
// embedder, and a stale index still serves results.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Checks: map[string]string{}}

	if s.graphStore != nil {
		if err := s.graphStore.Ping(r.Context()); err != nil {
			resp.Checks["graph"] = "unavailable: " + err.Error()
		} else {
			resp.Checks["graph"] = "ok"
		}
	}

	if s.embedder != nil {
		if s.embedder.Available(r.Context()) {
			resp.Checks["embedder"] = "ok"
		} else {
			resp.Checks["embedder"] = "unavailable"
		}
	}

	if s.snapshots != nil {
		if snap := s.snapshots.Current(); snap != nil {
			resp.Checks["index"] = "built " + snap.BuiltAt.UTC().Format(time.RFC3339)
		} else {
			resp.Checks["index"] = "not built"
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func parseSearchOptions(r *http.Request) (search.Options, error) {
	q := r.URL.Query()
	opts := search.Options{}

	if mode := q.Get("mode"); mode != "" {
		opts.Mode = search.Mode(mode)
	}

	var err error
	if opts.Offset, err = parseIntParam(q.Get("offset"), 0); err != nil {
		return opts, err
	}
	if opts.Limit, err = parseIntParam(q.Get("limit"), 0); err != nil {
		return opts, err
	}

	filters := catalog.Filters{}
	if cats := q["category"]; len(cats) > 0 {
		filters.Categories = cats
	}
	if v := q.Get("price_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, apperrors.New(apperrors.ErrCodeInvalidFilter, "invalid price_min: "+v, nil)
		}
		filters.PriceMin = &f
	}
	if v := q.Get("price_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, apperrors.New(apperrors.ErrCodeInvalidFilter, "invalid price_max: "+v, nil)
		}
		filters.PriceMax = &f
	}
	if v := q.Get("in_stock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperrors.New(apperrors.ErrCodeInvalidFilter, "invalid in_stock: "+v, nil)
		}
		filters.InStock = &b
	}
	if v := q.Get("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperrors.New(apperrors.ErrCodeInvalidFilter, "invalid featured: "+v, nil)
		}
		filters.Featured = &b
	}
	opts.Filters = filters

	opts.GraphBoost = boolParam(q.Get("graph_boost"))
	opts.ExpandQuery = boolParam(q.Get("expand"))
	opts.IncludeFacets = boolParam(q.Get("facets"))

	return opts, nil
}

func parseIntParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidPage, "invalid integer parameter: "+v, nil)
	}
	return n, nil
}

func boolParam(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}
