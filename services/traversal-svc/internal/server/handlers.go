package server

import (
	"encoding/json"
	"net/http"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/config"
	"pathfinder/pkg/domain"
	"pathfinder/pkg/logger"
	"pathfinder/services/traversal-svc/internal/service"
	"pathfinder/services/traversal-svc/internal/traversal"
)

// Handlers holds the API handlers for the traversal endpoints.
type Handlers struct {
	service *service.TraversalService
	cfg     config.TraversalConfig
}

// NewHandlers constructs the API handlers.
func NewHandlers(svc *service.TraversalService, cfg config.TraversalConfig) *Handlers {
	return &Handlers{
		service: svc,
		cfg:     cfg,
	}
}

// traversalRequest is the JSON body shared by both endpoints. Numeric
// bounds are pointers so an absent field falls back to the configured
// default instead of zero.
type traversalRequest struct {
	Source         string `json:"source"`
	Target         string `json:"target,omitempty"`
	Direction      string `json:"direction"`
	Label          string `json:"label,omitempty"`
	WeightProperty string `json:"weight_property,omitempty"`
	Degree         *int64 `json:"degree,omitempty"`
	SkipDegree     *int64 `json:"skip_degree,omitempty"`
	Capacity       *int64 `json:"capacity,omitempty"`
	Limit          *int64 `json:"limit,omitempty"`
}

type shortestPathsResponse struct {
	Paths       map[domain.Id]domain.PathResult `json:"paths"`
	Vertices    []domain.Id                     `json:"vertices"`
	Rounds      int64                           `json:"rounds"`
	SearchSpace int64                           `json:"search_space"`
	Cached      bool                            `json:"cached,omitempty"`
}

type shortestPathResponse struct {
	Found       bool               `json:"found"`
	Path        *domain.PathResult `json:"path,omitempty"`
	Rounds      int64              `json:"rounds"`
	SearchSpace int64              `json:"search_space"`
	Cached      bool               `json:"cached,omitempty"`
}

// ShortestPaths serves POST /api/v1/shortest-paths.
func (h *Handlers) ShortestPaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.ShortestPaths(r.Context(), q)
	if err != nil {
		logQueryError(r, err)
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, shortestPathsResponse{
		Paths:       resp.Results,
		Vertices:    resp.Vertices,
		Rounds:      resp.Rounds,
		SearchSpace: resp.SearchSpace,
		Cached:      resp.Cached,
	})
}

// ShortestPath serves POST /api/v1/shortest-path.
func (h *Handlers) ShortestPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.ShortestPath(r.Context(), q)
	if err != nil {
		logQueryError(r, err)
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, shortestPathResponse{
		Found:       resp.Found,
		Path:        resp.Result,
		Rounds:      resp.Rounds,
		SearchSpace: resp.SearchSpace,
		Cached:      resp.Cached,
	})
}

// parseQuery decodes the request body and resolves absent bounds against
// the configured defaults and ceilings.
func (h *Handlers) parseQuery(r *http.Request) (traversal.Query, error) {
	var req traversalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return traversal.Query{}, apperror.Wrap(err, apperror.CodeInvalidArgument, "malformed request body")
	}

	dir, err := domain.ParseDirection(req.Direction)
	if err != nil {
		return traversal.Query{}, apperror.NewWithField(apperror.CodeInvalidDirection, err.Error(), "direction")
	}

	q := traversal.Query{
		Source:         domain.Id(req.Source),
		Target:         domain.Id(req.Target),
		Direction:      dir,
		Label:          req.Label,
		WeightProperty: req.WeightProperty,
		Degree:         orDefault(req.Degree, h.cfg.DefaultDegree),
		SkipDegree:     orDefault(req.SkipDegree, 0),
		Capacity:       orDefault(req.Capacity, h.cfg.DefaultCapacity),
		Limit:          orDefault(req.Limit, domain.NoLimit),
	}

	q.Capacity = clamp(q.Capacity, h.cfg.MaxCapacity)
	q.Limit = clamp(q.Limit, h.cfg.MaxLimit)

	return q, nil
}

func orDefault(v *int64, def int64) int64 {
	if v == nil {
		return def
	}
	return *v
}

// clamp caps value at ceiling. An unbounded value inherits the ceiling; an
// unbounded ceiling changes nothing.
func clamp(value, ceiling int64) int64 {
	if ceiling == domain.NoLimit {
		return value
	}
	if value == domain.NoLimit || value > ceiling {
		return ceiling
	}
	return value
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	respondJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"error": errorBody{
			Code:    string(apperror.CodeInvalidArgument),
			Message: "method not allowed",
		},
	})
}

func logQueryError(r *http.Request, err error) {
	if apperror.IsWarning(err) {
		return
	}
	logger.Log.Error("traversal query failed",
		"path", r.URL.Path,
		"code", apperror.Code(err),
		"error", err,
	)
}
