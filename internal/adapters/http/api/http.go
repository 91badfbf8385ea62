// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/alumni/internal/adapters/repository"
	service "github.com/okian/alumni/internal/app"
	"github.com/okian/alumni/internal/domain/badge"
	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/internal/domain/types"
)

const defaultMaxLeaderboardLimit = 100

// Dependencies required by HTTP handlers. The service facade satisfies it;
// tests substitute fakes.
type Dependencies interface {
	Directory(ctx context.Context, q service.DirectoryQuery) (types.Directory, error)
	Questions(ctx context.Context, q service.QuestionQuery) (types.Questions, error)
	Materials(ctx context.Context, q service.MaterialQuery) (types.Materials, error)
	Leaderboard(ctx context.Context, q service.LeaderboardQuery) (types.Leaderboard, error)
	Profile(ctx context.Context, id string) (types.Profile, error)
	PersonTiers(ctx context.Context, id string) ([]model.Tier, error)
	Tiers() []model.Tier
	Facets(ctx context.Context, entity, field string) ([]string, error)
	Stats(ctx context.Context) types.Stats
	Submit(ctx context.Context, a model.Activity) (service.SubmitResult, error)
	GetStats(ctx context.Context) map[string]any
}

var _ Dependencies = (*service.Service)(nil)

// Option configures the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps GET /leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// Server wires HTTP routes for the portal API.
type Server struct {
	deps     Dependencies
	maxLimit int
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, maxLimit: defaultMaxLeaderboardLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.handleStats, "stats"))
	mux.HandleFunc("/directory", MetricsMiddleware(s.handleDirectory, "directory"))
	mux.HandleFunc("/questions", MetricsMiddleware(s.handleQuestions, "questions"))
	mux.HandleFunc("/resources", MetricsMiddleware(s.handleResources, "resources"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.handleLeaderboard, "leaderboard"))
	mux.HandleFunc("/people/{id}", MetricsMiddleware(s.handleProfile, "people"))
	mux.HandleFunc("/people/{id}/tiers", MetricsMiddleware(s.handlePersonTiers, "people_tiers"))
	mux.HandleFunc("/tiers", MetricsMiddleware(s.handleTiers, "tiers"))
	mux.HandleFunc("/facets/{entity}/{field}", MetricsMiddleware(s.handleFacets, "facets"))
	mux.HandleFunc("/activities", MetricsMiddleware(s.handlePostActivity, "activities"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors into HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidActivity), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrUnknownEntity):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, badge.ErrInvalidScore):
		writeError(w, http.StatusInternalServerError, "invalid_score", WrapKind(op, ErrInternal, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
