package api

import (
	"fmt"
	"net/http"
	"net/url"

	service "github.com/okian/alumni/internal/app"
	"github.com/okian/alumni/internal/domain/search"
)

// parseSort reads ?sort=key&order=asc|desc. No sort key means input order.
func parseSort(q url.Values) (*search.Sort, error) {
	key := q.Get("sort")
	order := q.Get("order")
	if key == "" {
		if order != "" {
			return nil, fmt.Errorf("order %q given without sort", order)
		}
		return nil, nil
	}
	switch order {
	case "", "asc":
		return &search.Sort{Key: key}, nil
	case "desc":
		return &search.Sort{Key: key, Descending: true}, nil
	default:
		return nil, fmt.Errorf("order must be asc or desc, got %q", order)
	}
}

// handleDirectory handles GET /directory.
func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_directory"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	sort, err := parseSort(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	dir, err := s.deps.Directory(r.Context(), service.DirectoryQuery{
		Text:         q.Get("q"),
		Cohort:       q.Get("cohort"),
		Organization: q.Get("organization"),
		Skill:        q.Get("skill"),
		Role:         q.Get("role"),
		Sort:         sort,
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, dir)
}

// handleQuestions handles GET /questions.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_questions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	sort, err := parseSort(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := s.deps.Questions(r.Context(), service.QuestionQuery{
		Text:  q.Get("q"),
		Topic: q.Get("topic"),
		Asker: q.Get("asker"),
		Sort:  sort,
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleResources handles GET /resources.
func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_resources"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	sort, err := parseSort(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := s.deps.Materials(r.Context(), service.MaterialQuery{
		Text:        q.Get("q"),
		Category:    q.Get("category"),
		Contributor: q.Get("contributor"),
		Sort:        sort,
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
