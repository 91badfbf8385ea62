package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/alumni/internal/domain/model"
)

const maxActivityBody = 1 << 16

// activityRequest is the body of POST /activities.
type activityRequest struct {
	EventID  string `json:"event_id"`
	PersonID string `json:"person_id"`
	Kind     string `json:"kind"`
	Points   int    `json:"points"`
	TS       string `json:"ts"`
}

type activityResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

var (
	errMissingPersonID = errors.New("person_id is required")
	errMissingKind     = errors.New("kind is required")
	errPointsRange     = fmt.Errorf("points must be within ±%d", model.MaxActivityPoints)
)

func (req activityRequest) toActivity() (model.Activity, error) {
	if strings.TrimSpace(req.PersonID) == "" {
		return model.Activity{}, errMissingPersonID
	}
	if strings.TrimSpace(req.Kind) == "" {
		return model.Activity{}, errMissingKind
	}
	if req.Points > model.MaxActivityPoints || req.Points < -model.MaxActivityPoints {
		return model.Activity{}, errPointsRange
	}
	a := model.Activity{
		EventID:  strings.TrimSpace(req.EventID),
		PersonID: strings.TrimSpace(req.PersonID),
		Kind:     req.Kind,
		Points:   req.Points,
	}
	if req.TS != "" {
		ts, err := time.Parse(time.RFC3339, req.TS)
		if err != nil {
			return model.Activity{}, err
		}
		a.TS = ts
	}
	return a, nil
}

// handlePostActivity handles POST /activities. A new event is accepted with
// 202; a repeated event id is acknowledged with 200 and not applied again.
func (s *Server) handlePostActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_activity"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req activityRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActivityBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	a, err := req.toActivity()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := s.deps.Submit(r.Context(), a)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, activityResponse{Status: "duplicate", EventID: res.EventID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, activityResponse{Status: "accepted", EventID: res.EventID})
}
