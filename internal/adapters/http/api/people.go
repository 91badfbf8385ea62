package api

import "net/http"

// handleProfile handles GET /people/{id}.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, err := s.deps.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePersonTiers handles GET /people/{id}/tiers.
func (s *Server) handlePersonTiers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_person_tiers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	tiers, err := s.deps.PersonTiers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tiers)
}

// handleFacets handles GET /facets/{entity}/{field}.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_facets"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	values, err := s.deps.Facets(r.Context(), r.PathValue("entity"), r.PathValue("field"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}
