package api

import "net/http"

// handleStats handles GET /stats: portal counts and the most recent posts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Stats(r.Context()))
}
