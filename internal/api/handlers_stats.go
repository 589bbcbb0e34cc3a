package api

import (
	"net/http"
)

func (s *Server) handleParseStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "parse stats unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := map[string]any{"stats": s.stats.Snapshot()}
	if s.cache != nil {
		resp["cache_entries"] = s.cache.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}
