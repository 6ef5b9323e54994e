package api

import (
	"net/http"
)

// handleStats returns the current population snapshot.
//
// Totals come from the presence tracker and per-category counts from
// the classification cache, so the category sum can trail the total
// until lazily-classified participants perform their first interaction.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reporter.Snapshot())
}
