package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PratikJH153/universal-toolkit-core/internal/action"
)

// handleListDispatches returns recent dispatch audit records, newest first.
//
// Query parameters:
//   - action: filter by action name
//   - limit: max results (default and cap 100)
func (s *Server) handleListDispatches(w http.ResponseWriter, r *http.Request) {
	if s.dispatchRepo == nil {
		writeInternalError(w, "dispatch audit trail not configured")
		return
	}

	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	var (
		records []action.DispatchRecord
		err     error
	)
	if name := q.Get("action"); name != "" {
		records, err = s.dispatchRepo.ListByAction(r.Context(), name, limit)
	} else {
		records, err = s.dispatchRepo.List(r.Context(), limit)
	}
	if err != nil {
		s.logger.Error("failed to list dispatches", "error", err)
		writeInternalError(w, "failed to list dispatches")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dispatches": records,
		"count":      len(records),
	})
}

// handleGetDispatch returns a single dispatch audit record by ID.
func (s *Server) handleGetDispatch(w http.ResponseWriter, r *http.Request) {
	if s.dispatchRepo == nil {
		writeInternalError(w, "dispatch audit trail not configured")
		return
	}

	id := chi.URLParam(r, "id")
	record, err := s.dispatchRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, action.ErrDispatchNotFound) {
			writeNotFound(w, "dispatch not found")
			return
		}
		s.logger.Error("failed to get dispatch", "id", id, "error", err)
		writeInternalError(w, "failed to get dispatch")
		return
	}

	writeJSON(w, http.StatusOK, record)
}
