package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PratikJH153/universal-toolkit-core/internal/action"
)

// triggerRequest is the body for POST /actions/{name}/trigger.
type triggerRequest struct {
	ParticipantID string         `json:"participant_id"`
	Target        string         `json:"target,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// triggerResponse wraps a dispatch result with its duration for the
// JSON surface (Result keeps Duration out of its own encoding).
type triggerResponse struct {
	action.Result
	DurationMS float64 `json:"duration_ms"`
}

// handleListActions returns all registered action names.
func (s *Server) handleListActions(w http.ResponseWriter, _ *http.Request) {
	names := s.registry.Names()
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": names,
		"count":   len(names),
	})
}

// handleTriggerAction dispatches an action on behalf of a live
// participant, exactly as if the world runtime had reported the
// interaction. Useful for operator tooling and debugging.
func (s *Server) handleTriggerAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.ParticipantID == "" {
		writeBadRequest(w, "participant_id is required")
		return
	}

	if s.participants == nil {
		writeInternalError(w, "participant lookup not configured")
		return
	}
	p, ok := s.participants.Find(req.ParticipantID)
	if !ok {
		writeNotFound(w, "participant not found")
		return
	}

	result := s.dispatcher.Trigger(r.Context(), name, action.Context{
		Participant: p,
		Target:      req.Target,
		Payload:     req.Payload,
	})

	writeJSON(w, http.StatusOK, triggerResponse{
		Result:     result,
		DurationMS: result.DurationMS(),
	})
}
