package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
)

// overrideRequest is the body for PUT /participants/{id}/classification.
type overrideRequest struct {
	Category participant.Category `json:"category"`
}

// handleGetClassification returns the cached device category for a
// participant, or 404 if the participant has not been classified yet.
func (s *Server) handleGetClassification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	category, ok := s.classifier.Lookup(id)
	if !ok {
		writeNotFound(w, "no classification for participant")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"participant_id": id,
		"category":       category,
	})
}

// handleOverrideClassification pins a participant to a device category,
// replacing any cached classification. Requires the override feature to
// be enabled in configuration.
func (s *Server) handleOverrideClassification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if s.participants == nil {
		writeInternalError(w, "participant lookup not configured")
		return
	}
	p, ok := s.participants.Find(id)
	if !ok {
		writeNotFound(w, "participant not found")
		return
	}

	if err := s.classifier.ForceClassify(p, req.Category); err != nil {
		switch {
		case errors.Is(err, participant.ErrOverrideDisabled):
			writeForbidden(w, "classification override is disabled")
		case errors.Is(err, participant.ErrInvalidCategory):
			writeBadRequest(w, "invalid category: must be VR, Mobile, or Desktop")
		case errors.Is(err, participant.ErrNonParticipant):
			writeBadRequest(w, "cannot classify a non-participant entity")
		default:
			s.logger.Error("classification override failed", "participant_id", id, "error", err)
			writeInternalError(w, "failed to override classification")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"participant_id": id,
		"category":       req.Category,
	})
}
