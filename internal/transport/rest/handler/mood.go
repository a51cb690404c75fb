package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"manova/internal/model"
	"manova/internal/repository"
	"manova/internal/transport/rest/middleware"
)

// MoodHandler handles quick mood logging, separate from full check-ins.
type MoodHandler struct {
	moods repository.MoodRepo
}

// NewMoodHandler creates a new mood handler.
func NewMoodHandler(moods repository.MoodRepo) *MoodHandler {
	return &MoodHandler{moods: moods}
}

type logMoodRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

// Log handles POST /v1/moods
func (h *MoodHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req logMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Mood == "" {
		writeError(w, http.StatusBadRequest, "mood is required")
		return
	}

	entry := &model.MoodEntry{
		UserID: userID,
		Mood:   req.Mood,
		Note:   req.Note,
	}
	if err := h.moods.Create(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save mood")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /v1/moods
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := int64(30)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.moods.GetByUserID(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load moods")
		return
	}
	if entries == nil {
		entries = []*model.MoodEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}
