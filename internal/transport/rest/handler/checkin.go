package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"manova/internal/model"
	"manova/internal/repository"
	"manova/internal/service"
	"manova/internal/transport/rest/middleware"
)

// CheckInHandler handles check-in submission and retrieval.
type CheckInHandler struct {
	analysisSvc *service.AnalysisService
	checkIns    repository.CheckInRepo
}

// NewCheckInHandler creates a new check-in handler.
func NewCheckInHandler(analysisSvc *service.AnalysisService, checkIns repository.CheckInRepo) *CheckInHandler {
	return &CheckInHandler{analysisSvc: analysisSvc, checkIns: checkIns}
}

type submitCheckInRequest struct {
	Responses []model.SurveyResponse `json:"responses"`
}

// Submit handles POST /v1/checkins
func (h *CheckInHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req submitCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkIn, err := h.analysisSvc.SubmitCheckIn(r.Context(), userID, req.Responses)
	if err != nil {
		if service.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "check-in analysis failed")
		return
	}

	writeJSON(w, http.StatusCreated, checkIn)
}

// List handles GET /v1/checkins
func (h *CheckInHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	checkIns, err := h.checkIns.GetByUserID(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load check-ins")
		return
	}
	if checkIns == nil {
		checkIns = []*model.CheckIn{}
	}

	writeJSON(w, http.StatusOK, checkIns)
}

// Get handles GET /v1/checkins/{id}
func (h *CheckInHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["id"]

	checkIn, err := h.checkIns.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "check-in not found")
		return
	}
	if checkIn.UserID != userID {
		writeError(w, http.StatusForbidden, "check-in belongs to another user")
		return
	}

	writeJSON(w, http.StatusOK, checkIn)
}

// LatestDecision handles GET /v1/checkins/decision
func (h *CheckInHandler) LatestDecision(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	decision, err := h.analysisSvc.LatestDecision(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no check-ins yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load decision")
		return
	}

	writeJSON(w, http.StatusOK, decision)
}
