package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"interviewlab/internal/model"
	"interviewlab/internal/service"
	"interviewlab/internal/transport/rest/middleware"
)

// ReportHandler handles feedback report and leaderboard endpoints
type ReportHandler struct {
	feedbackSvc *service.FeedbackService
	progressSvc *service.ProgressService
	sessionSvc  *service.SessionService
}

// NewReportHandler creates a new report handler
func NewReportHandler(feedbackSvc *service.FeedbackService, progressSvc *service.ProgressService, sessionSvc *service.SessionService) *ReportHandler {
	return &ReportHandler{feedbackSvc: feedbackSvc, progressSvc: progressSvc, sessionSvc: sessionSvc}
}

// Get handles GET /v1/reports/{sessionId}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if scoped := middleware.GetSessionID(r.Context()); scoped != "" && scoped != sessionID {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	report, err := h.feedbackSvc.GetReport(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Regenerate handles POST /v1/sessions/{sessionId}/report/regenerate.
// Coach-only escape hatch: re-runs analysis over a persisted transcript,
// e.g. after the original write to Mongo failed. The analyzer is
// deterministic, so on an intact transcript this reproduces the same report.
func (h *ReportHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessionSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if session.Status != model.SessionPostBrief && session.Status != model.SessionCompleted {
		writeError(w, http.StatusConflict, "session has not ended")
		return
	}

	report, err := h.feedbackSvc.GenerateReport(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Leaderboard handles GET /v1/stages/{stageId}/leaderboard
func (h *ReportHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	stageID := mux.Vars(r)["stageId"]

	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.feedbackSvc.Leaderboard(r.Context(), stageID, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Progress handles GET /v1/trainees/{traineeId}/progress
func (h *ReportHandler) Progress(w http.ResponseWriter, r *http.Request) {
	traineeID := mux.Vars(r)["traineeId"]

	profile, err := h.progressSvc.GetProfile(r.Context(), traineeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "no progress recorded")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
