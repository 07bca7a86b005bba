package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"interviewlab/internal/model"
	"interviewlab/internal/service"
	"interviewlab/internal/store"
	"interviewlab/internal/transport/rest/middleware"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	authSvc    *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, authSvc: authSvc}
}

// Create handles POST /v1/sessions — registers a pre_brief session and
// returns a session-scoped trainee token.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TraineeID string     `json:"traineeId"`
		StageID   string     `json:"stageId"`
		Mode      model.Mode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.CreateSession(r.Context(), req.TraineeID, req.StageID, req.Mode)
	if err != nil {
		if errors.Is(err, service.ErrUnknownStage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.authSvc.GenerateTraineeToken(session.ID, session.TraineeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
		"auth": model.JoinResponse{
			Token:     token,
			TraineeID: session.TraineeID,
			SessionID: session.ID,
		},
	})
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.authorized(r, sessionID) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	session, err := h.sessionSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Start handles POST /v1/sessions/{sessionId}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.authorized(r, sessionID) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	session, err := h.sessionSvc.StartMeeting(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// AppendTurn handles POST /v1/sessions/{sessionId}/turns
func (h *SessionHandler) AppendTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.authorized(r, sessionID) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	var req struct {
		Speaker model.Speaker `json:"speaker"`
		Text    string        `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "empty turn text")
		return
	}
	if req.Speaker == "" {
		req.Speaker = model.SpeakerUser
	}

	turn, err := h.sessionSvc.AppendTurn(r.Context(), sessionID, req.Speaker, req.Text)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, turn)
}

// RecordHint handles POST /v1/sessions/{sessionId}/hints
func (h *SessionHandler) RecordHint(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.authorized(r, sessionID) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	var req struct {
		AreaID      string              `json:"areaId"`
		EventType   model.HintEventType `json:"eventType"`
		PayloadText string              `json:"payloadText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.sessionSvc.RecordHint(r.Context(), sessionID, req.AreaID, req.EventType, req.PayloadText)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// End handles POST /v1/sessions/{sessionId}/end — freezes the meeting and
// returns the freshly generated feedback report.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.authorized(r, sessionID) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	report, err := h.sessionSvc.EndMeeting(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Complete handles POST /v1/sessions/{sessionId}/complete
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.authorized(r, sessionID) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	session, err := h.sessionSvc.CompleteSession(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Retake handles POST /v1/sessions/{sessionId}/retake — spawns a fresh
// attempt and a fresh trainee token for it.
func (h *SessionHandler) Retake(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !h.authorized(r, sessionID) {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	session, err := h.sessionSvc.Retake(r.Context(), sessionID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	token, err := h.authSvc.GenerateTraineeToken(session.ID, session.TraineeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
		"auth": model.JoinResponse{
			Token:     token,
			TraineeID: session.TraineeID,
			SessionID: session.ID,
		},
	})
}

// authorized checks the trainee token is scoped to this session. Coach
// tokens (no session scope in context) pass through.
func (h *SessionHandler) authorized(r *http.Request, sessionID string) bool {
	scoped := middleware.GetSessionID(r.Context())
	return scoped == "" || scoped == sessionID
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrNotLive):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
