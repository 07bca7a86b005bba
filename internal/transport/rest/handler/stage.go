package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"interviewlab/internal/catalog"
)

// StageHandler serves the static stage catalog
type StageHandler struct {
	catalog *catalog.Catalog
}

// NewStageHandler creates a new stage handler
func NewStageHandler(cat *catalog.Catalog) *StageHandler {
	return &StageHandler{catalog: cat}
}

// List handles GET /v1/stages
func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Stages())
}

// Get handles GET /v1/stages/{stageId}
func (h *StageHandler) Get(w http.ResponseWriter, r *http.Request) {
	stageID := mux.Vars(r)["stageId"]
	stage, ok := h.catalog.Stage(stageID)
	if !ok {
		writeError(w, http.StatusNotFound, "stage not found")
		return
	}
	writeJSON(w, http.StatusOK, stage)
}
