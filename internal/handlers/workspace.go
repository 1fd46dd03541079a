package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vidsight/internal/models"
	"vidsight/internal/session"
)

// WorkspaceHandler maps the command surface onto session operations. One
// workspace per client view; every command addresses a workspace by id.
type WorkspaceHandler struct {
	manager *session.Manager
}

func NewWorkspaceHandler(manager *session.Manager) *WorkspaceHandler {
	return &WorkspaceHandler{manager: manager}
}

func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ws := h.manager.Create()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"workspace_id": ws.ID,
	})
}

func (h *WorkspaceHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid workspace ID", r))
		return
	}

	h.manager.Release(id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Workspace released"})
}

// workspace resolves the {id} route param; on failure it has already
// written the error response.
func (h *WorkspaceHandler) workspace(w http.ResponseWriter, r *http.Request) (*session.Workspace, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid workspace ID", r))
		return nil, false
	}

	ws, ok := h.manager.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Workspace not found", r))
		return nil, false
	}
	return ws, true
}

// picker resolves the workspace's open picker.
func (h *WorkspaceHandler) picker(w http.ResponseWriter, r *http.Request) (*session.RandomPicker, bool) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return nil, false
	}

	p := ws.Picker()
	if p == nil {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Picker is not open", r))
		return nil, false
	}
	return p, true
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
