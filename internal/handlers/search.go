package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *WorkspaceHandler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Query must not be empty", r))
		return
	}

	ws.Search.Submit(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, ws.Search.Snapshot())
}

func (h *WorkspaceHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	ws.Search.Clear()
	writeJSON(w, http.StatusOK, ws.Search.Snapshot())
}

func (h *WorkspaceHandler) ToggleChannel(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	channelID := chi.URLParam(r, "channelID")
	if channelID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing channel ID", r))
		return
	}

	ws.Search.ToggleChannel(channelID)
	writeJSON(w, http.StatusOK, ws.Search.Snapshot())
}

func (h *WorkspaceHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ws.Search.Snapshot())
}
