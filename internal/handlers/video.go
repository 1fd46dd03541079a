package handlers

import (
	"encoding/json"
	"net/http"
)

func (h *WorkspaceHandler) OpenVideo(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req struct {
		VideoID string `json:"video_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing video_id", r))
		return
	}

	ws.Video.Open(r.Context(), req.VideoID)
	writeJSON(w, http.StatusOK, ws.Video.Snapshot())
}

func (h *WorkspaceHandler) RequestSummary(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req struct {
		Regenerate bool `json:"regenerate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if ws.Video.Snapshot().VideoID == "" {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "No active video", r))
		return
	}

	ws.Video.RequestSummary(r.Context(), req.Regenerate)
	writeJSON(w, http.StatusOK, ws.Video.Snapshot())
}

func (h *WorkspaceHandler) CloseVideo(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	ws.Video.Close()
	writeJSON(w, http.StatusOK, ws.Video.Snapshot())
}

func (h *WorkspaceHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ws.Video.Snapshot())
}
