package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidsight/internal/models"
)

func (h *WorkspaceHandler) OpenPicker(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	p := ws.OpenPicker()
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (h *WorkspaceHandler) ClosePicker(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	ws.ClosePicker()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Picker closed"})
}

func (h *WorkspaceHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	p, ok := h.picker(w, r)
	if !ok {
		return
	}

	p.ToggleRequireSubscription()
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (h *WorkspaceHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.picker(w, r)
	if !ok {
		return
	}

	var channel models.Channel
	if err := json.NewDecoder(r.Body).Decode(&channel); err != nil || channel.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing channel id", r))
		return
	}

	p.AddCandidate(channel)
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (h *WorkspaceHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.picker(w, r)
	if !ok {
		return
	}

	p.RemoveCandidate(chi.URLParam(r, "channelID"))
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (h *WorkspaceHandler) TypeaheadQuery(w http.ResponseWriter, r *http.Request) {
	p, ok := h.picker(w, r)
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

	// The debounced call fires after this request ends; detach cancellation
	// but keep the caller's credential.
	p.Typeahead.SetQuery(context.WithoutCancel(r.Context()), req.Query)
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (h *WorkspaceHandler) Pick(w http.ResponseWriter, r *http.Request) {
	p, ok := h.picker(w, r)
	if !ok {
		return
	}

	p.Pick(r.Context())
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (h *WorkspaceHandler) GetPicker(w http.ResponseWriter, r *http.Request) {
	p, ok := h.picker(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, p.Snapshot())
}
