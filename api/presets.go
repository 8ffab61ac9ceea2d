package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"preset-library/library"
	"preset-library/preview"
)

func (h *handler) createPreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string              `json:"name"`
		Adjustments library.Adjustments `json:"adjustments"`
		FolderID    string              `json:"folderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p := h.Store.AddPreset(req.Name, req.Adjustments, req.FolderID)
	h.Queue.EnqueueFront(p.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

func (h *handler) overwritePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Adjustments library.Adjustments `json:"adjustments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	p, ok := h.Store.Overwrite(id, req.Adjustments)
	if !ok {
		http.Error(w, "preset not found", http.StatusNotFound)
		return
	}

	// The cached preview no longer matches the preset's adjustments.
	h.Queue.Invalidate(id)
	h.Queue.EnqueueFront(id)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

func (h *handler) duplicatePreset(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Store.Duplicate(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "preset not found", http.StatusNotFound)
		return
	}
	h.Queue.EnqueueFront(p.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

func (h *handler) getPreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, status := h.Queue.Preview(id)

	switch status {
	case preview.StatusReady:
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	case preview.StatusPending:
		w.WriteHeader(http.StatusAccepted)
	case preview.StatusFailed:
		http.Error(w, "preview unavailable", http.StatusNotFound)
	default:
		entry, found := h.Store.Find(id)
		if !found || entry.Preset == nil {
			http.Error(w, "preset not found", http.StatusNotFound)
			return
		}
		if !h.Queue.Ready() {
			// No source image loaded; a 202 here would have the client
			// polling a queue that renders nothing.
			http.Error(w, "no source image loaded", http.StatusConflict)
			return
		}
		// Known preset with no preview yet: request one lazily.
		h.Queue.Enqueue(id)
		w.WriteHeader(http.StatusAccepted)
	}
}
