package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"preset-library/library"
)

// entryView is the tagged JSON shape of one forest slot.
type entryView struct {
	Type        string              `json:"type"` // "preset" | "folder"
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Adjustments library.Adjustments `json:"adjustments,omitempty"`
	Children    []library.Preset    `json:"children,omitempty"`
}

func viewOf(e library.Entry) entryView {
	if e.Folder != nil {
		children := make([]library.Preset, len(e.Folder.Children))
		for i, c := range e.Folder.Children {
			children[i] = *c
		}
		return entryView{Type: "folder", ID: e.Folder.ID, Name: e.Folder.Name, Children: children}
	}
	return entryView{Type: "preset", ID: e.Preset.ID, Name: e.Preset.Name, Adjustments: e.Preset.Adjustments}
}

func (h *handler) writeLibrary(w http.ResponseWriter) {
	entries := h.Store.Entries()
	views := make([]entryView, len(entries))
	for i, e := range entries {
		views[i] = viewOf(e)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

func (h *handler) getLibrary(w http.ResponseWriter, r *http.Request) {
	h.writeLibrary(w)
}

func (h *handler) sortLibrary(w http.ResponseWriter, r *http.Request) {
	h.Store.SortAlphabetically()
	h.writeLibrary(w)
}

func (h *handler) resolveDrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActiveID string `json:"activeId"`
		OverID   string `json:"overId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ActiveID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	action := h.Store.ResolveDrop(req.ActiveID, req.OverID)
	changed := h.Store.ApplyDrop(action)
	if changed && action.TargetFolder != "" {
		// The preset just landed in a folder; make sure its preview (and
		// its new siblings') get generated.
		h.Queue.EnqueueFolder(action.TargetFolder)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"changed":      changed,
		"expandFolder": action.ExpandFolder,
	})
}

func (h *handler) setSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ready bool `json:"ready"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.Queue.SetReady(req.Ready)
	if req.Ready {
		h.Queue.EnqueueRoot()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) createFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	f := h.Store.AddFolder(req.Name)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(f)
}

func (h *handler) expandFolder(w http.ResponseWriter, r *http.Request) {
	h.Queue.EnqueueFolder(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) renameItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// Unknown ids are a silent no-op: the UI may hold a stale reference.
	h.Store.Rename(chi.URLParam(r, "id"), req.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, found := h.Store.Find(id)
	h.Store.Delete(id)
	if found {
		h.Queue.Invalidate(id)
		if entry.Folder != nil {
			for _, c := range entry.Folder.Children {
				h.Queue.Invalidate(c.ID)
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) moveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FolderID string `json:"folderId"`
		BeforeID string `json:"beforeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	moved := h.Store.MoveToFolder(chi.URLParam(r, "id"), req.FolderID, req.BeforeID)
	if moved && req.FolderID != "" {
		h.Queue.EnqueueFolder(req.FolderID)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"moved": moved})
}
