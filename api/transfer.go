package api

import (
	"encoding/json"
	"io"
	"net/http"

	"preset-library/codec"
	"preset-library/library"
)

// collectEntries resolves the requested ids against the store, keeping
// request order. Empty ids means the whole forest. Ids that do not
// resolve are skipped rather than failing the export.
func (h *handler) collectEntries(ids []string) []library.Entry {
	if len(ids) == 0 {
		return h.Store.Entries()
	}
	entries := make([]library.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := h.Store.Find(id); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func (h *handler) exportDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	data, err := codec.Export(h.collectEntries(req.IDs))
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="presets.json"`)
	_, _ = w.Write(data)
}

func (h *handler) exportFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs  []string `json:"ids"`
		Path string   `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := codec.ExportFile(h.FileIO, req.Path, h.collectEntries(req.IDs)); err != nil {
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (h *handler) importDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.finishImport(w, data)
}

func (h *handler) importFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	data, err := h.FileIO.ReadBytes(req.Path)
	if err != nil {
		http.Error(w, "import failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.finishImport(w, data)
}

// finishImport parses the document and merges it into the forest. A
// malformed document aborts before anything is appended, so the forest
// is never left half-merged.
func (h *handler) finishImport(w http.ResponseWriter, data []byte) {
	entries, err := codec.Import(data, h.Whitelist)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Store.Append(entries)

	// Imported root-level presets are immediately visible in the panel.
	for _, e := range entries {
		if e.Preset != nil {
			h.Queue.Enqueue(e.Preset.ID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"imported": len(entries)})
}
