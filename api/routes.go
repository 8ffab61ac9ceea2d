package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"preset-library/codec"
	"preset-library/events"
	"preset-library/library"
	"preset-library/preview"
)

// Deps bundles the collaborators the handlers need.
type Deps struct {
	Store     *library.Store
	Queue     *preview.Queue
	Bus       *events.Bus
	Whitelist library.Whitelist
	FileIO    codec.FileIO
}

func RegisterRoutes(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{deps}

	// Library
	r.Get("/api/library", h.getLibrary)
	r.Post("/api/library/sort", h.sortLibrary)
	r.Post("/api/library/drop", h.resolveDrop)
	r.Post("/api/library/source", h.setSource)

	// Presets
	r.Post("/api/presets", h.createPreset)
	r.Put("/api/presets/{id}", h.overwritePreset)
	r.Post("/api/presets/{id}/duplicate", h.duplicatePreset)
	r.Get("/api/presets/{id}/preview", h.getPreview)

	// Folders
	r.Post("/api/folders", h.createFolder)
	r.Post("/api/folders/{id}/expand", h.expandFolder)

	// Items (preset or folder)
	r.Patch("/api/items/{id}", h.renameItem)
	r.Delete("/api/items/{id}", h.deleteItem)
	r.Post("/api/items/{id}/move", h.moveItem)

	// Transfer
	r.Post("/api/library/export", h.exportDocument)
	r.Post("/api/library/export-file", h.exportFile)
	r.Post("/api/library/import", h.importDocument)
	r.Post("/api/library/import-file", h.importFile)

	// Event feed
	r.Get("/api/events", h.handleEvents)

	return r
}

type handler struct {
	Deps
}
