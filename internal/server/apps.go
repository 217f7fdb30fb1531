package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/preview/wire"
	"github.com/matthewbaird/appdeck/internal/registry"
	"github.com/matthewbaird/appdeck/internal/validate"
)

// AppHandler serves app-document CRUD, validation, and preview routes.
type AppHandler struct {
	apps    registry.Store
	preview *wire.Handler
}

// NewAppHandler creates the handler over the given registry.
func NewAppHandler(apps registry.Store, preview *wire.Handler) *AppHandler {
	return &AppHandler{apps: apps, preview: preview}
}

// RegisterRoutes mounts all app routes on the router.
func (h *AppHandler) RegisterRoutes(r chi.Router) {
	r.Route("/v1/apps", func(r chi.Router) {
		r.Post("/", h.CreateApp)
		r.Get("/", h.ListApps)
		r.Get("/{id}", h.GetApp)
		r.Put("/{id}", h.UpdateApp)
		r.Delete("/{id}", h.DeleteApp)
		r.Post("/{id}/validate", h.ValidateApp)
		r.Get("/{id}/preview/ws", h.PreviewWS)
	})
}

type createAppRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

func (h *AppHandler) CreateApp(w http.ResponseWriter, r *http.Request) {
	var req createAppRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if len(req.Document) == 0 {
		writeError(w, http.StatusBadRequest, "MISSING_DOCUMENT", "document is required")
		return
	}

	app, err := document.Decode(req.Document)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
		return
	}
	id := app.ID
	if id == "" {
		id = uuid.New().String()
	}
	name := req.Name
	if name == "" {
		name = app.Name
	}

	rec := registry.AppRecord{ID: id, Name: name, Document: req.Document}
	if err := h.apps.Create(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}
	created, err := h.apps.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AppHandler) ListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}
	if apps == nil {
		apps = []registry.AppRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"apps": apps})
}

func (h *AppHandler) GetApp(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type updateAppRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

func (h *AppHandler) UpdateApp(w http.ResponseWriter, r *http.Request) {
	var req updateAppRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.Document != nil {
		if _, err := document.Decode(req.Document); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
			return
		}
	}

	rec, err := h.apps.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Document)
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "app not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "UPDATE_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AppHandler) DeleteApp(w http.ResponseWriter, r *http.Request) {
	err := h.apps.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "app not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateApp runs the stored document through the CUE schema.
func (h *AppHandler) ValidateApp(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := validate.Document(rec.Document); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"valid":  false,
			"errors": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// PreviewWS upgrades to a websocket preview session for the app.
func (h *AppHandler) PreviewWS(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	app, err := document.Decode(rec.Document)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_DOCUMENT", err.Error())
		return
	}
	h.preview.Serve(w, r, app)
}

func (h *AppHandler) lookup(w http.ResponseWriter, r *http.Request) (*registry.AppRecord, bool) {
	rec, err := h.apps.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "app not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return nil, false
	}
	return rec, true
}
