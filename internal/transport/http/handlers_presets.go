package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chsearch/internal/preset"
	"chsearch/internal/search/models"
	dErrors "chsearch/pkg/domain-errors"
	"chsearch/pkg/platform/httputil"
	"chsearch/pkg/platform/sentinel"
)

// PresetHandler serves saved filter preset CRUD. All presets belong to the
// placeholder user until accounts exist.
type PresetHandler struct {
	store  preset.Store
	logger *slog.Logger
}

// NewPresetHandler constructs the handler.
func NewPresetHandler(store preset.Store, logger *slog.Logger) *PresetHandler {
	return &PresetHandler{store: store, logger: logger}
}

// Register mounts the preset endpoints on the router.
func (h *PresetHandler) Register(r chi.Router) {
	r.Route("/presets", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// presetRequest is the create/update body.
type presetRequest struct {
	Name    string                `json:"name"`
	Filters *models.SearchFilters `json:"filters"`
}

// HandleList handles GET /api/presets requests.
func (h *PresetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	presets, err := h.store.List(r.Context(), preset.PlaceholderUserID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "preset list failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "list presets", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"presets": presets})
}

// HandleCreate handles POST /api/presets requests.
func (h *PresetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[presetRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Name == "" || req.Filters == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "name and filters are required"))
		return
	}
	if err := req.Filters.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.store.Create(r.Context(), preset.FilterPreset{
		UserID:  preset.PlaceholderUserID,
		Name:    req.Name,
		Filters: *req.Filters,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "preset create failed", "name", req.Name, "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "create preset", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{"preset": created})
}

// HandleUpdate handles PUT /api/presets/{id} requests.
func (h *PresetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := httputil.Decode[presetRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Name == "" || req.Filters == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "name and filters are required"))
		return
	}
	if err := req.Filters.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.store.Update(r.Context(), preset.FilterPreset{
		ID:      id,
		Name:    req.Name,
		Filters: *req.Filters,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "preset not found"))
			return
		}
		h.logger.ErrorContext(r.Context(), "preset update failed", "id", id, "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "update preset", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"preset": updated})
}

// HandleDelete handles DELETE /api/presets/{id} requests.
func (h *PresetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "preset not found"))
			return
		}
		h.logger.ErrorContext(r.Context(), "preset delete failed", "id", id, "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "delete preset", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
