package httptransport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chsearch/internal/audit"
	"chsearch/internal/export"
	"chsearch/internal/platform/metrics"
	"chsearch/internal/platform/middleware"
	"chsearch/internal/search/models"
	"chsearch/internal/sic"
	"chsearch/internal/snapshot"
	"chsearch/internal/stats"
	dErrors "chsearch/pkg/domain-errors"
	"chsearch/pkg/platform/httputil"
	"chsearch/pkg/platform/sentinel"
)

const defaultPageSize = 50

// SearchService is the engine slice the search endpoints consume.
type SearchService interface {
	Resolve(ctx context.Context, filters models.SearchFilters, page, pageSize int, onProgress models.ProgressSink) (models.Result, error)
}

// SearchHandler serves search, export, SIC lookup and stats endpoints.
type SearchHandler struct {
	service   SearchService
	snapshots snapshot.Store
	stats     stats.Store
	auditor   *audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewSearchHandler constructs the handler with its dependencies. stats and
// auditor may be nil.
func NewSearchHandler(service SearchService, snapshots snapshot.Store, statsStore stats.Store, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *SearchHandler {
	return &SearchHandler{
		service:   service,
		snapshots: snapshots,
		stats:     statsStore,
		auditor:   auditor,
		logger:    logger,
		metrics:   m,
	}
}

// Register mounts the search endpoints on the router.
func (h *SearchHandler) Register(r chi.Router) {
	r.Post("/search", h.HandleSearch)
	r.Get("/export", h.HandleExport)
	r.Get("/sic-codes", h.HandleSICLookup)
	r.Get("/stats", h.HandleStats)
}

// searchRequest is the POST /api/search body.
type searchRequest struct {
	Filters  *models.SearchFilters `json:"filters"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// HandleSearch handles POST /api/search requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	req, err := httputil.Decode[searchRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Filters == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "filters are required"))
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = defaultPageSize
	}

	// Progress events surface in the logs; the response itself is
	// synchronous.
	onProgress := func(p models.Progress) {
		h.logger.DebugContext(ctx, "search scan progress",
			"request_id", requestID,
			"processed", p.Processed,
			"total", p.Total,
		)
	}

	result, err := h.service.Resolve(ctx, *req.Filters, req.Page, req.PageSize, onProgress)
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed",
			"request_id", requestID,
			"keyword", req.Filters.Keyword,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "search resolved",
		"request_id", requestID,
		"keyword", req.Filters.Keyword,
		"total", result.Total,
		"truncated", result.Truncated,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleExport handles GET /api/export?token=...&format=csv|json requests.
func (h *SearchHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "export token is required"))
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return
	}

	items, err := h.snapshots.Load(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "export token not found or expired"))
			return
		}
		h.logger.ErrorContext(ctx, "snapshot load failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "load snapshot", err))
		return
	}

	filename := fmt.Sprintf("companies_export_%s.%s", time.Now().UTC().Format(time.RFC3339), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(w, format, items); err != nil {
		// Headers are gone; all that is left is the log line.
		h.logger.ErrorContext(ctx, "export write failed", "request_id", requestID, "error", err)
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
	}
	if h.auditor != nil {
		h.auditor.Emit(ctx, audit.Event{Action: audit.ActionExport, Total: len(items)})
	}
	h.logger.InfoContext(ctx, "snapshot exported",
		"request_id", requestID,
		"format", format,
		"rows", len(items),
	)
}

// HandleSICLookup handles GET /api/sic-codes?q=... requests. Without a query
// it returns the full mapping table.
func (h *SearchHandler) HandleSICLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"mappings": sic.Mappings()})
		return
	}

	codes := sic.Search(q)
	type match struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	}
	matches := make([]match, 0, len(codes))
	for _, code := range codes {
		matches = append(matches, match{Code: code, Description: sic.Description(code)})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"query": q, "matches": matches})
}

// HandleStats handles GET /api/stats requests.
func (h *SearchHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "stats are not configured"))
		return
	}
	summary, err := h.stats.Summarize(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "stats summarize failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "summarize stats", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
