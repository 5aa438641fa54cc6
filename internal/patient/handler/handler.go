package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"patientdir/internal/patient/models"
	"patientdir/internal/patient/service"
	"patientdir/internal/patient/view"
	"patientdir/internal/platform/middleware"
	"patientdir/internal/query"
	dErrors "patientdir/pkg/domain-errors"
	"patientdir/pkg/platform/httputil"
	"patientdir/pkg/platform/sentinel"
)

// Service defines the query operations the handler needs.
type Service interface {
	Query(ctx context.Context, st query.State) (*service.Result, error)
	Options(ctx context.Context) (query.OptionSet, error)
}

// Source serves the raw directory document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Handler serves the directory page and its JSON API.
type Handler struct {
	logger   *slog.Logger
	service  Service
	source   Source
	renderer *view.Renderer
}

// New creates a directory Handler.
func New(svc Service, source Source, renderer *view.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		service:  svc,
		source:   source,
		renderer: renderer,
	}
}

// Register registers the directory routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/data-endpoint", h.handleDataEndpoint)
	r.Get("/api/patients", h.handleQuery)
	r.Get("/api/patients/options", h.handleOptions)
	r.Get("/", h.handlePage)
}

// PageResponse is the JSON form of one query page.
type PageResponse struct {
	Items      []models.Patient `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
	Start      int              `json:"start"`
}

// handleDataEndpoint passes the backing document through unchanged.
func (h *Handler) handleDataEndpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	data, err := h.source.Fetch(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		h.logger.WarnContext(ctx, "directory document not found",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "File not found"})
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to fetch directory document",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read data"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	st, err := query.ParseState(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid directory query",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	res, err := h.service.Query(ctx, st)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	items := res.Page.Items
	if items == nil {
		items = []models.Patient{}
	}
	httputil.WriteJSON(w, http.StatusOK, PageResponse{
		Items:      items,
		Page:       res.Page.Number,
		PageSize:   res.Page.Size,
		Total:      res.Page.Total,
		TotalPages: res.Page.TotalPages,
		Start:      res.Page.Start,
	})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, opts)
}

// handlePage renders the directory. An invalid query string falls back to
// the default state rather than an error page.
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	st, err := query.ParseState(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "ignoring invalid directory state",
			"request_id", requestID,
			"error", err.Error(),
		)
		st = query.DefaultState()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	res, err := h.service.Query(ctx, st)
	switch {
	case errors.Is(err, sentinel.ErrNotLoaded):
		err = h.renderer.Loading(w)
	case err != nil:
		err = h.renderer.Failed(w, service.LoadError(err))
	case res.TotalRecords == 0:
		err = h.renderer.Empty(w)
	default:
		err = h.renderer.Directory(w, res)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render directory",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "render failed"))
	}
}
