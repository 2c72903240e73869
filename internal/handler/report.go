package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/service"
)

// ReportHandler serves week-over-week consumption reports.
type ReportHandler struct {
	svc    *service.ReportService
	logger *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		svc:    svc,
		logger: logger,
	}
}

// Fleet handles GET /api/users/report.
func (h *ReportHandler) Fleet(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Fleet(r.Context(), auth.AuthFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ForUser handles GET /api/users/report/{id}.
func (h *ReportHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ForUser(r.Context(), auth.AuthFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
