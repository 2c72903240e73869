package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/handler/dto"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/service"
)

// WarningHandler lists the days and months in which a user reached a limit.
type WarningHandler struct {
	svc    *service.WarningService
	logger *slog.Logger
}

// NewWarningHandler creates a new WarningHandler.
func NewWarningHandler(svc *service.WarningService, logger *slog.Logger) *WarningHandler {
	return &WarningHandler{
		svc:    svc,
		logger: logger,
	}
}

// Calorie handles GET /api/users/warning/calorie.
func (h *WarningHandler) Calorie(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.svc.CalorieWarnings)
}

// Price handles GET /api/users/warning/price.
func (h *WarningHandler) Price(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.svc.PriceWarnings)
}

type warningLister func(ctx context.Context, actor *model.AuthContext, input service.WarningsInput) (*service.WarningPage, error)

func (h *WarningHandler) serve(w http.ResponseWriter, r *http.Request, list warningLister) {
	q := r.URL.Query()
	tz, loc := queryTimezone(q)

	page, limit, err := queryPage(q)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	input := service.WarningsInput{
		UserID:   queryUserID(q),
		Timezone: tz,
		Page:     page,
		Limit:    limit,
	}
	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		date, _, err := parseInstant(raw, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "date must be RFC 3339 or YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	actor := auth.AuthFromContext(r.Context())
	warnings, err := list(r.Context(), actor, input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	userID := input.UserID
	if userID == "" && actor != nil {
		userID = actor.UserID
	}
	writeJSON(w, http.StatusOK, dto.WarningsResponse{UserID: userID, Warnings: warnings})
}
