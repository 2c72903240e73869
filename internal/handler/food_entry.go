package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/handler/dto"
	"github.com/caltrack/caltrack/internal/middleware"
	"github.com/caltrack/caltrack/internal/service"
	"github.com/caltrack/caltrack/internal/tracking"
)

// EntryHandler handles HTTP requests for food entries.
type EntryHandler struct {
	svc    *service.EntryService
	logger *slog.Logger
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(svc *service.EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/foodEntry/create.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.entryInput(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.svc.Create(r.Context(), auth.AuthFromContext(r.Context()), input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logMutation(r, "food_entry_created", res)
	writeJSON(w, http.StatusOK, dto.ToEntryMutationResponse("Food Entry Successfully Created", res))
}

// Update handles PUT /api/foodEntry/{id}.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	input, err := h.entryInput(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.svc.Update(r.Context(), auth.AuthFromContext(r.Context()), id, input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logMutation(r, "food_entry_updated", res)
	writeJSON(w, http.StatusOK, dto.ToEntryMutationResponse("Successfully Updated", res))
}

// Get handles GET /api/foodEntry/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Get(r.Context(), auth.AuthFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntryResponse(entry))
}

// Delete handles DELETE /api/foodEntry/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), auth.AuthFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	middleware.LoggerFromContext(r.Context(), h.logger).Info("food_entry_deleted", "entry_id", id)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Successfully Deleted"})
}

// ListForUser handles GET /api/foodEntry/user.
func (h *EntryHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	input, err := listEntriesInput(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if input.PopulateUser, err = queryBool(r.URL.Query(), "populate_user"); err != nil {
		writeBadRequest(w, err)
		return
	}

	page, err := h.svc.ListForUser(r.Context(), auth.AuthFromContext(r.Context()), input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntryListResponse(page))
}

// ListAll handles GET /api/foodEntry/allUsers.
func (h *EntryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	input, err := listEntriesInput(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	page, err := h.svc.ListAll(r.Context(), auth.AuthFromContext(r.Context()), input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntryListResponse(page))
}

// ListDays handles GET /api/foodEntry/user/days.
func (h *EntryHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tz, loc := queryTimezone(q)

	page, limit, err := queryPage(q)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	from, err := queryStart(q, "start_date", loc)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	to, err := queryEnd(q, "end_date", loc)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	days, err := h.svc.ListDays(r.Context(), auth.AuthFromContext(r.Context()), service.ListDaysInput{
		UserID:   queryUserID(q),
		From:     from,
		To:       to,
		Timezone: tz,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DayListResponse{FoodEntriesDays: days})
}

// entryInput decodes an entry body. The timezone may come from the body
// or the query string.
func (h *EntryHandler) entryInput(r *http.Request) (service.EntryInput, error) {
	var req dto.EntryRequest
	if err := decodeJSON(r, &req); err != nil {
		return service.EntryInput{}, err
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = strings.TrimSpace(r.URL.Query().Get("timezone"))
	}

	input := service.EntryInput{
		UserID:   strings.TrimSpace(req.UserID),
		FoodName: req.FoodName,
		Calories: req.Calories,
		Price:    req.Price,
		Timezone: tz,
	}

	if raw := strings.TrimSpace(req.DateTaken); raw != "" {
		t, _, err := parseInstant(raw, tracking.LoadLocation(tz))
		if err != nil {
			return service.EntryInput{}, errors.New("date_taken must be RFC 3339 or YYYY-MM-DD")
		}
		input.DateTaken = &t
	}

	return input, nil
}

func (h *EntryHandler) logMutation(r *http.Request, msg string, res *service.EntryResult) {
	middleware.LoggerFromContext(r.Context(), h.logger).Info(msg,
		"entry_id", res.Entry.ID,
		"owner_id", res.Entry.UserID,
		"calorie_limit_reached", res.CalorieWarning != "",
		"price_limit_reached", res.PriceWarning != "",
	)
}

func listEntriesInput(r *http.Request) (service.ListEntriesInput, error) {
	q := r.URL.Query()
	_, loc := queryTimezone(q)

	page, limit, err := queryPage(q)
	if err != nil {
		return service.ListEntriesInput{}, err
	}

	var from, to *time.Time
	if from, err = queryStart(q, "start_date", loc); err != nil {
		return service.ListEntriesInput{}, err
	}
	if to, err = queryEnd(q, "end_date", loc); err != nil {
		return service.ListEntriesInput{}, err
	}

	return service.ListEntriesInput{
		UserID: queryUserID(q),
		From:   from,
		To:     to,
		Page:   page,
		Limit:  limit,
	}, nil
}
