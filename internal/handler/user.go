package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/handler/dto"
	"github.com/caltrack/caltrack/internal/middleware"
	"github.com/caltrack/caltrack/internal/service"
)

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/users/create.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.svc.Create(r.Context(), auth.AuthFromContext(r.Context()), service.CreateUserInput{
		Email:    req.Email,
		UserName: req.UserName,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	middleware.LoggerFromContext(r.Context(), h.logger).Info("user_created", "new_user_id", res.User.ID)
	writeJSON(w, http.StatusOK, dto.UserTokenResponse{
		Message: "User Created Successfully",
		User:    res.User,
		Token:   res.Token,
	})
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.svc.Delete(r.Context(), auth.AuthFromContext(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	middleware.LoggerFromContext(r.Context(), h.logger).Info("user_deleted",
		"deleted_user_id", id,
		"entries_deleted", removed,
	)
	writeJSON(w, http.StatusOK, dto.DeleteUserResponse{
		Message:        "User Successfully Deleted",
		EntriesDeleted: removed,
	})
}

// Me handles GET /api/users/getUserByToken.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), auth.AuthFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{User: user})
}

// Token handles GET /api/users/getUserToken?email=.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.TokenForEmail(r.Context(), auth.AuthFromContext(r.Context()), r.URL.Query().Get("email"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserTokenResponse{User: res.User, Token: res.Token})
}

// List handles GET /api/users/allUsers.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, limit, err := queryPage(q)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	users, err := h.svc.List(r.Context(), auth.AuthFromContext(r.Context()), service.ListUsersInput{
		NameContains: strings.TrimSpace(q.Get("user_name")),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserListResponse{Users: users})
}

// UpdateLimits handles PATCH /api/users/{id}/limits.
func (h *UserHandler) UpdateLimits(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLimitsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := h.svc.UpdateLimits(r.Context(), auth.AuthFromContext(r.Context()), chi.URLParam(r, "id"), service.UpdateLimitsInput{
		CalorieLimit: req.CalorieLimit.Ptr(),
		PriceLimit:   req.PriceLimit.Ptr(),
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	middleware.LoggerFromContext(r.Context(), h.logger).Info("user_limits_updated", "target_user_id", user.ID)
	writeJSON(w, http.StatusOK, dto.UserResponse{Message: "Limits Successfully Updated", User: user})
}
