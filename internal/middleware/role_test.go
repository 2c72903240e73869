package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/model"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		authCtx    *model.AuthContext
		required   model.Role
		wantStatus int
	}{
		{"no auth context", nil, model.RoleUser, http.StatusUnauthorized},
		{"user on user route", &model.AuthContext{UserID: "u", Role: model.RoleUser}, model.RoleUser, http.StatusOK},
		{"user on admin route", &model.AuthContext{UserID: "u", Role: model.RoleUser}, model.RoleAdmin, http.StatusForbidden},
		{"admin on admin route", &model.AuthContext{UserID: "a", Role: model.RoleAdmin}, model.RoleAdmin, http.StatusOK},
		{"admin on user route", &model.AuthContext{UserID: "a", Role: model.RoleAdmin}, model.RoleUser, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			handler := RequireRole(tt.required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authCtx != nil {
				req = req.WithContext(auth.ContextWithAuth(req.Context(), tt.authCtx))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler called = %v with status %d", called, rec.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	handler := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.ContextWithAuth(req.Context(), &model.AuthContext{UserID: "u", Role: model.RoleUser}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
