package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/caltrack/caltrack/internal/handler/dto"
	"github.com/caltrack/caltrack/internal/testutil"
)

func seedWarningDays(t *testing.T, env *testEnv) {
	t.Helper()
	at := func(day, hour int) time.Time {
		return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
	}
	env.store.AddEntry(testutil.NewTestEntry(t, env.alice.ID, at(15, 8), 1200, 700))
	env.store.AddEntry(testutil.NewTestEntry(t, env.alice.ID, at(15, 19), 1000, 400))
	env.store.AddEntry(testutil.NewTestEntry(t, env.alice.ID, at(16, 12), 2100, 10))
	env.store.AddEntry(testutil.NewTestEntry(t, env.alice.ID, at(17, 12), 500, 10))
}

func TestWarningHandler_Calorie(t *testing.T) {
	env := newTestEnv(t)
	seedWarningDays(t, env)

	rec := call(t, http.MethodGet, "/w", env.warnings.Calorie, "/w", nil, env.alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	res := decode[dto.WarningsResponse](t, rec)
	if res.UserID != env.alice.ID {
		t.Errorf("user_id = %s, want %s", res.UserID, env.alice.ID)
	}
	if res.Warnings.TotalCount != 2 {
		t.Fatalf("total = %d, want 2", res.Warnings.TotalCount)
	}
	if res.Warnings.Threshold == nil || res.Warnings.Threshold.String() != "2100" {
		t.Errorf("threshold = %v, want 2100", res.Warnings.Threshold)
	}
	for _, w := range res.Warnings.Items {
		if w.Message == "" {
			t.Errorf("warning %s has no message", w.Key)
		}
	}
}

func TestWarningHandler_CalorieForDate(t *testing.T) {
	env := newTestEnv(t)
	seedWarningDays(t, env)

	rec := call(t, http.MethodGet, "/w", env.warnings.Calorie, "/w?date=2024-01-16&id="+env.alice.ID, nil, env.admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	res := decode[dto.WarningsResponse](t, rec)
	if res.UserID != env.alice.ID {
		t.Errorf("user_id = %s, want %s", res.UserID, env.alice.ID)
	}
	if res.Warnings.TotalCount != 1 || res.Warnings.Items[0].Key != "2024-01-16" {
		t.Errorf("unexpected warnings %+v", res.Warnings.Items)
	}

	rec = call(t, http.MethodGet, "/w", env.warnings.Calorie, "/w?date=2024-01-17", nil, env.alice)
	if res := decode[dto.WarningsResponse](t, rec); res.Warnings.TotalCount != 0 {
		t.Errorf("expected no warnings on Jan 17, got %d", res.Warnings.TotalCount)
	}
}

func TestWarningHandler_Price(t *testing.T) {
	env := newTestEnv(t)
	seedWarningDays(t, env)

	rec := call(t, http.MethodGet, "/w", env.warnings.Price, "/w", nil, env.alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	res := decode[dto.WarningsResponse](t, rec)
	if res.Warnings.TotalCount != 1 {
		t.Fatalf("total = %d, want 1", res.Warnings.TotalCount)
	}
	want := "You Have Reached your monthly price limit for month Jan, 2024. Price amount on this month is 1120"
	if got := res.Warnings.Items[0].Message; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestWarningHandler_Rejects(t *testing.T) {
	env := newTestEnv(t)

	rec := call(t, http.MethodGet, "/w", env.warnings.Calorie, "/w?date=soon", nil, env.alice)
	expectError(t, rec, http.StatusBadRequest, "INVALID_REQUEST")

	rec = call(t, http.MethodGet, "/w", env.warnings.Price, "/w?user_id="+env.alice.ID, nil, env.bob)
	expectError(t, rec, http.StatusForbidden, "FORBIDDEN")

	rec = call(t, http.MethodGet, "/w", env.warnings.Price, "/w?user_id=missing", nil, env.admin)
	expectError(t, rec, http.StatusNotFound, "USER_NOT_FOUND")

	rec = call(t, http.MethodGet, "/w", env.warnings.Calorie, "/w?limit=0", nil, env.alice)
	expectError(t, rec, http.StatusBadRequest, "INVALID_REQUEST")
}
