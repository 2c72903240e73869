package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/metrics"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/service"
	"github.com/caltrack/caltrack/internal/testutil"
)

type testEnv struct {
	store    *testutil.MemStore
	recorder *metrics.InMemoryRecorder
	tokens   *auth.TokenManager
	entries  *EntryHandler
	users    *UserHandler
	warnings *WarningHandler
	reports  *ReportHandler
	reportSv *service.ReportService
	admin    *model.User
	alice    *model.User
	bob      *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenManager("handler-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := testutil.NewMemStore()
	recorder := metrics.NewInMemory()
	users := service.NewUserService(store, store, nil, tokens, service.Limits{
		Calorie: model.Limit(decimal.NewFromInt(2100)),
		Price:   model.Limit(decimal.NewFromInt(1000)),
	}, recorder)
	reports := service.NewReportService(store, users)

	env := &testEnv{
		store:    store,
		recorder: recorder,
		tokens:   tokens,
		entries:  NewEntryHandler(service.NewEntryService(store, users, recorder), logger),
		users:    NewUserHandler(users, logger),
		warnings: NewWarningHandler(service.NewWarningService(store, users), logger),
		reports:  NewReportHandler(reports, logger),
		reportSv: reports,
		admin:    testutil.NewTestUser(t, model.RoleAdmin),
		alice:    testutil.NewTestUser(t, model.RoleUser),
		bob:      testutil.NewTestUser(t, model.RoleUser),
	}
	env.admin.CalorieLimit = decimal.NullDecimal{}
	env.admin.PriceLimit = decimal.NullDecimal{}
	store.AddUser(env.admin)
	store.AddUser(env.alice)
	store.AddUser(env.bob)
	return env
}

// call routes a single request through a chi router so URL parameters
// resolve, with actor installed as the authenticated caller.
func call(t *testing.T, method, pattern string, h http.HandlerFunc, target string, body any, actor *model.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, reader)
	if actor != nil {
		req = req.WithContext(auth.ContextWithAuth(req.Context(), &model.AuthContext{
			UserID: actor.ID,
			Email:  actor.Email,
			Role:   actor.Role,
		}))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	body := decode[map[string]string](t, rec)
	if body["code"] != code {
		t.Errorf("expected code %s, got %q", code, body["code"])
	}
	if body["message"] == "" {
		t.Error("expected a message")
	}
}
