package service

import (
	"context"
	"time"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
	"github.com/caltrack/caltrack/internal/tracking"
)

// ReportService builds week-over-week consumption reports.
type ReportService struct {
	entries EntryStore
	users   UserGetter
	now     func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(entries EntryStore, users UserGetter) *ReportService {
	return &ReportService{entries: entries, users: users, now: time.Now}
}

// Report compares the last seven days with the seven days before.
type Report struct {
	UserID  string                 `json:"user_id,omitempty"`
	Current tracking.WindowSummary `json:"current"`
	Prior   tracking.WindowSummary `json:"prior"`
}

// Fleet reports over every user. Admin only.
func (s *ReportService) Fleet(ctx context.Context, actor *model.AuthContext) (*Report, error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.build(ctx, "")
}

// ForUser reports over one user. Admin only.
func (s *ReportService) ForUser(ctx context.Context, actor *model.AuthContext, userID string) (*Report, error) {
	if err := auth.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.build(ctx, userID)
}

func (s *ReportService) build(ctx context.Context, userID string) (*Report, error) {
	current, prior := tracking.ReportWindows(s.now())

	entries, err := s.entries.FindEntries(ctx, repository.NewEntryFilter(
		repository.ForUser(userID),
		repository.TakenFrom(prior.From),
		repository.TakenThrough(current.To),
	))
	if err != nil {
		return nil, err
	}

	records := make([]tracking.UserRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, tracking.UserRecord{
			UserID: e.UserID,
			Record: tracking.Record{At: e.DateTaken, Value: e.Calories},
		})
	}

	return &Report{
		UserID:  userID,
		Current: tracking.SummarizeWindow(current, records),
		Prior:   tracking.SummarizeWindow(prior, records),
	}, nil
}
