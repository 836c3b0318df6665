package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notiflow/notiflow/internal/kpis/domain"
	"github.com/notiflow/notiflow/pkg/notify"
)

const table = "kpis_reports"

const DefaultOverdueDays = 7

type Service struct {
	log      *slog.Logger
	repo     ReportRepository
	notifier notify.Publisher
	now      func() time.Time
}

func NewService(log *slog.Logger, repo ReportRepository, notifier notify.Publisher) *Service {
	return &Service{log: log, repo: repo, notifier: notifier, now: time.Now}
}

func (s *Service) Pending(ctx context.Context) ([]domain.Report, error) {
	return s.repo.ListPending(ctx)
}

// Overdue lists pending reports older than the given number of days.
func (s *Service) Overdue(ctx context.Context, days int) ([]domain.Report, error) {
	if days <= 0 {
		days = DefaultOverdueDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	return s.repo.ListPendingBefore(ctx, cutoff)
}

func (s *Service) MarkReported(ctx context.Context, id int64, referenceNumber, notes string) (domain.Report, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	if err := r.MarkReported(referenceNumber, s.now().UTC()); err != nil {
		return domain.Report{}, err
	}
	if notes != "" {
		r.Notes = &notes
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return domain.Report{}, fmt.Errorf("update report: %w", err)
	}
	s.publish(ctx)
	return r, nil
}

func (s *Service) Confirm(ctx context.Context, id int64) (domain.Report, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	if err := r.Confirm(); err != nil {
		return domain.Report{}, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return domain.Report{}, fmt.Errorf("update report: %w", err)
	}
	s.publish(ctx)
	return r, nil
}

func (s *Service) publish(ctx context.Context) {
	if err := s.notifier.Publish(ctx, table); err != nil {
		s.log.Error("change notification failed", "table", table, "err", err)
	}
}
