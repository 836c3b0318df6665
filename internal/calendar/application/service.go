package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/notiflow/notiflow/internal/calendar/domain"
)

// Service assembles the month working set. One fetch per month; granularity
// switches inside the month re-derive from the returned snapshot.
type Service struct {
	log              *slog.Logger
	stats            StatsProvider
	orders           OrderSource
	messages         MessageSource
	excludeCancelled bool
	now              func() time.Time
}

func NewService(log *slog.Logger, stats StatsProvider, orders OrderSource, messages MessageSource, excludeCancelled bool) *Service {
	return &Service{
		log:              log,
		stats:            stats,
		orders:           orders,
		messages:         messages,
		excludeCancelled: excludeCancelled,
		now:              time.Now,
	}
}

func (s *Service) MonthSnapshot(ctx context.Context, month string) (*domain.Snapshot, error) {
	from, to, err := domain.MonthRange(month)
	if err != nil {
		return nil, err
	}

	days, err := s.stats.MonthAggregates(ctx, month)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var opts []domain.Option
	if s.excludeCancelled {
		opts = append(opts, domain.ExcludeCancelled())
	}
	return domain.NewSnapshot(month, days, orders, messages, opts...), nil
}

func (s *Service) DailyStats(ctx context.Context, date string) (domain.DailyStats, error) {
	if date == "" {
		date = s.now().UTC().Format(domain.DateLayout)
	}
	return s.stats.DailyStats(ctx, date)
}
