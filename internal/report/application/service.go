package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notiflow/notiflow/internal/report/domain"
)

type Service struct {
	log  *slog.Logger
	repo SalesRepository
	now  func() time.Time
}

func NewService(log *slog.Logger, repo SalesRepository) *Service {
	return &Service{log: log, repo: repo, now: time.Now}
}

// Monthly builds the sales report for a YYYY-MM period. An empty period
// defaults to the current month.
func (s *Service) Monthly(ctx context.Context, period string) (domain.SalesReport, error) {
	if period == "" {
		period = s.now().Format(domain.PeriodLayout)
	}
	from, to, err := domain.PeriodRange(period)
	if err != nil {
		return domain.SalesReport{}, err
	}
	rows, err := s.repo.RowsForPeriod(ctx, from, to)
	if err != nil {
		return domain.SalesReport{}, fmt.Errorf("load sales rows: %w", err)
	}
	return domain.BuildReport(period, rows), nil
}
