package application

import (
	"context"
	"time"

	"github.com/notiflow/notiflow/internal/kpis/domain"
)

type ReportRepository interface {
	Get(ctx context.Context, id int64) (domain.Report, error)
	ListPending(ctx context.Context) ([]domain.Report, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]domain.Report, error)
	Update(ctx context.Context, r domain.Report) error
}
