package application

import (
	"context"

	"github.com/notiflow/notiflow/internal/report/domain"
)

type SalesRepository interface {
	// RowsForPeriod returns one row per delivered order item with
	// order_date in [from, to).
	RowsForPeriod(ctx context.Context, from, to string) ([]domain.SalesRow, error)
}
