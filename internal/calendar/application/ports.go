package application

import (
	"context"

	"github.com/notiflow/notiflow/internal/calendar/domain"
	messagedomain "github.com/notiflow/notiflow/internal/message/domain"
	orderdomain "github.com/notiflow/notiflow/internal/order/domain"
)

// StatsProvider is the store-side aggregate surface: one row per calendar
// date of the month, plus the single-date dashboard stats.
type StatsProvider interface {
	MonthAggregates(ctx context.Context, month string) ([]domain.Day, error)
	DailyStats(ctx context.Context, date string) (domain.DailyStats, error)
}

type OrderSource interface {
	ListByDateRange(ctx context.Context, from, to string) ([]orderdomain.Order, error)
}

type MessageSource interface {
	ListByDateRange(ctx context.Context, from, to string) ([]messagedomain.Message, error)
}
