package postgres

import (
	"context"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notiflow/notiflow/internal/calendar/domain"
)

// StatsRepository computes the store-side aggregates the month view is built
// from. The same excludeCancelled switch that governs client-side derivation
// is applied here so the two stay consistent.
type StatsRepository struct {
	log              *slog.Logger
	pool             *pgxpool.Pool
	excludeCancelled bool
}

func NewStatsRepository(log *slog.Logger, pool *pgxpool.Pool, excludeCancelled bool) *StatsRepository {
	return &StatsRepository{log: log, pool: pool, excludeCancelled: excludeCancelled}
}

func (r *StatsRepository) MonthAggregates(ctx context.Context, month string) ([]domain.Day, error) {
	from, to, err := domain.MonthRange(month)
	if err != nil {
		return nil, err
	}

	// Cancelled orders stay in the count and drop out of the amount only, the
	// same split DeriveDay applies client-side.
	amountExpr := "coalesce(sum(total_amount), 0)"
	if r.excludeCancelled {
		amountExpr = "coalesce(sum(total_amount) FILTER (WHERE status <> 'cancelled'), 0)"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT day::text,
		       coalesce(sum(message_count), 0)::int,
		       coalesce(sum(order_count), 0)::int,
		       coalesce(sum(total_amount), 0)
		FROM (
			SELECT (received_at AT TIME ZONE 'UTC')::date AS day, count(*) AS message_count, 0 AS order_count, 0::numeric AS total_amount
			FROM raw_messages
			WHERE (received_at AT TIME ZONE 'UTC')::date BETWEEN $1 AND $2
			GROUP BY 1
			UNION ALL
			SELECT order_date::date, 0, count(*), `+amountExpr+`
			FROM orders
			WHERE order_date BETWEEN $1 AND $2
			GROUP BY 1
		) t
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d.Date, &d.MessageCount, &d.OrderCount, &d.TotalAmount); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *StatsRepository) DailyStats(ctx context.Context, date string) (domain.DailyStats, error) {
	stats := domain.DailyStats{Date: date}

	err := r.pool.QueryRow(ctx, `
		SELECT count(*)::int,
		       count(*) FILTER (WHERE parse_status = 'parsed')::int
		FROM raw_messages
		WHERE (received_at AT TIME ZONE 'UTC')::date = $1`, date).Scan(&stats.TotalMessages, &stats.ParseSuccess)
	if err != nil {
		return domain.DailyStats{}, err
	}

	err = r.pool.QueryRow(ctx, `SELECT count(*)::int FROM orders WHERE order_date = $1`, date).Scan(&stats.OrdersCreated)
	if err != nil {
		return domain.DailyStats{}, err
	}

	if stats.TotalMessages > 0 {
		rate := float64(stats.ParseSuccess) / float64(stats.TotalMessages) * 100
		stats.ParseSuccessRate = math.Round(rate*10) / 10
	}
	return stats, nil
}
