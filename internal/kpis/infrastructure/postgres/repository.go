package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notiflow/notiflow/internal/kpis/domain"
)

const reportColumns = `k.id, k.order_item_id, k.report_status, k.reference_number, k.reported_at,
	k.notes, k.created_at, o.order_number, h.name, coalesce(oi.original_text, '')`

const reportJoins = `FROM kpis_reports k
	JOIN order_items oi ON oi.id = k.order_item_id
	JOIN orders o ON o.id = oi.order_id
	LEFT JOIN hospitals h ON h.id = o.hospital_id`

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Report, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reportColumns+` `+reportJoins+` WHERE k.id = $1`, id)
	rep, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, domain.ErrNotFound
		}
		return domain.Report{}, err
	}
	return rep, nil
}

func (r *Repository) ListPending(ctx context.Context) ([]domain.Report, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+reportColumns+` `+reportJoins+`
		WHERE k.report_status = 'pending' ORDER BY k.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

func (r *Repository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]domain.Report, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+reportColumns+` `+reportJoins+`
		WHERE k.report_status = 'pending' AND k.created_at < $1 ORDER BY k.created_at`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

func (r *Repository) Update(ctx context.Context, rep domain.Report) error {
	ct, err := r.pool.Exec(ctx, `UPDATE kpis_reports
		SET report_status=$2, reference_number=$3, reported_at=$4, notes=$5
		WHERE id=$1`,
		rep.ID, rep.ReportStatus, rep.ReferenceNumber, rep.ReportedAt, rep.Notes)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (domain.Report, error) {
	var rep domain.Report
	var hospitalName *string
	err := row.Scan(&rep.ID, &rep.OrderItemID, &rep.ReportStatus, &rep.ReferenceNumber, &rep.ReportedAt,
		&rep.Notes, &rep.CreatedAt, &rep.OrderNumber, &hospitalName, &rep.ProductText)
	if err != nil {
		return domain.Report{}, err
	}
	if hospitalName != nil {
		rep.HospitalName = *hospitalName
	}
	return rep, nil
}

func collectReports(rows pgx.Rows) ([]domain.Report, error) {
	var reports []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
