package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notiflow/notiflow/internal/message/application"
	"github.com/notiflow/notiflow/internal/message/domain"
)

const messageColumns = `id, source_app, sender, content, received_at, device_id, hospital_id,
	parse_status, parse_method, parse_result, order_id, is_order_message, synced_at`

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Message, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM raw_messages WHERE id = $1`, id)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, domain.ErrNotFound
		}
		return domain.Message{}, err
	}
	return m, nil
}

func (r *Repository) List(ctx context.Context, f application.ListFilter) ([]domain.Message, int, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.From != "" {
		where = append(where, "received_at >= "+arg(f.From))
	}
	if f.To != "" {
		where = append(where, "received_at <= "+arg(f.To))
	}
	if f.ParseStatus != "" {
		where = append(where, "parse_status = "+arg(f.ParseStatus))
	}
	if f.SourceApp != "" {
		where = append(where, "source_app = "+arg(f.SourceApp))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM raw_messages WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + messageColumns + ` FROM raw_messages WHERE ` + cond +
		` ORDER BY received_at DESC LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	msgs, err := collectMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *Repository) ListByDateRange(ctx context.Context, from, to string) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+messageColumns+` FROM raw_messages
		WHERE (received_at AT TIME ZONE 'UTC')::date >= $1 AND (received_at AT TIME ZONE 'UTC')::date <= $2
		ORDER BY received_at, id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM raw_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) SaveWithOutbox(ctx context.Context, m domain.Message, eventType string, payload []byte, headers map[string]string, traceparent string) (domain.Message, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Message{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx, `INSERT INTO raw_messages
		(source_app, sender, content, received_at, device_id, parse_status, synced_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		m.SourceApp, m.Sender, m.Content, m.ReceivedAt, m.DeviceID, m.ParseStatus, m.SyncedAt).Scan(&m.ID)
	if err != nil {
		return domain.Message{}, err
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		"raw_message", fmt.Sprint(m.ID), eventType, payload, headers, traceparent)
	if err != nil {
		return domain.Message{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func scanMessage(row pgx.Row) (domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.SourceApp, &m.Sender, &m.Content, &m.ReceivedAt, &m.DeviceID, &m.HospitalID,
		&m.ParseStatus, &m.ParseMethod, &m.ParseResult, &m.OrderID, &m.IsOrderMessage, &m.SyncedAt)
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func collectMessages(rows pgx.Rows) ([]domain.Message, error) {
	var msgs []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
