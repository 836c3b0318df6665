package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notiflow/notiflow/internal/order/application"
	"github.com/notiflow/notiflow/internal/order/domain"
	"github.com/notiflow/notiflow/pkg/outbox"
	"github.com/shopspring/decimal"
)

const orderColumns = `o.id, o.order_number, o.order_date::text, o.hospital_id, h.name,
	o.status, o.total_items, o.total_amount, o.supply_amount, o.tax_amount,
	o.delivery_date::text, o.confirmed_at, o.delivered_at, o.created_at, o.notes`

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+`
		FROM orders o LEFT JOIN hospitals h ON h.id = o.hospital_id
		WHERE o.id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, order_id, product_id, supplier_id, original_text,
		quantity, unit_type, unit_price, line_total, match_status, match_confidence
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.SupplierID, &it.OriginalText,
			&it.Quantity, &it.UnitType, &it.UnitPrice, &it.LineTotal, &it.MatchStatus, &it.MatchConfidence); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *Repository) List(ctx context.Context, f application.ListFilter) ([]domain.Order, int, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != "" {
		where = append(where, "o.status = "+arg(f.Status))
	}
	if f.HospitalID != 0 {
		where = append(where, "o.hospital_id = "+arg(f.HospitalID))
	}
	if f.From != "" {
		where = append(where, "o.order_date >= "+arg(f.From))
	}
	if f.To != "" {
		where = append(where, "o.order_date <= "+arg(f.To))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders o WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + `
		FROM orders o LEFT JOIN hospitals h ON h.id = o.hospital_id
		WHERE ` + cond + ` ORDER BY o.created_at DESC LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *Repository) ListByDateRange(ctx context.Context, from, to string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+`
		FROM orders o LEFT JOIN hospitals h ON h.id = o.hospital_id
		WHERE o.order_date >= $1 AND o.order_date <= $2
		ORDER BY o.order_date, o.id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *Repository) DeliveriesDueOn(ctx context.Context, date string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+`
		FROM orders o LEFT JOIN hospitals h ON h.id = o.hospital_id
		WHERE o.delivery_date = $1 AND o.status IN ('confirmed','processing')
		ORDER BY o.created_at`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *Repository) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO orders
		(order_number, order_date, hospital_id, status, total_items, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		o.OrderNumber, o.OrderDate, o.HospitalID, o.Status, o.TotalItems, o.Notes, o.CreatedAt).Scan(&o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) UpdateFields(ctx context.Context, id int64, f application.FieldUpdates) error {
	set := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.OrderDate != nil {
		set = append(set, "order_date = "+arg(*f.OrderDate))
	}
	if f.DeliveryDate != nil {
		set = append(set, "delivery_date = "+arg(*f.DeliveryDate))
	}
	if f.TotalAmount != nil {
		set = append(set, "total_amount = "+arg(*f.TotalAmount))
	}
	if f.SupplyAmount != nil {
		set = append(set, "supply_amount = "+arg(*f.SupplyAmount))
	}
	if f.TaxAmount != nil {
		set = append(set, "tax_amount = "+arg(*f.TaxAmount))
	}
	if f.Notes != nil {
		set = append(set, "notes = "+arg(*f.Notes))
	}
	if len(set) == 0 {
		return nil
	}

	ct, err := r.pool.Exec(ctx, `UPDATE orders SET `+strings.Join(set, ", ")+` WHERE id = `+arg(id), args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems swaps the order's full item set and writes the recomputed
// rollups in the same transaction.
func (r *Repository) ReplaceItems(ctx context.Context, orderID int64, items []domain.Item, totalItems int, totalAmount decimal.NullDecimal) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE orders SET total_items=$2, total_amount=$3 WHERE id=$1`,
		orderID, totalItems, totalAmount)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`INSERT INTO order_items
			(order_id, product_id, supplier_id, original_text, quantity, unit_type,
			 unit_price, line_total, match_status, match_confidence)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			orderID, it.ProductID, it.SupplierID, it.OriginalText, it.Quantity, it.UnitType,
			it.UnitPrice, it.LineTotal, it.MatchStatus, it.MatchConfidence)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateStatusWithOutbox persists the transition result and its event in one
// transaction. Only the transition-owned columns move here.
func (r *Repository) UpdateStatusWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE orders SET status=$2, confirmed_at=$3, delivered_at=$4 WHERE id=$1`,
		o.ID, o.Status, o.ConfirmedAt, o.DeliveredAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := insertOutbox(ctx, tx, "order", fmt.Sprint(o.ID), eventType, payload, traceparent); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) DeleteWithOutbox(ctx context.Context, id int64, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := insertOutbox(ctx, tx, "order", fmt.Sprint(id), eventType, payload, traceparent); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType string, payload []byte, traceparent string) error {
	_, err := tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		aggregateType, aggregateID, eventType, payload, map[string]string{}, traceparent)
	return err
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var hospitalName *string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.OrderDate, &o.HospitalID, &hospitalName,
		&o.Status, &o.TotalItems, &o.TotalAmount, &o.SupplyAmount, &o.TaxAmount,
		&o.DeliveryDate, &o.ConfirmedAt, &o.DeliveredAt, &o.CreatedAt, &o.Notes)
	if err != nil {
		return domain.Order{}, err
	}
	if hospitalName != nil {
		o.HospitalName = *hospitalName
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// OutboxStore serves the relay; rows are leased so a second relay instance
// never double-dispatches an event.
type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, headers, traceparent, created_at
		FROM outbox
		WHERE status = 'pending'
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var event outbox.Event
		var headers map[string]string
		if err := rows.Scan(&event.ID, &event.AggregateType, &event.AggregateID, &event.Type, &event.Payload, &headers, &event.Traceparent, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Headers = headers
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	_, err = tx.Exec(ctx, `UPDATE outbox SET status='in_progress', relay_id=$1, lease_until=now() + $2::interval WHERE id = ANY($3)`, relayID, lease.String(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status='sent' WHERE id = ANY($1)`, ids)
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status='failed', last_error=$2, retry_count=retry_count+1 WHERE id=$1`, id, errMsg)
	return err
}

func (s *OutboxStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET lease_until=now() + $1::interval WHERE id = ANY($2) AND relay_id=$3`, lease.String(), ids, relayID)
	return err
}
