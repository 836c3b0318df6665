package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notiflow/notiflow/internal/catalog/application"
	"github.com/notiflow/notiflow/internal/catalog/domain"
)

const supplierColumns = `id, name, short_name, contact_info, notes, is_active`

type SupplierRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewSupplierRepository(log *slog.Logger, pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{log: log, pool: pool}
}

func (r *SupplierRepository) Get(ctx context.Context, id int64) (domain.Supplier, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Supplier{}, domain.ErrNotFound
		}
		return domain.Supplier{}, err
	}
	return s, nil
}

func (r *SupplierRepository) List(ctx context.Context, f application.SupplierFilter) ([]domain.Supplier, int, error) {
	where := ""
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Search != "" {
		where = " WHERE name ILIKE " + arg("%"+f.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + supplierColumns + ` FROM suppliers` + where +
		` ORDER BY name LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *SupplierRepository) Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO suppliers (name, short_name, contact_info, notes, is_active)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		s.Name, s.ShortName, s.ContactInfo, s.Notes, s.IsActive).Scan(&s.ID)
	if err != nil {
		return domain.Supplier{}, err
	}
	return s, nil
}

func (r *SupplierRepository) Update(ctx context.Context, s domain.Supplier) error {
	ct, err := r.pool.Exec(ctx, `UPDATE suppliers SET
		name=$2, short_name=$3, contact_info=$4, notes=$5, is_active=$6
		WHERE id=$1`,
		s.ID, s.Name, s.ShortName, s.ContactInfo, s.Notes, s.IsActive)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ShortName, &s.ContactInfo, &s.Notes, &s.IsActive)
	return s, err
}
