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

const hospitalColumns = `id, name, short_name, hospital_type, phone, address,
	contact_person, business_number, payment_terms, lead_time_days, is_active`

type HospitalRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewHospitalRepository(log *slog.Logger, pool *pgxpool.Pool) *HospitalRepository {
	return &HospitalRepository{log: log, pool: pool}
}

func (r *HospitalRepository) Get(ctx context.Context, id int64) (domain.Hospital, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id)
	h, err := scanHospital(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Hospital{}, domain.ErrNotFound
		}
		return domain.Hospital{}, err
	}
	return h, nil
}

func (r *HospitalRepository) List(ctx context.Context, f application.HospitalFilter) ([]domain.Hospital, int, error) {
	where := ""
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	if f.Search != "" {
		and("name ILIKE " + arg("%"+f.Search+"%"))
	}
	if f.Type != "" {
		and("hospital_type = " + arg(f.Type))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM hospitals`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + hospitalColumns + ` FROM hospitals` + where +
		` ORDER BY name LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var hospitals []domain.Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, total, rows.Err()
}

func (r *HospitalRepository) Create(ctx context.Context, h domain.Hospital) (domain.Hospital, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO hospitals
		(name, short_name, hospital_type, phone, address, contact_person,
		 business_number, payment_terms, lead_time_days, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		h.Name, h.ShortName, h.HospitalType, h.Phone, h.Address, h.ContactPerson,
		h.BusinessNumber, h.PaymentTerms, h.LeadTimeDays, h.IsActive).Scan(&h.ID)
	if err != nil {
		return domain.Hospital{}, err
	}
	return h, nil
}

func (r *HospitalRepository) Update(ctx context.Context, h domain.Hospital) error {
	ct, err := r.pool.Exec(ctx, `UPDATE hospitals SET
		name=$2, short_name=$3, hospital_type=$4, phone=$5, address=$6,
		contact_person=$7, business_number=$8, payment_terms=$9,
		lead_time_days=$10, is_active=$11
		WHERE id=$1`,
		h.ID, h.Name, h.ShortName, h.HospitalType, h.Phone, h.Address,
		h.ContactPerson, h.BusinessNumber, h.PaymentTerms, h.LeadTimeDays, h.IsActive)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *HospitalRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanHospital(row pgx.Row) (domain.Hospital, error) {
	var h domain.Hospital
	err := row.Scan(&h.ID, &h.Name, &h.ShortName, &h.HospitalType, &h.Phone, &h.Address,
		&h.ContactPerson, &h.BusinessNumber, &h.PaymentTerms, &h.LeadTimeDays, &h.IsActive)
	return h, err
}
