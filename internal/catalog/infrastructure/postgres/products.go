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

const productColumns = `id, name, official_name, short_name, category, manufacturer,
	ingredient, efficacy, standard_code, unit, unit_price, is_active`

type ProductRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewProductRepository(log *slog.Logger, pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{log: log, pool: pool}
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, f application.ProductFilter) ([]domain.Product, int, error) {
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
		// Matches either the working name or the registered official name.
		p := arg("%" + f.Search + "%")
		and("(name ILIKE " + p + " OR official_name ILIKE " + p + ")")
	}
	if f.Category != "" {
		and("category = " + arg(f.Category))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY name LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO products
		(name, official_name, short_name, category, manufacturer, ingredient,
		 efficacy, standard_code, unit, unit_price, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
		p.Name, p.OfficialName, p.ShortName, p.Category, p.Manufacturer, p.Ingredient,
		p.Efficacy, p.StandardCode, p.Unit, p.UnitPrice, p.IsActive).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p domain.Product) error {
	ct, err := r.pool.Exec(ctx, `UPDATE products SET
		name=$2, official_name=$3, short_name=$4, category=$5, manufacturer=$6,
		ingredient=$7, efficacy=$8, standard_code=$9, unit=$10, unit_price=$11,
		is_active=$12
		WHERE id=$1`,
		p.ID, p.Name, p.OfficialName, p.ShortName, p.Category, p.Manufacturer,
		p.Ingredient, p.Efficacy, p.StandardCode, p.Unit, p.UnitPrice, p.IsActive)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Aliases(ctx context.Context, productID int64) ([]domain.ProductAlias, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, hospital_id, alias, product_id, source
		FROM product_aliases WHERE product_id = $1 ORDER BY alias`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []domain.ProductAlias
	for rows.Next() {
		var a domain.ProductAlias
		if err := rows.Scan(&a.ID, &a.HospitalID, &a.Alias, &a.ProductID, &a.Source); err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

func (r *ProductRepository) AddAlias(ctx context.Context, a domain.ProductAlias) (domain.ProductAlias, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO product_aliases (hospital_id, alias, product_id, source)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		a.HospitalID, a.Alias, a.ProductID, a.Source).Scan(&a.ID)
	if err != nil {
		return domain.ProductAlias{}, err
	}
	return a, nil
}

func (r *ProductRepository) DeleteAlias(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM product_aliases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.OfficialName, &p.ShortName, &p.Category, &p.Manufacturer,
		&p.Ingredient, &p.Efficacy, &p.StandardCode, &p.Unit, &p.UnitPrice, &p.IsActive)
	return p, err
}
