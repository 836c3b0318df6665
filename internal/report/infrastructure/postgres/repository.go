package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notiflow/notiflow/internal/report/domain"
	"github.com/shopspring/decimal"
)

type SalesRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewSalesRepository(log *slog.Logger, pool *pgxpool.Pool) *SalesRepository {
	return &SalesRepository{log: log, pool: pool}
}

// RowsForPeriod reads delivered order lines for the period. The VAT split is
// computed here rather than stored, so re-running a report after a correction
// always reflects current line totals.
func (r *SalesRepository) RowsForPeriod(ctx context.Context, from, to string) ([]domain.SalesRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT
			o.order_number,
			coalesce(h.name, ''),
			coalesce(h.business_number, ''),
			coalesce(h.address, ''),
			coalesce(p.name, oi.original_text, ''),
			coalesce(p.standard_code, ''),
			coalesce(s.name, ''),
			oi.quantity,
			coalesce(oi.unit_price, 0),
			coalesce(oi.line_total, 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN hospitals h ON h.id = o.hospital_id
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN suppliers s ON s.id = oi.supplier_id
		WHERE o.status = 'delivered' AND o.order_date >= $1 AND o.order_date < $2
		ORDER BY o.order_date, o.order_number, oi.id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SalesRow
	for rows.Next() {
		var row domain.SalesRow
		var lineTotal decimal.Decimal
		err := rows.Scan(&row.OrderNumber, &row.HospitalName, &row.BusinessNumber, &row.Address,
			&row.ProductName, &row.StandardCode, &row.SupplierName,
			&row.Quantity, &row.UnitPrice, &lineTotal)
		if err != nil {
			return nil, err
		}
		row.SupplyAmount, row.TaxAmount = domain.SplitVAT(lineTotal)
		out = append(out, row)
	}
	return out, rows.Err()
}
