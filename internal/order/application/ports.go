package application

import (
	"context"

	"github.com/notiflow/notiflow/internal/order/domain"
	"github.com/shopspring/decimal"
)

type ListFilter struct {
	Status     domain.Status
	HospitalID int64
	From       string
	To         string
	Limit      int
	Offset     int
}

// FieldUpdates carries a direct edit of non-status fields. Nil means leave
// the column alone. Status never travels this path; it only moves through
// the transition gateway.
type FieldUpdates struct {
	OrderDate    *string              `json:"order_date"`
	DeliveryDate *string              `json:"delivery_date"`
	TotalAmount  *decimal.Decimal     `json:"total_amount"`
	SupplyAmount *decimal.Decimal     `json:"supply_amount"`
	TaxAmount    *decimal.Decimal     `json:"tax_amount"`
	Notes        *string              `json:"notes"`
}

type OrderRepository interface {
	Get(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, int, error)
	ListByDateRange(ctx context.Context, from, to string) ([]domain.Order, error)
	DeliveriesDueOn(ctx context.Context, date string) ([]domain.Order, error)
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	UpdateFields(ctx context.Context, id int64, f FieldUpdates) error
	ReplaceItems(ctx context.Context, orderID int64, items []domain.Item, totalItems int, totalAmount decimal.NullDecimal) error
	UpdateStatusWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error
	DeleteWithOutbox(ctx context.Context, id int64, eventType string, payload []byte, traceparent string) error
}
