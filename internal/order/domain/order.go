package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date form used everywhere an order or message
// is keyed by day: order_date, delivery_date, calendar aggregates.
const DateLayout = "2006-01-02"

type MatchStatus string

const (
	MatchMatched   MatchStatus = "matched"
	MatchReview    MatchStatus = "review"
	MatchUnmatched MatchStatus = "unmatched"
)

type Order struct {
	ID           int64               `json:"id"`
	OrderNumber  string              `json:"order_number"`
	OrderDate    string              `json:"order_date"`
	HospitalID   int64               `json:"hospital_id"`
	HospitalName string              `json:"hospital_name,omitempty"`
	Status       Status              `json:"status"`
	TotalItems   int                 `json:"total_items"`
	TotalAmount  decimal.NullDecimal `json:"total_amount"`
	SupplyAmount decimal.NullDecimal `json:"supply_amount"`
	TaxAmount    decimal.NullDecimal `json:"tax_amount"`
	DeliveryDate *string             `json:"delivery_date"`
	ConfirmedAt  *time.Time          `json:"confirmed_at"`
	DeliveredAt  *time.Time          `json:"delivered_at"`
	CreatedAt    time.Time           `json:"created_at"`
	Notes        *string             `json:"notes"`
	Items        []Item              `json:"items,omitempty"`
}

type Item struct {
	ID              int64               `json:"id"`
	OrderID         int64               `json:"order_id"`
	ProductID       *int64              `json:"product_id"`
	SupplierID      *int64              `json:"supplier_id"`
	OriginalText    *string             `json:"original_text"`
	Quantity        int                 `json:"quantity"`
	UnitType        string              `json:"unit_type"`
	UnitPrice       decimal.NullDecimal `json:"unit_price"`
	LineTotal       decimal.NullDecimal `json:"line_total"`
	MatchStatus     MatchStatus         `json:"match_status"`
	MatchConfidence *float64            `json:"match_confidence"`
}

// ItemTotals recomputes the order-level rollups from a replacement item set.
// The amount is null until at least one line carries a total.
func ItemTotals(items []Item) (count int, total decimal.NullDecimal) {
	sum := decimal.Zero
	for _, it := range items {
		if it.LineTotal.Valid {
			sum = sum.Add(it.LineTotal.Decimal)
			total.Valid = true
		}
	}
	total.Decimal = sum
	return len(items), total
}

func NewDraft(orderNumber, orderDate string, hospitalID int64, now time.Time) Order {
	return Order{
		OrderNumber: orderNumber,
		OrderDate:   orderDate,
		HospitalID:  hospitalID,
		Status:      StatusDraft,
		CreatedAt:   now,
	}
}
