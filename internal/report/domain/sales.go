package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPeriod = errors.New("period must be formatted YYYY-MM")

// PeriodLayout is the month key for sales reports.
const PeriodLayout = "2006-01"

var vatRate = decimal.NewFromFloat(1.1)

// SplitVAT breaks a tax-inclusive line total into supply and VAT portions.
// Supply is the total divided by 1.1 rounded to whole currency units; tax is
// the remainder, so the two always re-add to the original total.
func SplitVAT(total decimal.Decimal) (supply, tax decimal.Decimal) {
	supply = total.Div(vatRate).Round(0)
	tax = total.Sub(supply)
	return supply, tax
}

type SalesRow struct {
	OrderNumber    string          `json:"order_number"`
	HospitalName   string          `json:"hospital_name"`
	BusinessNumber string          `json:"business_number"`
	Address        string          `json:"address"`
	ProductName    string          `json:"product_name"`
	StandardCode   string          `json:"standard_code"`
	SupplierName   string          `json:"supplier_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	SupplyAmount   decimal.Decimal `json:"supply_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
}

type Summary struct {
	TotalOrders int             `json:"total_orders"`
	TotalItems  int             `json:"total_items"`
	TotalSupply decimal.Decimal `json:"total_supply"`
	TotalTax    decimal.Decimal `json:"total_tax"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type SalesReport struct {
	Period  string     `json:"period"`
	Rows    []SalesRow `json:"rows"`
	Summary Summary    `json:"summary"`
}

// BuildReport assembles a report for one period. TotalOrders counts distinct
// order numbers since an order usually spans several rows.
func BuildReport(period string, rows []SalesRow) SalesReport {
	orders := make(map[string]struct{}, len(rows))
	summary := Summary{
		TotalSupply: decimal.Zero,
		TotalTax:    decimal.Zero,
		TotalAmount: decimal.Zero,
	}
	for _, row := range rows {
		orders[row.OrderNumber] = struct{}{}
		summary.TotalItems += row.Quantity
		summary.TotalSupply = summary.TotalSupply.Add(row.SupplyAmount)
		summary.TotalTax = summary.TotalTax.Add(row.TaxAmount)
	}
	summary.TotalOrders = len(orders)
	summary.TotalAmount = summary.TotalSupply.Add(summary.TotalTax)
	if rows == nil {
		rows = []SalesRow{}
	}
	return SalesReport{Period: period, Rows: rows, Summary: summary}
}

// PeriodRange turns a YYYY-MM period into its [first, next-first) date range.
func PeriodRange(period string) (from, to string, err error) {
	t, err := time.Parse(PeriodLayout, period)
	if err != nil {
		return "", "", ErrInvalidPeriod
	}
	return t.Format("2006-01-02"), t.AddDate(0, 1, 0).Format("2006-01-02"), nil
}
