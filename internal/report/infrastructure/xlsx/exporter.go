// Package xlsx renders a sales report as a spreadsheet for submission to the
// accounting office.
package xlsx

import (
	"fmt"
	"io"

	"github.com/notiflow/notiflow/internal/report/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

var headings = []string{
	"OrderNumber", "Hospital", "BusinessNumber", "Address",
	"Product", "StandardCode", "Supplier",
	"Quantity", "UnitPrice", "SupplyAmount", "TaxAmount",
}

// Write streams the report as an xlsx workbook: a header row, one row per
// sales line, and a totals row at the bottom.
func Write(w io.Writer, report domain.SalesReport) error {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, row := range report.Rows {
		values := []any{
			row.OrderNumber, row.HospitalName, row.BusinessNumber, row.Address,
			row.ProductName, row.StandardCode, row.SupplierName,
			row.Quantity, row.UnitPrice.InexactFloat64(),
			row.SupplyAmount.InexactFloat64(), row.TaxAmount.InexactFloat64(),
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}

	totals := []any{
		fmt.Sprintf("TOTAL (%d orders)", report.Summary.TotalOrders),
		"", "", "", "", "", "",
		report.Summary.TotalItems,
		"",
		report.Summary.TotalSupply.InexactFloat64(),
		report.Summary.TotalTax.InexactFloat64(),
	}
	if err := setRow(f, len(report.Rows)+2, totals); err != nil {
		return err
	}

	return f.Write(w)
}

func setRow(f *excelize.File, rowNo int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}
