package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"facturas/internal/domain"
)

const sheetName = "Facturas"

// WriteXLSX writes a single-sheet workbook with a bold header and money
// columns formatted with two decimals.
func WriteXLSX(w io.Writer, invoices []domain.Invoice) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(sheetName, "A1", last+"1", bold); err != nil {
		return err
	}

	for i := range invoices {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := xlsxRow(&invoices[i])
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if len(invoices) > 0 {
		money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
		if err != nil {
			return err
		}
		for _, col := range amountColumns {
			name, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetCellStyle(sheetName, name+"2", fmt.Sprintf("%s%d", name, len(invoices)+1), money); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func xlsxRow(inv *domain.Invoice) []interface{} {
	row := make([]interface{}, 0, len(columns))
	row = append(row, inv.Date, string(inv.Type), inv.SupplierName)
	for _, a := range amounts(inv) {
		row = append(row, a.InexactFloat64())
	}
	return append(row, inv.Status.Label(), paymentDate(inv))
}
