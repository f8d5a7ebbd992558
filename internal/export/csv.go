package export

import (
	"encoding/csv"
	"io"

	"facturas/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel needs to detect the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes a BOM, the header row and one row per invoice.
// Amounts use a dot and two decimals so spreadsheets parse them as numbers.
func WriteCSV(w io.Writer, invoices []domain.Invoice) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range invoices {
		if err := cw.Write(csvRow(&invoices[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(inv *domain.Invoice) []string {
	row := make([]string, 0, len(columns))
	row = append(row, inv.Date, string(inv.Type), inv.SupplierName)
	for _, a := range amounts(inv) {
		row = append(row, a.StringFixed(2))
	}
	return append(row, inv.Status.Label(), paymentDate(inv))
}
