// Package export writes invoice listings as CSV or XLSX spreadsheets.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"facturas/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("export format %q: %w", s, domain.ErrInvalidFilter)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write encodes invoices to w in format f.
func Write(w io.Writer, f Format, invoices []domain.Invoice) error {
	if f == FormatXLSX {
		return WriteXLSX(w, invoices)
	}
	return WriteCSV(w, invoices)
}

var columns = []string{
	"Fecha",
	"Tipo",
	"Proveedor",
	"Importe 21%",
	"Importe 10,5%",
	"IVA 21%",
	"IVA 10,5%",
	"Total Neto",
	"II.BB",
	"Total",
	"Estado",
	"Fecha de pago",
}

// amountColumns are the indexes of money columns in a row.
var amountColumns = []int{3, 4, 5, 6, 7, 8, 9}

func amounts(inv *domain.Invoice) []decimal.Decimal {
	return []decimal.Decimal{
		inv.Amount,
		inv.Amount105,
		inv.VATAmount21,
		inv.VATAmount105,
		inv.TotalNeto,
		inv.IIBBAmount,
		inv.TotalAmount,
	}
}

func paymentDate(inv *domain.Invoice) string {
	if inv.PaymentDate == nil {
		return ""
	}
	return *inv.PaymentDate
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename keeps letters, digits, hyphen and underscore, collapsing
// runs of anything else to one underscore. The result is at most 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {name}_{YYYY-MM-DD}.{ext} for Content-Disposition.
func BuildFilename(name string, f Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), f)
}
