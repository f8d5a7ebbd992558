package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"facturas/internal/domain"
	"facturas/internal/export"
)

func sampleInvoices() []domain.Invoice {
	paid := "2025-02-01"
	return []domain.Invoice{
		{
			ID:           1,
			Date:         "2025-01-15",
			Type:         domain.InvoiceTypeA,
			Amount:       decimal.RequireFromString("1000"),
			Amount105:    decimal.RequireFromString("500"),
			VATAmount21:  decimal.RequireFromString("210"),
			VATAmount105: decimal.RequireFromString("52.5"),
			TotalNeto:    decimal.RequireFromString("1500"),
			HasIIBB:      true,
			IIBBAmount:   decimal.RequireFromString("60"),
			TotalAmount:  decimal.RequireFromString("1822.5"),
			Status:       domain.InvoiceStatusPaid,
			PaymentDate:  &paid,
			SupplierName: "ACME S.A.",
		},
		{
			ID:           2,
			Date:         "2025-01-20",
			Type:         domain.InvoiceTypeX,
			Amount:       decimal.RequireFromString("300"),
			TotalNeto:    decimal.RequireFromString("300"),
			TotalAmount:  decimal.RequireFromString("300"),
			Status:       domain.InvoiceStatusToPay,
			SupplierName: "Distribuidora Norte",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleInvoices()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, export.BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, "Fecha de pago", rows[0][11])
	assert.Equal(t, []string{
		"2025-01-15", "A", "ACME S.A.",
		"1000.00", "500.00", "210.00", "52.50", "1500.00", "60.00", "1822.50",
		"Pagada", "2025-02-01",
	}, rows[1])
	assert.Equal(t, "A pagar", rows[2][10])
	assert.Empty(t, rows[2][11])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, sampleInvoices()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Facturas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Proveedor", rows[0][2])
	assert.Equal(t, "ACME S.A.", rows[1][2])

	total, err := f.GetCellValue("Facturas", "J2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1822.5", total)
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	f, err = export.ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	_, err = export.ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "facturas_2025-03-14.csv", export.BuildFilename("facturas", export.FormatCSV, now))
	assert.Equal(t, "Facturas_a_pagar_2025-03-14.xlsx", export.BuildFilename("Facturas a pagar!", export.FormatXLSX, now))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b-c", export.SanitizeFilename("  a / b-c  "))
	assert.Len(t, export.SanitizeFilename(string(bytes.Repeat([]byte("x"), 150))), 100)
}
