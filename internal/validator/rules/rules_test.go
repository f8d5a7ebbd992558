package rules_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/internal/domain"
	"facturas/internal/invoice"
	"facturas/internal/validator/rules"
)

func runAll(d *invoice.Draft) map[string][]rules.ValidationResult {
	out := make(map[string][]rules.ValidationResult)
	for _, v := range rules.AllBuiltinValidators() {
		out[v.RuleKey()] = v.Validate(context.Background(), d)
	}
	return out
}

func failedKeys(d *invoice.Draft) []string {
	var keys []string
	for key, results := range runAll(d) {
		for _, r := range results {
			if !r.Passed {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func TestAllBuiltinValidators_UniqueKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range rules.AllBuiltinValidators() {
		assert.False(t, seen[v.RuleKey()], "duplicate rule key %s", v.RuleKey())
		seen[v.RuleKey()] = true
		assert.NotEmpty(t, v.RuleName())
	}
}

func TestAllBuiltinValidators_ValidDraftPasses(t *testing.T) {
	assert.Empty(t, failedKeys(validDraft()))
}

func TestRequired(t *testing.T) {
	t.Run("missing_date", func(t *testing.T) {
		d := validDraft()
		d.Date = "  "
		results := runAll(d)["req.date"]
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
		assert.Equal(t, "date", results[0].FieldPath)
		assert.Equal(t, "La fecha es obligatoria", results[0].Message)
	})

	t.Run("missing_supplier", func(t *testing.T) {
		d := validDraft()
		d.SupplierID = nil
		results := runAll(d)["req.supplier"]
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
		assert.Equal(t, "supplierId", results[0].FieldPath)
		assert.Equal(t, "null", results[0].ActualValue)
	})

	t.Run("zero_supplier", func(t *testing.T) {
		d := validDraft()
		zero := int64(0)
		d.SupplierID = &zero
		results := runAll(d)["req.supplier"]
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
	})
}

func TestRange(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *invoice.Draft)
		ruleKey string
		passed  bool
	}{
		{"amount zero", func(d *invoice.Draft) { d.Amount = decimal.Zero }, "range.amount", false},
		{"amount negative", func(d *invoice.Draft) { d.Amount = dec("-1") }, "range.amount", false},
		{"amount small positive", func(d *invoice.Draft) { d.Amount = dec("0.01") }, "range.amount", true},
		{"amount_105 zero", func(d *invoice.Draft) { d.Amount105 = decimal.Zero }, "range.amount_105", true},
		{"amount_105 negative", func(d *invoice.Draft) { d.Amount105 = dec("-0.5") }, "range.amount_105", false},
		{"total_neto zero", func(d *invoice.Draft) { d.TotalNeto = decimal.Zero }, "range.total_neto", false},
		{"total_amount zero", func(d *invoice.Draft) { d.TotalAmount = decimal.Zero }, "range.total_amount", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			results := runAll(d)[tt.ruleKey]
			require.Len(t, results, 1)
			assert.Equal(t, tt.passed, results[0].Passed)
		})
	}
}

func TestRange_Messages(t *testing.T) {
	d := validDraft()
	d.Amount = decimal.Zero
	d.Amount105 = dec("-1")
	results := runAll(d)
	assert.Equal(t, "El importe debe ser mayor a cero", results["range.amount"][0].Message)
	assert.Equal(t, "El importe al 10,5% no puede ser negativo", results["range.amount_105"][0].Message)
}

func TestEnum(t *testing.T) {
	d := validDraft()
	d.Type = "B"
	d.Status = "archived"
	results := runAll(d)

	require.Len(t, results["enum.type"], 1)
	assert.False(t, results["enum.type"][0].Passed)
	require.Len(t, results["enum.status"], 1)
	assert.False(t, results["enum.status"][0].Passed)

	d = validDraft()
	d.Status = domain.InvoiceStatusPaid
	assert.True(t, runAll(d)["enum.status"][0].Passed)
}

func TestFormat_Date(t *testing.T) {
	tests := []struct {
		date    string
		results int
		passed  bool
	}{
		{"2025-02-28", 1, true},
		{"2025-02-30", 1, false},
		{"28/02/2025", 1, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := validDraft()
			d.Date = tt.date
			results := runAll(d)["fmt.date"]
			require.Len(t, results, tt.results)
			if tt.results > 0 {
				assert.Equal(t, tt.passed, results[0].Passed)
			}
		})
	}
}

func TestMath(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		for key, results := range runAll(validDraft()) {
			for _, r := range results {
				assert.True(t, r.Passed, key)
			}
		}
	})

	t.Run("within_tolerance", func(t *testing.T) {
		d := validDraft()
		d.VATAmount21 = d.VATAmount21.Add(dec("0.01"))
		d.TotalAmount = d.TotalAmount.Add(dec("0.01"))
		assert.True(t, runAll(d)["math.vat_amount_21"][0].Passed)
	})

	t.Run("stale_vat", func(t *testing.T) {
		d := validDraft()
		d.VATAmount21 = dec("200")
		r := runAll(d)["math.vat_amount_21"]
		require.Len(t, r, 1)
		assert.False(t, r[0].Passed)
		assert.Equal(t, "210.00", r[0].ExpectedValue)
		assert.Equal(t, "200.00", r[0].ActualValue)
	})

	t.Run("total_does_not_add_up", func(t *testing.T) {
		d := validDraft()
		d.TotalAmount = dec("1800")
		r := runAll(d)["math.total_amount"]
		require.Len(t, r, 1)
		assert.False(t, r[0].Passed)
		assert.Equal(t, "1822.50", r[0].ExpectedValue)
	})

	t.Run("warning_severity", func(t *testing.T) {
		for _, v := range rules.MathValidators() {
			assert.Equal(t, domain.ValidationSeverityWarning, v.Severity())
			assert.Equal(t, domain.ValidationRuleSumCheck, v.RuleType())
		}
	})
}

func TestLogical_TypeX(t *testing.T) {
	d := validDraft()
	d.SetType(domain.InvoiceTypeX)
	results := runAll(d)
	require.Len(t, results["logic.type_x.no_105"], 1)
	assert.True(t, results["logic.type_x.no_105"][0].Passed)
	assert.True(t, results["logic.type_x.no_iibb"][0].Passed)

	d.HasIIBB = true
	results = runAll(d)
	assert.False(t, results["logic.type_x.no_iibb"][0].Passed)

	a := validDraft()
	assert.Empty(t, runAll(a)["logic.type_x.no_105"], "type A drafts are not checked")

	for _, v := range rules.LogicalValidators() {
		assert.Equal(t, domain.ValidationSeverityError, v.Severity(), v.RuleKey())
	}
}
