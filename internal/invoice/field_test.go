package invoice_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

func TestPatch_UnmarshalPresence(t *testing.T) {
	var p invoice.Patch
	err := json.Unmarshal([]byte(`{"amount": 0, "has_ii_bb": false, "date": null, "type": "A"}`), &p)
	require.NoError(t, err)

	assert.True(t, p.Amount.Set, "explicit zero is present")
	assert.True(t, p.Amount.Value.IsZero())
	assert.True(t, p.HasIIBB.Set)
	assert.False(t, p.Date.Set, "null is absent")
	assert.False(t, p.Amount105.Set, "missing key is absent")
	assert.Equal(t, domain.InvoiceTypeA, p.Type.Value)
}

func TestPatch_UnmarshalLenientAmounts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"number", `1234.5`, "1234.5"},
		{"numeric string", `"1234.5"`, "1234.5"},
		{"numeric prefix", `"12abc"`, "12"},
		{"garbage", `"abc"`, "0"},
		{"empty string", `""`, "0"},
		{"boolean", `true`, "0"},
		{"negative", `"-15.25"`, "-15.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p invoice.Patch
			require.NoError(t, json.Unmarshal([]byte(`{"amount":`+tt.raw+`}`), &p))
			assert.True(t, p.Amount.Set)
			assertDec(t, tt.want, p.Amount.Value, "amount")
		})
	}
}

func TestPatch_MarshalOmitsUnset(t *testing.T) {
	p := invoice.Patch{Amount: invoice.Some(dec("10")), HasIIBB: invoice.Some(false)}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":10,"has_ii_bb":false}`, string(b))
}

func TestPatch_TouchesInputs(t *testing.T) {
	assert.False(t, (&invoice.Patch{TotalAmount: invoice.Some(dec("1"))}).TouchesInputs())
	assert.True(t, (&invoice.Patch{HasIIBB: invoice.Some(false)}).TouchesInputs())
	assert.True(t, (&invoice.Patch{}).Empty())
	assert.False(t, (&invoice.Patch{Status: invoice.Some(domain.InvoiceStatusPaid)}).Empty())
}

func TestCoerce(t *testing.T) {
	assertDec(t, "0", invoice.Coerce(""), "empty")
	assertDec(t, "0", invoice.Coerce("NaN"), "NaN")
	assertDec(t, "3.5", invoice.Coerce("  3.5  "), "spaces")
	assertDec(t, "1000", invoice.Coerce("1e3"), "exponent")
	assertDec(t, "0.5", invoice.Coerce(".5"), "leading dot")
}

func TestField_OrElse(t *testing.T) {
	var f invoice.Field[int64]
	assert.Equal(t, int64(5), f.OrElse(5))
	assert.Equal(t, int64(2), invoice.Some(int64(2)).OrElse(5))
}
