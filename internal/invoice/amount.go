package invoice

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Coerce reads a user- or extractor-supplied amount. It keeps the leading
// numeric part of the text and treats anything without one as zero.
// Negative values are kept as-is.
func Coerce(s string) decimal.Decimal {
	m := numericPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CoerceJSON applies Coerce to a raw JSON value: numbers, strings, and
// anything else (booleans, objects) as zero.
func CoerceJSON(data []byte) decimal.Decimal {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return decimal.Zero
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return decimal.Zero
		}
		return Coerce(s)
	}
	return Coerce(string(data))
}
