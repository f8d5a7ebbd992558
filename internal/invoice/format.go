package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var arPrinter = message.NewPrinter(language.MustParse("es-AR"))

var maxGroupable = decimal.New(1, 18)

// FormatAmount renders v for display with es-AR grouping and two decimals,
// e.g. 1822.5 as "1.822,50". Digits come from the decimal itself, so cents
// stay exact at any magnitude.
func FormatAmount(v decimal.Decimal) string {
	fixed := RoundCents(v).Abs().StringFixed(2)
	intPart, cents, _ := strings.Cut(fixed, ".")

	var grouped string
	if n := RoundCents(v).Abs().Truncate(0); n.LessThan(maxGroupable) {
		grouped = arPrinter.Sprintf("%d", n.IntPart())
	} else {
		grouped = groupThousands(intPart)
	}

	sign := ""
	if RoundCents(v).IsNegative() {
		sign = "-"
	}
	return sign + grouped + "," + cents
}

// groupThousands inserts es-AR thousands separators into a digit string
// too long for the locale printer.
func groupThousands(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatARS is FormatAmount with the peso sign.
func FormatARS(v decimal.Decimal) string {
	return "$ " + FormatAmount(v)
}

// Display holds the display strings of a draft's amounts.
type Display struct {
	Amount       string `json:"amount"`
	Amount105    string `json:"amount_105"`
	VATAmount21  string `json:"vat_amount_21"`
	VATAmount105 string `json:"vat_amount_105"`
	TotalNeto    string `json:"total_neto"`
	IIBBAmount   string `json:"ii_bb_amount"`
	TotalAmount  string `json:"total_amount"`
}

// DisplayOf formats every amount of in and its derived values.
func DisplayOf(in Inputs, d Derived) Display {
	return Display{
		Amount:       FormatARS(in.Amount),
		Amount105:    FormatARS(in.Amount105),
		VATAmount21:  FormatARS(d.VATAmount21),
		VATAmount105: FormatARS(d.VATAmount105),
		TotalNeto:    FormatARS(d.TotalNeto),
		IIBBAmount:   FormatARS(d.IIBBAmount),
		TotalAmount:  FormatARS(d.TotalAmount),
	}
}
