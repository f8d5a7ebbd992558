package service_test

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturas/internal/validator"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newEngine() *validator.Engine {
	return validator.NewEngine(validator.NewDefaultRegistry(), zerolog.Nop())
}
