package rules

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var fieldValidate = newFieldValidate()

func newFieldValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Amounts are compared as numbers by the gt/gte tags.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// check runs a validation tag against a single value.
func check(value interface{}, tag string) bool {
	return fieldValidate.Var(value, tag) == nil
}
