package invoice

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Field is a value with explicit presence. A Field that was never set is
// different from one set to its zero value: merges copy only set fields.
//
// JSON null and a missing key both decode to an unset Field. Decimal fields
// decode leniently through Coerce, so "12,5abc" or true never fail a request.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

// OrElse returns the value if set, otherwise def.
func (f Field[T]) OrElse(def T) T {
	if f.Set {
		return f.Value
	}
	return def
}

// IsZero lets encoding/json omit unset fields tagged omitzero.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var zero T
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value, f.Set = zero, false
		return nil
	}
	if d, ok := any(&f.Value).(*decimal.Decimal); ok {
		*d = CoerceJSON(data)
		f.Set = true
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Set = true
	return nil
}
