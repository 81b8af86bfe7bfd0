package shopping

import "github.com/shopspring/decimal"

// OptionalDecimal tells an absent JSON field apart from an explicit null.
// Set is true whenever the field appeared in the payload; Value.Valid is
// false when it appeared as null.
type OptionalDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

// Some returns an OptionalDecimal holding d.
func Some(d decimal.Decimal) OptionalDecimal {
	return OptionalDecimal{Set: true, Value: decimal.NewNullDecimal(d)}
}

// Clear returns an OptionalDecimal that removes the stored value.
func Clear() OptionalDecimal {
	return OptionalDecimal{Set: true}
}

func (o *OptionalDecimal) UnmarshalJSON(b []byte) error {
	o.Set = true
	return o.Value.UnmarshalJSON(b)
}
