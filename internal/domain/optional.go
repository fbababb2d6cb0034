package domain

import "encoding/json/v2"

// Optional is a patch field that distinguishes three states:
// absent from the payload, explicitly null (clear the field), and set to a value.
// A plain pointer can't tell "absent" from "null", which matters for
// clearable fields like an essay's thumbnail.
type Optional[T any] struct {
	Present bool // field appeared in the payload
	Value   T    // zero when the field was null
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// UnmarshalJSON marks the field present; null leaves Value at its zero value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the held value, or null when the field is absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
