// Package field provides optional values for partial-update payloads.
// An Opt distinguishes three states a JSON field can be in: absent
// (keep the stored value), explicit null (clear the stored value), and
// present with a value (overwrite the stored value).
package field

import "encoding/json"

// Opt wraps a value of type T together with its presence in the payload.
// The zero Opt means the field was absent.
type Opt[T any] struct {
	value   T
	present bool
	null    bool
}

// Set returns an Opt carrying v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{value: v, present: true}
}

// Clear returns an Opt representing an explicit null.
func Clear[T any]() Opt[T] {
	return Opt[T]{present: true, null: true}
}

// Present reports whether the field appeared in the payload at all.
func (o Opt[T]) Present() bool { return o.present }

// Null reports whether the field was an explicit JSON null.
func (o Opt[T]) Null() bool { return o.present && o.null }

// Value returns the carried value and whether it is usable, i.e. the
// field was present and not null.
func (o Opt[T]) Value() (T, bool) {
	if !o.present || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Or returns the carried value, or fallback when the field was absent
// or null.
func (o Opt[T]) Or(fallback T) T {
	if v, ok := o.Value(); ok {
		return v
	}
	return fallback
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.present || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
