package validation

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Field distinguishes a value that was absent from the payload, present as null, or present with a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some is a present, non-null field.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null is a present, explicitly null field.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON only runs when the key is present, which is what marks the field as Set.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// MergeNullable applies f onto a nullable column.
func MergeNullable[T any](f Field[T], dst **T) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}

// MergeRequired applies f onto a non-null column. Null must be rejected by validation first.
func MergeRequired[T any](f Field[T], dst *T) {
	if f.Set && !f.Null {
		*dst = f.Value
	}
}

// FormString reads a form key: absent stays unset, an empty value is null.
func FormString(values url.Values, key string) Field[string] {
	if _, ok := values[key]; !ok {
		return Field[string]{}
	}
	v := values.Get(key)
	if v == "" {
		return Null[string]()
	}
	return Some(v)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
