// Package patch applies PATCH-style field maps to typed records.
//
// Each record type declares the fields a client may change as a Fields table of
// typed setters. Apply rejects the whole change set before touching the record
// when a key is not declared, and writes the record back only after every value
// decoded successfully.
package patch

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Setter decodes one raw JSON value and assigns it to the matching field of dst.
type Setter[T any] func(dst *T, raw json.RawMessage) error

// Fields maps a declared field name, as it appears in JSON, to its setter.
type Fields[T any] map[string]Setter[T]

// Field builds a Setter that decodes the raw value as V and hands it to set.
func Field[T any, V any](set func(dst *T, value V)) Setter[T] {
	return func(dst *T, raw json.RawMessage) error {
		var value V
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		set(dst, value)
		return nil
	}
}

// Names returns the declared field names in sorted order.
func (f Fields[T]) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropertyNotExistError is returned when a change names a field the record does not declare.
type PropertyNotExistError struct {
	Property string
}

func (e *PropertyNotExistError) Error() string {
	return fmt.Sprintf("Property '%s' does not exist. Correct and enter a valid property.", e.Property)
}

// InvalidValueError is returned when a value cannot be decoded into the declared field type.
type InvalidValueError struct {
	Property string
	Err      error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("Property '%s' received a value that is of invalid type: %v", e.Property, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// Apply merges changes into dst. Only the named fields change; on any error dst is left as it was.
func Apply[T any](dst *T, fields Fields[T], changes map[string]json.RawMessage) error {
	keys := make([]string, 0, len(changes))
	for key := range changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return &PropertyNotExistError{Property: key}
		}
	}

	merged := *dst
	for _, key := range keys {
		if err := fields[key](&merged, changes[key]); err != nil {
			return &InvalidValueError{Property: key, Err: err}
		}
	}

	*dst = merged
	return nil
}
