// pkg/util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

///////////////////////////////////////////////////////////////////////////
// JSON

// UnmarshalJSON unmarshals the bytes into the given type but reports the
// line and character of syntax and type errors.
func UnmarshalJSON[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	var serr *json.SyntaxError
	var terr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &serr):
		line, char := decodeOffset(serr.Offset)
		return fmt.Errorf("line %d, character %d: %w", line, char, err)
	case errors.As(err, &terr):
		line, char := decodeOffset(terr.Offset)
		return fmt.Errorf("line %d, character %d: %s value for %s invalid for type %s: %w",
			line, char, terr.Value, terr.Field, terr.Type, err)
	default:
		return err
	}
}

// CheckJSON checks whether the provided JSON is syntactically valid and
// then typechecks it with respect to the type T, reporting entries that
// don't correspond to any of T's fields.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	var items any
	if err := UnmarshalJSON(contents, &items); err != nil {
		e.Error(err)
		return
	}

	typeCheckJSON(items, reflect.TypeFor[T](), e)
}

// jsonName returns the name that encoding/json uses for the field and
// false if the field is skipped.
func jsonName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	if tag, ok := f.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	return f.Name, true
}

func typeCheckJSON(v any, ty reflect.Type, e *ErrorLogger) {
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	mismatch := func() {
		e.ErrorString("unexpected %T value for %s", v, ty)
	}

	switch ty.Kind() {
	case reflect.Array, reflect.Slice:
		if array, ok := v.([]any); ok {
			if ty.Kind() == reflect.Array && len(array) != ty.Len() {
				e.ErrorString("expected %d values, got %d", ty.Len(), len(array))
			}
			for _, item := range array {
				typeCheckJSON(item, ty.Elem(), e)
			}
		} else if v != nil {
			mismatch()
		}

	case reflect.Map:
		if m, ok := v.(map[string]any); ok {
			for _, k := range SortedMapKeys(m) {
				e.Push(k)
				typeCheckJSON(m[k], ty.Elem(), e)
				e.Pop()
			}
		} else if v != nil {
			mismatch()
		}

	case reflect.Struct:
		items, ok := v.(map[string]any)
		if !ok {
			mismatch()
			return
		}
		for _, item := range SortedMapKeys(items) {
			found := false
			for _, field := range reflect.VisibleFields(ty) {
				// encoding/json matches names case-insensitively.
				if name, ok := jsonName(field); ok && strings.EqualFold(name, item) {
					found = true
					e.Push(item)
					typeCheckJSON(items[item], field.Type, e)
					e.Pop()
					break
				}
			}
			if !found {
				e.ErrorString("the entry %q is not an expected JSON object. Is it misspelled?", item)
			}
		}

	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			mismatch()
		}

	case reflect.String:
		if _, ok := v.(string); !ok {
			mismatch()
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if _, ok := v.(float64); !ok {
			mismatch()
		}
	}
}
