// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// DuplicateJSONKey is a key that appears more than once in a JSON object;
// encoding/json silently keeps the last value.
type DuplicateJSONKey struct {
	Path string // dotted path to the enclosing object, e.g. "aero"
	Key  string
}

// FindDuplicateJSONKeys returns every duplicated object key in data, in
// document order. Malformed JSON yields the duplicates found before the
// error.
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	dec := json.NewDecoder(bytes.NewReader(data))
	var dups []DuplicateJSONKey

	var walk func(path []string) error
	walk = func(path []string) error {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		delim, ok := tok.(json.Delim)
		if !ok {
			return nil
		}

		switch delim {
		case '{':
			seen := make(map[string]bool)
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := kt.(string)
				if seen[key] {
					dups = append(dups, DuplicateJSONKey{Path: strings.Join(path, "."), Key: key})
				}
				seen[key] = true

				if err := walk(append(path, key)); err != nil {
					return err
				}
			}
		case '[':
			// Array elements share the array's path.
			for dec.More() {
				if err := walk(path); err != nil {
					return err
				}
			}
		}

		_, err = dec.Token() // closing delimiter
		return err
	}
	walk(nil)

	return dups
}

// UnmarshalJSONBytes is json.Unmarshal with the byte offset in syntax and
// type errors translated to a line and column.
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	position := func(offset int64) (line, char int) {
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

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := position(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %w", line, char, jerr)

	case *json.UnmarshalTypeError:
		line, char := position(jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %s value for %s.%s invalid for type %s",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String())

	default:
		return err
	}
}

// CheckJSON reports, through e, syntax errors in contents and any object
// keys that do not correspond to a field of T, which are usually
// misspellings that encoding/json would otherwise ignore.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	var items any
	if err := UnmarshalJSONBytes(contents, &items); err != nil {
		e.Error(err)
		return
	}

	fields := make(map[reflect.Type]map[string]reflect.Type)
	typeCheckJSON(items, reflect.TypeFor[T](), fields, e)
}

func typeCheckJSON(v any, ty reflect.Type, fields map[reflect.Type]map[string]reflect.Type, e *ErrorLogger) {
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	switch ty.Kind() {
	case reflect.Array, reflect.Slice:
		array, ok := v.([]any)
		if !ok {
			e.ErrorString("expected an array, got %s", describeJSON(v))
			return
		}
		if ty.Kind() == reflect.Array && len(array) > ty.Len() {
			e.ErrorString("expected at most %d elements, got %d", ty.Len(), len(array))
		}
		for _, item := range array {
			typeCheckJSON(item, ty.Elem(), fields, e)
		}

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok {
			e.ErrorString("expected an object, got %s", describeJSON(v))
			return
		}
		for k, item := range m {
			e.Push(k)
			typeCheckJSON(item, ty.Elem(), fields, e)
			e.Pop()
		}

	case reflect.Struct:
		items, ok := v.(map[string]any)
		if !ok {
			e.ErrorString("expected an object, got %s", describeJSON(v))
			return
		}

		// JSON name to field type, cached per struct type.
		types, ok := fields[ty]
		if !ok {
			types = make(map[string]reflect.Type)
			for _, field := range reflect.VisibleFields(ty) {
				if jtag, ok := field.Tag.Lookup("json"); ok {
					name, _, _ := strings.Cut(jtag, ",")
					types[name] = field.Type
				}
			}
			fields[ty] = types
		}

		for name, item := range items {
			if fty, ok := types[name]; ok {
				e.Push(name)
				typeCheckJSON(item, fty, fields, e)
				e.Pop()
			} else {
				e.ErrorString("The entry %q is not an expected JSON object. Is it misspelled?", name)
			}
		}

	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		if _, ok := v.(float64); !ok {
			e.ErrorString("expected a number, got %s", describeJSON(v))
		}

	case reflect.String:
		if _, ok := v.(string); !ok {
			e.ErrorString("expected a string, got %s", describeJSON(v))
		}
	}
}

func describeJSON(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", v)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%v", v)
	}
}
