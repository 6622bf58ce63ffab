// FILE: lixenwraith/layercfg/struct.go
package config

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// StructTag names the struct tag that overrides a field's key segment
const StructTag = "config"

// StructSource flattens the exported fields of a struct into keys, typically
// to supply application defaults as the first source.
//
// The tag `config:"name"` renames a segment and `config:"-"` skips the field.
// Nested structs add a segment, slices add index segments and maps with
// string keys add one segment per entry. Nil pointers are skipped.
type StructSource struct {
	sourceData
	name  string
	value reflect.Value
}

// NewStructSource creates a source over v, a struct or non-nil struct pointer.
// A pointer is read again on every Load.
func NewStructSource(name string, v any) (*StructSource, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, invalidArgument("struct source requires a non-nil struct pointer or value")
		}
		if rv.Elem().Kind() != reflect.Struct {
			return nil, invalidArgument(fmt.Sprintf("struct source requires a struct or struct pointer, got %T", v))
		}
	} else if rv.Kind() != reflect.Struct {
		return nil, invalidArgument(fmt.Sprintf("struct source requires a struct or struct pointer, got %T", v))
	}
	if name == "" {
		name = "struct"
	}
	return &StructSource{name: name, value: rv}, nil
}

// Name identifies the source
func (s *StructSource) Name() string {
	return s.name
}

// Load renders the current field values and replaces the source data.
func (s *StructSource) Load() error {
	v := s.value
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	data := NewValues()
	if err := flattenValue(data, "", v); err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Source = s.name
		}
		return err
	}
	s.replace(data)
	return nil
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// flattenValue walks v and stores each leaf under its joined path
func flattenValue(data *Values, path string, v reflect.Value) error {
	join := func(seg string) string {
		if path == "" {
			return seg
		}
		return path + KeyDelimiter + seg
	}

	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil
	}

	// Leaf types that render themselves
	if v.Type().Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			e := invalidArgument("failed to render field")
			e.Key = path
			e.Err = err
			return e
		}
		return setLeaf(data, path, string(text))
	}
	if s, ok := v.Interface().(fmt.Stringer); ok && v.Kind() != reflect.Struct && v.Kind() != reflect.Ptr {
		return setLeaf(data, path, s.String())
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return flattenValue(data, path, v.Elem())

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			tag := field.Tag.Get(StructTag)
			if tag == "-" {
				continue // Skip this field
			}
			seg := field.Name
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				seg = name
			}

			// Anonymous embedded structs without a tag share the parent path
			if field.Anonymous && tag == "" && indirectKind(field.Type) == reflect.Struct {
				if err := flattenValue(data, path, v.Field(i)); err != nil {
					return err
				}
				continue
			}
			if err := flattenValue(data, join(seg), v.Field(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return setLeaf(data, path, string(v.Bytes()))
		}
		for i := 0; i < v.Len(); i++ {
			if err := flattenValue(data, join(strconv.Itoa(i)), v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			e := invalidArgument(fmt.Sprintf("unsupported map key type %s", v.Type().Key()))
			e.Key = path
			return e
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := flattenValue(data, join(iter.Key().String()), iter.Value()); err != nil {
				return err
			}
		}
		return nil

	case reflect.String:
		return setLeaf(data, path, v.String())
	case reflect.Bool:
		return setLeaf(data, path, strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setLeaf(data, path, strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setLeaf(data, path, strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return setLeaf(data, path, strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()))
	default:
		e := invalidArgument(fmt.Sprintf("unsupported field type %s", v.Type()))
		e.Key = path
		return e
	}
}

func indirectKind(t reflect.Type) reflect.Kind {
	if t.Kind() == reflect.Ptr {
		return t.Elem().Kind()
	}
	return t.Kind()
}

func setLeaf(data *Values, path, value string) error {
	if path == "" {
		return invalidArgument("struct source has a leaf without a key")
	}
	if data.Has(path) {
		e := formatError("duplicate key")
		e.Key = path
		return e
	}
	data.Set(path, value)
	return nil
}
