// FILE: lixenwraith/layercfg/decode.go
package config

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Bind copies the keys under section into target, a non-nil pointer to a
// struct or map. Field names match key segments ignoring case, or the
// `config` tag when present. Values stay strings: target leaf fields must be
// string-typed, since the store performs no type conversion.
func (c *Config) Bind(section string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		e := invalidArgument(fmt.Sprintf("bind target must be non-nil pointer, got %T", target))
		e.Key = section
		return e
	}

	nested, err := nestedFromFlat(subtree(c.AllSettings(), section))
	if err != nil {
		return fmt.Errorf("failed to bind section %q: %w", section, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          StructTag,
		WeaklyTypedInput: false,
		ZeroFields:       false,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(nested); err != nil {
		return fmt.Errorf("failed to bind section %q into %T: %w", section, target, err)
	}
	return nil
}
