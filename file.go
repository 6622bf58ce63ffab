// FILE: lixenwraith/layercfg/file.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileFormat selects the parser of a FileSource
type FileFormat string

const (
	// FormatAuto detects the format from the file extension
	FormatAuto FileFormat = "auto"
	FormatTOML FileFormat = "toml"
	FormatJSON FileFormat = "json"
	FormatYAML FileFormat = "yaml"
)

// FileSource loads a TOML, JSON or YAML document and flattens it into keys.
// Nested tables join with ":" and array elements become index segments,
// so servers = ["a", "b"] yields servers:0=a and servers:1=b.
type FileSource struct {
	sourceData
	file   fileSpec
	format FileFormat
}

// NewFileSource creates a structured file source. With FormatAuto the
// extension must be one of .toml, .tml, .json, .yaml or .yml.
func NewFileSource(provider FileProvider, path string, optional bool, format FileFormat) (*FileSource, error) {
	spec, err := newFileSpec(provider, path, optional)
	if err != nil {
		return nil, err
	}

	if format == "" || format == FormatAuto {
		format = detectFileFormat(path)
		if format == "" {
			e := invalidArgument("unable to determine config format from extension")
			e.Path = path
			return nil, e
		}
	}
	switch format {
	case FormatTOML, FormatJSON, FormatYAML:
	default:
		e := invalidArgument(fmt.Sprintf("unsupported config format %q", format))
		e.Path = path
		return nil, e
	}

	return &FileSource{file: spec, format: format}, nil
}

// Name identifies the source
func (s *FileSource) Name() string {
	return string(s.format) + ":" + s.file.path
}

// Format returns the resolved file format
func (s *FileSource) Format() FileFormat {
	return s.format
}

// Load reads, parses and flattens the file, then replaces the source data.
func (s *FileSource) Load() error {
	r, err := s.file.open()
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Source = s.Name()
			return e
		}
		return fmt.Errorf("failed to read config file '%s': %w", s.file.path, err)
	}
	if r == nil {
		s.replace(NewValues())
		return nil
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", s.file.path, err)
	}

	doc, err := decodeDocument(s.format, raw)
	if err != nil {
		e := formatError(fmt.Sprintf("failed to parse %s config file", strings.ToUpper(string(s.format))))
		e.Source = s.Name()
		e.Path = s.file.path
		e.Err = err
		return e
	}

	data := NewValues()
	if err := flattenInto(data, "", doc); err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Source = s.Name()
			e.Path = s.file.path
		}
		return err
	}
	s.replace(data)
	return nil
}

func decodeDocument(format FileFormat, raw []byte) (any, error) {
	switch format {
	case FormatTOML:
		doc := make(map[string]any)
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	case FormatJSON:
		var doc any
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber() // Preserve number text
		if err := decoder.Decode(&doc); err != nil {
			return nil, err
		}
		return doc, nil
	default:
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
}

// flattenInto walks a decoded document and stores every leaf under its joined path.
// Keys that collide ignoring case are rejected, as in INI files.
func flattenInto(data *Values, prefix string, node any) error {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}
		return prefix + KeyDelimiter + seg
	}

	switch v := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flattenInto(data, join(k), v[k]); err != nil {
				return err
			}
		}
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, val := range v {
			converted[fmt.Sprint(k)] = val
		}
		return flattenInto(data, prefix, converted)
	case []map[string]any:
		for i, item := range v {
			if err := flattenInto(data, join(strconv.Itoa(i)), item); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range v {
			if err := flattenInto(data, join(strconv.Itoa(i)), item); err != nil {
				return err
			}
		}
	default:
		if prefix == "" {
			// Scalar document root has no key to live under
			return nil
		}
		if data.Has(prefix) {
			e := formatError("duplicate key")
			e.Key = prefix
			return e
		}
		data.Set(prefix, scalarString(v))
	}
	return nil
}

// scalarString renders a decoded leaf the way it would be written in the file
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}
