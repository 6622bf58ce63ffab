// FILE: lixenwraith/layercfg/dotenv.go
package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
)

// DotEnvFileSource loads KEY=value pairs from a .env file without touching the
// process environment. Names map to keys as in EnvSource, without a prefix.
type DotEnvFileSource struct {
	sourceData
	file fileSpec
}

// NewDotEnvFileSource creates a source reading path through provider.
func NewDotEnvFileSource(provider FileProvider, path string, optional bool) (*DotEnvFileSource, error) {
	spec, err := newFileSpec(provider, path, optional)
	if err != nil {
		return nil, err
	}
	return &DotEnvFileSource{file: spec}, nil
}

// Name identifies the source
func (s *DotEnvFileSource) Name() string {
	return "dotenv:" + s.file.path
}

// Load parses the file and replaces the source data.
func (s *DotEnvFileSource) Load() error {
	r, err := s.file.open()
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Source = s.Name()
			return e
		}
		return fmt.Errorf("failed to read dotenv file '%s': %w", s.file.path, err)
	}
	if r == nil {
		s.replace(NewValues())
		return nil
	}
	defer r.Close()

	parsed, err := godotenv.Parse(r)
	if err != nil {
		e := formatError("failed to parse dotenv file")
		e.Source = s.Name()
		e.Path = s.file.path
		e.Err = err
		return e
	}

	data := NewValues()
	for name, value := range parsed {
		key, ok := envKey(name, "")
		if !ok {
			continue
		}
		if data.Has(key) {
			e := formatError("duplicate key")
			e.Source = s.Name()
			e.Path = s.file.path
			e.Key = key
			return e
		}
		data.Set(key, value)
	}
	s.replace(data)
	return nil
}
