// FILE: lixenwraith/layercfg/builder.go
package config

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// Builder collects sources in precedence order: each source added overrides
// the ones added before it.
type Builder struct {
	sources []Source
	logger  zerolog.Logger
	err     error
}

// NewBuilder creates an empty configuration builder
func NewBuilder() *Builder {
	return &Builder{
		sources: make([]Source, 0),
		logger:  zerolog.Nop(),
	}
}

// WithLogger sets the logger used while loading sources
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Add appends a source. A nil source, including a nil pointer of a concrete
// source type, is recorded as an error reported by Build.
func (b *Builder) Add(src Source) *Builder {
	if isNilSource(src) {
		return b.add(nil, invalidArgument("source cannot be nil"))
	}
	return b.add(src, nil)
}

func isNilSource(src Source) bool {
	if src == nil {
		return true
	}
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// add registers src or remembers the first construction error
func (b *Builder) add(src Source, err error) *Builder {
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("invalid source %d: %w", len(b.sources), err)
		}
		return b
	}
	b.sources = append(b.sources, src)
	return b
}

// AddCommandLine adds a command-line source without switch mappings
func (b *Builder) AddCommandLine(args []string) *Builder {
	return b.add(NewCommandLineSource(args, nil))
}

// AddCommandLineWithMappings adds a command-line source that resolves short
// switches through switchMappings
func (b *Builder) AddCommandLineWithMappings(args []string, switchMappings map[string]string, opts ...CommandLineOption) *Builder {
	return b.add(NewCommandLineSource(args, switchMappings, opts...))
}

// AddIniFile adds an INI file source
func (b *Builder) AddIniFile(provider FileProvider, path string, optional bool) *Builder {
	return b.add(NewIniFileSource(provider, path, optional))
}

// AddFile adds a TOML, JSON or YAML file source, picking the format from the extension
func (b *Builder) AddFile(provider FileProvider, path string, optional bool) *Builder {
	return b.add(NewFileSource(provider, path, optional, FormatAuto))
}

// AddTomlFile adds a TOML file source
func (b *Builder) AddTomlFile(provider FileProvider, path string, optional bool) *Builder {
	return b.add(NewFileSource(provider, path, optional, FormatTOML))
}

// AddJSONFile adds a JSON file source
func (b *Builder) AddJSONFile(provider FileProvider, path string, optional bool) *Builder {
	return b.add(NewFileSource(provider, path, optional, FormatJSON))
}

// AddYamlFile adds a YAML file source
func (b *Builder) AddYamlFile(provider FileProvider, path string, optional bool) *Builder {
	return b.add(NewFileSource(provider, path, optional, FormatYAML))
}

// AddDotEnvFile adds a .env file source
func (b *Builder) AddDotEnvFile(provider FileProvider, path string, optional bool) *Builder {
	return b.add(NewDotEnvFileSource(provider, path, optional))
}

// AddEnv adds an environment variable source
func (b *Builder) AddEnv(prefix string) *Builder {
	return b.add(NewEnvSource(prefix), nil)
}

// AddMap adds an in-memory source
func (b *Builder) AddMap(name string, data map[string]string) *Builder {
	return b.add(NewMemorySource(name, data), nil)
}

// AddDefaults adds a source built from the fields of a struct
func (b *Builder) AddDefaults(defaults any) *Builder {
	return b.add(NewStructSource("defaults", defaults))
}

// Build loads all sources in order and returns the merged configuration.
// The first construction or load error aborts the build and no Config is returned.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg := newConfig(append([]Source(nil), b.sources...), b.logger)
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}
