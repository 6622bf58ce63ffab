// FILE: lixenwraith/layercfg/env.go
package config

import (
	"os"
	"strings"
)

// envSeparator marks a hierarchy level in environment variable names
const envSeparator = "__"

// EnvSource loads process environment variables whose names start with a prefix.
// The prefix is matched ignoring case and removed; "__" becomes ":", so with
// prefix "MYAPP_" the variable MYAPP_Server__Port maps to Server:Port.
type EnvSource struct {
	sourceData
	prefix  string
	environ func() []string
}

// NewEnvSource creates an environment source. An empty prefix loads every variable.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix, environ: os.Environ}
}

// Name identifies the source
func (s *EnvSource) Name() string {
	if s.prefix == "" {
		return "env"
	}
	return "env:" + s.prefix
}

// Load snapshots the matching variables and replaces the source data.
func (s *EnvSource) Load() error {
	data := NewValues()
	for _, kv := range s.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		key, ok := envKey(name, s.prefix)
		if !ok {
			continue
		}
		data.Set(key, value)
	}
	s.replace(data)
	return nil
}

// envKey strips prefix from name and converts the separator. It reports false
// when name does not carry the prefix or nothing is left after it.
func envKey(name, prefix string) (string, bool) {
	if prefix != "" {
		if len(name) < len(prefix) || !KeysEqual(name[:len(prefix)], prefix) {
			return "", false
		}
		name = name[len(prefix):]
	}
	if name == "" {
		return "", false
	}
	return strings.ReplaceAll(name, envSeparator, KeyDelimiter), true
}
