// FILE: lixenwraith/layercfg/convenience.go
package config

import (
	"fmt"
	"os"
)

// Quick builds a Config with the usual layering, lowest precedence first:
// defaults, the optional INI file iniPath (relative to the working directory),
// environment variables with envPrefix, then os.Args[1:].
func Quick(defaults map[string]string, iniPath, envPrefix string) (*Config, error) {
	b := NewBuilder()
	if defaults != nil {
		b.AddMap("defaults", defaults)
	}
	if iniPath != "" {
		b.AddIniFile(NewDirProvider("."), iniPath, true)
	}
	return b.AddEnv(envPrefix).
		AddCommandLine(os.Args[1:]).
		Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(defaults map[string]string, iniPath, envPrefix string) *Config {
	cfg, err := Quick(defaults, iniPath, envPrefix)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}
