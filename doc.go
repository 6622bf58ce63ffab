// FILE: lixenwraith/layercfg/doc.go

// Package config assembles configuration from an ordered list of sources into
// one flattened, case-insensitive key namespace. Keys are colon-delimited
// paths ("Db:host"); a source added later overrides earlier sources at the
// same key.
//
// Sources:
//   - Command line (--key=value, --key value, /key=value, -k via switch mappings)
//   - INI files ([Section] prefixes, ; # / comments, quoted values)
//   - TOML, JSON and YAML files, flattened with ":" and array indexes
//   - Environment variables and .env files ("__" maps to ":")
//   - In-memory maps and default structs
//
// Quick Start:
//
//	cfg, err := config.NewBuilder().
//	    AddMap("defaults", map[string]string{"Db:host": "localhost"}).
//	    AddIniFile(config.NewDirProvider("/etc/myapp"), "app.ini", true).
//	    AddEnv("MYAPP_").
//	    AddCommandLineWithMappings(os.Args[1:], map[string]string{"-h": "Db:host"}).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.Get("db:HOST")
//
// Errors:
// Construction and load failures are *Error values carrying a Kind
// (NotFound, Format, InvalidArgument) and the offending path, line or key.
// They match ErrNotFound, ErrFormat and ErrInvalidArgument with errors.Is.
// Build is fail-fast: the first failing source aborts it.
//
// Values are strings. The store performs no type conversion or validation.
//
// Thread Safety:
// Config reads are safe for concurrent use and may run during Reload.
// Individual sources should not be loaded concurrently with each other.
package config
