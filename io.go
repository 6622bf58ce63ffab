// FILE: lixenwraith/layercfg/io.go
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// WriteTOML writes the merged view as a TOML document. Each key segment
// becomes a table level and every value is written as a string.
func (c *Config) WriteTOML(w io.Writer) error {
	nested, err := nestedFromFlat(c.AllSettings())
	if err != nil {
		return fmt.Errorf("failed to export config: %w", err)
	}

	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(nested); err != nil {
		return fmt.Errorf("failed to marshal config data to TOML: %w", err)
	}
	return nil
}

// Save writes the merged view to a TOML file atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := c.WriteTOML(&buf); err != nil {
		return err
	}
	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile writes data to a temporary file next to path, syncs it and
// renames it over path. Errors name path; the temporary file never survives.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to save config to '%s': create directory: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save config to '%s': create temporary file: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // No-op after a successful rename

	if err := writeSynced(tmp, data); err != nil {
		return fmt.Errorf("failed to save config to '%s': %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to save config to '%s': set permissions: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to save config to '%s': replace file: %w", path, err)
	}
	return nil
}

// writeSynced writes data, flushes it to disk and closes f
func writeSynced(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}
	return nil
}
