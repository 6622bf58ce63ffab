// FILE: lixenwraith/layercfg/config.go
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// mergedEntry is the effective value of one key and the index of the source supplying it
type mergedEntry struct {
	key    string
	value  string
	source int
}

// Config is the merged read view over an ordered list of sources.
// For any key the value comes from the most recently added source that
// defines it. The view is a snapshot taken at Build or Reload time; reading
// is safe for concurrent use, including during Reload.
type Config struct {
	sources []Source
	merged  map[string]mergedEntry // normalized key -> effective entry
	logger  zerolog.Logger
	mutex   sync.RWMutex
}

func newConfig(sources []Source, logger zerolog.Logger) *Config {
	return &Config{
		sources: sources,
		merged:  make(map[string]mergedEntry),
		logger:  logger,
	}
}

// merge scans sources from last to first; the first source found for a key wins.
func merge(sources []Source) map[string]mergedEntry {
	merged := make(map[string]mergedEntry)
	for i := len(sources) - 1; i >= 0; i-- {
		for _, key := range sources[i].Keys() {
			norm := NormalizeKey(key)
			if _, seen := merged[norm]; seen {
				continue
			}
			value, ok := sources[i].Lookup(key)
			if !ok {
				continue
			}
			merged[norm] = mergedEntry{key: key, value: value, source: i}
		}
	}
	return merged
}

// Get returns the effective value for key. The second result is false when
// no source defines the key; an empty value from a source is still present.
func (c *Config) Get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.merged[NormalizeKey(key)]
	return e.value, ok
}

// String returns the effective value for key or an error wrapping ErrKeyNotFound.
func (c *Config) String(key string) (string, error) {
	val, found := c.Get(key)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return val, nil
}

// GetOr returns the effective value for key, or fallback when absent.
func (c *Config) GetOr(key, fallback string) string {
	if val, found := c.Get(key); found {
		return val
	}
	return fallback
}

// Has reports whether any source defines key
func (c *Config) Has(key string) bool {
	_, found := c.Get(key)
	return found
}

// Provenance returns the name of the source supplying the effective value for key.
func (c *Config) Provenance(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.merged[NormalizeKey(key)]
	if !ok {
		return "", false
	}
	return c.sources[e.source].Name(), true
}

// Keys returns every effective key, ordered case-insensitively.
func (c *Config) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	norms := make([]string, 0, len(c.merged))
	for norm := range c.merged {
		norms = append(norms, norm)
	}
	sort.Strings(norms)

	keys := make([]string, len(norms))
	for i, norm := range norms {
		keys[i] = c.merged[norm].key
	}
	return keys
}

// AllSettings returns a copy of the merged view keyed by effective spelling.
func (c *Config) AllSettings() map[string]string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make(map[string]string, len(c.merged))
	for _, e := range c.merged {
		out[e.key] = e.value
	}
	return out
}

// ChildKeys returns the distinct segments directly below parent, ordered
// case-insensitively. An empty parent lists the top-level segments.
func (c *Config) ChildKeys(parent string) []string {
	var parentSegs []string
	if parent != "" {
		parentSegs = SplitKey(NormalizeKey(parent))
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	children := make(map[string]string) // normalized segment -> spelling
	for norm, e := range c.merged {
		normSegs := SplitKey(norm)
		if len(normSegs) <= len(parentSegs) || !segmentsHavePrefix(normSegs, parentSegs) {
			continue
		}
		seg := SplitKey(e.key)[len(parentSegs)]
		segNorm := normSegs[len(parentSegs)]
		if _, seen := children[segNorm]; !seen {
			children[segNorm] = seg
		}
	}

	norms := make([]string, 0, len(children))
	for n := range children {
		norms = append(norms, n)
	}
	sort.Strings(norms)

	out := make([]string, len(norms))
	for i, n := range norms {
		out[i] = children[n]
	}
	return out
}

func segmentsHavePrefix(segs, prefix []string) bool {
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Section returns a read view scoped below key.
func (c *Config) Section(key string) *Section {
	return &Section{cfg: c, path: key}
}

// Sources returns the registered sources in registration order.
func (c *Config) Sources() []Source {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return append([]Source(nil), c.sources...)
}

// Section is a view of the keys under a path of a Config
type Section struct {
	cfg  *Config
	path string
}

// Path returns the full key of the section
func (s *Section) Path() string {
	return s.path
}

// Key returns the last segment of the section path
func (s *Section) Key() string {
	return LastSegment(s.path)
}

// Value returns the value stored at the section path itself, if any
func (s *Section) Value() (string, bool) {
	return s.cfg.Get(s.path)
}

// Get returns the value of key relative to the section
func (s *Section) Get(key string) (string, bool) {
	return s.cfg.Get(s.fullKey(key))
}

// Section returns a nested view
func (s *Section) Section(key string) *Section {
	return &Section{cfg: s.cfg, path: s.fullKey(key)}
}

// ChildKeys lists the segments directly below the section
func (s *Section) ChildKeys() []string {
	return s.cfg.ChildKeys(s.path)
}

// Exists reports whether the section has a value or any children
func (s *Section) Exists() bool {
	if _, ok := s.Value(); ok {
		return true
	}
	return len(s.ChildKeys()) > 0
}

func (s *Section) fullKey(key string) string {
	if s.path == "" {
		return key
	}
	return CombineKey(s.path, key)
}
