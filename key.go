// FILE: lixenwraith/layercfg/key.go
package config

import (
	"sort"
	"strings"
	"unicode"
)

// KeyDelimiter separates the segments of a flattened key
const KeyDelimiter = ":"

// CombineKey joins path segments into a flattened key.
func CombineKey(segments ...string) string {
	return strings.Join(segments, KeyDelimiter)
}

// SplitKey splits a flattened key into its segments. Empty segments are kept.
func SplitKey(key string) []string {
	return strings.Split(key, KeyDelimiter)
}

// ParentKey returns everything before the last delimiter, or "" for a single-segment key.
func ParentKey(key string) string {
	if i := strings.LastIndex(key, KeyDelimiter); i >= 0 {
		return key[:i]
	}
	return ""
}

// LastSegment returns the text after the last delimiter.
func LastSegment(key string) string {
	if i := strings.LastIndex(key, KeyDelimiter); i >= 0 {
		return key[i+len(KeyDelimiter):]
	}
	return key
}

// NormalizeKey returns the canonical form used for key comparison. Each rune
// maps to exactly one rune, so "straße" and "STRASSE" stay distinct.
func NormalizeKey(key string) string {
	return strings.Map(foldRune, key)
}

// foldRune maps r to the lower case of its upper case form
func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}

// KeysEqual compares two keys segment by segment, ignoring case.
func KeysEqual(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}

type valueEntry struct {
	key   string // spelling as first seen
	value string
}

// Values is a flat key/value map with case-insensitive keys.
// It is not safe for concurrent mutation.
type Values struct {
	entries map[string]valueEntry
}

// NewValues creates an empty Values.
func NewValues() *Values {
	return &Values{entries: make(map[string]valueEntry)}
}

// Set stores value under key, replacing any entry whose key differs only in case.
// The original spelling of an existing key is retained.
func (v *Values) Set(key, value string) {
	norm := NormalizeKey(key)
	if e, ok := v.entries[norm]; ok {
		e.value = value
		v.entries[norm] = e
		return
	}
	v.entries[norm] = valueEntry{key: key, value: value}
}

// Lookup returns the value stored under key.
func (v *Values) Lookup(key string) (string, bool) {
	if v == nil {
		return "", false
	}
	e, ok := v.entries[NormalizeKey(key)]
	return e.value, ok
}

// Has reports whether key is present.
func (v *Values) Has(key string) bool {
	_, ok := v.Lookup(key)
	return ok
}

// Len returns the number of keys.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Keys returns all keys in their first-seen spelling, ordered by normalized form.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	norms := make([]string, 0, len(v.entries))
	for norm := range v.entries {
		norms = append(norms, norm)
	}
	sort.Strings(norms)

	keys := make([]string, len(norms))
	for i, norm := range norms {
		keys[i] = v.entries[norm].key
	}
	return keys
}

// Map returns a plain copy keyed by first-seen spelling.
func (v *Values) Map() map[string]string {
	m := make(map[string]string, v.Len())
	if v == nil {
		return m
	}
	for _, e := range v.entries {
		m[e.key] = e.value
	}
	return m
}

// Clone returns an independent copy.
func (v *Values) Clone() *Values {
	c := NewValues()
	if v == nil {
		return c
	}
	for norm, e := range v.entries {
		c.entries[norm] = e
	}
	return c
}
