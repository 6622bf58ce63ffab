// FILE: lixenwraith/layercfg/source.go
package config

import "sync"

// Source is a pluggable origin of configuration key/value pairs.
// Load replaces the source's data wholesale; Lookup and Keys read the
// snapshot produced by the most recent successful Load.
type Source interface {
	// Name identifies the origin in errors and logs
	Name() string
	Load() error
	Lookup(key string) (string, bool)
	Keys() []string
}

// sourceData holds the loaded snapshot shared by all built-in sources.
// The snapshot pointer is swapped under the lock; a *Values is never mutated
// after it has been published. A nil snapshot reads as empty.
type sourceData struct {
	mutex sync.RWMutex
	data  *Values
}

// replace publishes a freshly built snapshot
func (s *sourceData) replace(v *Values) {
	if v == nil {
		v = NewValues()
	}
	s.mutex.Lock()
	s.data = v
	s.mutex.Unlock()
}

func (s *sourceData) snapshot() *Values {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.data
}

// Lookup returns the value for key from the last loaded snapshot
func (s *sourceData) Lookup(key string) (string, bool) {
	return s.snapshot().Lookup(key)
}

// Keys returns the keys of the last loaded snapshot
func (s *sourceData) Keys() []string {
	return s.snapshot().Keys()
}

// Data returns a copy of the last loaded snapshot
func (s *sourceData) Data() map[string]string {
	return s.snapshot().Map()
}
