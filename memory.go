// FILE: lixenwraith/layercfg/memory.go
package config

// MemorySource serves a fixed map, typically application defaults registered first.
type MemorySource struct {
	sourceData
	name    string
	initial map[string]string
}

// NewMemorySource copies data into a new source. name may be empty.
func NewMemorySource(name string, data map[string]string) *MemorySource {
	initial := make(map[string]string, len(data))
	for k, v := range data {
		initial[k] = v
	}
	if name == "" {
		name = "memory"
	}
	return &MemorySource{name: name, initial: initial}
}

// Name identifies the source
func (s *MemorySource) Name() string {
	return s.name
}

// Load publishes the map. Keys that differ only in case are rejected.
func (s *MemorySource) Load() error {
	data := NewValues()
	for k, v := range s.initial {
		if data.Has(k) {
			e := formatError("duplicate key")
			e.Source = s.name
			e.Key = k
			return e
		}
		data.Set(k, v)
	}
	s.replace(data)
	return nil
}
