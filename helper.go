// FILE: lixenwraith/layercfg/helper.go
package config

// nestedFromFlat builds a nested map[string]any from flattened entries.
// Segments are matched ignoring case and keep their first-seen spelling.
// A key that is both a leaf and a parent (a=1 and a:b=2) is a format error.
func nestedFromFlat(entries map[string]string) (map[string]any, error) {
	nested := make(map[string]any)

	// Sorted keys make the first-seen spelling deterministic
	flat := NewValues()
	for k, v := range entries {
		flat.Set(k, v)
	}
	for _, key := range flat.Keys() {
		value, _ := flat.Lookup(key)
		if err := setNestedValue(nested, SplitKey(key), value); err != nil {
			return nil, err
		}
	}
	return nested, nil
}

// setNestedValue stores value at segments, creating intermediate maps.
func setNestedValue(nested map[string]any, segments []string, value string) error {
	current := nested
	for i, segment := range segments {
		name := matchSegment(current, segment)
		last := i == len(segments)-1

		existing, exists := current[name]
		if last {
			if exists {
				e := formatError("key is both a value and a section")
				e.Key = CombineKey(segments...)
				return e
			}
			current[name] = value
			return nil
		}

		if !exists {
			next := make(map[string]any)
			current[name] = next
			current = next
			continue
		}
		next, isMap := existing.(map[string]any)
		if !isMap {
			e := formatError("key is both a value and a section")
			e.Key = CombineKey(segments[:i+1]...)
			return e
		}
		current = next
	}
	return nil
}

// matchSegment returns the existing map key equal to segment ignoring case, or segment itself
func matchSegment(m map[string]any, segment string) string {
	if _, ok := m[segment]; ok {
		return segment
	}
	for k := range m {
		if KeysEqual(k, segment) {
			return k
		}
	}
	return segment
}

// subtree returns the entries under prefix with the prefix removed.
// An empty prefix returns everything.
func subtree(entries map[string]string, prefix string) map[string]string {
	if prefix == "" {
		return entries
	}
	prefixSegs := SplitKey(NormalizeKey(prefix))

	out := make(map[string]string)
	for key, value := range entries {
		segs := SplitKey(key)
		if len(segs) <= len(prefixSegs) {
			continue
		}
		if !segmentsHavePrefix(SplitKey(NormalizeKey(key)), prefixSegs) {
			continue
		}
		out[CombineKey(segs[len(prefixSegs):]...)] = value
	}
	return out
}
