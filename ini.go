// FILE: lixenwraith/layercfg/ini.go
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineSize bounds a single INI line
const MaxLineSize = 1 << 20

// IniFileSource loads flattened keys from an INI file.
//
//	[Section]
//	key1=value1
//	key2 = " value2 "
//	; comment
//	# comment
//	/ comment
//
// yields Section:key1=value1 and Section:key2=" value2 " without the quotes.
type IniFileSource struct {
	sourceData
	file fileSpec
}

// NewIniFileSource creates a source reading path through provider.
// A missing optional file loads as empty data.
func NewIniFileSource(provider FileProvider, path string, optional bool) (*IniFileSource, error) {
	spec, err := newFileSpec(provider, path, optional)
	if err != nil {
		return nil, err
	}
	return &IniFileSource{file: spec}, nil
}

// Name identifies the source
func (s *IniFileSource) Name() string {
	return "ini:" + s.file.path
}

// Path returns the file path given at construction
func (s *IniFileSource) Path() string {
	return s.file.path
}

// Optional reports whether a missing file is tolerated
func (s *IniFileSource) Optional() bool {
	return s.file.optional
}

// Load reads and parses the file, then replaces the source data.
// On any error the previous data is kept.
func (s *IniFileSource) Load() error {
	r, err := s.file.open()
	if err != nil {
		return s.annotate(err)
	}
	if r == nil {
		s.replace(NewValues())
		return nil
	}
	defer r.Close()

	data, err := ParseIni(r)
	if err != nil {
		return s.annotate(err)
	}
	s.replace(data)
	return nil
}

func (s *IniFileSource) annotate(err error) error {
	var e *Error
	if errors.As(err, &e) {
		e.Source = s.Name()
		if e.Path == "" {
			e.Path = s.file.path
		}
		return e
	}
	return fmt.Errorf("failed to read config file '%s': %w", s.file.path, err)
}

// ParseIni parses INI text into flattened keys. The whole input is consumed
// before anything is returned; a malformed line or a duplicate key fails the parse.
func ParseIni(r io.Reader) (*Values, error) {
	data := NewValues()
	lines := make(map[string]int) // normalized key -> defining line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)
	scanner.Split(scanAnyLine)

	prefix := ""
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if lineNo == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch line[0] {
		case ';', '#', '/':
			continue
		case '[':
			if line[len(line)-1] == ']' {
				prefix = line[1:len(line)-1] + KeyDelimiter
				continue
			}
		}

		sep := strings.IndexByte(line, '=')
		if sep < 0 {
			e := formatError("unrecognized line format")
			e.Line = lineNo
			e.Raw = raw
			return nil, e
		}

		key := prefix + strings.TrimSpace(line[:sep])
		value := unquote(strings.TrimSpace(line[sep+1:]))

		norm := NormalizeKey(key)
		if first, dup := lines[norm]; dup {
			e := formatError(fmt.Sprintf("duplicate key (first defined on line %d)", first))
			e.Line = lineNo
			e.Key = key
			return nil, e
		}
		lines[norm] = lineNo
		data.Set(key, value)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			e := formatError("line exceeds maximum length")
			e.Line = lineNo + 1
			e.Err = err
			return nil, e
		}
		return nil, err
	}

	return data, nil
}

// unquote strips one pair of surrounding double quotes. No escapes are processed.
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// scanAnyLine is a bufio.SplitFunc that ends lines at "\n", "\r\n" or a lone "\r"
func scanAnyLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r': need one more byte to tell "\r\n" from a lone '\r'
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
