// FILE: lixenwraith/layercfg/cmdline.go
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandLineSource parses command-line tokens into flattened keys.
//
// Accepted forms:
//
//	--key=value   /key=value   -k=value
//	--key value   /key value   -k value
//	--key         /key         -k        (bound to the presence value)
//
// Short switches (single dash) are resolved through the switch mapping table.
// Without a table the text after the dash is used as the key. Long switches
// are also replaced when the table contains them.
type CommandLineSource struct {
	sourceData
	args          []string
	mappings      map[string]string // normalized alias -> canonical key
	presenceValue string
}

// CommandLineOption customizes a CommandLineSource
type CommandLineOption func(*CommandLineSource)

// WithPresenceValue sets the value bound to a switch that has no value token.
// The default is the empty string.
func WithPresenceValue(v string) CommandLineOption {
	return func(s *CommandLineSource) {
		s.presenceValue = v
	}
}

// NewCommandLineSource creates a source over args (program name already stripped).
// switchMappings may be nil. Each alias must start with "-" and map to a
// non-empty key; aliases must be unique ignoring case.
func NewCommandLineSource(args []string, switchMappings map[string]string, opts ...CommandLineOption) (*CommandLineSource, error) {
	s := &CommandLineSource{
		args: append([]string(nil), args...),
	}

	if switchMappings != nil {
		s.mappings = make(map[string]string, len(switchMappings))
		for alias, key := range switchMappings {
			if !strings.HasPrefix(alias, "-") {
				e := invalidArgument("switch alias must start with '-' or '--'")
				e.Key = alias
				return nil, e
			}
			if strings.TrimLeft(alias, "-") == "" {
				e := invalidArgument("switch alias has no name")
				e.Key = alias
				return nil, e
			}
			if key == "" {
				e := invalidArgument("switch alias maps to an empty key")
				e.Key = alias
				return nil, e
			}
			norm := NormalizeKey(alias)
			if _, dup := s.mappings[norm]; dup {
				e := invalidArgument("duplicate switch alias")
				e.Key = alias
				return nil, e
			}
			s.mappings[norm] = key
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the source
func (s *CommandLineSource) Name() string {
	return "cli"
}

// Load parses the arguments and replaces the source data.
func (s *CommandLineSource) Load() error {
	data, err := s.parse()
	if err != nil {
		return err
	}
	s.replace(data)
	return nil
}

func (s *CommandLineSource) parse() (*Values, error) {
	data := NewValues()

	for i := 0; i < len(s.args); i++ {
		arg := s.args[i]

		var body string
		short := false
		switch {
		case strings.HasPrefix(arg, "--"):
			body = arg[2:]
		case strings.HasPrefix(arg, "/"):
			body = arg[1:]
		case strings.HasPrefix(arg, "-"):
			body = arg[1:]
			short = true
		default:
			e := formatError("unexpected positional argument")
			e.Source = s.Name()
			e.Raw = arg
			return nil, e
		}

		// Split on the first '=' only; the switch part keeps its marker for alias lookup
		switchPart, value, hasValue := arg, "", false
		if idx := strings.Index(body, "="); idx >= 0 {
			switchPart = arg[:len(arg)-len(body)+idx]
			body, value, hasValue = body[:idx], body[idx+1:], true
		}

		key, err := s.resolveKey(switchPart, body, short)
		if err != nil {
			return nil, err
		}

		if !hasValue {
			if i+1 < len(s.args) && !s.looksLikeSwitch(s.args[i+1]) {
				value = s.args[i+1]
				i++
			} else {
				value = s.presenceValue
			}
		}

		// Later occurrences override earlier ones
		data.Set(key, value)
	}

	return data, nil
}

// resolveKey maps a switch to its configuration key
func (s *CommandLineSource) resolveKey(switchPart, body string, short bool) (string, error) {
	if s.mappings != nil {
		// A mapped '/' switch is addressed by its '--' form
		lookup := switchPart
		if strings.HasPrefix(lookup, "/") {
			lookup = "--" + lookup[1:]
		}
		if key, ok := s.mappings[NormalizeKey(lookup)]; ok {
			return key, nil
		}
		if short {
			e := invalidArgument("unrecognized short switch")
			e.Source = s.Name()
			e.Key = switchPart
			return "", e
		}
	}

	if body == "" {
		e := formatError("switch has an empty key")
		e.Source = s.Name()
		e.Raw = switchPart
		return "", e
	}
	return body, nil
}

// looksLikeSwitch decides whether the token following a value-less switch
// starts a new switch. "-" alone and negative numbers are values unless the
// token is a registered alias.
func (s *CommandLineSource) looksLikeSwitch(tok string) bool {
	switch {
	case strings.HasPrefix(tok, "--"), strings.HasPrefix(tok, "/"):
		return true
	case !strings.HasPrefix(tok, "-"), tok == "-":
		return false
	}

	name := tok
	if idx := strings.Index(name, "="); idx >= 0 {
		name = name[:idx]
	}
	if s.mappings != nil {
		if _, ok := s.mappings[NormalizeKey(name)]; ok {
			return true
		}
	}
	return !isNumeric(tok)
}

// isNumeric reports whether tok is a signed decimal number, e.g. "-5", "-0.25", "-.5", "-1e3".
// Other spellings ParseFloat accepts, such as "-inf", "-1_000" or "-0x1p-2", are not numbers here.
func isNumeric(tok string) bool {
	if len(tok) < 2 || (tok[1] != '.' && (tok[1] < '0' || tok[1] > '9')) {
		return false
	}
	if strings.IndexFunc(tok[1:], notDecimalRune) >= 0 {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

func notDecimalRune(r rune) bool {
	return !strings.ContainsRune("0123456789.eE+-", r)
}

// String describes the source for diagnostics
func (s *CommandLineSource) String() string {
	return fmt.Sprintf("cli(%d args)", len(s.args))
}
