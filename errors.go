// FILE: lixenwraith/layercfg/errors.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by errors.Is against any *Error of the same kind.
var (
	ErrNotFound        = errors.New("configuration source not found")
	ErrFormat          = errors.New("configuration format error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrKeyNotFound     = errors.New("key not present")
)

// ErrorKind discriminates the failure classes of source construction and loading.
type ErrorKind int

const (
	// KindNotFound means required backing data (usually a file) is absent
	KindNotFound ErrorKind = iota
	// KindFormat means the backing data is malformed
	KindFormat
	// KindInvalidArgument means a constructor argument or switch alias was rejected
	KindInvalidArgument
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindFormat:
		return "format"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindFormat:
		return ErrFormat
	default:
		return ErrInvalidArgument
	}
}

// Error carries the kind of failure plus whatever context is known about it.
// Zero-valued fields are omitted from the message.
type Error struct {
	Kind   ErrorKind
	Source string // source name, e.g. "ini:app.ini"
	Path   string // file path
	Line   int    // 1-based line number, 0 if unknown
	Raw    string // offending raw line or token
	Key    string // offending key or switch
	Msg    string
	Err    error // underlying cause
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Msg)
	if e.Path != "" {
		fmt.Fprintf(&sb, " (path %q", e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&sb, ", line %d", e.Line)
		}
		sb.WriteString(")")
	} else if e.Line > 0 {
		fmt.Fprintf(&sb, " (line %d)", e.Line)
	}
	if e.Key != "" {
		fmt.Fprintf(&sb, " key %q", e.Key)
	}
	if e.Raw != "" {
		fmt.Fprintf(&sb, ": %q", e.Raw)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is reports whether target is the sentinel for e's kind
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

func notFoundError(path, msg string) *Error {
	return &Error{Kind: KindNotFound, Path: path, Msg: msg}
}

func formatError(msg string) *Error {
	return &Error{Kind: KindFormat, Msg: msg}
}

func invalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

// ErrorKindOf extracts the kind from err. The second result is false when err
// does not wrap an *Error.
func ErrorKindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
