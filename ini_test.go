// FILE: lixenwraith/layercfg/ini_test.go
package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseIniString(t *testing.T, text string) (map[string]string, error) {
	t.Helper()
	v, err := ParseIni(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return v.Map(), nil
}

func TestParseIni(t *testing.T) {
	t.Run("DocumentedExample", func(t *testing.T) {
		data, err := parseIniString(t, "[Section]\nkey1=value1\nkey2 = \" value2 \"\n; comment\n# comment\n/ comment\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Section:key1": "value1",
			"Section:key2": " value2 ",
		}, data)
	})

	t.Run("SectionScoping", func(t *testing.T) {
		data, err := parseIniString(t, "[Db]\nhost=localhost\n[Cache]\nhost=redis")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Db:host":    "localhost",
			"Cache:host": "redis",
		}, data)
	})

	t.Run("KeysBeforeFirstSection", func(t *testing.T) {
		data, err := parseIniString(t, "top=1\n[S]\ninner=2\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"top": "1", "S:inner": "2"}, data)
	})

	t.Run("SectionTextVerbatim", func(t *testing.T) {
		data, err := parseIniString(t, "[Logging:LogLevel]\nDefault=Warning\n[ spaced name ]\nk=v\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Logging:LogLevel:Default": "Warning",
			" spaced name :k":          "v",
		}, data)
	})

	t.Run("CommentsAndBlankLinesContributeNothing", func(t *testing.T) {
		data, err := parseIniString(t, "\n   \n\t\n; a=1\n# b=2\n/ c=3\n   ;indented=4\n")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("FirstEqualsSplits", func(t *testing.T) {
		data, err := parseIniString(t, "conn = host=db;port=5432\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"conn": "host=db;port=5432"}, data)
	})

	t.Run("QuoteHandling", func(t *testing.T) {
		data, err := parseIniString(t, strings.Join([]string{
			`a = "quoted"`,
			`b = ""`,
			`c = "`,
			`d = "only leading`,
			`e = ""double""`,
			`f = 'single'`,
			`g =`,
		}, "\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"a": "quoted",
			"b": "",
			"c": `"`,
			"d": `"only leading`,
			"e": `"double"`,
			"f": "'single'",
			"g": "",
		}, data)
	})

	t.Run("LineEndings", func(t *testing.T) {
		for name, text := range map[string]string{
			"LF":   "[S]\na=1\nb=2\n",
			"CRLF": "[S]\r\na=1\r\nb=2\r\n",
			"CR":   "[S]\ra=1\rb=2\r",
			"Mix":  "[S]\r\na=1\rb=2",
		} {
			data, err := parseIniString(t, text)
			require.NoError(t, err, name)
			assert.Equal(t, map[string]string{"S:a": "1", "S:b": "2"}, data, name)
		}
	})

	t.Run("ByteOrderMark", func(t *testing.T) {
		data, err := parseIniString(t, "\ufeff[S]\na=1\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"S:a": "1"}, data)
	})

	t.Run("MissingEquals", func(t *testing.T) {
		_, err := parseIniString(t, "[S]\na=1\n  justsometext  \n")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFormat)

		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, "  justsometext  ", e.Raw)
		assert.Equal(t, 3, e.Line)
	})

	t.Run("UnclosedSectionNeedsEquals", func(t *testing.T) {
		_, err := parseIniString(t, "[Section\n")
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("DuplicateKeyInSameSection", func(t *testing.T) {
		_, err := parseIniString(t, "a=1\nb=x\na=2\n")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFormat)

		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, "a", e.Key)
		assert.Equal(t, 3, e.Line)
	})

	t.Run("DuplicateKeyIgnoresCase", func(t *testing.T) {
		_, err := parseIniString(t, "[S]\nKey=1\n[s]\nkey=2\n")
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("ExpandingCaseFormsAreDistinct", func(t *testing.T) {
		data, err := parseIniString(t, "straße=1\nSTRASSE=2\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"straße": "1", "STRASSE": "2"}, data)
	})

	t.Run("RepeatedSectionDistinctKeys", func(t *testing.T) {
		data, err := parseIniString(t, "[S]\na=1\n[T]\nb=2\n[S]\nc=3\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"S:a": "1", "T:b": "2", "S:c": "3"}, data)
	})

	t.Run("LineTooLong", func(t *testing.T) {
		_, err := parseIniString(t, "a="+strings.Repeat("x", MaxLineSize+1))
		assert.ErrorIs(t, err, ErrFormat)
	})
}

// closeTracker records whether every opened stream was closed
type closeTracker struct {
	FileProvider
	opened, closed int
}

type trackedReader struct {
	io.ReadCloser
	t *closeTracker
}

func (r *trackedReader) Close() error {
	r.t.closed++
	return r.ReadCloser.Close()
}

func (c *closeTracker) Open(h FileHandle) (io.ReadCloser, error) {
	rc, err := c.FileProvider.Open(h)
	if err != nil {
		return nil, err
	}
	c.opened++
	return &trackedReader{ReadCloser: rc, t: c}, nil
}

func TestIniFileSource(t *testing.T) {
	fsys := fstest.MapFS{
		"app.ini":      {Data: []byte("[Db]\nhost=localhost\nport=5432\n")},
		"broken.ini":   {Data: []byte("[Db]\nhost=localhost\njustsometext\n")},
		"dup.ini":      {Data: []byte("a=1\na=2\n")},
		"conf/dir.ini": {Data: []byte("x=1\n")},
	}
	provider := NewFSProvider(fsys)

	t.Run("LoadsFile", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "app.ini", false)
		require.NoError(t, err)
		require.NoError(t, src.Load())

		assert.Equal(t, map[string]string{"Db:host": "localhost", "Db:port": "5432"}, src.Data())
		val, ok := src.Lookup("db:HOST")
		assert.True(t, ok)
		assert.Equal(t, "localhost", val)
		assert.Equal(t, "ini:app.ini", src.Name())
		assert.Equal(t, "app.ini", src.Path())
		assert.False(t, src.Optional())
	})

	t.Run("MissingOptional", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "missing.ini", true)
		require.NoError(t, err)
		require.NoError(t, src.Load())
		assert.Empty(t, src.Data())
	})

	t.Run("MissingRequired", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "missing.ini", false)
		require.NoError(t, err)

		err = src.Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "missing.ini")
	})

	t.Run("DirectoryIsMissing", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "conf", false)
		require.NoError(t, err)
		assert.ErrorIs(t, src.Load(), ErrNotFound)
	})

	t.Run("ErrorNamesPathAndLine", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "broken.ini", false)
		require.NoError(t, err)

		err = src.Load()
		require.Error(t, err)
		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, KindFormat, e.Kind)
		assert.Equal(t, "broken.ini", e.Path)
		assert.Equal(t, 3, e.Line)
		assert.Equal(t, "justsometext", e.Raw)
		assert.Equal(t, "ini:broken.ini", e.Source)
	})

	t.Run("DuplicateFails", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "dup.ini", false)
		require.NoError(t, err)
		assert.ErrorIs(t, src.Load(), ErrFormat)
		assert.Empty(t, src.Data())
	})

	t.Run("IdempotentReload", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "app.ini", false)
		require.NoError(t, err)
		require.NoError(t, src.Load())
		first := src.Data()
		require.NoError(t, src.Load())
		assert.Equal(t, first, src.Data())
	})

	t.Run("StreamsClosedOnEveryPath", func(t *testing.T) {
		tracker := &closeTracker{FileProvider: provider}
		for _, name := range []string{"app.ini", "broken.ini", "dup.ini"} {
			src, err := NewIniFileSource(tracker, name, false)
			require.NoError(t, err)
			_ = src.Load()
		}
		assert.Equal(t, 3, tracker.opened)
		assert.Equal(t, tracker.opened, tracker.closed)
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		_, err := NewIniFileSource(nil, "app.ini", false)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = NewIniFileSource(provider, "", false)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("PathTraversalRejected", func(t *testing.T) {
		src, err := NewIniFileSource(provider, "../etc/passwd", false)
		require.NoError(t, err)
		assert.ErrorIs(t, src.Load(), ErrInvalidArgument)
	})
}

func TestIniFileReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "app.ini")
	require.NoError(t, os.WriteFile(path, []byte("[S]\na=1\nb=2\n"), 0644))

	src, err := NewIniFileSource(NewDirProvider(tmpDir), "app.ini", false)
	require.NoError(t, err)
	require.NoError(t, src.Load())

	t.Run("ReplacesWholesale", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("[S]\na=10\n"), 0644))
		require.NoError(t, src.Load())

		assert.Equal(t, map[string]string{"S:a": "10"}, src.Data())
		_, ok := src.Lookup("S:b")
		assert.False(t, ok, "stale key must not survive a reload")
	})

	t.Run("FailedReloadKeepsData", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("[S]\na=20\ngarbage\n"), 0644))
		require.Error(t, src.Load())

		assert.Equal(t, map[string]string{"S:a": "10"}, src.Data())
	})

	t.Run("DeletedRequiredFile", func(t *testing.T) {
		require.NoError(t, os.Remove(path))
		assert.ErrorIs(t, src.Load(), ErrNotFound)
		assert.Equal(t, map[string]string{"S:a": "10"}, src.Data())
	})
}
