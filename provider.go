// FILE: lixenwraith/layercfg/provider.go
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FileHandle describes a resolved file. Exists is false for missing paths and directories.
type FileHandle struct {
	Path    string // normalized path within the provider
	Exists  bool
	Size    int64
	ModTime time.Time
}

// FileProvider locates and opens files for file-backed sources.
type FileProvider interface {
	// Resolve looks up path. A missing file is not an error; it yields Exists == false.
	Resolve(path string) (FileHandle, error)
	// Open returns a read stream for a handle previously returned by Resolve.
	Open(h FileHandle) (io.ReadCloser, error)
}

// FSProvider serves files from an fs.FS
type FSProvider struct {
	fsys fs.FS
}

var _ FileProvider = (*FSProvider)(nil)

// NewFSProvider wraps fsys, e.g. an embed.FS or fstest.MapFS.
func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys}
}

// NewDirProvider serves files below dir on the local filesystem.
func NewDirProvider(dir string) *FSProvider {
	return &FSProvider{fsys: os.DirFS(dir)}
}

// cleanPath converts a caller path into an fs.FS name, rejecting paths that leave the root
func cleanPath(p string) (string, error) {
	if p == "" {
		return "", invalidArgument("file path cannot be empty")
	}
	name := path.Clean(filepath.ToSlash(p))
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		e := invalidArgument("potential path traversal detected in config path")
		e.Path = p
		return "", e
	}
	return name, nil
}

// Resolve stats path inside the provider root
func (p *FSProvider) Resolve(name string) (FileHandle, error) {
	clean, err := cleanPath(name)
	if err != nil {
		return FileHandle{}, err
	}

	info, err := fs.Stat(p.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileHandle{Path: clean}, nil
		}
		return FileHandle{}, fmt.Errorf("failed to stat config file '%s': %w", clean, err)
	}
	if info.IsDir() {
		return FileHandle{Path: clean}, nil
	}

	return FileHandle{
		Path:    clean,
		Exists:  true,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Open opens a resolved handle for reading
func (p *FSProvider) Open(h FileHandle) (io.ReadCloser, error) {
	if !h.Exists {
		return nil, notFoundError(h.Path, "config file not found")
	}
	f, err := p.fsys.Open(h.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFoundError(h.Path, "config file not found")
		}
		return nil, fmt.Errorf("failed to open config file '%s': %w", h.Path, err)
	}
	return f, nil
}

// fileSpec is the provider/path/optional triple shared by file-backed sources
type fileSpec struct {
	provider FileProvider
	path     string
	optional bool
}

func newFileSpec(provider FileProvider, path string, optional bool) (fileSpec, error) {
	if provider == nil {
		return fileSpec{}, invalidArgument("file provider cannot be nil")
	}
	if path == "" {
		return fileSpec{}, invalidArgument("file path cannot be empty")
	}
	return fileSpec{provider: provider, path: path, optional: optional}, nil
}

// open resolves the file and opens it. It returns a nil reader and no error
// when the file is missing and optional.
func (f fileSpec) open() (io.ReadCloser, error) {
	h, err := f.provider.Resolve(f.path)
	if err != nil {
		return nil, err
	}
	if !h.Exists {
		if f.optional {
			return nil, nil
		}
		return nil, notFoundError(f.path, "config file not found")
	}
	return f.provider.Open(h)
}
