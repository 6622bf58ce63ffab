// FILE: lixenwraith/layercfg/discovery.go
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions configures automatic config file discovery
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// CLI flag to check (e.g., "--config")
	CLIFlag string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".ini", ".toml", ".yaml", ".yml", ".json"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile locates a config file. An explicit path from args or the
// environment is returned even if it does not exist, so that loading it
// reports NotFound. The bool is false when nothing was found.
func DiscoverFile(opts FileDiscoveryOptions, args []string) (string, bool) {
	// Check CLI args first (highest priority)
	if opts.CLIFlag != "" {
		for i, arg := range args {
			if arg == opts.CLIFlag && i+1 < len(args) {
				return args[i+1], true
			}
			if strings.HasPrefix(arg, opts.CLIFlag+"=") {
				return strings.TrimPrefix(arg, opts.CLIFlag+"="), true
			}
		}
	}

	// Check environment variable
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path, true
		}
	}

	// Build search paths
	var searchPaths []string

	// Custom paths first
	searchPaths = append(searchPaths, opts.Paths...)

	// Current directory
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	// XDG paths
	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}

	return "", false
}

// AddDiscoveredFile searches for a config file and adds it as an INI or
// structured file source, chosen by extension. An explicitly named file
// (flag or environment) is required; a file found by searching is optional,
// and finding none adds nothing.
func (b *Builder) AddDiscoveredFile(opts FileDiscoveryOptions, args []string) *Builder {
	path, found := DiscoverFile(opts, args)
	if !found {
		b.logger.Debug().Str("name", opts.Name).Msg("no config file discovered")
		return b
	}
	explicit := isExplicitPath(opts, args)

	abs, err := filepath.Abs(path)
	if err != nil {
		e := invalidArgument("cannot resolve config path")
		e.Path = path
		e.Err = err
		return b.add(nil, e)
	}
	provider := NewDirProvider(filepath.Dir(abs))
	name := filepath.Base(abs)

	b.logger.Debug().Str("path", abs).Bool("explicit", explicit).Msg("config file discovered")
	if strings.EqualFold(filepath.Ext(name), ".ini") {
		return b.AddIniFile(provider, name, !explicit)
	}
	return b.AddFile(provider, name, !explicit)
}

// isExplicitPath reports whether discovery will take the path from args or the environment
func isExplicitPath(opts FileDiscoveryOptions, args []string) bool {
	if opts.CLIFlag != "" {
		for i, arg := range args {
			if (arg == opts.CLIFlag && i+1 < len(args)) || strings.HasPrefix(arg, opts.CLIFlag+"=") {
				return true
			}
		}
	}
	return opts.EnvVar != "" && os.Getenv(opts.EnvVar) != ""
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		// Default system paths
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
