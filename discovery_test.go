// FILE: lixenwraith/layercfg/discovery_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchOnly(name string, paths ...string) FileDiscoveryOptions {
	opts := DefaultDiscoveryOptions(name)
	opts.Paths = paths
	opts.EnvVar = ""
	opts.UseXDG = false
	opts.UseCurrentDir = false
	return opts
}

func TestDiscoverFile(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "myapp.ini")
	tomlPath := filepath.Join(dir, "myapp.toml")
	require.NoError(t, os.WriteFile(iniPath, []byte("[App]\nname=ini\n"), 0644))
	require.NoError(t, os.WriteFile(tomlPath, []byte("[App]\nname = \"toml\"\n"), 0644))

	t.Run("SearchPathsInExtensionOrder", func(t *testing.T) {
		path, found := DiscoverFile(searchOnly("myapp", dir), nil)
		assert.True(t, found)
		assert.Equal(t, iniPath, path)
	})

	t.Run("CLIFlag", func(t *testing.T) {
		opts := searchOnly("myapp", dir)
		path, found := DiscoverFile(opts, []string{"--config", "/etc/other.ini"})
		assert.True(t, found)
		assert.Equal(t, "/etc/other.ini", path)

		path, found = DiscoverFile(opts, []string{"--config=custom.toml"})
		assert.True(t, found)
		assert.Equal(t, "custom.toml", path)
	})

	t.Run("EnvVar", func(t *testing.T) {
		opts := searchOnly("myapp", dir)
		opts.EnvVar = "MYAPP_CONFIG"
		t.Setenv("MYAPP_CONFIG", tomlPath)

		path, found := DiscoverFile(opts, nil)
		assert.True(t, found)
		assert.Equal(t, tomlPath, path)
	})

	t.Run("XDGConfigHome", func(t *testing.T) {
		xdg := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(xdg, "xdgapp"), 0755))
		target := filepath.Join(xdg, "xdgapp", "xdgapp.yaml")
		require.NoError(t, os.WriteFile(target, []byte("a: 1\n"), 0644))
		t.Setenv("XDG_CONFIG_HOME", xdg)

		opts := searchOnly("xdgapp")
		opts.UseXDG = true
		path, found := DiscoverFile(opts, nil)
		assert.True(t, found)
		assert.Equal(t, target, path)
	})

	t.Run("NothingFound", func(t *testing.T) {
		_, found := DiscoverFile(searchOnly("absent", dir), nil)
		assert.False(t, found)
	})
}

func TestAddDiscoveredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.ini"), []byte("[Server]\nport=8080\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("server:\n  port: 9090\n"), 0644))

	t.Run("SearchedIni", func(t *testing.T) {
		cfg, err := NewBuilder().
			AddMap("defaults", map[string]string{"Server:port": "80"}).
			AddDiscoveredFile(searchOnly("svc", dir), nil).
			Build()
		require.NoError(t, err)

		val, _ := cfg.Get("server:port")
		assert.Equal(t, "8080", val)
		src, _ := cfg.Provenance("server:port")
		assert.Equal(t, "ini:svc.ini", src)
	})

	t.Run("ExplicitStructuredFile", func(t *testing.T) {
		args := []string{"--config", filepath.Join(dir, "other.yaml")}
		cfg, err := NewBuilder().AddDiscoveredFile(searchOnly("svc", dir), args).Build()
		require.NoError(t, err)

		val, _ := cfg.Get("Server:Port")
		assert.Equal(t, "9090", val)
	})

	t.Run("ExplicitMissingIsRequired", func(t *testing.T) {
		args := []string{"--config=" + filepath.Join(dir, "gone.ini")}
		_, err := NewBuilder().AddDiscoveredFile(searchOnly("svc", dir), args).Build()
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NoneFoundAddsNothing", func(t *testing.T) {
		b := NewBuilder().AddDiscoveredFile(searchOnly("absent", dir), nil)
		cfg, err := b.Build()
		require.NoError(t, err)
		assert.Empty(t, cfg.Sources())
	})
}

func TestQuick(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quick.ini"), []byte("[App]\nname=from-ini\nmode=ini\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	oldArgs := os.Args
	os.Args = []string{"cmd", "--App:name=from-cli"}
	defer func() { os.Args = oldArgs }()

	t.Setenv("QUICKTEST_App__mode", "env")

	cfg, err := Quick(map[string]string{"App:name": "default", "App:level": "info"}, "quick.ini", "QUICKTEST_")
	require.NoError(t, err)

	assert.Equal(t, "from-cli", cfg.GetOr("app:name", ""))
	assert.Equal(t, "env", cfg.GetOr("app:mode", ""))
	assert.Equal(t, "info", cfg.GetOr("app:level", ""))

	t.Run("MissingIniIsOptional", func(t *testing.T) {
		cfg, err := Quick(nil, "absent.ini", "QUICKTEST_")
		require.NoError(t, err)
		assert.Equal(t, "from-cli", cfg.GetOr("App:name", ""))
	})

	t.Run("MustQuickPanics", func(t *testing.T) {
		os.Args = []string{"cmd", "positional"}
		assert.Panics(t, func() {
			MustQuick(nil, "", "")
		})
		os.Args = []string{"cmd", "--App:name=from-cli"}
	})
}
