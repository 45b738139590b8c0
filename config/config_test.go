package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), FileName), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadMissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName), true)
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
makeinfo = "texi2any --info"
cache_dir = "cache"
fetch_timeout = "30s"
dump_xml = true
`)
	s, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "texi2any --info", s.Makeinfo)
	assert.Equal(t, "cache", s.CacheDir)
	assert.Equal(t, "specs.conf", s.SpecsFile)
	assert.Equal(t, 30*time.Second, s.FetchTimeout.Duration)
	assert.Zero(t, s.CompileTimeout.Duration)
	assert.True(t, s.DumpXML)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "makeinfo = \"makeinfo\"\ncolour = \"red\"\n")
	_, err := Load(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fetch_timeout = \"soon\"\n")
	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	s := Default()
	s.CacheDir = "/var/cache/rfc"
	r := s.Resolve("/home/u/info")

	assert.Equal(t, "/home/u/info", r.OutputDir)
	assert.Equal(t, "/var/cache/rfc", r.CacheDir)
	assert.Equal(t, "/home/u/info/specs.conf", r.SpecsFile)
}
