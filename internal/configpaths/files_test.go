package configpaths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/configpaths"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := configpaths.ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "dictgen"), dir)
}

func TestCandidatesRoutesUserPath(t *testing.T) {
	jsonPaths, yamlPaths, tomlPaths := configpaths.Candidates("/tmp/custom.toml")
	require.NotEmpty(t, tomlPaths)
	assert.Equal(t, "/tmp/custom.toml", tomlPaths[0])
	assert.NotContains(t, jsonPaths, "/tmp/custom.toml")
	assert.NotContains(t, yamlPaths, "/tmp/custom.toml")

	jsonPaths, _, _ = configpaths.Candidates("/tmp/custom.conf")
	assert.Equal(t, "/tmp/custom.conf", jsonPaths[0])
}

func TestCandidatesSearchOrder(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	jsonPaths, yamlPaths, _ := configpaths.Candidates("")
	assert.Equal(t, filepath.Join(wd, "dictgen.json"), jsonPaths[0])
	assert.Contains(t, yamlPaths, filepath.Join(wd, "dictgen.yaml"))
	assert.Contains(t, jsonPaths, "/etc/dictgen/config.json")
}

func TestEnsureDir(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, configpaths.EnsureDir(dest))

	info, err := os.Stat(filepath.Dir(dest))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
