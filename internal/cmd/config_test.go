package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/cmd"
)

func TestConfigInitGenerateTemplate(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "generate.yaml")
	c := cmd.ConfigInit{Command: "generate", Format: "yaml", Output: dest}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "output: ./generated")
	assert.Contains(t, content, "endian: big")
	assert.Contains(t, content, "only: []")
	// Positional arguments are not part of the template.
	assert.NotContains(t, content, "project:")
}

func TestConfigInitJSON(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "convert.json")
	c := cmd.ConfigInit{Command: "convert", Format: "json", Output: dest}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"output": "converted.csv"`)
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "generate.yaml")
	c := cmd.ConfigInit{Command: "generate", Format: "yaml", Output: dest}
	require.NoError(t, c.Run())

	err := c.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --force")

	c.Force = true
	assert.NoError(t, c.Run())
}

func TestConfigInitUnknownFormat(t *testing.T) {
	c := cmd.ConfigInit{Command: "generate", Format: "xml"}
	assert.Error(t, c.Run())
}
