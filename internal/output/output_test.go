package output_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/output"
)

func testInfo() output.CreationInfo {
	return output.CreationInfo{
		Timestamp: time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
		User:      "tester",
		Project:   "demo",
		Generator: "types",
		Tables:    []string{"Zeta", "Alpha"},
		Groups:    []string{"globals"},
	}
}

func TestFileWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.txt")

	f, err := output.Create(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())

	f.Line("first")
	f.Printf("%s=%d", "x", 7)
	f.Blank()
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nx=7\n", string(data))
}

func TestCHeaderComment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.c")
	f, err := output.Create(path)
	require.NoError(t, err)
	f.CHeaderComment(testInfo())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `/* Created : Fri Jan 02 03:04:05 UTC 2026
   User    : tester
   Project : demo
   Script  : types
   Table(s): Alpha,
             Zeta
   Group(s): globals
*/

`
	assert.Equal(t, want, string(data))
}

func TestHashComment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.scr")
	f, err := output.Create(path)
	require.NoError(t, err)
	f.HashComment(testInfo())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `# Created : Fri Jan 02 03:04:05 UTC 2026
# User    : tester
# Project : demo
# Script  : types
# Table(s): Alpha,
#           Zeta
# Group(s): globals

`
	assert.Equal(t, want, string(data))
}

func TestBannerOmitsEmptySections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.h")
	f, err := output.Create(path)
	require.NoError(t, err)
	info := testInfo()
	info.Tables = nil
	info.Groups = nil
	f.CHeaderComment(info)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Table(s)")
	assert.NotContains(t, string(data), "Group(s)")
}
