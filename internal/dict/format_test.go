package dict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/dict"
)

func TestSplitArray(t *testing.T) {
	assert.Equal(t,
		[][]string{{"0", "OFF", "white", "black"}, {"1", "ON", "black", "green"}},
		dict.SplitArray("0, OFF, white, black | 1, ON, black, green", "|", ","))

	assert.Equal(t, [][]string{{"a"}}, dict.SplitArray("a", "|", ","))
	assert.Nil(t, dict.SplitArray("", "|", ","))
	assert.Nil(t, dict.SplitArray("   ", "|", ","))
}

func TestExtractTelemetryID(t *testing.T) {
	assert.Equal(t, "0x0031", dict.ExtractTelemetryID("0x1831"))
	assert.Equal(t, "0x0090", dict.ExtractTelemetryID("0x0890"))
	assert.Equal(t, "0x0090", dict.ExtractTelemetryID("890"))
	assert.Equal(t, "0x0000", dict.ExtractTelemetryID("not hex"))
	assert.Equal(t, "0x0000", dict.ExtractTelemetryID(""))
}

func TestExtractCommandID(t *testing.T) {
	assert.Equal(t, "0x031", dict.ExtractCommandID("0x1831"))
	assert.Equal(t, "0x090", dict.ExtractCommandID("0x1890"))
	assert.Equal(t, "0x000", dict.ExtractCommandID("garbage"))
}

func TestReorderForByteOrder(t *testing.T) {
	rows := []dict.Row{
		{Table: "A", Root: "A", Variable: "v1", Offset: 0},
		{Table: "A", Root: "A", Variable: "bit1", Offset: 2},
		{Table: "A", Root: "A", Variable: "bit2", Offset: 2},
		{Table: "A", Root: "A", Variable: "bit3", Offset: 2},
		{Table: "A", Root: "A", Variable: "v2", Offset: 3},
	}

	big := dict.ReorderForByteOrder(rows, false)
	assert.Equal(t, rows, big)

	little := dict.ReorderForByteOrder(rows, true)
	require.Len(t, little, 5)
	assert.Equal(t, "v1", little[0].Variable)
	assert.Equal(t, "bit3", little[1].Variable)
	assert.Equal(t, "bit2", little[2].Variable)
	assert.Equal(t, "bit1", little[3].Variable)
	assert.Equal(t, "v2", little[4].Variable)

	// The input order is untouched.
	assert.Equal(t, "bit1", rows[1].Variable)
}

func TestReorderSeparatesTables(t *testing.T) {
	// Rows at the same offset in different tables are separate runs.
	rows := []dict.Row{
		{Table: "A", Root: "R", Variable: "a1", Offset: 0},
		{Table: "A", Root: "R", Variable: "a2", Offset: 0},
		{Table: "B", Root: "R", Variable: "b1", Offset: 0},
	}
	little := dict.ReorderForByteOrder(rows, true)
	assert.Equal(t, "a2", little[0].Variable)
	assert.Equal(t, "a1", little[1].Variable)
	assert.Equal(t, "b1", little[2].Variable)
}

func TestLongestStrings(t *testing.T) {
	rows := [][]string{
		{"short", "longer cell"},
		{"the longest cell", "x", "extra"},
	}
	widths := dict.LongestStrings(rows, []int{3, 20})
	assert.Equal(t, []int{16, 20, 5}, widths)

	assert.Equal(t, []int{1, 2}, dict.LongestStrings(nil, []int{1, 2}))
	assert.Empty(t, dict.LongestStrings(nil, nil))
}
