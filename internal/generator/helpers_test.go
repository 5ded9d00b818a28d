package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/dict"
)

func TestCDims(t *testing.T) {
	assert.Equal(t, "[4]", cDims("4"))
	assert.Equal(t, "[2][3]", cDims("2, 3"))
	// Unparseable sizes pass through so the defect is visible in the output.
	assert.Equal(t, "[N]", cDims("N"))
}

func TestArgRange(t *testing.T) {
	tests := []struct {
		name   string
		arg    dict.CommandArg
		signed bool
		size   int
		want   string
	}{
		{"explicit bounds", dict.CommandArg{Minimum: "1", Maximum: "5"}, false, 2, "1..5"},
		{"unsigned 8-bit", dict.CommandArg{}, false, 1, "0..255"},
		{"unsigned 16-bit", dict.CommandArg{}, false, 2, "0..65535"},
		{"signed 16-bit", dict.CommandArg{}, true, 2, "-32768..32767"},
		{"signed 32-bit", dict.CommandArg{}, true, 4, "-2147483648..2147483647"},
		{"unsigned 64-bit", dict.CommandArg{}, false, 8, "0..18446744073709551615"},
		{"minimum only", dict.CommandArg{Minimum: "10"}, false, 1, "10..255"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, argRange(tt.arg, tt.signed, tt.size))
		})
	}
}

func TestParseHex(t *testing.T) {
	assert.Equal(t, 0x1890, parseHex("0x1890"))
	assert.Equal(t, 0x1890, parseHex("0X1890"))
	assert.Equal(t, 0x890, parseHex(" 890 "))
	assert.Equal(t, 0, parseHex("zz"))
	assert.Equal(t, 0, parseHex(""))
}

func TestFlightComputerConfig(t *testing.T) {
	p, err := dict.Parse([]byte(`
groups:
  - name: globals
    fields: {NumComputers: "3", prefix: "CPU", FC_Offset: "0x0100", MID_delta: "0x600"}
`))
	require.NoError(t, err)

	fc := flightComputerConfig(p)
	assert.Equal(t, []string{"CPU1_", "CPU2_", "CPU3_"}, fc.names)
	assert.Equal(t, []int{0x0100, 0x0700, 0x0D00}, fc.offsets)
}

func TestFlightComputerConfigDefaults(t *testing.T) {
	p, err := dict.Parse([]byte(`name: empty`))
	require.NoError(t, err)

	fc := flightComputerConfig(p)
	assert.Equal(t, []string{""}, fc.names)
	assert.Equal(t, []int{0}, fc.offsets)
}

func TestFlightComputerConfigPrefixDefault(t *testing.T) {
	p, err := dict.Parse([]byte(`
groups:
  - name: globals
    fields: {NumComputers: "2"}
`))
	require.NoError(t, err)

	fc := flightComputerConfig(p)
	assert.Equal(t, []string{"FC1_", "FC2_"}, fc.names)
	assert.Equal(t, []int{0, 0x600}, fc.offsets)
}

func TestSystemName(t *testing.T) {
	p, err := dict.Parse([]byte(`
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
structures:
  - name: Pkt
    fields: {System: ACS}
    variables:
      - {name: v, dataType: uint8_t}
`))
	require.NoError(t, err)
	assert.Equal(t, "ACS", systemName(p))

	p, err = dict.Parse([]byte(`
groups:
  - name: globals
    fields: {System: GNC}
`))
	require.NoError(t, err)
	assert.Equal(t, "GNC", systemName(p))
}

func TestLastDimension(t *testing.T) {
	assert.Equal(t, "3", lastDimension("2, 3"))
	assert.Equal(t, "8", lastDimension("8"))
}

func TestSetFormat(t *testing.T) {
	pg := &pageLayout{}

	assert.Equal(t, "%13.3f", pg.setFormat("F8"))
	assert.Equal(t, 14, pg.numITOSDigits)
	assert.Equal(t, 2, pg.modNum)

	assert.Equal(t, "%6.3f", pg.setFormat("F4"))
	assert.Equal(t, 7, pg.numITOSDigits)

	assert.Equal(t, "%5d", pg.setFormat("U2"))
	assert.Equal(t, 4, pg.modNum)

	assert.Equal(t, "%11d", pg.setFormat("I4"))
	assert.Equal(t, 2, pg.modNum)

	assert.Equal(t, "%s", pg.setFormat("S1"))
	assert.Equal(t, 10, pg.numITOSDigits)
}

func TestPageArrayHelpers(t *testing.T) {
	assert.Equal(t, 8, pageArraySize("2, 8"))
	assert.Equal(t, 4, pageArraySize("4"))
	assert.Equal(t, 1, pageArraySize("junk"))

	assert.Equal(t, 3, pageArrayIndex("counts[3]"))
	assert.Equal(t, 2, pageArrayIndex("m[1][2]"))
	assert.Equal(t, 0, pageArrayIndex("plain"))
}
