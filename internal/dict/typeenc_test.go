package dict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/dict"
)

func TestEncodedType(t *testing.T) {
	p, err := dict.Parse([]byte(`
dataTypes:
  - {name: uint16_t, base: unsigned, size: 2}
  - {name: int32_t, base: signed, size: 4}
  - {name: double, base: float, size: 8}
  - {name: char, base: character, size: 1}
  - {name: string8, base: string, size: 1}
  - {name: odd_t, base: mystery, size: 2}
structures:
  - name: Inner
    variables:
      - {name: x, dataType: uint16_t}
  - name: Outer
    variables:
      - {name: inner, dataType: Inner}
`))
	require.NoError(t, err)

	tests := []struct {
		typeName   string
		form       dict.EncodingForm
		want       string
	}{
		{"uint16_t", dict.SingleChar, "U"},
		{"uint16_t", dict.TwoChar, "U2"},
		{"uint16_t", dict.BigEndian, "BU2"},
		{"int32_t", dict.TwoChar, "I4"},
		{"double", dict.TwoChar, "F8"},
		{"char", dict.SingleChar, "S"},
		{"string8", dict.TwoChar, "S1"},
		{"odd_t", dict.SingleChar, "R"},
		{"Inner", dict.TwoChar, "Inner"},
		{"nosuch", dict.TwoChar, "nosuch"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.EncodedType(tt.typeName, tt.form), tt.typeName)
	}

	assert.True(t, p.IsPrimitive("uint16_t"))
	assert.False(t, p.IsPrimitive("Inner"))

	assert.True(t, p.IsString("string8"))
	assert.False(t, p.IsString("char"))
	assert.False(t, p.IsString("Inner"))

	assert.Equal(t, "unsigned", p.BaseType("uint16_t"))
	assert.Equal(t, "", p.BaseType("Inner"))

	size, ok := p.TypeSize("double")
	require.True(t, ok)
	assert.Equal(t, 8, size)
	size, ok = p.TypeSize("Inner")
	require.True(t, ok)
	assert.Equal(t, 2, size)
	_, ok = p.TypeSize("nosuch")
	assert.False(t, ok)
}

func TestIncludesHeader(t *testing.T) {
	p := demoProject(t)
	assert.True(t, p.IncludesHeader("HkPacket"))
	assert.False(t, p.IncludesHeader("SensorData"))
	assert.False(t, p.IncludesHeader("nosuch"))
}

func TestLimitName(t *testing.T) {
	assert.Equal(t, "redLow", dict.LimitName(0))
	assert.Equal(t, "yellowLow", dict.LimitName(1))
	assert.Equal(t, "yellowHigh", dict.LimitName(2))
	assert.Equal(t, "redHigh", dict.LimitName(3))
	assert.Equal(t, "", dict.LimitName(4))
}
