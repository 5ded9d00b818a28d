package dict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfsw/dictgen/internal/dict"
)

const demoProjectYAML = `
name: demo
creator: tester
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
  - {name: uint16_t, base: unsigned, size: 2}
  - {name: uint32_t, base: unsigned, size: 4}
  - {name: int16_t, base: signed, size: 2}
  - {name: float, base: float, size: 4}
  - {name: char, base: character, size: 1}
structures:
  - name: SensorData
    description: Sensor readings
    fields: {System: DEMO}
    variables:
      - {name: temp, dataType: float, units: degC, rates: {tlm: "1"}}
      - {name: counts, dataType: uint16_t, arraySize: "2"}
  - name: HkPacket
    description: Housekeeping packet
    fields: {System: DEMO, Message ID: "0x0890", Message ID Name: HK_PACKET_MID}
    variables:
      - {name: sync, dataType: uint16_t}
      - {name: flags, dataType: uint8_t, bitLength: "4"}
      - {name: mode, dataType: uint8_t, bitLength: "4"}
      - {name: sensor, dataType: SensorData}
  - name: AuxPacket
    description: Auxiliary packet
    fields: {System: DEMO, Message ID: "0x08A0", Message ID Name: AUX_PACKET_MID}
    variables:
      - {name: aux, dataType: SensorData}
commandTables:
  - name: DemoCommands
    fields: {System: DEMO, Message ID: "0x1890", application id: "0x1890"}
    commands:
      - {name: DEMO_NOOP_CC, code: "0", description: No-op}
tables:
  - name: ES Start-up Script
    columns: [Module Type, Path & File, Entry Point, cFE Name, Priority, Stack Size, Exception Action]
    rows:
      - [CFE_APP, /cf/apps/demo.so, DEMO_AppMain, DEMO, "50", "8192", "0"]
groups:
  - name: globals
    fields: {System: DEMO}
streams:
  - name: tlm
    messages:
      - name: HK_COMBINED_PKT1
        id: "0x0891"
        variables:
          - {packet: HkPacket, variable: sensor.temp}
          - {packet: HkPacket, variable: sensor.counts_0}
scheduler:
  applications: [demo]
  defines:
    - {name: SCH_UNUSED, value: "0"}
  messageTable: [SCH_UNUSED_MID, HK_SEND_HK_MID]
  slots:
    - entries:
        - {enable: SCH_ENABLED, type: SCH_ACTIVITY_SEND_MSG, frequency: "1", remainder: "0", messageIndex: "1", groupData: SCH_GROUP_NONE}
`

func demoProject(t *testing.T) *dict.Project {
	t.Helper()
	p, err := dict.Parse([]byte(demoProjectYAML))
	require.NoError(t, err)
	return p
}

func TestParseResolvesSizesAndOrder(t *testing.T) {
	p := demoProject(t)

	size, ok := p.StructureSize("SensorData")
	require.True(t, ok)
	assert.Equal(t, 8, size)

	size, ok = p.StructureSize("HkPacket")
	require.True(t, ok)
	assert.Equal(t, 11, size)

	assert.Equal(t, []string{"HkPacket", "AuxPacket"}, p.RootStructureNames())
	assert.Equal(t, "HkPacket", p.ParentStructureName())
	assert.Equal(t, []string{"SensorData", "HkPacket", "AuxPacket"}, p.StructureNamesByReferenceOrder())

	assert.True(t, p.IsStructureShared("SensorData"))
	assert.False(t, p.IsStructureShared("HkPacket"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown data type",
			yaml: `
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
structures:
  - name: A
    variables:
      - {name: x, dataType: nosuch}
`,
		},
		{
			name: "duplicate structure",
			yaml: `
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
structures:
  - name: A
    variables:
      - {name: x, dataType: uint8_t}
  - name: A
    variables:
      - {name: y, dataType: uint8_t}
`,
		},
		{
			name: "invalid data type size",
			yaml: `
dataTypes:
  - {name: uint8_t, base: unsigned, size: 0}
`,
		},
		{
			name: "invalid array size",
			yaml: `
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
structures:
  - name: A
    variables:
      - {name: x, dataType: uint8_t, arraySize: "nope"}
`,
		},
		{
			name: "structure reference cycle",
			yaml: `
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
structures:
  - name: Top
    variables:
      - {name: a, dataType: A}
  - name: A
    variables:
      - {name: b, dataType: B}
  - name: B
    variables:
      - {name: a, dataType: A}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dict.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRowsOffsets(t *testing.T) {
	p := demoProject(t)
	rows := p.Rows()
	require.Len(t, rows, 13)

	assert.Equal(t, "sync", rows[0].Variable)
	assert.Equal(t, 0, rows[0].Offset)
	assert.True(t, rows[0].IsVariable())

	// flags and mode pack into the same byte.
	assert.Equal(t, "flags", rows[1].Variable)
	assert.Equal(t, 2, rows[1].Offset)
	assert.Equal(t, "mode", rows[2].Variable)
	assert.Equal(t, 2, rows[2].Offset)

	assert.Equal(t, "sensor", rows[3].Variable)
	assert.Equal(t, "SensorData", rows[3].DataType)
	assert.Equal(t, 3, rows[3].Offset)
	assert.True(t, rows[3].IsVariable())

	assert.Equal(t, "temp", rows[4].Variable)
	assert.Equal(t, "SensorData", rows[4].Table)
	assert.Equal(t, "HkPacket", rows[4].Root)
	assert.Equal(t, []string{"sensor"}, rows[4].Path)
	assert.Equal(t, 3, rows[4].Offset)
	assert.Equal(t, 0, rows[4].ProtoOffset)
	assert.Equal(t, 1, rows[4].Depth())
	assert.Equal(t, "sensor.temp", rows[4].FullName("."))

	// Array definition row precedes its member rows.
	assert.Equal(t, "counts", rows[5].Variable)
	assert.Equal(t, "2", rows[5].ArraySize)
	assert.False(t, rows[5].IsVariable())
	assert.False(t, rows[5].IsArrayMember())
	assert.Equal(t, 7, rows[5].Offset)

	assert.Equal(t, "counts[0]", rows[6].Variable)
	assert.True(t, rows[6].IsArrayMember())
	assert.True(t, rows[6].IsVariable())
	assert.Equal(t, 7, rows[6].Offset)
	assert.Equal(t, "sensor_counts_0", rows[6].FullName("_"))

	assert.Equal(t, "counts[1]", rows[7].Variable)
	assert.Equal(t, 9, rows[7].Offset)

	// AuxPacket instantiates SensorData a second time from offset zero.
	assert.Equal(t, "aux", rows[8].Variable)
	assert.Equal(t, "AuxPacket", rows[8].Root)
	assert.Equal(t, 0, rows[8].Offset)
	assert.Equal(t, "temp", rows[9].Variable)
	assert.Equal(t, "AuxPacket", rows[9].Root)
	assert.Equal(t, 0, rows[9].Offset)
}

func TestRowByPath(t *testing.T) {
	p := demoProject(t)

	r, ok := p.RowByPath("HkPacket", "sensor.counts_1")
	require.True(t, ok)
	assert.Equal(t, 9, r.Offset)

	r, ok = p.RowByPath("HkPacket", "sensor.temp")
	require.True(t, ok)
	assert.Equal(t, 3, r.Offset)

	_, ok = p.RowByPath("HkPacket", "sensor.nosuch")
	assert.False(t, ok)
	_, ok = p.RowByPath("NoSuchRoot", "sensor.temp")
	assert.False(t, ok)
}

func TestTableRows(t *testing.T) {
	p := demoProject(t)

	// Two instances of SensorData contribute rows per instance.
	rows := p.TableRows("SensorData")
	assert.Len(t, rows, 8)

	rows = p.TableRows("HkPacket")
	require.Len(t, rows, 4)
	assert.Equal(t, "sync", rows[0].Variable)
	assert.Equal(t, "sensor", rows[3].Variable)
}

func TestMultiDimensionalArrayExpansion(t *testing.T) {
	p, err := dict.Parse([]byte(`
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
structures:
  - name: Grid
    variables:
      - {name: m, dataType: uint8_t, arraySize: "2, 2"}
`))
	require.NoError(t, err)

	rows := p.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "m", rows[0].Variable)

	want := []struct {
		name   string
		offset int
	}{
		{"m[0][0]", 0},
		{"m[0][1]", 1},
		{"m[1][0]", 2},
		{"m[1][1]", 3},
	}
	for i, w := range want {
		assert.Equal(t, w.name, rows[i+1].Variable)
		assert.Equal(t, w.offset, rows[i+1].Offset)
	}

	size, ok := p.StructureSize("Grid")
	require.True(t, ok)
	assert.Equal(t, 4, size)
}

func TestBitFieldPacking(t *testing.T) {
	p, err := dict.Parse([]byte(`
dataTypes:
  - {name: uint8_t, base: unsigned, size: 1}
  - {name: uint16_t, base: unsigned, size: 2}
structures:
  - name: Packed
    variables:
      - {name: a, dataType: uint8_t, bitLength: "5"}
      - {name: b, dataType: uint8_t, bitLength: "5"}
      - {name: c, dataType: uint16_t, bitLength: "4"}
      - {name: d, dataType: uint16_t, bitLength: "4"}
`))
	require.NoError(t, err)

	rows := p.Rows()
	require.Len(t, rows, 4)

	// b does not fit in a's byte; c starts a new unit of a different type;
	// d packs with c.
	assert.Equal(t, 0, rows[0].Offset)
	assert.Equal(t, 1, rows[1].Offset)
	assert.Equal(t, 2, rows[2].Offset)
	assert.Equal(t, 2, rows[3].Offset)

	size, ok := p.StructureSize("Packed")
	require.True(t, ok)
	assert.Equal(t, 4, size)
}

func TestConvertArrayMember(t *testing.T) {
	assert.Equal(t, "a_2", dict.ConvertArrayMember("a[2]"))
	assert.Equal(t, "m_1_0", dict.ConvertArrayMember("m[1][0]"))
	assert.Equal(t, "plain", dict.ConvertArrayMember("plain"))
}

func TestParseDimensions(t *testing.T) {
	dims, err := dict.ParseDimensions("2, 3")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, dims)

	dims, err = dict.ParseDimensions("4")
	require.NoError(t, err)
	assert.Equal(t, []int{4}, dims)

	_, err = dict.ParseDimensions("x")
	assert.Error(t, err)
	_, err = dict.ParseDimensions("0")
	assert.Error(t, err)
}

func TestDataFieldAccessors(t *testing.T) {
	p := demoProject(t)

	v, ok := p.StructureField("HkPacket", "Message ID")
	require.True(t, ok)
	assert.Equal(t, "0x0890", v)

	_, ok = p.StructureField("HkPacket", "nosuch")
	assert.False(t, ok)

	v, ok = p.CommandTableField("DemoCommands", "application id")
	require.True(t, ok)
	assert.Equal(t, "0x1890", v)

	v, ok = p.TableField("DemoCommands", "Message ID")
	require.True(t, ok)
	assert.Equal(t, "0x1890", v)

	v, ok = p.GroupField("globals", "System")
	require.True(t, ok)
	assert.Equal(t, "DEMO", v)
	_, ok = p.GroupField("nosuch", "System")
	assert.False(t, ok)
}

func TestMiscTableAccessors(t *testing.T) {
	p := demoProject(t)

	assert.Equal(t, 1, p.MiscTableNumRows("ES Start-up Script"))
	assert.Equal(t, 0, p.MiscTableNumRows("nosuch"))

	// Column lookup is case insensitive.
	assert.Equal(t, "/cf/apps/demo.so", p.MiscTableData("ES Start-up Script", "path & file", 0))
	assert.Equal(t, "", p.MiscTableData("ES Start-up Script", "nosuch", 0))
	assert.Equal(t, "", p.MiscTableData("ES Start-up Script", "cFE Name", 5))
}

func TestNameListings(t *testing.T) {
	p := demoProject(t)

	assert.Equal(t, []string{"SensorData", "HkPacket", "AuxPacket"}, p.StructureNames())
	assert.Equal(t, []string{"DemoCommands"}, p.CommandTableNames())
	assert.Equal(t, []string{"tlm"}, p.StreamNames())
	assert.Equal(t, []string{"globals"}, p.GroupNames())
	assert.Equal(t,
		[]string{"SensorData", "HkPacket", "AuxPacket", "DemoCommands", "ES Start-up Script"},
		p.TableNames())

	require.NotNil(t, p.StreamByName("tlm"))
	assert.Nil(t, p.StreamByName("nosuch"))
}

func TestRowRates(t *testing.T) {
	p := demoProject(t)

	r, ok := p.RowByPath("HkPacket", "sensor.temp")
	require.True(t, ok)
	assert.True(t, r.Telemetered())
	assert.Equal(t, "1", r.Rate("tlm"))

	r, ok = p.RowByPath("HkPacket", "sync")
	require.True(t, ok)
	assert.False(t, r.Telemetered())
}
