// Package dict models the project dictionary: the structure, command, and
// miscellaneous table data that the generators render into artifacts. It is
// the data-access surface the generators query for rows, data fields, type
// encodings, and variable byte offsets.
package dict

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// DataType describes a primitive type available to structure and command
// variables. Base is one of "signed", "unsigned", "float", "character", or
// "string".
type DataType struct {
	Name string `yaml:"name"`
	Base string `yaml:"base"`
	Size int    `yaml:"size"`
}

// Variable is one member of a structure table. ArraySize holds the
// dimension list as entered ("4" or "2, 3"); BitLength is empty for
// non-bit-field members.
type Variable struct {
	Name        string            `yaml:"name"`
	DataType    string            `yaml:"dataType"`
	ArraySize   string            `yaml:"arraySize"`
	BitLength   string            `yaml:"bitLength"`
	Description string            `yaml:"description"`
	Units       string            `yaml:"units"`
	Enumeration string            `yaml:"enumeration"`
	Polynomial  string            `yaml:"polynomial"`
	LimitSets   string            `yaml:"limitSets"`
	Rates       map[string]string `yaml:"rates"`
}

// Structure is a structure table definition together with its data fields
// (System, Message ID, Message ID Name, application id, ...).
type Structure struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Fields      map[string]string `yaml:"fields"`
	Variables   []Variable        `yaml:"variables"`
}

// CommandArg is a single argument of a command.
type CommandArg struct {
	Name        string `yaml:"name"`
	DataType    string `yaml:"dataType"`
	ArraySize   string `yaml:"arraySize"`
	Enumeration string `yaml:"enumeration"`
	Minimum     string `yaml:"minimum"`
	Maximum     string `yaml:"maximum"`
}

// Command is one command defined in a command table.
type Command struct {
	Name        string       `yaml:"name"`
	Code        string       `yaml:"code"`
	Description string       `yaml:"description"`
	Args        []CommandArg `yaml:"args"`
}

// CommandTable groups commands with the table-level data fields.
type CommandTable struct {
	Name     string            `yaml:"name"`
	Fields   map[string]string `yaml:"fields"`
	Commands []Command         `yaml:"commands"`
}

// Table is a miscellaneous typed table ("Includes", "header",
// "ES Start-up Script", ...) of plain string cells.
type Table struct {
	Name    string     `yaml:"name"`
	Columns []string   `yaml:"columns"`
	Rows    [][]string `yaml:"rows"`
}

// Group is a named table group with its data fields. The "globals" group
// carries the flight computer configuration (prefix, NumComputers,
// FC_Offset, MID_delta).
type Group struct {
	Name   string            `yaml:"name"`
	Fields map[string]string `yaml:"fields"`
}

// MessageVar names one variable copied into a downlink message. Packet is
// the root structure table the variable lives in; Variable is the full
// variable path from that root, members dot-separated with array brackets
// converted to underscores (e.g. "payload.counts_0").
type MessageVar struct {
	Packet   string `yaml:"packet"`
	Variable string `yaml:"variable"`
}

// Message is one downlink message of a data stream.
type Message struct {
	Name      string       `yaml:"name"`
	ID        string       `yaml:"id"`
	Variables []MessageVar `yaml:"variables"`
}

// Stream is a telemetry data stream. Its name doubles as the rate column
// name on structure variables.
type Stream struct {
	Name     string    `yaml:"name"`
	Messages []Message `yaml:"messages"`
}

// Define is a name/value pair emitted as a #define.
type Define struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// SlotEntry is one activity in a scheduler slot.
type SlotEntry struct {
	Enable       string `yaml:"enable"`
	Type         string `yaml:"type"`
	Frequency    string `yaml:"frequency"`
	Remainder    string `yaml:"remainder"`
	MessageIndex string `yaml:"messageIndex"`
	GroupData    string `yaml:"groupData"`
}

// Slot is one minor-frame slot of the schedule table.
type Slot struct {
	Entries []SlotEntry `yaml:"entries"`
}

// Scheduler holds the application scheduler definition consumed by the
// scheduler generator.
type Scheduler struct {
	Applications []string `yaml:"applications"`
	Defines      []Define `yaml:"defines"`
	MessageTable []string `yaml:"messageTable"`
	Slots        []Slot   `yaml:"slots"`
}

// Project is the loaded dictionary. The exported fields mirror the YAML
// document; the derived row/offset/order data is computed by resolve.
type Project struct {
	Name          string         `yaml:"name"`
	Creator       string         `yaml:"creator"`
	DataTypes     []DataType     `yaml:"dataTypes"`
	Structures    []Structure    `yaml:"structures"`
	CommandTables []CommandTable `yaml:"commandTables"`
	Tables        []Table        `yaml:"tables"`
	Groups        []Group        `yaml:"groups"`
	Streams       []Stream       `yaml:"streams"`
	Scheduler     *Scheduler     `yaml:"scheduler"`

	rows     []Row
	refOrder []string
	refBy    map[string]map[string]bool
	types    map[string]DataType
	structs  map[string]*Structure
	sizes    map[string]int
}

// Load reads and resolves a project dictionary file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return Parse(data)
}

// Parse resolves a project dictionary from raw YAML.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	return &p, nil
}

// resolve builds the type/structure indexes, the reference order, and the
// flattened instance rows with byte offsets.
func (p *Project) resolve() error {
	p.types = make(map[string]DataType, len(p.DataTypes))
	for _, dt := range p.DataTypes {
		if dt.Size <= 0 {
			return fmt.Errorf("data type %q has invalid size %d", dt.Name, dt.Size)
		}
		p.types[dt.Name] = dt
	}

	p.structs = make(map[string]*Structure, len(p.Structures))
	for i := range p.Structures {
		s := &p.Structures[i]
		if _, dup := p.structs[s.Name]; dup {
			return fmt.Errorf("duplicate structure table %q", s.Name)
		}
		if _, clash := p.types[s.Name]; clash {
			return fmt.Errorf("structure %q collides with a data type name", s.Name)
		}
		p.structs[s.Name] = s
	}

	p.refBy = make(map[string]map[string]bool)
	for _, s := range p.Structures {
		for _, v := range s.Variables {
			if _, ok := p.structs[v.DataType]; ok {
				if p.refBy[v.DataType] == nil {
					p.refBy[v.DataType] = make(map[string]bool)
				}
				p.refBy[v.DataType][s.Name] = true
				continue
			}
			if _, ok := p.types[v.DataType]; !ok {
				return fmt.Errorf("structure %q variable %q has unknown data type %q", s.Name, v.Name, v.DataType)
			}
		}
	}

	p.sizes = make(map[string]int, len(p.Structures))
	for _, root := range p.RootStructureNames() {
		if _, err := p.structSize(root, nil); err != nil {
			return err
		}
	}

	// Reference order: depth-first from the roots so that referenced
	// structures precede the structures that use them.
	seen := make(map[string]bool, len(p.Structures))
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		for _, v := range p.structs[name].Variables {
			if p.isStruct(v.DataType) {
				visit(v.DataType)
			}
		}
		p.refOrder = append(p.refOrder, name)
	}
	for _, root := range p.RootStructureNames() {
		visit(root)
	}

	for _, root := range p.RootStructureNames() {
		if err := p.flatten(root, root, nil, 0); err != nil {
			return err
		}
	}
	return nil
}

// structSize computes the byte size of a structure, packing consecutive
// bit fields of the same data type while their bits fit.
func (p *Project) structSize(name string, trail []string) (int, error) {
	if size, ok := p.sizes[name]; ok {
		return size, nil
	}
	for _, t := range trail {
		if t == name {
			return 0, fmt.Errorf("structure reference cycle through %q", name)
		}
	}
	s := p.structs[name]

	var pk packer
	for _, v := range s.Variables {
		size, err := p.memberSize(name, v, append(trail, name))
		if err != nil {
			return 0, err
		}
		pk.place(v, size, p.isStruct(v.DataType))
	}
	p.sizes[name] = pk.offset
	return pk.offset, nil
}

// memberSize is the total byte size one variable contributes: the element
// size times the array element count.
func (p *Project) memberSize(owner string, v Variable, trail []string) (int, error) {
	var elem int
	if p.isStruct(v.DataType) {
		n, err := p.structSize(v.DataType, trail)
		if err != nil {
			return 0, err
		}
		elem = n
	} else {
		elem = p.types[v.DataType].Size
	}
	count := 1
	if v.ArraySize != "" {
		dims, err := ParseDimensions(v.ArraySize)
		if err != nil {
			return 0, fmt.Errorf("structure %q variable %q: %w", owner, v.Name, err)
		}
		for _, d := range dims {
			count *= d
		}
	}
	return elem * count, nil
}

func (p *Project) isStruct(name string) bool {
	_, ok := p.structs[name]
	return ok
}

// ParseDimensions splits an array size value ("4" or "2, 3") into its
// integer dimensions.
func ParseDimensions(arraySize string) ([]int, error) {
	parts := strings.Split(arraySize, ",")
	dims := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid array size %q", arraySize)
		}
		dims = append(dims, n)
	}
	return dims, nil
}

// packer assigns sequential byte offsets with C bit-field packing:
// consecutive bit fields of the same data type share a unit while their
// bits fit, and any other member ends the run.
type packer struct {
	offset     int
	packStart  int
	packType   string
	filledBits int
	maxBits    int
}

// place returns the byte offset assigned to the member.
func (pk *packer) place(v Variable, totalSize int, isStruct bool) int {
	if v.BitLength != "" && !isStruct && v.ArraySize == "" {
		bits, err := strconv.Atoi(v.BitLength)
		if err != nil || bits <= 0 {
			bits = totalSize * 8
		}
		if pk.packType == v.DataType && pk.filledBits+bits <= pk.maxBits {
			pk.filledBits += bits
			return pk.packStart
		}
		pk.packType = v.DataType
		pk.packStart = pk.offset
		pk.filledBits = bits
		pk.maxBits = totalSize * 8
		pk.offset += totalSize
		return pk.packStart
	}
	pk.packType = ""
	at := pk.offset
	pk.offset += totalSize
	return at
}

// RootStructureNames lists the structure tables that no other structure
// references, in declaration order.
func (p *Project) RootStructureNames() []string {
	var roots []string
	for _, s := range p.Structures {
		if len(p.refBy[s.Name]) == 0 {
			roots = append(roots, s.Name)
		}
	}
	return roots
}

// ParentStructureName is the first root structure table, or "" when the
// project carries no structure data.
func (p *Project) ParentStructureName() string {
	roots := p.RootStructureNames()
	if len(roots) == 0 {
		return ""
	}
	return roots[0]
}

// StructureNamesByReferenceOrder lists all structure tables with referenced
// structures preceding the structures that use them.
func (p *Project) StructureNamesByReferenceOrder() []string {
	out := make([]string, len(p.refOrder))
	copy(out, p.refOrder)
	return out
}

// IsStructureShared reports whether more than one structure table
// references the named structure.
func (p *Project) IsStructureShared(name string) bool {
	return len(p.refBy[name]) > 1
}

// StructureSize is the byte size of a structure table, excluding any
// packet header.
func (p *Project) StructureSize(name string) (int, bool) {
	n, ok := p.sizes[name]
	return n, ok
}

// StructureDescription returns the description of the named structure
// table.
func (p *Project) StructureDescription(name string) string {
	if s, ok := p.structs[name]; ok {
		return s.Description
	}
	return ""
}

// StructureField looks up a data field value on a structure table.
func (p *Project) StructureField(table, field string) (string, bool) {
	s, ok := p.structs[table]
	if !ok {
		return "", false
	}
	v, ok := s.Fields[field]
	return v, ok
}

// CommandTableField looks up a data field value on a command table.
func (p *Project) CommandTableField(table, field string) (string, bool) {
	for _, ct := range p.CommandTables {
		if ct.Name == table {
			v, ok := ct.Fields[field]
			return v, ok
		}
	}
	return "", false
}

// TableField looks up a data field on either a structure or command table.
func (p *Project) TableField(table, field string) (string, bool) {
	if v, ok := p.StructureField(table, field); ok {
		return v, true
	}
	return p.CommandTableField(table, field)
}

// GroupNames lists the group names in declaration order.
func (p *Project) GroupNames() []string {
	names := make([]string, 0, len(p.Groups))
	for _, g := range p.Groups {
		names = append(names, g.Name)
	}
	return names
}

// GroupField looks up a data field value on a group.
func (p *Project) GroupField(group, field string) (string, bool) {
	for _, g := range p.Groups {
		if g.Name == group {
			v, ok := g.Fields[field]
			return v, ok
		}
	}
	return "", false
}

// MiscTable returns the named miscellaneous table, or nil.
func (p *Project) MiscTable(name string) *Table {
	for i := range p.Tables {
		if p.Tables[i].Name == name {
			return &p.Tables[i]
		}
	}
	return nil
}

// MiscTableNumRows is the row count of a miscellaneous table, zero when the
// table is absent.
func (p *Project) MiscTableNumRows(name string) int {
	if t := p.MiscTable(name); t != nil {
		return len(t.Rows)
	}
	return 0
}

// MiscTableData returns a cell by column name; "" when the table, column,
// or row does not exist.
func (p *Project) MiscTableData(table, column string, row int) string {
	t := p.MiscTable(table)
	if t == nil || row < 0 || row >= len(t.Rows) {
		return ""
	}
	for i, c := range t.Columns {
		if strings.EqualFold(c, column) && i < len(t.Rows[row]) {
			return t.Rows[row][i]
		}
	}
	return ""
}

// TableNames lists every structure, command, and miscellaneous table name.
func (p *Project) TableNames() []string {
	var names []string
	for _, s := range p.Structures {
		names = append(names, s.Name)
	}
	for _, ct := range p.CommandTables {
		names = append(names, ct.Name)
	}
	for _, t := range p.Tables {
		names = append(names, t.Name)
	}
	return names
}

// StructureNames lists the structure table names in declaration order.
func (p *Project) StructureNames() []string {
	names := make([]string, 0, len(p.Structures))
	for _, s := range p.Structures {
		names = append(names, s.Name)
	}
	return names
}

// CommandTableNames lists the command table names in declaration order.
func (p *Project) CommandTableNames() []string {
	names := make([]string, 0, len(p.CommandTables))
	for _, ct := range p.CommandTables {
		names = append(names, ct.Name)
	}
	return names
}

// StreamNames lists the telemetry data stream names.
func (p *Project) StreamNames() []string {
	names := make([]string, 0, len(p.Streams))
	for _, s := range p.Streams {
		names = append(names, s.Name)
	}
	return names
}

// StreamByName returns the named data stream, or nil.
func (p *Project) StreamByName(name string) *Stream {
	for i := range p.Streams {
		if p.Streams[i].Name == name {
			return &p.Streams[i]
		}
	}
	return nil
}
