package dict

import "strings"

// Row is one flattened structure variable instance. The row list is built
// from every root structure in declaration order, expanding nested
// structures and arrays, so that a row's Offset is relative to the start of
// its root structure while ProtoOffset is relative to the structure table
// that defines the variable.
//
// Array definitions are immediately followed by their member rows; member
// variable names carry the index brackets (e.g. "counts[2]") and keep the
// definition's ArraySize value.
type Row struct {
	Table       string
	Root        string
	Path        []string
	Variable    string
	DataType    string
	ArraySize   string
	BitLength   string
	Description string
	Units       string
	Enumeration string
	Polynomial  string
	LimitSets   string
	Rates       map[string]string
	Offset      int
	ProtoOffset int
}

// IsArrayMember reports whether the row is an expanded array member rather
// than the array definition.
func (r Row) IsArrayMember() bool {
	return strings.HasSuffix(r.Variable, "]")
}

// IsVariable reports whether the row represents an actual datum: either a
// non-array variable or an array member. Array definitions carry an array
// size but no trailing bracket and are skipped by value-oriented outputs.
func (r Row) IsVariable() bool {
	return r.Variable != "" && (r.ArraySize == "" || r.IsArrayMember())
}

// Telemetered reports whether the variable has a non-blank rate in any
// data stream.
func (r Row) Telemetered() bool {
	for _, rate := range r.Rates {
		if rate != "" {
			return true
		}
	}
	return false
}

// Rate returns the row's rate for one data stream.
func (r Row) Rate(stream string) string {
	return r.Rates[stream]
}

// FullName joins the row's structure path and variable name with sep,
// converting array brackets to underscores so the result is a legal
// identifier (a[2] becomes a_2).
func (r Row) FullName(sep string) string {
	parts := make([]string, 0, len(r.Path)+1)
	for _, p := range r.Path {
		parts = append(parts, ConvertArrayMember(p))
	}
	parts = append(parts, ConvertArrayMember(r.Variable))
	return strings.Join(parts, sep)
}

// Depth is the number of parent structures above the row's variable.
func (r Row) Depth() int {
	return len(r.Path)
}

// ConvertArrayMember converts an array member name by replacing left
// brackets with underscores and dropping right brackets (a[2] becomes a_2).
func ConvertArrayMember(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "[", "_"), "]", "")
}

// Rows returns the flattened structure variable rows.
func (p *Project) Rows() []Row {
	return p.rows
}

// StructureRowCount is the number of flattened structure rows.
func (p *Project) StructureRowCount() int {
	return len(p.rows)
}

// TableRows lists the flattened rows defined by the named structure table,
// in flatten order. A structure instantiated more than once contributes its
// variables once per instance; callers that build type definitions
// deduplicate by variable name so only the first instance is used.
func (p *Project) TableRows(table string) []Row {
	var out []Row
	for _, r := range p.rows {
		if r.Table == table {
			out = append(out, r)
		}
	}
	return out
}

// RowByPath finds the row for a dot-separated full variable path under the
// given root structure (array brackets converted to underscores, as in
// "payload.counts_0").
func (p *Project) RowByPath(root, path string) (Row, bool) {
	for _, r := range p.rows {
		if r.Root == root && r.FullName(".") == path {
			return r, true
		}
	}
	return Row{}, false
}

// flatten expands one structure instance into rows. base is the instance's
// byte offset from the root structure.
func (p *Project) flatten(name, root string, path []string, base int) error {
	s := p.structs[name]
	var pk packer
	for _, v := range s.Variables {
		total, err := p.memberSize(name, v, nil)
		if err != nil {
			return err
		}
		isStruct := p.isStruct(v.DataType)
		local := pk.place(v, total, isStruct)

		row := Row{
			Table:       name,
			Root:        root,
			Path:        path,
			Variable:    v.Name,
			DataType:    v.DataType,
			ArraySize:   v.ArraySize,
			BitLength:   v.BitLength,
			Description: v.Description,
			Units:       v.Units,
			Enumeration: v.Enumeration,
			Polynomial:  v.Polynomial,
			LimitSets:   v.LimitSets,
			Rates:       v.Rates,
			Offset:      base + local,
			ProtoOffset: local,
		}
		p.rows = append(p.rows, row)

		switch {
		case v.ArraySize != "":
			dims, err := ParseDimensions(v.ArraySize)
			if err != nil {
				return err
			}
			count := 1
			for _, d := range dims {
				count *= d
			}
			elem := total / count
			idx := make([]int, len(dims))
			for linear := 0; linear < count; linear++ {
				member := row
				member.Variable = v.Name + bracketed(idx)
				member.Offset = base + local + linear*elem
				member.ProtoOffset = local + linear*elem
				p.rows = append(p.rows, member)
				if isStruct {
					sub := make([]string, len(path), len(path)+1)
					copy(sub, path)
					sub = append(sub, member.Variable)
					if err := p.flatten(v.DataType, root, sub, member.Offset); err != nil {
						return err
					}
				}
				advance(idx, dims)
			}
		case isStruct:
			sub := make([]string, len(path), len(path)+1)
			copy(sub, path)
			sub = append(sub, v.Name)
			if err := p.flatten(v.DataType, root, sub, base+local); err != nil {
				return err
			}
		}
	}
	return nil
}

func bracketed(idx []int) string {
	var b strings.Builder
	for _, i := range idx {
		b.WriteByte('[')
		b.WriteString(itoa(i))
		b.WriteByte(']')
	}
	return b.String()
}

// advance increments a row-major multi-dimensional index.
func advance(idx, dims []int) {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < dims[d] {
			return
		}
		idx[d] = 0
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
