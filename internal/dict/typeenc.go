package dict

import "fmt"

// EncodingForm selects how EncodedType renders a primitive type.
type EncodingForm int

const (
	// SingleChar is the bare base-type letter (I, U, F, S, R).
	SingleChar EncodingForm = iota
	// TwoChar appends the byte size to the base-type letter (I4, U2, F8).
	TwoChar
	// BigEndian prefixes the two-char form for byte-swapped streams (BI4).
	BigEndian
)

// CCSDSHeaderSize is the byte size of the CCSDS primary plus secondary
// packet header that precedes telemetered structure data.
const CCSDSHeaderSize = 12

// IsPrimitive reports whether the named type is a primitive data type
// rather than a structure table.
func (p *Project) IsPrimitive(name string) bool {
	_, ok := p.types[name]
	return ok
}

// TypeSize is the byte size of a primitive data type or structure table;
// ok is false for unknown names.
func (p *Project) TypeSize(name string) (int, bool) {
	if dt, ok := p.types[name]; ok {
		return dt.Size, true
	}
	n, ok := p.sizes[name]
	return n, ok
}

// BaseType is the primitive base ("signed", "unsigned", "float",
// "character", "string"), or "" for structures and unknown names.
func (p *Project) BaseType(name string) string {
	if dt, ok := p.types[name]; ok {
		return dt.Base
	}
	return ""
}

// EncodedType renders a data type in the ground-system encoding. Structure
// names encode as themselves regardless of form, so callers can detect
// primitives by comparing the result against the input name.
func (p *Project) EncodedType(name string, form EncodingForm) string {
	dt, ok := p.types[name]
	if !ok {
		return name
	}
	var letter string
	switch dt.Base {
	case "signed":
		letter = "I"
	case "unsigned":
		letter = "U"
	case "float":
		letter = "F"
	case "character", "string":
		letter = "S"
	default:
		letter = "R"
	}
	switch form {
	case TwoChar:
		return fmt.Sprintf("%s%d", letter, dt.Size)
	case BigEndian:
		return fmt.Sprintf("B%s%d", letter, dt.Size)
	default:
		return letter
	}
}

// IsString reports whether the named type is a character-string primitive.
func (p *Project) IsString(name string) bool {
	return p.BaseType(name) == "string"
}

// IncludesHeader reports whether the structure table carries a Message ID
// data field and is therefore preceded by a CCSDS packet header on the
// wire.
func (p *Project) IncludesHeader(table string) bool {
	_, ok := p.StructureField(table, "Message ID")
	return ok
}

// LimitName maps a limit set index to its ground-system field name. The
// mini-language lists limits in the order red-low, yellow-low, yellow-high,
// red-high.
func LimitName(index int) string {
	switch index {
	case 0:
		return "redLow"
	case 1:
		return "yellowLow"
	case 2:
		return "yellowHigh"
	case 3:
		return "redHigh"
	}
	return ""
}
