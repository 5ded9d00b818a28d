package dict

import "fmt"

// MessageID pairs a message ID name with its value.
type MessageID struct {
	Name string
	ID   string
}

// CopyEntry is one housekeeping copy table row: copy NumBytes bytes from
// InputOffset in the packet named by InputMsgID to OutputOffset in the
// combined packet named by OutputMsgID.
type CopyEntry struct {
	InputMsgID   string
	InputOffset  int
	OutputMsgID  string
	OutputOffset int
	NumBytes     int
	Root         string
	Variable     string
}

// TelemetryMessageIDs lists the message ID name/value pairs of a data
// stream's downlink messages.
func (p *Project) TelemetryMessageIDs(stream string) []MessageID {
	s := p.StreamByName(stream)
	if s == nil {
		return nil
	}
	ids := make([]MessageID, 0, len(s.Messages))
	for _, m := range s.Messages {
		ids = append(ids, MessageID{Name: m.Name, ID: m.ID})
	}
	return ids
}

// CopyTableEntries expands a data stream's downlink messages into copy
// table entries. headerSize is the packet header length prepended to both
// the input and output offsets; input offsets locate the variable inside
// its root packet, output offsets accumulate per message.
func (p *Project) CopyTableEntries(stream string, headerSize int) ([]CopyEntry, error) {
	s := p.StreamByName(stream)
	if s == nil {
		return nil, fmt.Errorf("unknown data stream %q", stream)
	}
	var entries []CopyEntry
	for _, m := range s.Messages {
		outOffset := headerSize
		for _, mv := range m.Variables {
			row, ok := p.RowByPath(mv.Packet, mv.Variable)
			if !ok {
				return nil, fmt.Errorf("stream %q message %q: no variable %q in packet %q", stream, m.Name, mv.Variable, mv.Packet)
			}
			inputName, ok := p.StructureField(mv.Packet, "Message ID Name")
			if !ok {
				return nil, fmt.Errorf("packet %q has no Message ID Name data field", mv.Packet)
			}
			size := p.rowElementSize(row)
			entries = append(entries, CopyEntry{
				InputMsgID:   inputName,
				InputOffset:  headerSize + row.Offset,
				OutputMsgID:  m.Name,
				OutputOffset: outOffset,
				NumBytes:     size,
				Root:         mv.Packet,
				Variable:     mv.Variable,
			})
			outOffset += size
		}
	}
	return entries, nil
}

// rowElementSize is the byte size of a single element of the row's data
// type: the structure size for structure-typed rows, the primitive size
// otherwise. Array definitions and members both report the element size.
func (p *Project) rowElementSize(r Row) int {
	if n, ok := p.sizes[r.DataType]; ok {
		return n
	}
	if dt, ok := p.types[r.DataType]; ok {
		return dt.Size
	}
	return 0
}
