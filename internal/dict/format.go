package dict

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitArray parses a mini-language cell ("a, 1 | b, 2") into rows split on
// rowSep and cells split on colSep, trimming surrounding whitespace. An
// empty input yields no rows.
func SplitArray(s, rowSep, colSep string) [][]string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out [][]string
	for _, row := range strings.Split(s, rowSep) {
		cells := strings.Split(row, colSep)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		out = append(out, cells)
	}
	return out
}

// ExtractTelemetryID masks a message ID down to its application ID bits and
// formats it as a four-digit hex literal. Values that do not parse as hex
// yield "0x0000".
func ExtractTelemetryID(msgID string) string {
	return extractID(msgID, "0x%04x", "0x0000")
}

// ExtractCommandID masks a message ID down to its application ID bits and
// formats it as a three-digit hex literal. Values that do not parse as hex
// yield "0x000".
func ExtractCommandID(msgID string) string {
	return extractID(msgID, "0x%03x", "0x000")
}

func extractID(msgID, format, fallback string) string {
	s := strings.TrimSpace(msgID)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return fallback
	}
	return fmt.Sprintf(format, n&0x7ff)
}

// ReorderForByteOrder adjusts row order for the target byte order:
// little-endian output reverses each run of rows that share a byte offset
// within the same structure table, so bit-packed fields list in wire order.
// Big-endian output is returned unchanged.
func ReorderForByteOrder(rows []Row, littleEndian bool) []Row {
	if !littleEndian {
		return rows
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	for start := 0; start < len(out); {
		end := start + 1
		for end < len(out) &&
			out[end].Table == out[start].Table &&
			out[end].Root == out[start].Root &&
			out[end].Offset == out[start].Offset {
			end++
		}
		for i, j := start, end-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		start = end
	}
	return out
}

// LongestStrings computes the per-column maximum cell length over rows,
// seeded with minWidths (which may be nil or shorter than the widest row).
func LongestStrings(rows [][]string, minWidths []int) []int {
	widths := make([]int, len(minWidths))
	copy(widths, minWidths)
	for _, row := range rows {
		for i, cell := range row {
			for len(widths) <= i {
				widths = append(widths, 0)
			}
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}
