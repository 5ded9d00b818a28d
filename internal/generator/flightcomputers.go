package generator

import (
	"strconv"
	"strings"

	"github.com/openfsw/dictgen/internal/dict"
)

// flightComputers is the redundancy configuration read from the "globals"
// group: each flight computer gets a name prefix and a message ID offset so
// the same packet and command definitions can be produced per computer.
type flightComputers struct {
	names   []string
	offsets []int
}

// flightComputerConfig reads the globals group fields, substituting the
// defaults of a single unprefixed computer with no ID offset.
func flightComputerConfig(p *dict.Project) flightComputers {
	prefix := groupFieldOr(p, "globals", "prefix", "FC")
	midDelta := parseHex(groupFieldOr(p, "globals", "MID_delta", "0x600"))
	offset := parseHex(groupFieldOr(p, "globals", "FC_Offset", "0x0000"))

	num := 1
	if v, ok := p.GroupField("globals", "NumComputers"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			num = n
		}
	}

	if num <= 1 {
		return flightComputers{names: []string{""}, offsets: []int{0}}
	}

	fc := flightComputers{}
	for i := 0; i < num; i++ {
		fc.names = append(fc.names, prefix+strconv.Itoa(i+1)+"_")
		fc.offsets = append(fc.offsets, offset)
		offset += midDelta
	}
	return fc
}

func groupFieldOr(p *dict.Project, group, field, fallback string) string {
	if v, ok := p.GroupField(group, field); ok && v != "" {
		return v
	}
	return fallback
}

func parseHex(s string) int {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	n, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0
	}
	return int(n)
}

// systemName is the project's system identifier: the System data field of
// the first group that defines one, falling back to the first root
// structure's System field.
func systemName(p *dict.Project) string {
	for _, g := range p.Groups {
		if v := g.Fields["System"]; v != "" {
			return v
		}
	}
	if roots := p.RootStructureNames(); len(roots) > 0 {
		if v, ok := p.StructureField(roots[0], "System"); ok {
			return v
		}
	}
	return ""
}
