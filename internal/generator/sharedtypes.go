package generator

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// GenerateSharedTypes renders shared_types.h: annotated typedefs for every
// structure referenced by more than one structure table, with byte offset,
// size, rate, and description comments per member.
func GenerateSharedTypes(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	if len(p.StructureNames()) == 0 {
		return fmt.Errorf("no structure data supplied")
	}

	f, err := output.Create(filepath.Join(outputDir, "shared_types.h"))
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "sharedtypes"))

	guard := "_SHARED_TYPES_H_"
	f.Line("#ifndef " + guard)
	f.Line("#define " + guard)
	f.Line("#include <stdint.h>")
	f.Blank()

	for _, name := range p.StructureNamesByReferenceOrder() {
		if p.IsStructureShared(name) {
			writeAnnotatedStructure(f, p, name)
		}
	}

	f.Blank()
	f.Line("#endif /* #ifndef " + guard + " */")

	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("Wrote shared types header", "file", "shared_types.h")
	return nil
}

const (
	ccsdsPriHeaderDecl = "   char CFS_PRI_HEADER[6];"
	ccsdsSecHeaderDecl = "   char CFS_SEC_HEADER[6];"
)

// writeAnnotatedStructure emits one structure's typedef with each member
// padded so the offset/size/rate/description comments align.
func writeAnnotatedStructure(f *output.File, p *dict.Project, name string) {
	members := typedefMembers(p, name)
	_, hasMsgID := p.StructureField(name, "Message ID")

	// Column where the member comments start: the widest member
	// declaration, the closing structure line, or the header variables
	// when a packet header is prepended.
	width := len("} " + name + "; ")
	if hasMsgID {
		width = max(width, len(ccsdsPriHeaderDecl)+1)
	}
	for _, r := range members {
		width = max(width, len(memberDecl(r))+1)
	}

	size, _ := p.StructureSize(name)
	headerOffset := 0
	if hasMsgID {
		headerOffset = dict.CCSDSHeaderSize
		size += dict.CCSDSHeaderSize
	}

	f.Printf("/* Structure: %s (%d bytes total)", name, size)
	if desc := p.StructureDescription(name); desc != "" {
		f.Printf("\n   Description: %s", desc)
	}
	f.Line(" */")
	f.Line("typedef struct")
	f.Line("{")

	if hasMsgID {
		f.Printf("%-"+strconv.Itoa(width)+"s /* [%5d] (6 bytes)  #CCSDS_PriHdr_t */\n", ccsdsPriHeaderDecl, 0)
		f.Printf("%-"+strconv.Itoa(width)+"s /* [%5d] (6 bytes)  #CCSDS_CmdSecHdr_t */\n", ccsdsSecHeaderDecl, 6)
	}

	for _, r := range members {
		elemSize, _ := p.TypeSize(r.DataType)
		sizeString := fmt.Sprintf("(%d bytes)", elemSize)
		if r.ArraySize != "" {
			dims, err := dict.ParseDimensions(r.ArraySize)
			if err == nil {
				total := elemSize
				var sizeMsg strings.Builder
				for _, d := range dims {
					total *= d
					fmt.Fprintf(&sizeMsg, "%dx", d)
				}
				sizeString = fmt.Sprintf("(%s%d=%d bytes)", sizeMsg.String(), elemSize, total)
			}
		} else if r.BitLength != "" {
			sizeString = ""
		}

		var rateInfo strings.Builder
		for _, stream := range p.StreamNames() {
			if rate := r.Rate(stream); rate != "" {
				fmt.Fprintf(&rateInfo, "{%s @%s Hz}", stream, rate)
			}
		}

		comment := strings.TrimSpace(sizeString + rateInfo.String() + "  " + r.Description)
		f.Printf("%-"+strconv.Itoa(width)+"s /* [%5d] %s */\n",
			memberDecl(r), r.ProtoOffset+headerOffset, comment)
	}

	f.Printf("%-"+strconv.Itoa(width)+"s /* Total size of %d bytes */\n", "} "+name+";", size)
}

// typedefMembers lists the rows that appear in a structure's type
// definition: array definitions but not members, first instance only.
func typedefMembers(p *dict.Project, name string) []dict.Row {
	var members []dict.Row
	used := map[string]bool{}
	for _, r := range p.TableRows(name) {
		if r.IsArrayMember() || used[r.Variable] {
			continue
		}
		used[r.Variable] = true
		members = append(members, r)
	}
	return members
}

func memberDecl(r dict.Row) string {
	decl := "   " + r.DataType + " " + r.Variable
	if r.ArraySize != "" {
		decl += cDims(r.ArraySize)
	} else if r.BitLength != "" {
		decl += ":" + r.BitLength
	}
	return decl + ";"
}
