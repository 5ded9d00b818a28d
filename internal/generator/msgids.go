package generator

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// GenerateMessageIDs renders the per-system message ID header: command ID
// defines followed by the parent structure's typedef.
func GenerateMessageIDs(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	if len(p.StructureNames()) == 0 {
		return fmt.Errorf("no structure data supplied")
	}
	if len(p.CommandTableNames()) == 0 {
		return fmt.Errorf("no command data supplied")
	}

	parent := p.ParentStructureName()
	system, _ := p.StructureField(parent, "System")
	name := system + "_msgids"

	f, err := output.Create(filepath.Join(outputDir, name+".h"))
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "msgids"))

	guard := "_" + name + "_H_"
	f.Line("#ifndef " + guard)
	f.Line("#define " + guard)
	f.Blank()

	writeHeaderTable(f, p)

	f.Line("/* Define message IDs */")
	for _, ct := range p.CommandTables {
		appID := ct.Fields["application id"]
		for _, cmd := range ct.Commands {
			f.Line("#define " + cmd.Name + "  " + appID)
		}
	}

	f.Blank()
	f.Line("typedef struct")
	f.Line("{")
	for _, r := range p.TableRows(parent) {
		if r.IsArrayMember() {
			continue
		}
		line := "  " + r.DataType + "  " + r.Variable
		if r.ArraySize != "" {
			line += cDims(r.ArraySize)
		} else if r.BitLength != "" {
			line += ":" + r.BitLength
		}
		f.Line(line + ";")
	}
	f.Line("} " + parent + ";")
	f.Blank()
	f.Line("#endif")

	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("Wrote message ID header", "file", name+".h")
	return nil
}

// cDims renders an array size value ("2, 3") as C array dimensions
// ("[2][3]").
func cDims(arraySize string) string {
	dims, err := dict.ParseDimensions(arraySize)
	if err != nil {
		return "[" + arraySize + "]"
	}
	var b strings.Builder
	for _, d := range dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

// writeHeaderTable emits the rows of the header include table, if the
// project defines one, followed by a blank line.
func writeHeaderTable(f *output.File, p *dict.Project) {
	n := p.MiscTableNumRows("header")
	if n == 0 {
		return
	}
	for row := 0; row < n; row++ {
		f.Line("#include " + p.MiscTableData("header", "header file", row))
	}
	f.Blank()
}
