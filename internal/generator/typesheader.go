package generator

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// GenerateTypes renders the per-system types header: one typedef per
// structure table, referenced structures first.
func GenerateTypes(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	if len(p.StructureNames()) == 0 {
		return fmt.Errorf("no structure data supplied")
	}

	parent := p.ParentStructureName()
	system, ok := p.StructureField(parent, "System")
	if !ok {
		system = "unknown"
	}

	f, err := output.Create(filepath.Join(outputDir, system+"_types.h"))
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "types"))

	guard := "_" + parent + "_types_H_"
	f.Line("#ifndef " + guard)
	f.Line("#define " + guard)
	f.Blank()

	writeHeaderTable(f, p)

	for _, name := range p.StructureNamesByReferenceOrder() {
		f.Line("typedef struct")
		f.Line("{")
		used := map[string]bool{}
		for _, r := range p.TableRows(name) {
			// Array definitions are output, not members; a structure
			// instantiated more than once contributes its members only
			// from the first instance.
			if r.IsArrayMember() || used[r.Variable] {
				continue
			}
			used[r.Variable] = true
			line := "  " + r.DataType + " " + r.Variable
			if r.ArraySize != "" {
				line += cDims(r.ArraySize)
			} else if r.BitLength != "" {
				line += ":" + r.BitLength
			}
			f.Line(line + ";")
		}
		f.Line("} " + name + ";")
		f.Blank()
	}

	f.Line("#endif")

	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("Wrote types header", "file", system+"_types.h")
	return nil
}
