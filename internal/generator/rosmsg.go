package generator

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// rosTypeNames maps the flight software primitive type names to their ROS
// message equivalents. Structure types keep their own names, since each
// structure gets its own descriptor file.
var rosTypeNames = map[string]string{
	"int8_t":   "int8",
	"uint8_t":  "uint8",
	"int16_t":  "int16",
	"uint16_t": "uint16",
	"int32_t":  "int32",
	"uint32_t": "uint32",
	"int64_t":  "int64",
	"uint64_t": "uint64",
	"float":    "float32",
	"double":   "float64",
}

// GenerateROSMessages renders one ROS message descriptor (<Struct>.msg) per
// structure table, referenced structures first so every field type is
// defined before use. Arrays become unbounded ROS arrays.
func GenerateROSMessages(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	if len(p.StructureNames()) == 0 {
		return fmt.Errorf("no structure data supplied")
	}

	for _, name := range p.StructureNamesByReferenceOrder() {
		var lines []string
		used := map[string]bool{}
		for _, r := range p.TableRows(name) {
			if r.IsArrayMember() || used[r.Variable] {
				continue
			}
			used[r.Variable] = true

			fieldType := r.DataType
			if ros, ok := rosTypeNames[fieldType]; ok {
				fieldType = ros
			}
			if r.ArraySize != "" {
				// ROS arrays are vectors; the fixed size is dropped.
				fieldType += "[]"
			}
			lines = append(lines, fieldType+" "+r.Variable)
		}
		if len(lines) == 0 {
			logger.Warn("Structure has no fields, skipping descriptor", "structure", name)
			continue
		}

		f, err := output.Create(filepath.Join(outputDir, name+".msg"))
		if err != nil {
			return err
		}
		for _, line := range lines {
			f.Line(line)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
