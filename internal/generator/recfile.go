package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// GenerateRecFiles renders the ground-system record files: the telemetry
// record file (<system>_<BE|LE>.rec) with packet, conversion, limit, and
// mnemonic definitions, the shared prototype file (common.rec), and one
// command record file per flight computer.
func GenerateRecFiles(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	hasStructs := len(p.StructureNames()) > 0
	hasCommands := len(p.CommandTableNames()) > 0
	if !hasStructs && !hasCommands {
		return fmt.Errorf("no structure or command data supplied")
	}

	fc := flightComputerConfig(p)
	rows := dict.ReorderForByteOrder(p.Rows(), opts.Endian.Little())
	ext := opts.Endian.Suffix()

	var errs []error
	if hasStructs {
		if err := writeTelemetryRecFiles(p, opts, outputDir, fc, rows, ext); err != nil {
			logger.Error("Telemetry record output failed", "error", err)
			errs = append(errs, err)
		}
	}
	if hasCommands {
		first, _ := p.CommandTableField(p.CommandTableNames()[0], "System")
		for i := range fc.names {
			name := fc.names[i] + first + "_CMD_" + ext + ".rec"
			if err := writeCommandRecFile(p, opts, filepath.Join(outputDir, name), fc.names[i], fc.offsets[i]); err != nil {
				logger.Error("Command record output failed", "file", name, "error", err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func writeTelemetryRecFiles(p *dict.Project, opts Options, outputDir string, fc flightComputers, rows []dict.Row, ext string) error {
	tlm, err := output.Create(filepath.Join(outputDir, systemName(p)+"_"+ext+".rec"))
	if err != nil {
		return err
	}
	comb, err := output.Create(filepath.Join(outputDir, "common.rec"))
	if err != nil {
		tlm.Close()
		return err
	}

	tlm.CHeaderComment(opts.creationInfo(p, "recfile"))
	comb.CHeaderComment(opts.creationInfo(p, "recfile"))

	writeStructureRecords(p, tlm, comb, fc, rows)
	writeDiscreteConversions(p, tlm, rows)
	writeLimitDefinitions(p, tlm, rows)
	writePolynomialConversions(p, tlm, fc, rows)
	writeMnemonicDefinitions(p, tlm, fc, rows)

	return errors.Join(tlm.Close(), comb.Close())
}

// writeStructureRecords emits a CfeTelemetryPacket per flight computer for
// structures carrying a Message ID, and prototype Structure records for the
// rest. Prototypes referenced by more than one structure go to the common
// file so each system's record file can share them.
func writeStructureRecords(p *dict.Project, tlm, comb *output.File, fc flightComputers, rows []dict.Row) {
	for _, name := range p.StructureNamesByReferenceOrder() {
		msgID, _ := p.StructureField(name, "Message ID")
		if msgID == "" {
			dst := tlm
			if p.IsStructureShared(name) {
				dst = comb
			}
			dst.Line("\nprototype Structure " + name)
			dst.Line("{")
			writeStructureBody(p, dst, name, false, rows)
			dst.Line("\n}")
			continue
		}
		for i := range fc.names {
			id := dict.ExtractTelemetryID(fmt.Sprintf("%x", parseHex(msgID)+fc.offsets[i]))
			tlm.Line("\nCfeTelemetryPacket " + fc.names[i] + name)
			tlm.Line("{")
			tlm.Line("  applyWhen={FieldInRange{field = applicationId, range = " + id + "}},")
			writeStructureBody(p, tlm, name, true, rows)
			tlm.Line("\n}")
		}
	}
}

// writeStructureBody emits the member lines of a packet or prototype
// record. Packet members separate with commas, prototype members with line
// feeds; the final member line is left unterminated for the caller's
// closing brace. Strings render as single entities with a character count
// rather than as character arrays.
func writeStructureBody(p *dict.Project, f *output.File, name string, isPacket bool, rows []dict.Row) {
	used := map[string]bool{}
	needTerm := false
	for _, r := range rows {
		if r.Table != name || used[r.Variable] {
			continue
		}
		used[r.Variable] = true
		if !r.IsVariable() {
			continue
		}

		varName := dict.ConvertArrayMember(r.Variable)
		var params []string
		if r.ArraySize != "" && p.IsString(r.DataType) {
			if !strings.HasSuffix(r.Variable, "[0]") {
				// Strings are single entities; skip all but the first
				// character member.
				continue
			}
			varName = dict.ConvertArrayMember(strings.TrimSuffix(r.Variable, "[0]"))
			params = append(params, "lengthInCharacters = "+lastDimension(r.ArraySize))
		}
		if r.BitLength != "" {
			params = append(params, "lengthInBits="+r.BitLength)
		}
		enc := p.EncodedType(r.DataType, dict.TwoChar)
		if enc != r.DataType {
			params = append(params, `generateMnemonic="no"`)
		}

		if needTerm {
			if isPacket {
				f.Line(",")
			} else {
				f.Line("")
			}
		}
		needTerm = true
		f.Printf("  %s %s {%s}", enc, varName, strings.Join(params, " "))
	}
}

// lastDimension is the final dimension of an array size value; for strings
// it is the character count.
func lastDimension(arraySize string) string {
	dims := strings.Split(arraySize, ",")
	return strings.TrimSpace(dims[len(dims)-1])
}

func writeDiscreteConversions(p *dict.Project, f *output.File, rows []dict.Row) {
	first := true
	for _, r := range rows {
		if r.Enumeration == "" || !r.IsVariable() {
			continue
		}
		cells := dict.SplitArray(r.Enumeration, "|", ",")
		if len(cells) == 0 || len(cells[0]) < 4 {
			continue
		}
		if first {
			f.Blank()
			f.Line("/* Discrete Conversions */")
			first = false
		}
		writeDiscreteConversion(f, cells, r.FullName("_"))
	}
}

// writeDiscreteConversion emits one DiscreteConversion record from
// value/name/text-color/background-color cells.
func writeDiscreteConversion(f *output.File, cells [][]string, name string) {
	f.Line("DiscreteConversion " + name + "_CONVERSION")
	f.Line("{")
	for _, row := range cells {
		if len(row) < 4 {
			continue
		}
		f.Printf("  Dsc %s {range = %s", row[1], row[0])
		if row[3] != "" {
			f.Printf(", bgColor = %s", row[3])
		}
		if row[2] != "" {
			f.Printf(", fgColor = %s", row[2])
		}
		f.Line("}")
	}
	f.Line("}")
}

func writeLimitDefinitions(p *dict.Project, f *output.File, rows []dict.Row) {
	first := true
	for _, r := range rows {
		if r.LimitSets == "" || !r.IsVariable() {
			continue
		}
		limits := dict.SplitArray(r.LimitSets, "|", ",")
		if len(limits) == 0 {
			continue
		}
		if first {
			f.Blank()
			f.Line("/* Limit Definitions */")
			first = false
		}
		name := r.FullName("_")
		if len(limits) == 1 {
			f.Blank()
			f.Line("Limit " + name + "_LIMIT")
			f.Line("{")
			for i, v := range limits[0] {
				if i < 4 && v != "" {
					f.Line("  " + dict.LimitName(i) + " = " + v)
				}
			}
			f.Line("}")
			continue
		}

		// Multiple limit sets: the first row names the context mnemonic,
		// each remaining row is one context's limits with its range.
		f.Blank()
		f.Line("LimitSet " + name + "_LIMIT")
		f.Line("{")
		f.Line("  contextMnemonic = " + limits[0][0])
		f.Blank()
		for set := 1; set < len(limits); set++ {
			if set != 1 {
				f.Blank()
			}
			f.Printf("  Limit limit%d\n", set)
			f.Line("  {")
			limitIndex := 0
			for _, v := range limits[set] {
				if v == "" {
					continue
				}
				if strings.Contains(v, "..") {
					f.Line("    contextRange = " + v)
				} else {
					f.Line("    " + dict.LimitName(limitIndex) + " = " + v)
					limitIndex++
				}
			}
			f.Line("  }")
		}
		f.Line("}")
	}
}

func writePolynomialConversions(p *dict.Project, f *output.File, fc flightComputers, rows []dict.Row) {
	first := true
	for _, r := range rows {
		if r.Polynomial == "" || !r.IsVariable() {
			continue
		}
		if first {
			f.Blank()
			f.Line("/* Polynomial Conversions  -- a list of constants  {a0,a1,a2,,,an}    ,  where  y= a0 + a1*x + a2*x^2 + ... an*x^n */")
			first = false
		}

		// Multiple coefficient sets are flight computer specific; a
		// computer past the last set reuses the final one.
		sets := strings.Split(r.Polynomial, ";")
		name := r.FullName("_")
		if len(sets) == 1 {
			writePolynomial(f, "", name, coefficients(sets[0]))
			continue
		}
		for i := range fc.names {
			set := i
			if set >= len(sets) {
				set = len(sets) - 1
			}
			writePolynomial(f, fc.names[i], name, coefficients(sets[set]))
		}
	}
}

func coefficients(set string) []string {
	cells := dict.SplitArray(set, "|", ",")
	var coeffs []string
	for _, row := range cells {
		coeffs = append(coeffs, row...)
	}
	return coeffs
}

func writePolynomial(f *output.File, prefix, name string, coeffs []string) {
	f.Blank()
	f.Line("PolynomialConversion " + prefix + name + "_CONVERSION")
	f.Line("{")
	f.Line("  coefficients = {" + strings.Join(coeffs, ", ") + "}")
	f.Line("}")
}

// writeMnemonicDefinitions emits mnemonics for the primitive variables with
// no telemetry rate, one per flight computer. Telemetered variables get
// their mnemonics from the packet definitions.
func writeMnemonicDefinitions(p *dict.Project, f *output.File, fc flightComputers, rows []dict.Row) {
	f.Blank()
	f.Line("/* Mnemonic Definitions */")
	for _, r := range rows {
		if r.Telemetered() {
			continue
		}
		enc := p.EncodedType(r.DataType, dict.SingleChar)
		if enc == r.DataType {
			continue
		}
		if enc == "R" {
			enc = "U"
		}

		isString := enc == "S" && r.ArraySize != ""
		switch {
		case r.IsVariable() && !isString:
		case isString && !r.IsVariable():
			// String definitions stand in for their members.
		default:
			continue
		}

		full := r.FullName("_")
		path := r.FullName(".")
		multiplePoly := len(strings.Split(r.Polynomial, ";")) > 1

		for i := range fc.names {
			f.Printf("%s %s%s {sourceFields = {%s%s}", enc, fc.names[i], full, fc.names[i], path)
			switch {
			case r.Polynomial != "" && multiplePoly:
				f.Printf(" conversion = %s%s_CONVERSION", fc.names[i], full)
			case r.Polynomial != "" || r.Enumeration != "":
				f.Printf(" conversion = %s_CONVERSION", full)
			}
			if r.LimitSets != "" {
				f.Printf(" limits = %s_LIMIT", full)
			}
			f.Line("}")
		}
	}
}

func writeCommandRecFile(p *dict.Project, opts Options, path, prefix string, msgIDOffset int) error {
	f, err := output.Create(path)
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "recfile"))

	for _, ct := range p.CommandTables {
		writeCommandEnumerations(f, ct)
		writeCommands(p, f, ct, prefix, msgIDOffset)
	}
	return f.Close()
}

func writeCommandEnumerations(f *output.File, ct dict.CommandTable) {
	first := true
	for _, cmd := range ct.Commands {
		for _, arg := range cmd.Args {
			if arg.Enumeration == "" {
				continue
			}
			cells := dict.SplitArray(arg.Enumeration, "|", ",")
			if len(cells) == 0 || len(cells[0]) < 2 {
				continue
			}
			if first {
				f.Blank()
				f.Line("/* Enumerations */")
				first = false
			}
			f.Line("Enumeration " + commandEnumerationName(cmd, arg))
			f.Line("{")
			for _, row := range cells {
				f.Line("  EnumerationValue " + row[1] + " {value = " + row[0] + "}")
			}
			f.Line("}")
		}
	}
}

func commandEnumerationName(cmd dict.Command, arg dict.CommandArg) string {
	return cmd.Name + "_" + arg.Name + "_ENUMERATION"
}

func writeCommands(p *dict.Project, f *output.File, ct dict.CommandTable, prefix string, msgIDOffset int) {
	msgID := ct.Fields["Message ID"]
	for _, cmd := range ct.Commands {
		f.Blank()
		f.Line("CfeSoftwareCommand " + prefix + cmd.Name)
		f.Line("{")
		f.Printf("  applicationId {range=%s}\n", dict.ExtractCommandID(fmt.Sprintf("%x", parseHex(msgID)+msgIDOffset)))
		f.Printf("  commandCode {range=%d}\n", parseHex(cmd.Code))

		for _, arg := range cmd.Args {
			if arg.Name == "" || arg.DataType == "" {
				continue
			}
			enc := p.EncodedType(arg.DataType, dict.SingleChar)
			size, _ := p.TypeSize(arg.DataType)
			info := ""
			switch enc {
			case "I", "U":
				if arg.Enumeration != "" {
					info += "enumeration = " + commandEnumerationName(cmd, arg) + ", "
				}
				if size != 0 {
					info += "range=" + argRange(arg, enc == "I", size)
				}
			case "S":
				length := "1"
				if arg.ArraySize != "" {
					length = lastDimension(arg.ArraySize)
				}
				size = 1
				info = "lengthInCharacters = " + length
			}
			f.Printf("  %s%d %s {%s}\n", enc, size, arg.Name, info)
		}
		f.Line("}")
	}
}

// argRange renders a command argument's minimum..maximum, substituting the
// data type's full range when a bound is not specified.
func argRange(arg dict.CommandArg, signed bool, sizeInBytes int) string {
	minVal := arg.Minimum
	maxVal := arg.Maximum
	bits := uint(sizeInBytes * 8)
	if minVal == "" {
		if signed {
			minVal = fmt.Sprintf("%d", -(int64(1) << (bits - 1)))
		} else {
			minVal = "0"
		}
	}
	if maxVal == "" {
		if signed {
			maxVal = fmt.Sprintf("%d", (uint64(1)<<(bits-1))-1)
		} else if bits == 64 {
			maxVal = fmt.Sprintf("%d", ^uint64(0))
		} else {
			maxVal = fmt.Sprintf("%d", (uint64(1)<<bits)-1)
		}
	}
	return minVal + ".." + maxVal
}
