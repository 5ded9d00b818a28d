package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// GeneratePageFiles renders one ground-system display page file per flight
// computer (auto_<fc><root>.page), laying the telemetry mnemonics out in
// columns of at most 46 rows. Arrays are assumed to be single dimensional.
func GeneratePageFiles(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	if len(p.StructureNames()) == 0 {
		return fmt.Errorf("no structure data supplied")
	}

	fc := flightComputerConfig(p)
	var errs []error
	for _, name := range fc.names {
		if err := writePageFile(p, opts, outputDir, name); err != nil {
			logger.Error("Page file output failed", "computer", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writePageFile(p *dict.Project, opts Options, outputDir, fltComp string) error {
	baseName := "auto_" + fltComp + p.ParentStructureName()
	f, err := output.Create(filepath.Join(outputDir, baseName+".page"))
	if err != nil {
		return err
	}

	// The page statement must be the first row.
	f.Line("page " + baseName)
	f.Blank()
	f.HashComment(opts.creationInfo(p, "pagefile"))
	f.Line("color default (orange, default)")
	f.Line("color mnedef (text (white, black) )")
	f.Line("color subpage (lightblue, blue)")
	f.Line("color array_fmt (royalblue, black)")
	f.Blank()

	pg := newPageLayout(p, f, fltComp)
	pg.writeMnemonics()

	return f.Close()
}

// pageLayout tracks the row/column cursor while the mnemonics are written.
// A column holds at most maxNumRows entries; overflow starts a new column
// headed by the structure (or array) the next entry belongs to.
type pageLayout struct {
	p       *dict.Project
	f       *output.File
	fltComp string
	rows    []dict.Row

	nextColumnHeader     string
	lastSubStructureName string
	columnStep           int
	maxColumnLength      int
	columnOffset         int
	maxNumRows           int
	rowCount             int
	headerNames          []string
	fullHeaderNames      []string
	inMiddleOfArray      bool
	numITOSDigits        int
	modNum               int
}

const pageModNumDefault = 4

func newPageLayout(p *dict.Project, f *output.File, fltComp string) *pageLayout {
	rows := p.Rows()
	header := fltComp + p.ParentStructureName()
	return &pageLayout{
		p:                    p,
		f:                    f,
		fltComp:              fltComp,
		rows:                 rows,
		nextColumnHeader:     header,
		lastSubStructureName: header,
		columnStep:           20,
		maxColumnLength:      20,
		columnOffset:         -21,
		maxNumRows:           46,
		rowCount:             46,
		headerNames:          make([]string, len(rows)),
		fullHeaderNames:      make([]string, len(rows)),
		numITOSDigits:        8,
		modNum:               pageModNumDefault,
	}
}

func (pg *pageLayout) writeMnemonics() {
	pg.f.Line("# Mnemonics")
	for row := range pg.rows {
		if pg.writeMnemonic(row) {
			pg.f.Blank()
		}
	}
}

// writeMnemonic emits the display entry for one structure data row,
// advancing the layout cursor. It reports whether a mnemonic definition
// was written.
func (pg *pageLayout) writeMnemonic(row int) bool {
	r := pg.rows[row]
	enc := pg.p.EncodedType(r.DataType, dict.TwoChar)

	format := ""
	if enc != r.DataType {
		format = pg.setFormat(enc)
	}

	full := r.FullName("_")
	pg.nextRow(dict.ConvertArrayMember(r.Variable), full, row)

	prepad := strings.Repeat(" ", r.Depth())
	lenAll := 0
	isOutput := false

	if r.IsVariable() {
		varName := dict.ConvertArrayMember(r.Variable)
		mnemonic := prepad + pg.fltComp + full
		lenAll = len(prepad) + len(varName)

		if enc == r.DataType {
			// Structure instance: write a sub-structure header entry.
			pg.nextColumnHeader = prepad + varName
			pg.lastSubStructureName = pg.nextColumnHeader
			pg.headerNames[row] = pg.lastSubStructureName
			pg.fullHeaderNames[row] = full
			pg.f.Printf("(+, %d, \"%s\")\n", pg.columnOffset, pg.nextColumnHeader)
		} else if r.ArraySize != "" {
			lenAll = pg.writeArrayMember(r, prepad, mnemonic, format)
		} else {
			pg.f.Printf("%s(+, %d, \"%s%s :v%s:\", raw)\n", mnemonic, pg.columnOffset, prepad, varName, format)
			lenAll = len(prepad) + len(varName) + pg.numITOSDigits + 2
		}
		isOutput = true
	} else {
		pg.nextColumnHeader = prepad + r.Variable + "[" + r.ArraySize + "] - " + enc
		lenAll = len(pg.nextColumnHeader)
		pg.f.Printf("array_fmt(+, %d, \"%s\")\n", pg.columnOffset, pg.nextColumnHeader)
	}

	if pg.maxColumnLength < lenAll {
		pg.f.Printf("## col_max_len is now = %d (was %d)\n", lenAll, pg.maxColumnLength)
		pg.maxColumnLength = lenAll
	}
	return isOutput
}

// writeArrayMember emits one array element entry. Elements group modNum per
// display row; the first element of each group carries the index range
// label, the rest continue the row.
func (pg *pageLayout) writeArrayMember(r dict.Row, prepad, mnemonic, format string) int {
	size := pageArraySize(r.ArraySize)
	index := pageArrayIndex(r.Variable)
	maxDigits := int(math.Ceil(math.Log10(float64(size))))

	pg.inMiddleOfArray = true
	lenAll := 0

	if index%pg.modNum != 0 {
		pg.f.Printf("%s(=, +, \" :v%s:\", raw)\n", mnemonic, format)
	} else {
		last := index + pg.modNum - 1
		if last > size-1 {
			last = size - 1
		}
		label := fmt.Sprintf("%s[%-*d-%-*d]", prepad, maxDigits, index, maxDigits, last)
		group := pg.modNum
		if size < group {
			group = size
		}
		lenAll = len(label) + (pg.numITOSDigits+1)*group
		pg.f.Printf("%s(+, %d, \"%s  :v%s:\", raw)\n", mnemonic, pg.columnOffset, label, format)
	}

	if index != size-1 && (index+1)%pg.modNum != 0 {
		pg.rowCount--
	}
	if index == size-1 {
		pg.inMiddleOfArray = false
		pg.nextColumnHeader = pg.lastSubStructureName
	}
	return lenAll
}

// nextRow advances the row cursor, starting a new column when the current
// one is full.
func (pg *pageLayout) nextRow(variableName, fullVariableName string, row int) {
	if pg.rowCount < pg.maxNumRows {
		pg.rowCount++
		return
	}

	// Walk back through the processed rows to find the structure the
	// overflowing variable belongs to; its name heads the new column.
	for i := row; i >= 0; i-- {
		header := pg.fullHeaderNames[i]
		if header != "" && fullVariableName == header+"_"+variableName {
			pg.lastSubStructureName = pg.headerNames[i]
		}
	}

	pg.f.Printf("## col_max_len going from %d back to %d\n", pg.maxColumnLength, pg.columnStep)
	pg.rowCount = 1
	pg.columnOffset += pg.maxColumnLength + 2
	pg.maxColumnLength = pg.columnStep

	if pg.inMiddleOfArray {
		pg.f.Printf("array_fmt(1, %d,\"%s\")\n", pg.columnOffset, pg.nextColumnHeader)
	} else {
		pg.f.Printf("(1, %d,\"%s\")\n", pg.columnOffset, pg.lastSubStructureName)
	}
}

// setFormat selects the display format for an encoded data type and
// adjusts the per-row grouping and digit count accordingly.
func (pg *pageLayout) setFormat(enc string) string {
	pg.modNum = pageModNumDefault
	numBytes, _ := strconv.Atoi(enc[1:])

	switch enc[0] {
	case 'F':
		pg.modNum = pageModNumDefault / 2
		if numBytes > 4 {
			pg.numITOSDigits = 14
			return "%13.3f"
		}
		pg.numITOSDigits = 7
		return "%6.3f"
	case 'I', 'U':
		// Digits needed for the largest value this size holds, plus a
		// sign position for signed types.
		nDigits := 2*numBytes + 1 + numBytes/4
		if enc[0] == 'I' {
			nDigits++
		}
		pg.numITOSDigits = nDigits
		if numBytes > 2 {
			pg.modNum = pageModNumDefault / 2
		}
		return "%" + strconv.Itoa(nDigits) + "d"
	case 'S':
		pg.numITOSDigits = 10
		pg.modNum = pageModNumDefault / 2
		return "%s"
	}
	return ""
}

// pageArraySize is the final dimension of the array size value.
func pageArraySize(arraySize string) int {
	n, err := strconv.Atoi(lastDimension(arraySize))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pageArrayIndex extracts the element index from a converted member name
// (the digits after the final underscore once brackets are replaced).
func pageArrayIndex(variableName string) int {
	parts := strings.Split(dict.ConvertArrayMember(variableName), "_")
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}
