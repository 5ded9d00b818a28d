// Package convert extracts structure definitions from C header files and
// renders them in the dictionary CSV exchange format. Array sizes and bit
// lengths that reference compiler macros are bounded with the macro
// identifier and given placeholder definitions so the import side can
// resolve them.
package convert

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/openfsw/dictgen/internal/output"
)

// macroIdentifier bounds macro names embedded in array sizes and bit
// lengths.
const macroIdentifier = "##"

// defaultMacroValue is the placeholder assigned to extracted macros; the
// real values are edited in after import.
const defaultMacroValue = "2"

var (
	typedefStructRe = regexp.MustCompile(`^typedef\s+struct\b`)
	structNameRe    = regexp.MustCompile(`struct\s*([a-zA-Z_][a-zA-Z0-9_]*).*`)
	typedefNameRe   = regexp.MustCompile(`(?:^\s*}\s*(?:OS_PACK\s+)?|\s*;.*)`)
	designatorRe    = regexp.MustCompile(`\s*(\[|:)\s*`)
	multiSpaceRe    = regexp.MustCompile(`\s+`)
	semiSplitRe     = regexp.MustCompile(`\s*;\s*`)
	commaSlashRe    = regexp.MustCompile(`\s*,\s*/`)
	commaSplitRe    = regexp.MustCompile(`\s*,\s*`)
	trailingVarsRe  = regexp.MustCompile(`\s*,.+`)
	bracketPairRe   = regexp.MustCompile(`\]\s*\[`)
	colonSplitRe    = regexp.MustCompile(`\s*:\s*`)
	lineCommentRe   = regexp.MustCompile(`^//\s*`)
	blockCommentRe  = regexp.MustCompile(`(?:/\*\*<\s*|/\*|\\\S+\s*|\s*\*/$)`)
	numberRe        = regexp.MustCompile(`^\d+$`)
	operatorRe      = regexp.MustCompile(`[()+\-*/]`)
	operatorSplitRe = regexp.MustCompile(`\s*[()+\-*/]\s*`)
	macroNameRe     = regexp.MustCompile(`^[a-zA-Z_]`)
)

type converter struct {
	logger *slog.Logger

	lines      []string
	out        []string
	macros     []string
	macroIndex int
	desc       string
}

// Convert reads the given C header files and writes the structures they
// define to outputFile in the dictionary CSV format. sysAppName and kind
// label the output header ("HK", "application").
func Convert(logger *slog.Logger, sysAppName, kind, outputFile string, inputFiles []string, timestamp time.Time) error {
	c := &converter{logger: logger}

	for _, name := range inputFiles {
		if err := c.readFile(name); err != nil {
			logger.Warn("Can't read input file", "file", name, "error", err)
		}
	}
	if len(c.lines) == 0 {
		return fmt.Errorf("no input data read from %v", inputFiles)
	}

	c.out = append(c.out,
		"# Created by dictgen convert on "+timestamp.Format("Mon Jan 02 15:04:05 MST 2006")+
			"\n\n# Structures extracted from:"+
			"\n#   "+strings.Join(inputFiles, "\n#   ")+
			"\n\n# "+sysAppName+" "+kind+" data tables"+
			"\n#   Use the import table(s) command to import the "+sysAppName+
			"\n#   data table definitions into an existing project\n")
	c.macroIndex = len(c.out)

	c.scan()

	for len(c.out) > 0 && c.out[len(c.out)-1] == "" {
		c.out = c.out[:len(c.out)-1]
	}

	f, err := output.Create(outputFile)
	if err != nil {
		return err
	}
	for _, line := range c.out {
		f.Line(line)
	}
	return f.Close()
}

// readFile appends the file's lines, trimmed and with backslash
// continuations joined.
func (c *converter) readFile(name string) error {
	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	scanner := bufio.NewScanner(in)
	continueLine := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if continueLine {
			prev := c.lines[len(c.lines)-1]
			line = prev[:len(prev)-1] + line
			c.lines = c.lines[:len(c.lines)-1]
		}
		c.lines = append(c.lines, line)
		continueLine = strings.HasSuffix(line, "\\")
	}
	return scanner.Err()
}

// scan walks the input for structure and type definitions and emits each
// one's CSV section.
func (c *converter) scan() {
	for row := 0; row < len(c.lines); row++ {
		structName := ""
		isTypedef := false

		switch {
		case typedefStructRe.MatchString(c.lines[row]):
			isTypedef = true
		case strings.HasPrefix(c.lines[row], "struct"):
			structName = structNameRe.ReplaceAllString(c.lines[row], "$1")
		default:
			continue
		}

		// Find the definition's closing brace.
		for last := row + 1; last < len(c.lines); last++ {
			if !strings.HasPrefix(c.lines[last], "}") {
				continue
			}
			if isTypedef {
				structName = typedefNameRe.ReplaceAllString(c.lines[last], "")
			}
			if structName == "" {
				c.logger.Warn("Missing structure name", "row", row)
				break
			}

			c.out = append(c.out, "_name_type_\n\""+structName+"\",\"Structure\"")
			c.out = append(c.out, "_column_data_\n\"Data Type\",\"Variable Name\",\"Array Size\",\"Bit Length\",\"Description\"")
			c.parseMembers(structName, row+1, last)
			c.out = append(c.out, "")

			row = last
			break
		}
	}
}

// parseMembers emits a CSV row per member variable between the structure's
// opening and closing braces. A declaration may span rows (the data type
// carries over until a semicolon), define several comma-separated
// variables, or be followed by comment rows that extend its description.
func (c *converter) parseMembers(structName string, from, to int) {
	var dataType, variableName, arraySize, bitLength string
	var seen []string
	compileMacro := ""
	continueType := false

	for row := from; row < to; row++ {
		line := c.lines[row]

		if strings.HasPrefix(line, "#if") {
			compileMacro = "(WITHIN COMPILER MACRO)"
		} else if strings.HasPrefix(line, "#endif") {
			compileMacro = ""
		}

		if strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "//") {
			row = c.captureDescription(row, line)
			if variableName != "" {
				// Fold the comment into the preceding variable's
				// description.
				c.out[len(c.out)-1] = csvRow(dataType, variableName, arraySize, bitLength, c.desc)
			}
			continue
		}

		if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "**") ||
			strings.HasPrefix(line, "*/") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "\\") {
			continue
		}

		continueFromPrev := continueType

		parts := semiSplitRe.Split(line, 2)
		// A semicolon inside a comment doesn't end the declaration.
		if len(parts) == 2 && (strings.Contains(parts[0], "/*") || strings.Contains(parts[0], "//")) {
			parts = []string{line}
		}

		parts[0] = multiSpaceRe.ReplaceAllString(designatorRe.ReplaceAllString(parts[0], "$1"), " ")
		continueType = len(parts) == 1

		if continueType {
			parts = commaSlashRe.Split(line, 2)
			if len(parts) == 2 {
				parts[1] = "/" + parts[1]
			}
		}

		varNameStart := -1
		if !continueFromPrev {
			head := parts[0]
			if strings.Contains(head, ",") {
				head = trailingVarsRe.ReplaceAllString(head, "")
			}
			varNameStart = strings.LastIndex(head, " ")

			// An array size or bit length may contain a macro formula with
			// spaces; the variable name ends before the designator.
			if designator := firstIndex(parts[0], "[", ":"); designator != -1 && designator < varNameStart {
				varNameStart = strings.LastIndex(parts[0][:designator], " ")
			}
			if varNameStart == -1 {
				c.logger.Warn("Invalid variable definition", "structure", structName, "line", line)
				continue
			}
			dataType = strings.TrimSpace(parts[0][:varNameStart])
		}

		c.desc = compileMacro
		if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
			row = c.captureDescription(row, strings.TrimSpace(parts[1]))
		}

		for _, varName := range commaSplitRe.Split(strings.TrimSpace(parts[0][varNameStart+1:]), -1) {
			ptr := ""
			arraySize = ""
			bitLength = ""
			variableName = strings.TrimSpace(varName)

			if i := strings.Index(variableName, "["); i != -1 {
				arraySize = bracketPairRe.ReplaceAllString(variableName[i:], ",")
				arraySize = strings.NewReplacer("[", "", "]", "").Replace(arraySize)
				arraySize = c.macroize(arraySize)
				variableName = variableName[:i]
			} else if strings.Contains(variableName, ":") {
				nameAndBits := colonSplitRe.Split(variableName, 2)
				variableName = nameAndBits[0]
				bitLength = c.macroize(nameAndBits[1])
			}

			if contains(seen, variableName) {
				continue
			}
			if strings.HasPrefix(variableName, "*") {
				variableName = strings.TrimSpace(strings.TrimPrefix(variableName, "*"))
				ptr = " *"
			}
			seen = append(seen, variableName)
			c.out = append(c.out, csvRow(dataType+ptr, variableName, arraySize, bitLength, c.desc))
		}
	}
}

// captureDescription appends the comment starting at row to the current
// description and returns the index of its last row.
func (c *converter) captureDescription(row int, text string) int {
	if strings.HasPrefix(text, "//") {
		for {
			c.desc += " " + lineCommentRe.ReplaceAllString(text, "")
			if row+1 >= len(c.lines) || !strings.HasPrefix(strings.TrimSpace(c.lines[row+1]), "//") {
				break
			}
			row++
			text = strings.TrimSpace(c.lines[row])
		}
	} else {
		// Strip the comment delimiters and doxygen tags.
		c.desc += strings.TrimSpace(blockCommentRe.ReplaceAllString(text, ""))
		for row < len(c.lines)-1 && !strings.HasSuffix(strings.TrimSpace(c.lines[row]), "*/") {
			row++
			next := strings.TrimSpace(blockCommentRe.ReplaceAllString(strings.TrimSpace(c.lines[row]), ""))
			if next != "" {
				if c.desc != "" {
					c.desc += " "
				}
				c.desc += next
			}
		}
	}
	c.desc = strings.TrimSpace(c.desc)
	return row
}

// macroize bounds every macro name in an array size or bit length value
// with the macro identifier, registering each macro with a placeholder
// definition.
func (c *converter) macroize(value string) string {
	var parts []string
	for _, part := range commaSplitRe.Split(value, -1) {
		switch {
		case numberRe.MatchString(part):
		case operatorRe.MatchString(part):
			for _, name := range operatorSplitRe.Split(part, -1) {
				if !macroNameRe.MatchString(name) {
					continue
				}
				c.addMacro(name)
				boundary := regexp.MustCompile(`(^|[^#A-Za-z0-9_])` + regexp.QuoteMeta(name) + `([^#A-Za-z0-9_]|$)`)
				part = boundary.ReplaceAllString(part, "${1}"+macroIdentifier+name+macroIdentifier+"${2}")
			}
		default:
			c.addMacro(part)
			part = macroIdentifier + part + macroIdentifier
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ",")
}

// addMacro records a macro definition in the output's _macros_ section.
func (c *converter) addMacro(name string) {
	if contains(c.macros, name) {
		return
	}
	if len(c.macros) == 0 {
		c.insertOut(c.macroIndex, "_macros_")
		c.macroIndex++
		c.insertOut(c.macroIndex, "")
	}
	c.macros = append(c.macros, name)
	c.insertOut(c.macroIndex, "\""+name+"\",\""+defaultMacroValue+"\"")
	c.macroIndex++
}

func (c *converter) insertOut(index int, line string) {
	c.out = append(c.out, "")
	copy(c.out[index+1:], c.out[index:])
	c.out[index] = line
}

func csvRow(dataType, variableName, arraySize, bitLength, description string) string {
	return "\"" + dataType + "\",\"" + variableName + "\",\"" + arraySize + "\",\"" + bitLength + "\",\"" + description + "\""
}

// firstIndex is the smaller of the indexes of the given substrings, or -1
// when neither occurs.
func firstIndex(s string, subs ...string) int {
	best := -1
	for _, sub := range subs {
		if i := strings.Index(s, sub); i != -1 && (best == -1 || i < best) {
			best = i
		}
	}
	return best
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
