package generator

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// esStartupTable is the miscellaneous table holding the start-up script
// entries.
const esStartupTable = "ES Start-up Script"

var esStartupColumns = []string{
	"Module Type",
	"Path & File",
	"Entry Point",
	"cFE Name",
	"Priority",
	"Stack Size",
	"Exception Action",
}

// GenerateStartup renders the cFE ES start-up script
// (cfe_es_startup.scr): a fixed-width, comma-delimited module table.
func GenerateStartup(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	numRows := p.MiscTableNumRows(esStartupTable)
	if numRows == 0 {
		return fmt.Errorf("no %s data supplied", esStartupTable)
	}

	entries := make([][]string, 0, numRows)
	for row := 0; row < numRows; row++ {
		entry := make([]string, len(esStartupColumns))
		for col, column := range esStartupColumns {
			entry[col] = p.MiscTableData(esStartupTable, column, row)
		}
		entries = append(entries, entry)
	}

	widths := dict.LongestStrings(entries, []int{7, 6, 5, 4, 8, 5, 9})

	f, err := output.Create(filepath.Join(outputDir, "cfe_es_startup.scr"))
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "startup"))

	headerFormat := fmt.Sprintf("/* %%-%ds | %%-%ds | %%-%ds | %%-%ds | %%-%ds | %%-%ds | %%-6s | %%s */\n",
		widths[0], widths[1], widths[2], widths[3], widths[4], widths[5])
	bodyFormat := fmt.Sprintf("   %%-%ds , %%-%ds , %%-%ds , %%-%ds , %%-%ds , %%-%ds , %%-6s , %%s;\n",
		widths[0], widths[1], widths[2], widths[3], widths[4], widths[5])

	f.Printf(headerFormat, "Module", "Path &", "Entry", "cFE", "Priority", "Stack", "Unused", "Exception")
	f.Printf(headerFormat, "Type", "File", "Point", "Name", "", "Size", "", "Action")

	for _, entry := range entries {
		f.Printf(bodyFormat, entry[0], entry[1], entry[2], entry[3], entry[4], entry[5], "0x0", entry[6])
	}

	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("Wrote start-up script", "rows", len(entries))
	return nil
}
