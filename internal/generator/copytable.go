package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// hkCopyTableEntries must match the HK_COPY_TABLE_ENTRIES platform define;
// the table is padded to exactly this many rows.
const hkCopyTableEntries = 1800

// GenerateCopyTable renders the housekeeping copy table source
// (hk_cpy_tbl.c) and the combined packet ID header (combined_pkt_ids.h).
func GenerateCopyTable(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	var perStream [][]dict.CopyEntry
	var ids []dict.MessageID
	seen := map[string]bool{}
	for _, stream := range p.StreamNames() {
		entries, err := p.CopyTableEntries(stream, dict.CCSDSHeaderSize)
		if err != nil {
			return err
		}
		perStream = append(perStream, entries)
		for _, id := range p.TelemetryMessageIDs(stream) {
			if !seen[id.Name] {
				seen[id.Name] = true
				ids = append(ids, id)
			}
		}
	}

	var errs []error
	if err := writeCopyTableFile(p, opts, filepath.Join(outputDir, "hk_cpy_tbl.c"), perStream); err != nil {
		logger.Error("Copy table output failed", "error", err)
		errs = append(errs, err)
	}
	if err := writeCombinedIDFile(p, opts, filepath.Join(outputDir, "combined_pkt_ids.h"), ids); err != nil {
		logger.Error("Combined packet ID output failed", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func writeCopyTableFile(p *dict.Project, opts Options, path string, perStream [][]dict.CopyEntry) error {
	f, err := output.Create(path)
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "copytable"))

	// Default widths; the widest entry in any column can grow them.
	widths := []int{10, 6, 10, 6, 5, 0, 0}
	total := 0
	var cells [][]string
	for _, entries := range perStream {
		for _, e := range entries {
			cells = append(cells, copyEntryCells(e))
		}
		total += len(entries)
	}
	widths = dict.LongestStrings(cells, widths)
	if total < hkCopyTableEntries {
		if widths[0] < len("HK_UNDEFINED_ENTRY") {
			widths[0] = len("HK_UNDEFINED_ENTRY")
		}
		if widths[2] < len("HK_UNDEFINED_ENTRY") {
			widths[2] = len("HK_UNDEFINED_ENTRY")
		}
	}

	f.Line(`#include "cfe.h"`)
	f.Line(`#include "hk_utils.h"`)
	f.Line(`#include "hk_app.h"`)
	f.Line(`#include "hk_msgids.h"`)
	f.Line(`#include "hk_tbldefs.h"`)
	f.Line(`#include "cfe_tbl_filedef.h"`)
	f.Blank()

	writeIncludesTable(f, p)

	indexWidth := len(strconv.Itoa(hkCopyTableEntries))
	headerFormat := fmt.Sprintf("/* %%-%ds| %%-%ds| %%-%ds| %%-%ds| %%-%ds */\n",
		widths[0], widths[1], widths[2], widths[3], widths[4])
	bodyFormat := fmt.Sprintf("  {%%-%ds, %%%ds, %%-%ds, %%%ds, %%%ds}%%s  /* (%%%ds) %%s : %%s */\n",
		widths[0], widths[1], widths[2], widths[3], widths[4], indexWidth)
	emptyFormat := fmt.Sprintf("  {%%-%ds, %%%ds, %%-%ds, %%%ds, %%%ds}%%s  /* (%%%ds) */\n",
		widths[0], widths[1], widths[2], widths[3], widths[4], indexWidth)

	f.Line("hk_copy_table_entry_t HK_CopyTable[HK_COPY_TABLE_ENTRIES] =")
	f.Line("{")
	f.Printf(headerFormat, "Input", "Input", "Output", "Output", "Num")
	f.Printf(headerFormat, "Message ID", "Offset", "Message ID", "Offset", "Bytes")

	index := 1
	for _, entries := range perStream {
		for _, e := range entries {
			if index > hkCopyTableEntries {
				break
			}
			f.Printf(bodyFormat,
				e.InputMsgID, strconv.Itoa(e.InputOffset),
				e.OutputMsgID, strconv.Itoa(e.OutputOffset),
				strconv.Itoa(e.NumBytes),
				entrySeparator(index), strconv.Itoa(index), e.Root, e.Variable)
			index++
		}
	}
	for ; index <= hkCopyTableEntries; index++ {
		f.Printf(emptyFormat,
			"HK_UNDEFINED_ENTRY", "0", "HK_UNDEFINED_ENTRY", "0", "0",
			entrySeparator(index), strconv.Itoa(index))
	}

	f.Line("};")
	f.Blank()
	f.Line("CFE_TBL_FILEDEF(HK_CopyTable, HK.CopyTable, HK Copy Tbl, hk_cpy_tbl.tbl)")
	return f.Close()
}

// entrySeparator appends a comma to all but the final table row.
func entrySeparator(index int) string {
	if index == hkCopyTableEntries {
		return " "
	}
	return ","
}

func copyEntryCells(e dict.CopyEntry) []string {
	return []string{
		e.InputMsgID,
		strconv.Itoa(e.InputOffset),
		e.OutputMsgID,
		strconv.Itoa(e.OutputOffset),
		strconv.Itoa(e.NumBytes),
		e.Root,
		e.Variable,
	}
}

func writeCombinedIDFile(p *dict.Project, opts Options, path string, ids []dict.MessageID) error {
	f, err := output.Create(path)
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "copytable"))

	guard := "_COMBINED_PKT_IDS_H_"
	f.Line("#ifndef " + guard)
	f.Line("#define " + guard)
	f.Blank()

	writeIncludesTable(f, p)

	nameWidth := 1
	for _, id := range ids {
		if len(id.Name) > nameWidth {
			nameWidth = len(id.Name)
		}
	}
	for _, id := range ids {
		f.Printf("#define %-"+strconv.Itoa(nameWidth)+"s  (%7s + FC_OFFSET )\n", id.Name, id.ID)
	}

	f.Blank()
	f.Line("#endif  /* " + guard + " */")
	return f.Close()
}

// writeIncludesTable emits the rows of the Includes table, if the project
// defines one, followed by a blank line.
func writeIncludesTable(f *output.File, p *dict.Project) {
	n := p.MiscTableNumRows("Includes")
	if n == 0 {
		return
	}
	for row := 0; row < n; row++ {
		f.Line(p.MiscTableData("Includes", "includes", row))
	}
	f.Blank()
}
