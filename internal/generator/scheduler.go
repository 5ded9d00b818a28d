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

// Message-definition entries carry a fixed command header behind the
// message ID: stream ID flags, sequence, and length words.
const (
	schCommandWord1 = "0xC000"
	schCommandWord2 = "0x0001"
	schCommandWord3 = "0x0000"

	schUnusedMID = "SCH_UNUSED_MID"
)

// GenerateScheduler renders the scheduler message definition table
// (sch_def_msgtbl.c) and schedule table (sch_def_schtbl.c) sources.
func GenerateScheduler(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error {
	if p.Scheduler == nil {
		return fmt.Errorf("project %q defines no scheduler data", p.Name)
	}

	var errs []error
	if err := writeMessageTableFile(p, opts, filepath.Join(outputDir, "sch_def_msgtbl.c")); err != nil {
		logger.Error("Message table output failed", "error", err)
		errs = append(errs, err)
	}
	if err := writeScheduleTableFile(p, opts, filepath.Join(outputDir, "sch_def_schtbl.c")); err != nil {
		logger.Error("Schedule table output failed", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func writeSchedulerIncludes(f *output.File) {
	f.Line(`#include "cfe.h"`)
	f.Line(`#include "cfe_tbl_filedef.h"`)
	f.Line(`#include "sch_platform_cfg.h"`)
	f.Line(`#include "sch_msgdefs.h"`)
	f.Line(`#include "sch_tbldefs.h"`)
	f.Blank()
}

func writeMessageTableFile(p *dict.Project, opts Options, path string) error {
	f, err := output.Create(path)
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "scheduler"))
	writeSchedulerIncludes(f)

	sched := p.Scheduler
	for _, app := range sched.Applications {
		f.Line(`#include "` + strings.ToLower(app) + `_msids.h"`)
	}
	f.Blank()

	f.Line("/*")
	f.Line("** Default message table data")
	f.Line("*/")
	f.Line("SCH_MessageEntry_t SCH_DefaultMessageTable[SCH_MAX_MESSAGES] =")
	f.Line("{")

	widths := []int{10, 20, 5, 5}
	bodyFormat := fmt.Sprintf("  { {%%-%ds, %%%ds, %%%ds, %%%ds} }%%s\n",
		widths[0]+1, widths[1]+1, widths[2]+1, widths[3]+1)

	for row, mid := range sched.MessageTable {
		f.Printf("/* command ID #%2d  */\n", row)
		comma := ","
		if row == len(sched.MessageTable)-1 {
			comma = " "
		}
		if mid != schUnusedMID {
			f.Printf(bodyFormat, mid, schCommandWord1, schCommandWord2, schCommandWord3, comma)
		} else {
			f.Printf("  { { %s } }%s\n", mid, comma)
		}
	}

	f.Line("};")
	f.Blank()
	f.Line("CFE_TBL_FILEDEF(SCH_DefaultMessageTable, SCH_APP.MSG_DEFS, SCH message table, sch_def_msgtbl.tbl)")
	return f.Close()
}

func writeScheduleTableFile(p *dict.Project, opts Options, path string) error {
	f, err := output.Create(path)
	if err != nil {
		return err
	}

	f.CHeaderComment(opts.creationInfo(p, "scheduler"))
	writeSchedulerIncludes(f)

	sched := p.Scheduler
	widths := []int{11, 20, 5, 5, 5, 15}

	defineFormat := fmt.Sprintf("#define %%-%ds %%s\n", widths[0]+1)
	for _, def := range sched.Defines {
		f.Printf(defineFormat, def.Name, def.Value)
	}
	f.Blank()
	f.Blank()

	f.Line("/*")
	f.Line("** Table file header")
	f.Line("*/")
	f.Line("static CFE_TBL_FileDef_t CFE_TBL_FileDef =")
	f.Line("{")
	f.Line(`  "SCH_DefaultScheduleTable",`)
	f.Line(`  "SCH_APP.SCHED_DEF",`)
	f.Line(`  "SCH schedule table",`)
	f.Line(`  "sch_def_schtbl.tbl",`)
	f.Line("  sizeof (SCH_ScheduleEntry_t) * SCH_TABLE_ENTRIES")
	f.Line("};")
	f.Blank()
	f.Blank()

	f.Line("/*")
	f.Line("** Default schedule table data")
	f.Line("*/")
	f.Line("SCH_ScheduleEntry_t SCH_DefaultScheduleTable[SCH_TABLE_ENTRIES] =")
	f.Line("{")
	f.Line("/*")
	f.Line("**    uint8     EnableState  -- SCH_UNUSED, SC_ENABLED")
	f.Line("**    uint8     Type         -- 0 or SCH_ACTIVITY_SEND_MSG")
	f.Line("**    uint16    Frequency    -- how many seconds between Activity execution")
	f.Line("**    uint16    Remainder    -- seconds offset to perform Activity")
	f.Line("**    uint16    MessageIndex -- Message index into Message Definition table")
	f.Line("**    uint32    GroupData    -- Group and Multi-Group membership definitions")
	f.Line("*/")

	bodyFormat := fmt.Sprintf("  {%%-%ds, %%%ds, %%%ds, %%%ds, %%%ds, %%%ds}%%s\n",
		widths[0]+1, widths[1]+1, widths[2]+1, widths[3]+1, widths[4]+1, widths[5]+1)

	for slot, s := range sched.Slots {
		f.Blank()
		f.Printf("/* slot #%2d  */\n", slot+1)
		for pos, e := range s.Entries {
			comma := ","
			if slot == len(sched.Slots)-1 && pos == len(s.Entries)-1 {
				comma = " "
			}
			f.Printf(bodyFormat, e.Enable, e.Type, e.Frequency, e.Remainder, e.MessageIndex, e.GroupData, comma)
		}
	}

	f.Line("};")
	f.Blank()
	f.Line("CFE_TBL_FILEDEF(SCH_DefaultScheduleTable, SCH_APP.SCHED_DEF, SCH schedule table, sch_def_schtbl.tbl)")
	return f.Close()
}
