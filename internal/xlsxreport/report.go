// =============================================================================
// Comma Fixer - XLSX Run Report
// =============================================================================
//
// This module writes a run summary as an Excel workbook so large runs can be
// filtered and sorted by reviewers.
//
// WORKBOOK STRUCTURE:
//   Sheet "Summary": one label/value pair per row
//
//   | Column A        | Column B                             |
//   |-----------------|--------------------------------------|
//   | Run ID          | 3f2c...                              |
//   | Root            | ./src                                |
//   | Total Files     | 120                                  |
//   | ...             | ...                                  |
//
//   Sheet "Files": one row per processed file
//
//   | File | Status | Lines | Commas Inserted | Duration (ms) | Error |
//
// =============================================================================

package xlsxreport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/commafix/internal/types"
)

// Sheet names.
const (
	SummarySheet = "Summary"
	FilesSheet   = "Files"
)

// filesHeader is the header row of the Files sheet.
var filesHeader = []interface{}{"File", "Status", "Lines", "Commas Inserted", "Duration (ms)", "Error"}

// FileName returns the report file name for a run.
func FileName(summary types.RunSummary) string {
	name := "commafix_report_" + summary.StartTime.Format("20060102_150405")
	if len(summary.RunID) >= 8 {
		name += "_" + summary.RunID[:8]
	}
	return name + ".xlsx"
}

// Write saves the summary as a workbook at path.
//
// PARAMETERS:
//   - summary: The run summary.
//   - path: The destination .xlsx file. Parent directories are created.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func Write(summary types.RunSummary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(FilesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeSummarySheet(f, summary, bold); err != nil {
		return err
	}
	if err := writeFilesSheet(f, summary, bold); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary types.RunSummary, bold int) error {
	counts := summary.Counts()
	rows := [][]interface{}{
		{"Run ID", summary.RunID},
		{"Root", summary.RootDir},
		{"Dry Run", summary.DryRun},
		{"Start Time", summary.StartTime.Format("2006-01-02 15:04:05")},
		{"End Time", summary.EndTime.Format("2006-01-02 15:04:05")},
		{"Duration", summary.Duration().String()},
		{"Total Files", len(summary.Results)},
		{"Repaired", counts[types.StatusRepaired]},
		{"Would Repair", counts[types.StatusWouldRepair]},
		{"Unchanged", counts[types.StatusUnchanged]},
		{"Failed", counts[types.StatusFailed]},
		{"Commas Inserted", summary.TotalCommas()},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	last := fmt.Sprintf("A%d", len(rows))
	if err := f.SetCellStyle(SummarySheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style summary sheet: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "B", 24)
}

func writeFilesSheet(f *excelize.File, summary types.RunSummary, bold int) error {
	if err := f.SetSheetRow(FilesSheet, "A1", &filesHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(FilesSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range summary.Results {
		errText := ""
		if r.Error != nil {
			errText = r.Error.Error()
		}
		row := []interface{}{
			r.FilePath,
			string(r.Status),
			r.Stats.Lines,
			r.Stats.CommasInserted,
			r.Stats.ProcessingTime.Milliseconds(),
			errText,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(FilesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.FilePath, err)
		}
	}

	if err := f.SetColWidth(FilesSheet, "A", "A", 60); err != nil {
		return err
	}
	return f.AutoFilter(FilesSheet, fmt.Sprintf("A1:F%d", len(summary.Results)+1), nil)
}
