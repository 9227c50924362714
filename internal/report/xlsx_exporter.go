package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names used in the workbook.
const (
	CandidatesSheet = "Candidates"
	SummarySheet    = "Summary"
)

// XLSXExporter writes the candidate table to a workbook with a second sheet
// holding the run counters.
type XLSXExporter struct{}

// Extension implements Exporter.
func (e *XLSXExporter) Extension() string { return ".xlsx" }

// Export implements Exporter.
func (e *XLSXExporter) Export(report *Report, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default "Sheet1" becomes the candidates table.
	if err := f.SetSheetName(f.GetSheetName(0), CandidatesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(CandidatesSheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range report.Rows {
		write := func(col int, v any) error {
			cell, _ := excelize.CoordinatesToCellName(col, r+2)
			return f.SetCellValue(CandidatesSheet, cell, v)
		}
		// Mobile numbers stay strings so leading zeros survive.
		cells := []any{row.Index, row.Name, row.Email, row.State, row.Mobile, row.Emergency, row.FileName}
		for c, v := range cells {
			if err := write(c+1, v); err != nil {
				return err
			}
		}
	}

	widths := []struct {
		start, end string
		width      float64
	}{
		{"A", "A", 6},
		{"B", "C", 30},
		{"D", "D", 18},
		{"E", "F", 26},
		{"G", "G", 40},
	}
	for _, w := range widths {
		if err := f.SetColWidth(CandidatesSheet, w.start, w.end, w.width); err != nil {
			return err
		}
	}

	counters := [][]any{
		{"Total", report.Total},
		{"Success", report.Success},
		{"Failed", report.Failed},
	}
	for i, pair := range counters {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &pair); err != nil {
			return err
		}
	}

	idx, err := f.GetSheetIndex(CandidatesSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
