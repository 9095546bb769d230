package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

// Worksheet names.
const (
	SheetScored  = "Scored Criteria"
	SheetYesNo   = "Yes-No Criteria"
	SheetReports = "Reports"
)

// Workbook writes res as an xlsx workbook with one sheet per summary table
// and a sheet of per-document reports in markdown form.
func Workbook(w io.Writer, res *workflow.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	scored, yesNo := Tables(res.Summary)

	if err := f.SetSheetName("Sheet1", SheetScored); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, SheetScored, scored, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetYesNo); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetYesNo, err)
	}
	if err := writeSheet(f, SheetYesNo, yesNo, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetReports); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetReports, err)
	}
	if err := writeReports(f, res, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table, bold int) error {
	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range t.Rows {
		values := make([]any, len(row.Cells))
		for j, c := range row.Cells {
			switch {
			case c.Value != nil:
				values[j] = *c.Value
			case c.Text == missing:
				values[j] = nil
			default:
				values[j] = c.Text
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
		if row.Total {
			if err := f.SetRowStyle(sheet, i+2, i+2, bold); err != nil {
				return fmt.Errorf("style %s total: %w", sheet, err)
			}
		}
	}

	if len(t.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return fmt.Errorf("size %s columns: %w", sheet, err)
		}
	}
	return nil
}

func writeReports(f *excelize.File, res *workflow.Result, bold int) error {
	if err := f.SetSheetRow(SheetReports, "A1", &[]any{"Document", "Report"}); err != nil {
		return fmt.Errorf("write %s header: %w", SheetReports, err)
	}
	if err := f.SetRowStyle(SheetReports, 1, 1, bold); err != nil {
		return fmt.Errorf("style %s header: %w", SheetReports, err)
	}

	converter := newConverter()
	for i, r := range res.Reports {
		body, err := FragmentMarkdown(converter, r.Fragment)
		if err != nil {
			return fmt.Errorf("render report for %s: %w", r.Document, err)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetReports, cell, &[]any{r.Document, body}); err != nil {
			return fmt.Errorf("write %s row %d: %w", SheetReports, i+2, err)
		}
	}

	if err := f.SetColWidth(SheetReports, "B", "B", 100); err != nil {
		return fmt.Errorf("size %s columns: %w", SheetReports, err)
	}
	return nil
}
