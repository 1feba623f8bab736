// Package excel wraps the spreadsheet collaborator: roster parsing for bulk
// import and workbook generation for export.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RosterRow is one data line from an uploaded roster. Row is the original
// file row number, header included, so import reports match the spreadsheet.
type RosterRow struct {
	Row       int
	StudentID string
	Name      string
	Major     string
}

// ExportRow is one student line in the exported workbook.
type ExportRow struct {
	StudentID      string
	Name           string
	Major          string
	CurrentScore   float64
	TotalCalls     int
	ArrivedCalls   int
	CorrectAnswers int
	TransferRights int
}

const exportSheet = "Students"

var exportHeader = []interface{}{
	"Student ID", "Name", "Major", "Current Score",
	"Total Calls", "Arrived Calls", "Correct Answers", "Transfer Rights",
}

// ParseRoster reads an xlsx roster with a single header row and the fixed
// column order (student id, name, major). Fully blank lines are dropped;
// partially filled lines are returned as-is for the import to report on.
func ParseRoster(r io.Reader) ([]RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	parsed := make([]RosterRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		entry := RosterRow{
			Row:       i + 2,
			StudentID: cell(row, 0),
			Name:      cell(row, 1),
			Major:     cell(row, 2),
		}
		if entry.StudentID == "" && entry.Name == "" && entry.Major == "" {
			continue
		}
		parsed = append(parsed, entry)
	}

	return parsed, nil
}

// BuildExport produces the export workbook as raw xlsx bytes.
func BuildExport(rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{
			row.StudentID, row.Name, row.Major, row.CurrentScore,
			row.TotalCalls, row.ArrivedCalls, row.CorrectAnswers, row.TransferRights,
		}
		cellRef := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cellRef, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
