package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

type ExcelExporter struct {
	OutputDir string
}

func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{OutputDir: outputDir}
}

// Export writes a workbook with a Dashboard sheet followed by one sheet per
// facet and returns its path.
func (e *ExcelExporter) Export(r *monitor.AggregateResult) (string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(e.OutputDir, filePrefix(r.GeneratedAt)+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	for i, t := range Tables(r) {
		sheet := sanitizeSheetName(t.Name)
		// the first table is the dashboard, which gets the window caption on top
		startRow := 1
		if i == 0 {
			startRow = 3
		}
		if err := e.writeSheet(f, sheet, t, startRow, headerStyle); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if i == 0 {
			f.SetCellValue(sheet, "A1", r.Window.Caption())
			f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated %s", r.GeneratedAt.Format("2006-01-02 15:04")))
			if idx, err := f.GetSheetIndex(sheet); err == nil {
				f.SetActiveSheet(idx)
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(filename); err != nil {
		return "", fmt.Errorf("failed to save excel file: %w", err)
	}
	return filename, nil
}

func (e *ExcelExporter) writeSheet(f *excelize.File, sheet string, t Table, startRow, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for col, header := range t.Header {
		cell := cellName(col+1, startRow)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range t.Rows {
		for col, value := range row {
			f.SetCellValue(sheet, cellName(col+1, startRow+1+i), value)
		}
	}

	for col, header := range t.Header {
		width := float64(len(header) + 4)
		if width < 15 {
			width = 15
		}
		if header == "Preview" || header == "Detail" {
			width = 60
		}
		letter := columnLetter(col + 1)
		f.SetColWidth(sheet, letter, letter, width)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      startRow,
		TopLeftCell: cellName(1, startRow+1),
		ActivePane:  "bottomLeft",
	})
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "?", "")
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, "[", "(")
	name = strings.ReplaceAll(name, "]", ")")

	if len(name) > 31 {
		name = name[:31]
	}

	return name
}
