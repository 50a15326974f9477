package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

type CSVExporter struct {
	OutputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir}
}

// Export writes one CSV file per table and returns their paths.
func (e *CSVExporter) Export(r *monitor.AggregateResult) ([]string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	prefix := filePrefix(r.GeneratedAt)
	var files []string
	for _, t := range Tables(r) {
		name := fmt.Sprintf("%s_%s.csv", prefix, strings.ToLower(strings.ReplaceAll(t.Name, " ", "_")))
		path := filepath.Join(e.OutputDir, name)
		if err := writeCSV(path, t); err != nil {
			return files, fmt.Errorf("failed to export %s: %w", t.Name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func writeCSV(path string, t Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return file.Close()
}
