package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

type Exporter struct {
	OutputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDir: outputDir}
}

type snapshot struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	Window        windowJSON          `json:"window"`
	Students      []string            `json:"students"`
	Planner       []map[string]string `json:"planner"`
	Messages      []map[string]string `json:"messages"`
	Announcements []map[string]string `json:"announcements"`
	GradeIssues   []map[string]string `json:"grade_issues"`
	Warnings      []map[string]string `json:"warnings"`
	Failures      int                 `json:"failures"`
}

type windowJSON struct {
	Period   string     `json:"period"`
	Trailing string     `json:"trailing"`
	Cutoff   *time.Time `json:"cutoff,omitempty"`
	Since    *time.Time `json:"since,omitempty"`
}

// ExportJSON writes the run as a JSON snapshot keyed by the table headers.
func (e *Exporter) ExportJSON(r *monitor.AggregateResult) (string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tables := Tables(r)
	snap := snapshot{
		GeneratedAt:   r.GeneratedAt,
		Window:        windowJSON{Period: r.Window.Period.String(), Trailing: r.Window.Trailing.String()},
		Students:      r.Students,
		Planner:       records(tables[1]),
		Messages:      records(tables[2]),
		Announcements: records(tables[3]),
		GradeIssues:   records(tables[4]),
		Warnings:      records(tables[5]),
		Failures:      r.Failures(),
	}
	if c, ok := r.Window.Cutoff(); ok {
		snap.Window.Cutoff = &c
	}
	if s, ok := r.Window.Since(); ok {
		snap.Window.Since = &s
	}

	data, err := json.MarshalIndent(snap, "", "\t")
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.OutputDir, filePrefix(r.GeneratedAt)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func records(t Table) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Header))
		for i, h := range t.Header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}
