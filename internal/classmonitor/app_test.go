package classmonitor

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/classmonitor/internal/config"
	"github.com/Afrawles/classmonitor/internal/monitor"
)

func newCanvasServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer good" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"errors":[{"message":"Invalid access token."}]}`))
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/api/v1/courses", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 3, "name": "Chemistry"}]`))
	}))
	mux.HandleFunc("/api/v1/planner/items", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"plannable_date": "` + time.Now().Add(time.Hour).UTC().Format(time.RFC3339) + `", "plannable": {"title": "Titration lab"}}]`))
	}))
	mux.HandleFunc("/api/v1/conversations", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	mux.HandleFunc("/api/v1/announcements", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	mux.HandleFunc("/api/v1/courses/3/students/submissions", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"missing": true, "workflow_state": "unsubmitted", "assignment": {"name": "Safety quiz"}}]`))
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL, outDir string) *config.Config {
	return &config.Config{
		Canvas: config.CanvasConfig{BaseURL: baseURL, PageSize: 100, Timeout: 5 * time.Second},
		Roster: []string{"Angel", "Heidy", "Jonathan"},
		Output: config.OutputConfig{Directory: outDir, Format: []string{"xlsx", "csv", "json"}},
		Log:    config.LogConfig{Format: "json", Level: "debug"},
		Credentials: config.NewCredentials(map[string]string{
			"Angel": "good",
			"Heidy": "revoked",
		}),
	}
}

func TestApplicationSyncAndExport(t *testing.T) {
	srv := newCanvasServer(t)
	out := t.TempDir()
	var logs bytes.Buffer

	app := New(testConfig(srv.URL, out), &logs)
	res, err := app.Sync(context.Background(), app.Config.Roster, monitor.AllTime, monitor.LastWeek)
	require.NoError(t, err)

	require.Len(t, res.Planner, 1)
	assert.Equal(t, "Angel", res.Planner[0].Student)
	require.Len(t, res.GradeIssues, 1)
	assert.Equal(t, monitor.IssueMissing, res.GradeIssues[0].Kind)
	assert.Equal(t, "Chemistry", res.GradeIssues[0].Course)

	// Heidy's revoked token fails courses, planner and conversations;
	// with no courses there is nothing else to request
	assert.Equal(t, 3, res.Failures())
	assert.Equal(t, []string{"Jonathan"}, res.Skipped())
	assert.Contains(t, logs.String(), `"msg":"facet fetch failed"`)

	var done []string
	files, err := app.Export(res, func(format string) { done = append(done, format) })
	require.NoError(t, err)
	assert.Equal(t, []string{"xlsx", "csv", "json"}, done)
	assert.Len(t, files, 1+6+1)
	for _, f := range files {
		_, err := os.Stat(f)
		assert.NoError(t, err, f)
	}
}

func TestApplicationExport_UnknownFormat(t *testing.T) {
	cfg := testConfig("https://unused.test", t.TempDir())
	cfg.Output.Format = []string{"json", "pdf"}
	app := New(cfg, &bytes.Buffer{})

	files, err := app.Export(&monitor.AggregateResult{GeneratedAt: time.Now()}, nil)
	assert.ErrorContains(t, err, "pdf")
	assert.Len(t, files, 1)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Format: "text", Level: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "student", "Alex")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "student=Alex")
}
