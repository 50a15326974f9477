package classmonitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Afrawles/classmonitor/internal/canvas"
	"github.com/Afrawles/classmonitor/internal/config"
	"github.com/Afrawles/classmonitor/internal/monitor"
	"github.com/Afrawles/classmonitor/internal/report"
)

type Application struct {
	Config     *config.Config
	Logger     *slog.Logger
	Client     *canvas.Client
	Aggregator *monitor.Aggregator
}

// New wires the application. Logs go to logOut (stderr when nil).
func New(cfg *config.Config, logOut io.Writer) *Application {
	logger := NewLogger(cfg.Log, logOut)
	slog.SetDefault(logger)

	client := canvas.NewClient(canvas.ClientConfig{
		BaseURL:           cfg.Canvas.BaseURL,
		Timeout:           cfg.Canvas.Timeout,
		RequestsPerSecond: cfg.Canvas.RequestsPerSecond,
		Logger:            logger,
	})
	source := canvas.NewSource(client, canvas.SourceConfig{
		PageSize:        cfg.Canvas.PageSize,
		NewActivityOnly: cfg.Canvas.NewActivityOnly,
		Logger:          logger,
	})
	logger.Info("canvas source initialized",
		"base_url", cfg.Canvas.BaseURL,
		"roster", len(cfg.Roster),
		"tokens", cfg.Credentials.Len(),
	)

	return &Application{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Aggregator: monitor.NewAggregator(source, cfg.Credentials, logger),
	}
}

func NewLogger(cfg config.LogConfig, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Sync runs one aggregation pass over students.
func (app *Application) Sync(ctx context.Context, students []string, period monitor.Period, trailing monitor.Trailing) (*monitor.AggregateResult, error) {
	res, err := app.Aggregator.Run(ctx, students, period, trailing)
	if err != nil {
		app.Logger.Error("aggregation interrupted", "error", err)
		return res, err
	}
	if res.Empty() && res.Failures() > 0 {
		app.Logger.Warn("nothing collected and some fetches failed", "failures", res.Failures())
	}
	return res, nil
}

// Export writes res in every configured format and returns the files
// written. A failing format is logged and the others still run.
func (app *Application) Export(res *monitor.AggregateResult, done func(format string)) ([]string, error) {
	dir := app.Config.Output.Directory
	var (
		files  []string
		failed []string
	)

	for _, format := range app.Config.Output.Format {
		var (
			written []string
			err     error
		)
		switch format {
		case "xlsx":
			var path string
			path, err = report.NewExcelExporter(dir).Export(res)
			written = []string{path}
		case "csv":
			written, err = report.NewCSVExporter(dir).Export(res)
		case "json":
			var path string
			path, err = report.NewExporter(dir).ExportJSON(res)
			written = []string{path}
		default:
			err = fmt.Errorf("unknown format %q", format)
		}

		if err != nil {
			app.Logger.Error("export failed", "format", format, "error", err)
			failed = append(failed, format)
		} else {
			app.Logger.Info("report exported", "format", format, "files", len(written))
			files = append(files, written...)
		}
		if done != nil {
			done(format)
		}
	}

	if len(failed) > 0 {
		return files, fmt.Errorf("export failed for: %s", strings.Join(failed, ", "))
	}
	return files, nil
}
