package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Afrawles/classmonitor/internal/classmonitor"
	"github.com/Afrawles/classmonitor/internal/config"
	"github.com/Afrawles/classmonitor/internal/monitor"
)

var (
	envFile     string
	baseURL     string
	tokensFile  string
	students    string
	periodFlag  string
	windowFlag  string
	output      string
	formats     string
	newActivity bool
	checkTokens bool
)

var rootCmd = &cobra.Command{
	Use:   "classmonitor",
	Short: "Sync planner items, messages, announcements and grade issues for a roster",
	Long: `classmonitor pulls every student's to-do items, unread messages, announcements
and grade issues from Canvas, filters them to the selected timeframe and writes
a consolidated report.`,
	SilenceUsage: true,
	RunE:         runSync,
}

var (
	rosterCmd = &cobra.Command{
		Use:   "roster",
		Short: "List the roster and whether each student has a token",
		RunE:  runRoster,
	}

	windowCmd = &cobra.Command{
		Use:   "window",
		Short: "Print the cutoff and trailing window for the selected periods",
		RunE:  runWindow,
	}
)

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(rosterCmd, windowCmd)

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load configuration from this .env file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Canvas base URL (overrides CANVAS_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&tokensFile, "tokens-file", "", "Dotenv file of NAME=token lines (overrides CANVAS_TOKENS_FILE)")
	rootCmd.PersistentFlags().StringVarP(&students, "students", "s", "", "Comma-separated subset of the roster (default: everyone)")
	rootCmd.PersistentFlags().StringVarP(&periodFlag, "period", "p", "this-week", "Show tasks due by: this-week, next-1-week, next-2-weeks, next-3-weeks, all-time")
	rootCmd.PersistentFlags().StringVarP(&windowFlag, "window", "w", "last-week", "Show messages and announcements from: last-3-days, last-week, last-2-weeks, last-3-weeks, any-time")

	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (overrides OUTPUT_DIR)")
	rootCmd.Flags().StringVarP(&formats, "format", "f", "", "Comma-separated export formats: xlsx, csv, json (overrides OUTPUT_FORMAT)")
	rootCmd.Flags().BoolVar(&newActivity, "new-activity", false, "Only planner items with new activity")

	rosterCmd.Flags().BoolVar(&checkTokens, "check", false, "Verify each token against the Canvas API")
}

func loadConfig() (*config.Config, error) {
	if tokensFile != "" {
		os.Setenv("CANVAS_TOKENS_FILE", tokensFile)
	}
	cfg, err := config.LoadFromEnv(envFile)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.Canvas.BaseURL = baseURL
	}
	if output != "" {
		cfg.Output.Directory = output
	}
	if formats != "" {
		cfg.Output.Format = config.SplitList(formats)
	}
	if newActivity {
		cfg.Canvas.NewActivityOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseWindow() (monitor.Period, monitor.Trailing, error) {
	period, err := monitor.ParsePeriod(periodFlag)
	if err != nil {
		return 0, 0, err
	}
	trailing, err := monitor.ParseTrailing(windowFlag)
	if err != nil {
		return 0, 0, err
	}
	return period, trailing, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	period, trailing, err := parseWindow()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	selected, err := cfg.Select(config.SplitList(students))
	if err != nil {
		return err
	}

	app := classmonitor.New(cfg, os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(monitor.Window{Now: time.Now(), Period: period, Trailing: trailing}.Caption())

	bar := progressbar.NewOptions(len(selected),
		progressbar.OptionSetDescription("Syncing students"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	app.Aggregator.Progress = func(done, total int, student string) {
		bar.Describe(fmt.Sprintf("Synced %s", student))
		_ = bar.Add(1)
	}

	res, err := app.Sync(ctx, selected, period, trailing)
	finishBar(bar)
	fmt.Println()
	if res != nil {
		printResult(os.Stdout, res)
	}
	if err != nil {
		return err
	}

	if len(cfg.Output.Format) == 0 {
		return nil
	}

	exportBar := progressbar.NewOptions(len(cfg.Output.Format),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
	files, err := app.Export(res, func(string) { _ = exportBar.Add(1) })
	finishBar(exportBar)

	fmt.Printf("\nReports saved to %s/\n", cfg.Output.Directory)
	for _, f := range files {
		fmt.Printf("  -> %s\n", f)
	}
	return err
}

func runRoster(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	selected, err := cfg.Select(config.SplitList(students))
	if err != nil {
		return err
	}

	var (
		app     *classmonitor.Application
		spinner *progressbar.ProgressBar
	)
	if checkTokens {
		app = classmonitor.New(cfg, os.Stderr)
		spinner = newSpinner("Checking tokens")
	}
	rows := make([]rosterRow, 0, len(selected))
	for _, s := range selected {
		token, ok := cfg.Credentials.Token(s)
		row := rosterRow{Student: s, HasToken: ok}
		if ok && app != nil {
			row.Checked = true
			if err := app.Client.HealthCheck(cmd.Context(), token); err != nil {
				row.CheckErr = err
			}
		}
		rows = append(rows, row)
	}
	finishBar(spinner)

	printRoster(os.Stdout, rows)
	return nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	period, trailing, err := parseWindow()
	if err != nil {
		return err
	}
	w := monitor.Window{Now: time.Now(), Period: period, Trailing: trailing}
	fmt.Println(w.Caption())
	if cutoff, ok := w.Cutoff(); ok {
		fmt.Printf("  cutoff: %s\n", cutoff.Format(time.RFC3339))
	} else {
		fmt.Println("  cutoff: none")
	}
	if since, ok := w.Since(); ok {
		fmt.Printf("  messages and announcements since: %s\n", since.Format(time.RFC3339))
	} else {
		fmt.Println("  messages and announcements since: any time")
	}
	return nil
}

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
