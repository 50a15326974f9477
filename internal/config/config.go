package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Canvas CanvasConfig
	Roster []string
	Output OutputConfig
	Log    LogConfig

	Credentials *Credentials
}

type CanvasConfig struct {
	BaseURL           string
	PageSize          int
	Timeout           time.Duration
	RequestsPerSecond float64
	NewActivityOnly   bool
}

type OutputConfig struct {
	Directory string
	Format    []string // xlsx, csv, json
}

type LogConfig struct {
	Format string // text, json
	Level  string
}

// LoadFromEnv reads the configuration from the environment. envFile, when
// non-empty, is loaded first and must exist; otherwise a .env in the
// working directory is loaded if present. Variables already set win.
func LoadFromEnv(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		Canvas: CanvasConfig{
			BaseURL:           strings.TrimRight(os.Getenv("CANVAS_BASE_URL"), "/"),
			PageSize:          getEnvInt("CANVAS_PAGE_SIZE", 100),
			Timeout:           time.Duration(getEnvInt("CANVAS_TIMEOUT_SEC", 30)) * time.Second,
			RequestsPerSecond: getEnvFloat("CANVAS_RPS", 0),
			NewActivityOnly:   strings.EqualFold(os.Getenv("CANVAS_NEW_ACTIVITY_ONLY"), "true"),
		},
		Roster: SplitList(os.Getenv("CANVAS_ROSTER")),
		Output: OutputConfig{
			Directory: getEnvOrDefault("OUTPUT_DIR", "reports"),
			Format:    SplitList(getEnvOrDefault("OUTPUT_FORMAT", "xlsx")),
		},
		Log: LogConfig{
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	creds := CredentialsFromEnv(os.Environ())
	if path := os.Getenv("CANVAS_TOKENS_FILE"); path != "" {
		fileCreds, err := LoadCredentialsFile(path)
		if err != nil {
			return nil, err
		}
		creds.Merge(fileCreds)
	}
	cfg.Credentials = creds

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Canvas.BaseURL == "" {
		return fmt.Errorf("CANVAS_BASE_URL is not set")
	}
	if !strings.HasPrefix(c.Canvas.BaseURL, "http://") && !strings.HasPrefix(c.Canvas.BaseURL, "https://") {
		return fmt.Errorf("CANVAS_BASE_URL must start with http:// or https://, got %q", c.Canvas.BaseURL)
	}
	if len(c.Roster) == 0 {
		return fmt.Errorf("roster is empty (set CANVAS_ROSTER to a comma-separated list of students)")
	}
	if c.Canvas.PageSize <= 0 {
		return fmt.Errorf("CANVAS_PAGE_SIZE must be positive, got %d", c.Canvas.PageSize)
	}
	for _, f := range c.Output.Format {
		switch f {
		case "xlsx", "csv", "json":
		default:
			return fmt.Errorf("unknown output format %q (valid: xlsx, csv, json)", f)
		}
	}
	return nil
}

// Select returns the roster members named in subset, in roster order.
// An empty subset selects the whole roster.
func (c *Config) Select(subset []string) ([]string, error) {
	if len(subset) == 0 {
		return c.Roster, nil
	}
	want := make(map[string]bool, len(subset))
	for _, s := range subset {
		want[strings.ToLower(s)] = true
	}
	var out []string
	for _, s := range c.Roster {
		if want[strings.ToLower(s)] {
			out = append(out, s)
			delete(want, strings.ToLower(s))
		}
	}
	if len(want) > 0 {
		var unknown []string
		for _, s := range subset {
			if want[strings.ToLower(s)] {
				unknown = append(unknown, s)
			}
		}
		return nil, fmt.Errorf("not on the roster: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// SplitList splits a comma-separated string, trimming blanks.
func SplitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
