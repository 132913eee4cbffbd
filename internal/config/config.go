// Package config loads the e2e runner configuration from CLI flags and
// environment variables, validates it, and provides sensible defaults.
//
// CLI flags choose what runs and which services are local (--stub, --no-s3,
// --local, --headed). Environment variables describe the app under test,
// the browser, timeouts and artifact storage.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kuitang/outliner-e2e/internal/obs"
)

const (
	defaultBrowser      = "chromium"
	defaultArtifactsDir = "e2e-artifacts"
	defaultS3Region     = "auto"
)

var (
	browsers   = []string{"chromium", "firefox", "webkit"}
	logFormats = []string{"json", "text"}
)

// Flags holds the parsed CLI flags.
type Flags struct {
	Headed    bool   // --headed
	NoS3      bool   // --no-s3
	Stub      bool   // --stub
	Scenarios string // --scenarios, comma separated
	GraphDir  string // --graph
}

// Config holds all runner configuration.
type Config struct {
	// App under test
	BaseURL string // E2E_BASE_URL; ignored with --stub
	Stub    bool   // serve the built-in stub app (--stub)

	// Browser
	Browser  string        // E2E_BROWSER: chromium, firefox or webkit
	Headless bool          // E2E_HEADLESS, forced off by --headed
	SlowMo   time.Duration // E2E_SLOW_MO

	// Timeouts and pacing
	ActionTimeout    time.Duration // E2E_ACTION_TIMEOUT
	DropdownTimeout  time.Duration // E2E_DROPDOWN_TIMEOUT
	GraphLoadTimeout time.Duration // E2E_GRAPH_LOAD_TIMEOUT
	ActionRate       float64       // E2E_ACTION_RATE, UI actions per second; 0 disables pacing
	ActionBurst      int           // E2E_ACTION_BURST

	// Run
	Scenarios    []string // E2E_SCENARIOS or --scenarios; empty runs all
	GraphDir     string   // E2E_GRAPH_DIR or --graph; empty seeds a temp graph
	Seed         uint64   // E2E_SEED; 0 picks one from the clock
	ArtifactsDir string   // E2E_ARTIFACTS_DIR

	// Logging
	LogLevel  string // LOG_LEVEL
	LogFormat string // LOG_FORMAT: json or text

	// Artifact upload (uses AWS_ env vars; skipped with --no-s3)
	NoS3               bool
	AWSEndpointS3      string // AWS_ENDPOINT_URL_S3
	AWSRegion          string // AWS_REGION
	AWSAccessKeyID     string // AWS_ACCESS_KEY_ID
	AWSSecretAccessKey string // AWS_SECRET_ACCESS_KEY
	ArtifactsBucket    string // ARTIFACTS_BUCKET
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags from args (without the program name).
func ParseFlags(args []string) (Flags, error) {
	var f Flags
	var local bool
	fs := flag.NewFlagSet("outliner-e2e", flag.ContinueOnError)
	fs.BoolVar(&f.Headed, "headed", false, "Show the browser window")
	fs.BoolVar(&f.NoS3, "no-s3", false, "Keep failure artifacts on disk only")
	fs.BoolVar(&f.Stub, "stub", false, "Run against the built-in stub app instead of E2E_BASE_URL")
	fs.BoolVar(&local, "local", false, "Shorthand for --no-s3 --stub")
	fs.StringVar(&f.Scenarios, "scenarios", "", "Comma-separated scenarios to run (default all, overrides E2E_SCENARIOS)")
	fs.StringVar(&f.GraphDir, "graph", "", "Graph folder for the load-graph scenario (overrides E2E_GRAPH_DIR)")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	if local {
		f.NoS3 = true
		f.Stub = true
	}
	return f, nil
}

// LoadConfig loads configuration from environment variables and CLI flag values.
func LoadConfig(f Flags) (*Config, error) {
	cfg := &Config{}

	// CLI flag values
	cfg.Stub = f.Stub
	cfg.NoS3 = f.NoS3

	// App under test
	cfg.BaseURL = getEnvOrDefault("E2E_BASE_URL", "")

	// Browser
	cfg.Browser = strings.ToLower(getEnvOrDefault("E2E_BROWSER", defaultBrowser))
	cfg.Headless = parseBoolOrDefault("E2E_HEADLESS", true)
	if f.Headed {
		cfg.Headless = false
	}
	cfg.SlowMo = parseDurationOrDefault("E2E_SLOW_MO", 0)

	// Timeouts and pacing
	cfg.ActionTimeout = parseDurationOrDefault("E2E_ACTION_TIMEOUT", 5*time.Second)
	cfg.DropdownTimeout = parseDurationOrDefault("E2E_DROPDOWN_TIMEOUT", 5*time.Second)
	cfg.GraphLoadTimeout = parseDurationOrDefault("E2E_GRAPH_LOAD_TIMEOUT", 5*time.Minute)
	cfg.ActionRate = parseFloat64OrDefault("E2E_ACTION_RATE", 0)
	cfg.ActionBurst = parseIntOrDefault("E2E_ACTION_BURST", 1)

	// Run
	cfg.Scenarios = splitList(getEnvOrDefault("E2E_SCENARIOS", ""))
	if f.Scenarios != "" {
		cfg.Scenarios = splitList(f.Scenarios)
	}
	cfg.GraphDir = getEnvOrDefault("E2E_GRAPH_DIR", "")
	if f.GraphDir != "" {
		cfg.GraphDir = f.GraphDir
	}
	cfg.Seed = parseUint64OrDefault("E2E_SEED", 0)
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	cfg.ArtifactsDir = getEnvOrDefault("E2E_ARTIFACTS_DIR", defaultArtifactsDir)

	// Logging
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.LogFormat = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))

	// Artifact upload
	cfg.AWSEndpointS3 = getEnvOrDefault("AWS_ENDPOINT_URL_S3", "")
	cfg.AWSRegion = getEnvOrDefault("AWS_REGION", defaultS3Region)
	cfg.AWSAccessKeyID = getEnvOrDefault("AWS_ACCESS_KEY_ID", "")
	cfg.AWSSecretAccessKey = getEnvOrDefault("AWS_SECRET_ACCESS_KEY", "")
	cfg.ArtifactsBucket = getEnvOrDefault("ARTIFACTS_BUCKET", "")

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []string

	// App under test: required unless the stub app is served
	if !c.Stub {
		if c.BaseURL == "" {
			errs = append(errs, "E2E_BASE_URL is required (set env var or use --stub)")
		} else if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, "E2E_BASE_URL must be an absolute http(s) URL")
		}
	}

	if !slices.Contains(browsers, c.Browser) {
		errs = append(errs, fmt.Sprintf("E2E_BROWSER must be one of %s", strings.Join(browsers, ", ")))
	}
	if c.SlowMo < 0 {
		errs = append(errs, "E2E_SLOW_MO must not be negative")
	}

	if c.ActionTimeout <= 0 {
		errs = append(errs, "E2E_ACTION_TIMEOUT must be positive")
	}
	if c.DropdownTimeout <= 0 {
		errs = append(errs, "E2E_DROPDOWN_TIMEOUT must be positive")
	}
	if c.GraphLoadTimeout <= 0 {
		errs = append(errs, "E2E_GRAPH_LOAD_TIMEOUT must be positive")
	}
	if c.ActionRate < 0 {
		errs = append(errs, "E2E_ACTION_RATE must not be negative")
	}
	if c.ActionRate > 0 && c.ActionBurst <= 0 {
		errs = append(errs, "E2E_ACTION_BURST must be positive when E2E_ACTION_RATE is set")
	}

	if c.ArtifactsDir == "" {
		errs = append(errs, "E2E_ARTIFACTS_DIR must not be empty")
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, "LOG_FORMAT must be json or text")
	}

	// S3: require a bucket unless --no-s3
	if !c.NoS3 {
		if c.ArtifactsBucket == "" {
			errs = append(errs, "ARTIFACTS_BUCKET is required (set env var or use --no-s3)")
		}
		if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
			errs = append(errs, "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

// LogValue lets the configuration be logged with secrets redacted.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", obs.RedactURL(c.BaseURL)),
		slog.Bool("stub", c.Stub),
		slog.String("browser", c.Browser),
		slog.Bool("headless", c.Headless),
		slog.Duration("action_timeout", c.ActionTimeout),
		slog.Duration("graph_load_timeout", c.GraphLoadTimeout),
		slog.Float64("action_rate", c.ActionRate),
		slog.Any("scenarios", c.Scenarios),
		slog.Uint64("seed", c.Seed),
		slog.String("artifacts_dir", c.ArtifactsDir),
		slog.Bool("no_s3", c.NoS3),
		slog.String("s3_endpoint", obs.RedactURL(c.AWSEndpointS3)),
		slog.String("s3_bucket", c.ArtifactsBucket),
		slog.String("aws_access_key_id", c.AWSAccessKeyID),
		slog.String("aws_secret_access_key", obs.RedactValue("aws_secret_access_key", c.AWSSecretAccessKey)),
	)
}

// PrintStartupSummary prints a human-readable summary of the configuration to w.
func (c *Config) PrintStartupSummary(w io.Writer) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "outliner-e2e starting...")

	if c.Stub {
		fmt.Fprintln(w, "  App:       built-in stub (--stub)")
	} else {
		fmt.Fprintf(w, "  App:       %s\n", c.BaseURL)
	}

	mode := "headless"
	if !c.Headless {
		mode = "headed"
	}
	fmt.Fprintf(w, "  Browser:   %s (%s)\n", c.Browser, mode)

	if len(c.Scenarios) == 0 {
		fmt.Fprintln(w, "  Scenarios: all")
	} else {
		fmt.Fprintf(w, "  Scenarios: %s\n", strings.Join(c.Scenarios, ", "))
	}
	fmt.Fprintf(w, "  Seed:      %d\n", c.Seed)

	if c.NoS3 {
		fmt.Fprintf(w, "  Artifacts: %s (--no-s3)\n", c.ArtifactsDir)
	} else {
		fmt.Fprintf(w, "  Artifacts: %s and s3://%s\n", c.ArtifactsDir, c.ArtifactsBucket)
	}
	fmt.Fprintln(w, "")
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseUint64OrDefault(key string, defaultValue uint64) uint64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloat64OrDefault(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
