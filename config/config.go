package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	OutputDir     string
	ReportsDir    string
	ArchiveFile   string
	HubFile       string
	MaxReports    int
	CSVOutputPath string

	AnthropicAPIKey string
	AnthropicModel  string
	AnalysisPauseMs int

	ScraperAPIKey   string
	BrowserRender   bool
	ChromeBin       string
	RequestPauseMs  int
	DetailPauseMs   int
	FetchTimeoutSec int

	LogLevel string

	HistoryEnabled   bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	CriteriaFile string
	Criteria     Criteria
}

// Load reads the .env file and returns a populated Config struct. Criteria
// defaults are replaced by CRITERIA_FILE when it is set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		OutputDir:     getEnv("OUTPUT_DIR", defaultOutputDir()),
		ReportsDir:    getEnv("REPORTS_DIR", "reports"),
		ArchiveFile:   getEnv("ARCHIVE_FILE", "archive.json"),
		HubFile:       getEnv("HUB_FILE", "index.html"),
		MaxReports:    getEnvInt("MAX_REPORTS", 12),
		CSVOutputPath: os.Getenv("CSV_OUTPUT_PATH"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		AnalysisPauseMs: getEnvInt("ANALYSIS_PAUSE_MS", 500),

		ScraperAPIKey:   os.Getenv("SCRAPER_API_KEY"),
		BrowserRender:   getEnvBool("BROWSER_RENDER", false),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		RequestPauseMs:  getEnvInt("REQUEST_PAUSE_MS", 1500),
		DetailPauseMs:   getEnvInt("DETAIL_PAUSE_MS", 1000),
		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		HistoryEnabled:   getEnvBool("HISTORY_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dealfinder"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "deals"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CriteriaFile: os.Getenv("CRITERIA_FILE"),
		Criteria:     DefaultCriteria(),
	}

	if cfg.CSVOutputPath == "" {
		cfg.CSVOutputPath = filepath.Join(cfg.OutputDir, "raw_listings.csv")
	}

	if cfg.CriteriaFile != "" {
		criteria, err := LoadCriteria(cfg.CriteriaFile)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg.Criteria = criteria
	}

	if cfg.MaxReports < 1 {
		return nil, fmt.Errorf("config: MAX_REPORTS must be at least 1, got %d", cfg.MaxReports)
	}

	return cfg, nil
}

// AnalysisEnabled reports whether listings should be sent to the rater.
func (c *Config) AnalysisEnabled() bool {
	return c.AnthropicAPIKey != ""
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./output"
	}
	return filepath.Join(home, "Documents", "DealFinder")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
