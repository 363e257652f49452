package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"revcast/internal/forecast"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath    string `validate:"required"`
	LogDir      string
	SourcesFile string
	LedgerFile  string

	FiscalYear    int    `validate:"gte=1900,lte=9999"`
	BaseCurrency  string `validate:"len=3,uppercase"`
	LocalCurrency string `validate:"len=3,uppercase"`

	ForecastMethod  forecast.Method
	ForecastPeriods int `validate:"gte=1,lte=60"`
	Workers         int `validate:"gte=1,lte=64"`

	HTTPAddr            string `validate:"required"`
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Executable directory first: MCP clients start the binary from arbitrary working directories
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	base := strings.ToUpper(getEnv("BASE_CURRENCY", "EUR"))
	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs")),
		SourcesFile:         filepath.Join(dataPath, "sources.toml"),
		LedgerFile:          filepath.Join(dataPath, "ledger", "entries.jsonl"),
		FiscalYear:          getEnvInt("FISCAL_YEAR", time.Now().Year()),
		BaseCurrency:        base,
		LocalCurrency:       strings.ToUpper(getEnv("LOCAL_CURRENCY", base)),
		ForecastMethod:      forecast.ParseMethod(getEnv("FORECAST_METHOD", string(forecast.DefaultMethod))),
		ForecastPeriods:     getEnvInt("FORECAST_PERIODS", 6),
		Workers:             getEnvInt("ANALYTICS_WORKERS", 4),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LedgerFile), 0755); err != nil {
		log.Warn().Err(err).Str("path", cfg.LedgerFile).Msg("Failed to create ledger directory")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
