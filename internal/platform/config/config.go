package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort              = "8080"
	defaultFiscalDataBaseURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service/v1/accounting/od/rates_of_exchange"
	defaultFiscalDataTimeout = 10 * time.Second
	defaultRateLimit         = "100-M"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Treasury Fiscal Data rates of exchange
	FiscalDataBaseURL string        `mapstructure:"FISCAL_DATA_BASE_URL"`
	FiscalDataTimeout time.Duration `mapstructure:"FISCAL_DATA_TIMEOUT"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// RateLimit uses the limiter format, e.g. "100-M". "off" disables limiting.
	RateLimit string `mapstructure:"RATE_LIMIT"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("FISCAL_DATA_BASE_URL", defaultFiscalDataBaseURL)
	v.SetDefault("FISCAL_DATA_TIMEOUT", defaultFiscalDataTimeout.String())
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT", defaultRateLimit)

	// Environment variables override .env values, which override the defaults.
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")

	cfg.FiscalDataBaseURL = strings.TrimSpace(v.GetString("FISCAL_DATA_BASE_URL"))
	if cfg.FiscalDataBaseURL == "" {
		cfg.FiscalDataBaseURL = defaultFiscalDataBaseURL
	}

	// Load Fiscal Data timeout (e.g., "10s", "1m")
	timeoutStr := v.GetString("FISCAL_DATA_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = defaultFiscalDataTimeout
		log.Printf("Warning: Invalid value for FISCAL_DATA_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout.String())
	}
	cfg.FiscalDataTimeout = timeout

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = strings.TrimSpace(v.GetString("RATE_LIMIT"))
	if strings.EqualFold(cfg.RateLimit, "off") {
		cfg.RateLimit = ""
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
