package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"travelfetcher/internal/flight"
)

// Config holds all configuration for the travel fetcher application.
type Config struct {
	// Base URLs for API endpoints (configurable for testing)
	FlightBaseURL   string `mapstructure:"flight_base_url"`
	CurrencyBaseURL string `mapstructure:"currency_base_url"`

	CurrencyAPIKey string `mapstructure:"currency_api_key"`

	// Currency converter
	CurrencyBase          string   `mapstructure:"currency_base"`
	CurrencySymbols       []string `mapstructure:"currency_symbols"`
	CurrencyRebaseLocally bool     `mapstructure:"currency_rebase_locally"`

	// Flight board
	FlightLine            flight.Line      `mapstructure:"-"`
	FlightDirection       flight.Direction `mapstructure:"-"`
	FlightRefreshInterval time.Duration    `mapstructure:"flight_refresh_interval"`

	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	LogLevel    slog.Level    `mapstructure:"-"`
	Watch       bool          `mapstructure:"watch"`
}

// defaults holds every key with its default value.
var defaults = map[string]any{
	"flight_base_url":         "https://www.kia.gov.tw/API/",
	"currency_base_url":       "https://api.freecurrencyapi.com",
	"currency_base":           "USD",
	"currency_symbols":        []string{"EUR", "JPY", "USD", "CNY", "AUD", "KRW"},
	"currency_rebase_locally": false,
	"http_timeout":            "30s",
	"flight_refresh_interval": "10s",
	"flight_line":             "international",
	"flight_direction":        "departure",
	"log_level":               "info",
	"watch":                   false,
}

// RegisterFlags adds the command line flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("base", "", "base currency for the converter (CURRENCY_BASE)")
	fs.String("line", "", "flight line: international or domestic (FLIGHT_LINE)")
	fs.String("direction", "", "flight direction: departure or arrival (FLIGHT_DIRECTION)")
	fs.Bool("watch", false, "keep refreshing the flight board until interrupted")
	fs.String("config", "", "path to a YAML config file")
}

var flagKeys = map[string]string{
	"base":      "currency_base",
	"line":      "flight_line",
	"direction": "flight_direction",
	"watch":     "watch",
}

// Load reads configuration from flags, environment variables, an optional
// .env file and an optional config file, in that order of precedence.
// flags may be nil.
//
// Expected environment variables:
//   - CURRENCY_API_KEY
//   - FLIGHT_BASE_URL, CURRENCY_BASE_URL (optional, default to production)
//   - CURRENCY_BASE, CURRENCY_SYMBOLS, CURRENCY_REBASE_LOCALLY (optional)
//   - FLIGHT_LINE, FLIGHT_DIRECTION, FLIGHT_REFRESH_INTERVAL (optional)
//   - HTTP_TIMEOUT, LOG_LEVEL (optional)
func Load(flags *pflag.FlagSet) (*Config, error) {
	// A missing .env file is fine; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.travelfetcher")

	for key := range defaults {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	if err := v.BindEnv("currency_api_key", "CURRENCY_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind currency_api_key: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// CURRENCY_SYMBOLS arrives as one comma separated string
	config.CurrencySymbols = splitSymbols(v.GetStringSlice("currency_symbols"))
	config.CurrencyBase = strings.ToUpper(strings.TrimSpace(config.CurrencyBase))

	var missing []string
	if config.CurrencyAPIKey == "" {
		missing = append(missing, "CURRENCY_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	var err error
	if config.FlightLine, err = flight.ParseLine(v.GetString("flight_line")); err != nil {
		return nil, fmt.Errorf("invalid FLIGHT_LINE: %w", err)
	}
	if config.FlightDirection, err = flight.ParseDirection(v.GetString("flight_direction")); err != nil {
		return nil, fmt.Errorf("invalid FLIGHT_DIRECTION: %w", err)
	}
	if err := config.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if config.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %s must be positive", config.HTTPTimeout)
	}
	if config.FlightRefreshInterval <= 0 {
		return nil, fmt.Errorf("invalid FLIGHT_REFRESH_INTERVAL: %s must be positive", config.FlightRefreshInterval)
	}
	if config.CurrencyBase == "" {
		return nil, fmt.Errorf("invalid CURRENCY_BASE: must not be empty")
	}

	return config, nil
}

func splitSymbols(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, code := range strings.Split(item, ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code != "" {
				out = append(out, code)
			}
		}
	}
	return out
}
