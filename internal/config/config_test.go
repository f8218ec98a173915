package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"travelfetcher/internal/flight"
)

// clearEnv blanks every variable Load reads; viper treats empty as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(strings.ToUpper(key), "")
	}
	t.Setenv("CURRENCY_API_KEY", "")
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CURRENCY_API_KEY", "test_currency_key")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"FlightBaseURL", cfg.FlightBaseURL, "https://www.kia.gov.tw/API/"},
		{"CurrencyBaseURL", cfg.CurrencyBaseURL, "https://api.freecurrencyapi.com"},
		{"CurrencyAPIKey", cfg.CurrencyAPIKey, "test_currency_key"},
		{"CurrencyBase", cfg.CurrencyBase, "USD"},
		{"CurrencyRebaseLocally", cfg.CurrencyRebaseLocally, false},
		{"FlightLine", cfg.FlightLine, flight.International},
		{"FlightDirection", cfg.FlightDirection, flight.Departure},
		{"FlightRefreshInterval", cfg.FlightRefreshInterval, 10 * time.Second},
		{"HTTPTimeout", cfg.HTTPTimeout, 30 * time.Second},
		{"LogLevel", cfg.LogLevel, slog.LevelInfo},
		{"Watch", cfg.Watch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	wantSymbols := []string{"EUR", "JPY", "USD", "CNY", "AUD", "KRW"}
	if !slices.Equal(cfg.CurrencySymbols, wantSymbols) {
		t.Errorf("CurrencySymbols = %v, want %v", cfg.CurrencySymbols, wantSymbols)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	envVars := map[string]string{
		"CURRENCY_API_KEY":        "test_currency_key",
		"FLIGHT_BASE_URL":         "https://test.kia.gov.tw/API",
		"CURRENCY_BASE_URL":       "https://test.freecurrencyapi.com",
		"CURRENCY_BASE":           "eur",
		"CURRENCY_SYMBOLS":        "jpy, usd,,TWD",
		"CURRENCY_REBASE_LOCALLY": "true",
		"FLIGHT_LINE":             "domestic",
		"FLIGHT_DIRECTION":        "Arrival",
		"FLIGHT_REFRESH_INTERVAL": "1m",
		"HTTP_TIMEOUT":            "5s",
		"LOG_LEVEL":               "debug",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"FlightBaseURL", cfg.FlightBaseURL, "https://test.kia.gov.tw/API"},
		{"CurrencyBaseURL", cfg.CurrencyBaseURL, "https://test.freecurrencyapi.com"},
		{"CurrencyBase", cfg.CurrencyBase, "EUR"},
		{"CurrencyRebaseLocally", cfg.CurrencyRebaseLocally, true},
		{"FlightLine", cfg.FlightLine, flight.Domestic},
		{"FlightDirection", cfg.FlightDirection, flight.Arrival},
		{"FlightRefreshInterval", cfg.FlightRefreshInterval, time.Minute},
		{"HTTPTimeout", cfg.HTTPTimeout, 5 * time.Second},
		{"LogLevel", cfg.LogLevel, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	wantSymbols := []string{"JPY", "USD", "TWD"}
	if !slices.Equal(cfg.CurrencySymbols, wantSymbols) {
		t.Errorf("CurrencySymbols = %v, want %v", cfg.CurrencySymbols, wantSymbols)
	}
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CURRENCY_API_KEY", "test_currency_key")
	t.Setenv("CURRENCY_BASE", "EUR")
	t.Setenv("FLIGHT_LINE", "domestic")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--base", "jpy", "--direction", "arrival", "--watch"}); err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.CurrencyBase != "JPY" {
		t.Errorf("CurrencyBase = %q, want JPY from --base", cfg.CurrencyBase)
	}
	if cfg.FlightLine != flight.Domestic {
		t.Errorf("FlightLine = %v, want domestic from the environment", cfg.FlightLine)
	}
	if cfg.FlightDirection != flight.Arrival {
		t.Errorf("FlightDirection = %v, want arrival from --direction", cfg.FlightDirection)
	}
	if !cfg.Watch {
		t.Error("Watch = false, want true from --watch")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CURRENCY_API_KEY", "test_currency_key")

	path := filepath.Join(t.TempDir(), "travel.yaml")
	content := "currency_base: KRW\nflight_refresh_interval: 30s\ncurrency_symbols:\n  - USD\n  - JPY\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() returned unexpected error: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--config", path}); err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.CurrencyBase != "KRW" {
		t.Errorf("CurrencyBase = %q, want KRW", cfg.CurrencyBase)
	}
	if cfg.FlightRefreshInterval != 30*time.Second {
		t.Errorf("FlightRefreshInterval = %v, want 30s", cfg.FlightRefreshInterval)
	}
	if !slices.Equal(cfg.CurrencySymbols, []string{"USD", "JPY"}) {
		t.Errorf("CurrencySymbols = %v, want [USD JPY]", cfg.CurrencySymbols)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    map[string]string
		wantErrText string
	}{
		{
			name:        "missing CURRENCY_API_KEY",
			setupEnv:    map[string]string{},
			wantErrText: "missing required configuration: CURRENCY_API_KEY",
		},
		{
			name:        "unknown line",
			setupEnv:    map[string]string{"CURRENCY_API_KEY": "test", "FLIGHT_LINE": "cargo"},
			wantErrText: "invalid FLIGHT_LINE",
		},
		{
			name:        "unknown direction",
			setupEnv:    map[string]string{"CURRENCY_API_KEY": "test", "FLIGHT_DIRECTION": "sideways"},
			wantErrText: "invalid FLIGHT_DIRECTION",
		},
		{
			name:        "unknown log level",
			setupEnv:    map[string]string{"CURRENCY_API_KEY": "test", "LOG_LEVEL": "loud"},
			wantErrText: "invalid LOG_LEVEL",
		},
		{
			name:        "negative timeout",
			setupEnv:    map[string]string{"CURRENCY_API_KEY": "test", "HTTP_TIMEOUT": "-1s"},
			wantErrText: "invalid HTTP_TIMEOUT",
		},
		{
			name:        "zero refresh interval",
			setupEnv:    map[string]string{"CURRENCY_API_KEY": "test", "FLIGHT_REFRESH_INTERVAL": "0s"},
			wantErrText: "invalid FLIGHT_REFRESH_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.setupEnv {
				t.Setenv(key, value)
			}

			_, err := Load(nil)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrText) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrText)
			}
		})
	}
}
