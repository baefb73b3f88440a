// Package config loads the suite configuration: where the application and
// its API live, which fixtures to use and how to drive the browser.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultConfigPath = "bookclub-e2e.yaml"
	DefaultBaseURL    = "https://cypresstest.z6.web.core.windows.net/"
	DefaultAPIURL     = "https://cypresstestapi.azurewebsites.net/api"
	DefaultTimeout    = 4 * time.Second
	DefaultBookIndex  = -1
	DefaultLogLevel   = "info"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BOOKCLUB_"
)

// Config is the suite configuration.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	APIURL      string        `yaml:"api_url"`
	FixturesDir string        `yaml:"fixtures_dir"`
	Headless    bool          `yaml:"headless"`
	Timeout     time.Duration `yaml:"timeout"`
	SlowMotion  time.Duration `yaml:"slow_motion"`
	BrowserBin  string        `yaml:"browser_bin"`
	BookIndex   int           `yaml:"book_index"`
	StubSignUp  bool          `yaml:"stub_sign_up"`
	LogLevel    string        `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		APIURL:     DefaultAPIURL,
		Headless:   true,
		Timeout:    DefaultTimeout,
		BookIndex:  DefaultBookIndex,
		StubSignUp: true,
		LogLevel:   DefaultLogLevel,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Load reads path onto the defaults, applies environment overrides and
// validates the result. A missing file is not an error unless required.
func Load(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from BOOKCLUB_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("BASE_URL", &cfg.BaseURL)
	str("API_URL", &cfg.APIURL)
	str("FIXTURES_DIR", &cfg.FixturesDir)
	str("BROWSER_BIN", &cfg.BrowserBin)
	str("LOG_LEVEL", &cfg.LogLevel)

	for key, dst := range map[string]*bool{
		"HEADLESS":     &cfg.Headless,
		"STUB_SIGN_UP": &cfg.StubSignUp,
	} {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return ValidationError{Field: EnvPrefix + key, Message: "must be a boolean"}
			}
			*dst = b
		}
	}

	for key, dst := range map[string]*time.Duration{
		"TIMEOUT":     &cfg.Timeout,
		"SLOW_MOTION": &cfg.SlowMotion,
	} {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return ValidationError{Field: EnvPrefix + key, Message: "must be a duration"}
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvPrefix + "BOOK_INDEX"); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: EnvPrefix + "BOOK_INDEX", Message: "must be an integer"}
		}
		cfg.BookIndex = i
	}
	return nil
}

// Validate checks that all config values are valid.
func Validate(cfg *Config) error {
	if err := validateURL("base_url", cfg.BaseURL); err != nil {
		return err
	}
	if err := validateURL("api_url", cfg.APIURL); err != nil {
		return err
	}
	if cfg.Timeout <= 0 {
		return ValidationError{Field: "timeout", Message: "must be positive"}
	}
	if cfg.SlowMotion < 0 {
		return ValidationError{Field: "slow_motion", Message: "must not be negative"}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	if cfg.FixturesDir != "" {
		fi, err := os.Stat(cfg.FixturesDir)
		if err != nil || !fi.IsDir() {
			return ValidationError{Field: "fixtures_dir", Message: "must be an existing directory"}
		}
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{Field: field, Message: "must be an absolute http(s) URL"}
	}
	return nil
}
