package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

type Config struct {
	// Database
	DBPath string
	DBMode string

	// Locale drives the decimal separator and currency formatting.
	Locale   string
	Currency string

	// Telemetry
	TelemetryPath string
}

func Load() *Config {
	return &Config{
		DBPath:        getEnv("EXPENSO_DB_PATH", ""),
		DBMode:        getEnv("EXPENSO_DB_MODE", "plain"),
		Locale:        getEnv("EXPENSO_LOCALE", "en"),
		Currency:      getEnv("EXPENSO_CURRENCY", "USD"),
		TelemetryPath: getEnv("EXPENSO_TELEMETRY_PATH", ""),
	}
}

// Validate returns an error describing every invalid field.
func (c *Config) Validate() error {
	var problems []string

	if c.DBMode != "plain" && c.DBMode != "secure" {
		problems = append(problems, fmt.Sprintf("invalid db mode %q: must be plain or secure", c.DBMode))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		problems = append(problems, fmt.Sprintf("invalid locale %q: %v", c.Locale, err))
	}
	if len(c.Currency) != 3 {
		problems = append(problems, fmt.Sprintf("invalid currency %q: must be a 3-letter ISO code", c.Currency))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ResolveDBPath returns the configured database path, defaulting to the user
// config directory.
func (c *Config) ResolveDBPath() (string, error) {
	if strings.TrimSpace(c.DBPath) != "" {
		return c.DBPath, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(configDir, "expenso", "expenso.db"), nil
}

// LanguageTag parses the configured locale, falling back to English.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
