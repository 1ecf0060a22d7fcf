// Package config reads runtime settings from the environment. An optional
// .env file in the working directory is loaded first.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/idilsaglam/shoplist/internal/store"
	"github.com/idilsaglam/shoplist/internal/totals"
)

// Storage backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const defaultSuggestLimit = 8

// Config holds every setting of the binary.
type Config struct {
	Backend      string
	DataDir      string
	DBPath       string
	DatabaseURL  string
	Key          string
	CatalogPath  string
	Currency     string
	SuggestLimit int
	LogFile      string
}

// LoadDotEnv loads .env if present; a missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shoplist"
	}
	return filepath.Join(home, ".shoplist")
}

// FromEnv builds a Config from environment variables and validates it.
func FromEnv() (Config, error) {
	c := Config{
		Backend:     strings.ToLower(getEnv("SHOPLIST_BACKEND", BackendJSON)),
		DataDir:     getEnv("SHOPLIST_DATA_DIR", defaultDataDir()),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Key:         getEnv("SHOPLIST_KEY", store.DefaultKey),
		CatalogPath: getEnv("SHOPLIST_CATALOG", ""),
		Currency:    getEnv("SHOPLIST_CURRENCY", totals.DefaultCurrency),
		LogFile:     getEnv("SHOPLIST_LOG_FILE", ""),
	}
	c.DBPath = getEnv("SHOPLIST_DB_PATH", filepath.Join(c.DataDir, "shoplist.db"))

	limit := getEnv("SHOPLIST_SUGGEST_LIMIT", strconv.Itoa(defaultSuggestLimit))
	n, err := strconv.Atoi(limit)
	if err != nil || n < 0 {
		return Config{}, fmt.Errorf("SHOPLIST_SUGGEST_LIMIT: not a non-negative number: %q", limit)
	}
	c.SuggestLimit = n

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the backend selection.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite, BackendMemory:
		return nil
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("backend %q needs DATABASE_URL", c.Backend)
		}
		return nil
	}
	return fmt.Errorf("unknown backend %q (want json, sqlite, postgres or memory)", c.Backend)
}
