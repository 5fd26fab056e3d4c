// ABOUTME: Centralized configuration for the routine synchronizer
// ABOUTME: Loads from environment variables and an optional YAML file, with validation
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/notion"
)

// DefaultConfigFile is read from the working directory when ROTINA_CONFIG is unset.
const DefaultConfigFile = "rotina.yaml"

var (
	// ErrMissingToken indicates NOTION_TOKEN is not set.
	ErrMissingToken = errors.New("NOTION_TOKEN is not set")

	// ErrMissingDatabase indicates one of the three database ids is not configured.
	ErrMissingDatabase = errors.New("database id is not configured")
)

// Databases holds the three parent database ids.
type Databases struct {
	Activities string `yaml:"activities"`
	Routine    string `yaml:"routine"`
	Analysis   string `yaml:"analysis"`
}

// Config holds all configuration for a run
type Config struct {
	// Notion settings
	NotionToken   string
	NotionBaseURL string
	NotionVersion string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration

	Databases Databases

	// Output settings
	LogFile        string
	PushgatewayURL string
}

// fileConfig models rotina.yaml.
type fileConfig struct {
	Databases   Databases `yaml:"databases"`
	LogFile     string    `yaml:"log_file"`
	Pushgateway string    `yaml:"pushgateway_url"`
}

// Load reads the optional config file and environment variables. Environment
// values override the file.
func Load() (*Config, error) {
	file, err := readFile(os.Getenv("ROTINA_CONFIG"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		NotionToken:   os.Getenv("NOTION_TOKEN"),
		NotionBaseURL: getEnv("NOTION_BASE_URL", notion.DefaultBaseURL),
		NotionVersion: getEnv("NOTION_VERSION", notion.DefaultVersion),
		Timeout:       getEnvDuration("NOTION_TIMEOUT", 0),
		MaxRetries:    getEnvInt("NOTION_MAX_RETRIES", 0),
		RetryDelay:    getEnvDuration("NOTION_RETRY_DELAY", time.Second),
		Databases: Databases{
			Activities: getEnv("ROTINA_ACTIVITIES_DB", file.Databases.Activities),
			Routine:    getEnv("ROTINA_ROUTINE_DB", file.Databases.Routine),
			Analysis:   getEnv("ROTINA_ANALYSIS_DB", file.Databases.Analysis),
		},
		LogFile:        getEnv("ROTINA_LOG_FILE", file.LogFile),
		PushgatewayURL: getEnv("ROTINA_PUSHGATEWAY_URL", file.Pushgateway),
	}

	return cfg, cfg.Validate()
}

// Validate checks required values and normalizes database ids to their
// dashed UUID form.
func (c *Config) Validate() error {
	if c.NotionToken == "" {
		return ErrMissingToken
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("NOTION_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("NOTION_TIMEOUT must not be negative, got %v", c.Timeout)
	}

	ids := []struct {
		name string
		id   *string
	}{
		{"activities", &c.Databases.Activities},
		{"routine", &c.Databases.Routine},
		{"analysis", &c.Databases.Analysis},
	}
	for _, entry := range ids {
		if *entry.id == "" {
			return fmt.Errorf("%s: %w", entry.name, ErrMissingDatabase)
		}
		parsed, err := uuid.Parse(*entry.id)
		if err != nil {
			return fmt.Errorf("%s database id %q: %w", entry.name, *entry.id, err)
		}
		*entry.id = parsed.String()
	}
	return nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
