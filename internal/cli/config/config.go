// Package config provides configuration loading for the cupid-insights CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete CLI configuration.
type Config struct {
	Langfuse LangfuseConfig `yaml:"langfuse"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Pacing   PacingConfig   `yaml:"pacing"`
	Log      LogConfig      `yaml:"log"`
}

// LangfuseConfig holds telemetry provider credentials and endpoint.
type LangfuseConfig struct {
	PublicKey string `yaml:"public_key"`
	SecretKey string `yaml:"secret_key"`
	BaseURL   string `yaml:"base_url"`
	Region    string `yaml:"region"`
}

// SnapshotConfig holds snapshot file settings.
type SnapshotConfig struct {
	Path string `yaml:"path"`
}

// PacingConfig holds request pacing and retry settings.
type PacingConfig struct {
	MaxRetries       int           `yaml:"max_retries"`
	PageSize         int           `yaml:"page_size"`
	PageDelay        time.Duration `yaml:"page_delay"`
	TraceDetailDelay time.Duration `yaml:"trace_detail_delay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Snapshot: SnapshotConfig{
			Path: "langfuse-snapshot.json",
		},
		Pacing: PacingConfig{
			MaxRetries:       5,
			PageSize:         100,
			PageDelay:        500 * time.Millisecond,
			TraceDetailDelay: 300 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from file and environment variables.
// An explicit path skips the search; an empty path walks up from the current
// directory looking for a .cupid-insights.yaml.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	expandEnvVars(cfg)

	return cfg, nil
}

// findConfigFile searches for the configuration file.
func findConfigFile() string {
	candidates := []string{
		".cupid-insights.yaml",
		".cupid-insights.yml",
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range candidates {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// loadFromFile reads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LANGFUSE_PUBLIC_KEY"); v != "" {
		cfg.Langfuse.PublicKey = v
	}
	if v := os.Getenv("LANGFUSE_SECRET_KEY"); v != "" {
		cfg.Langfuse.SecretKey = v
	}
	if v := os.Getenv("LANGFUSE_BASE_URL"); v != "" {
		cfg.Langfuse.BaseURL = v
	}
	if v := os.Getenv("LANGFUSE_REGION"); v != "" {
		cfg.Langfuse.Region = v
	}
	if v := os.Getenv("CUPID_INSIGHTS_SNAPSHOT"); v != "" {
		cfg.Snapshot.Path = v
	}
	if v := os.Getenv("CUPID_INSIGHTS_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pacing.PageSize = n
		}
	}
	if v := os.Getenv("CUPID_INSIGHTS_DEBUG"); v == "true" || v == "1" {
		cfg.Log.Debug = true
	}
}

// expandEnvVars expands ${VAR} references in credential values.
func expandEnvVars(cfg *Config) {
	cfg.Langfuse.PublicKey = expandEnvVar(cfg.Langfuse.PublicKey)
	cfg.Langfuse.SecretKey = expandEnvVar(cfg.Langfuse.SecretKey)
}

// expandEnvVar expands a single environment variable reference.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	re := regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "${")
		name = strings.TrimPrefix(name, "$")
		name = strings.TrimSuffix(name, "}")
		return os.Getenv(name)
	})
}

// Validate checks that credentials are present for commands that hit the
// network.
func (c *Config) Validate() error {
	if c.Langfuse.PublicKey == "" {
		return fmt.Errorf("langfuse public key is required (set langfuse.public_key or LANGFUSE_PUBLIC_KEY)")
	}
	if c.Langfuse.SecretKey == "" {
		return fmt.Errorf("langfuse secret key is required (set langfuse.secret_key or LANGFUSE_SECRET_KEY)")
	}
	return nil
}
