package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the prodex API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Elastic ElasticConfig `yaml:"elasticsearch"`
	Index   IndexConfig   `yaml:"index"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Source  SourceConfig  `yaml:"source"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticConfig holds Elasticsearch connection settings.
type ElasticConfig struct {
	Addrs             []string `yaml:"addrs"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	MaxRetries        int      `yaml:"max_retries"`
	RetryBaseDelayMs  int      `yaml:"retry_base_delay_ms"`
	RetryMaxDelaySec  int      `yaml:"retry_max_delay_sec"`
	RequestTimeoutSec int      `yaml:"request_timeout_sec"`
}

// IndexConfig holds index and pagination settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
}

// IngestConfig holds bulk ingestion settings.
type IngestConfig struct {
	ChunkSize      int `yaml:"chunk_size"`
	FallbackSample int `yaml:"fallback_sample"`
}

// SourceConfig holds document source settings for index repopulation.
type SourceConfig struct {
	Path string `yaml:"path"` // JSON-lines file with raw catalog documents
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.Elastic.Addrs) == 0 {
		c.Elastic.Addrs = []string{"http://localhost:9200"}
	}
	if c.Elastic.MaxRetries <= 0 {
		c.Elastic.MaxRetries = 5
	}
	if c.Elastic.RetryBaseDelayMs <= 0 {
		c.Elastic.RetryBaseDelayMs = 500
	}
	if c.Elastic.RetryMaxDelaySec <= 0 {
		c.Elastic.RetryMaxDelaySec = 10
	}
	if c.Elastic.RequestTimeoutSec <= 0 {
		c.Elastic.RequestTimeoutSec = 30
	}
	if c.Index.Name == "" {
		c.Index.Name = "products"
	}
	if c.Index.DefaultPageSize <= 0 {
		c.Index.DefaultPageSize = 10
	}
	if c.Index.MaxPageSize <= 0 {
		c.Index.MaxPageSize = 100
	}
	if c.Ingest.ChunkSize <= 0 {
		c.Ingest.ChunkSize = 500
	}
	if c.Ingest.FallbackSample <= 0 {
		c.Ingest.FallbackSample = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	for _, addr := range c.Elastic.Addrs {
		if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
			return fmt.Errorf("elasticsearch.addrs entries must include a scheme, got %q", addr)
		}
	}
	if c.Index.DefaultPageSize > c.Index.MaxPageSize {
		return fmt.Errorf(
			"index.default_page_size (%d) must not exceed index.max_page_size (%d)",
			c.Index.DefaultPageSize, c.Index.MaxPageSize,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
